// Package config loads the console configuration. Sources, lowest priority
// first: built-in defaults, an optional YAML file, a .env file, then
// FORMADMIN_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin/internal/cache"
	"github.com/goliatone/go-formadmin/internal/logging"
	"github.com/goliatone/go-formadmin/pkg/remote"
)

const (
	LogLoadingConfig    = "loading configuration"
	LogConfigLoaded     = "configuration loaded"
	ErrFailedLoadConfig = "failed to load configuration"
)

// DefaultEnvFile is read when present; a missing file is not an error.
const DefaultEnvFile = ".env"

// EndpointsConfig holds one base URL per record kind. Blank entries fall
// back to remote.DefaultEndpoints.
type EndpointsConfig struct {
	Users         string `yaml:"users" env:"FORMADMIN_USERS_URL" env-description:"base URL of the users API"`
	UserDetails   string `yaml:"user_details" env:"FORMADMIN_USER_DETAILS_URL" env-description:"base URL of the user details API"`
	Mentors       string `yaml:"mentors" env:"FORMADMIN_MENTORS_URL" env-description:"base URL of the mentors API"`
	Questions     string `yaml:"questions" env:"FORMADMIN_QUESTIONS_URL" env-description:"base URL of the coding questions API"`
	Jobs          string `yaml:"jobs" env:"FORMADMIN_JOBS_URL" env-description:"base URL of the jobs API"`
	Announcements string `yaml:"announcements" env:"FORMADMIN_ANNOUNCEMENTS_URL" env-description:"base URL of the announcements API"`
}

// RedisConfig configures the optional list snapshot cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"FORMADMIN_REDIS_ADDR" env-description:"redis address; empty disables the list cache"`
	Password string        `yaml:"password" env:"FORMADMIN_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"FORMADMIN_REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"FORMADMIN_REDIS_TTL" env-default:"5m" env-description:"lifetime of a list snapshot"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" env:"FORMADMIN_METRICS_FILE" env-description:"write submission metrics to this file on exit"`
}

// Config is the full console configuration.
type Config struct {
	Endpoints EndpointsConfig `yaml:"endpoints"`
	// Timeout bounds each HTTP call. Zero leaves calls unbounded.
	Timeout  time.Duration `yaml:"timeout" env:"FORMADMIN_TIMEOUT" env-default:"0s" env-description:"per-request timeout, 0 disables it"`
	LogLevel string        `yaml:"log_level" env:"FORMADMIN_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Redis    RedisConfig   `yaml:"redis"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// Options selects the files Load reads.
type Options struct {
	// Path is an optional YAML file.
	Path string
	// EnvFile defaults to DefaultEnvFile.
	EnvFile string
}

// Load reads the configuration and validates it.
func Load(ctx context.Context, opts Options) (*Config, error) {
	log := logging.Log(ctx)
	log.Debug(ctx, LogLoadingConfig, zap.String("path", opts.Path))

	if err := loadEnvFile(opts.EnvFile); err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	var cfg Config
	var err error
	if strings.TrimSpace(opts.Path) != "" {
		err = cleanenv.ReadConfig(opts.Path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug(ctx, LogConfigLoaded,
		zap.Duration("timeout", cfg.Timeout),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("redis", cfg.Redis.Addr != ""))
	return &cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: env file %s: %w", path, err)
}

// RemoteEndpoints merges the configured base URLs over the defaults.
func (c Config) RemoteEndpoints() remote.Endpoints {
	out := remote.DefaultEndpoints()
	overrides := map[remote.Kind]string{
		remote.KindUsers:         c.Endpoints.Users,
		remote.KindUserDetails:   c.Endpoints.UserDetails,
		remote.KindMentors:       c.Endpoints.Mentors,
		remote.KindQuestions:     c.Endpoints.Questions,
		remote.KindJobs:          c.Endpoints.Jobs,
		remote.KindAnnouncements: c.Endpoints.Announcements,
	}
	for kind, base := range overrides {
		if base = strings.TrimSpace(base); base != "" {
			_ = out.Set(kind, base)
		}
	}
	return out
}

// CacheConfig converts the redis section for the cache package.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Addr:     strings.TrimSpace(c.Redis.Addr),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TTL:      c.Redis.TTL,
	}
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	if err := c.RemoteEndpoints().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config: redis ttl must not be negative, got %s", c.Redis.TTL)
	}
	return nil
}

// Describe returns the environment variable reference.
func Describe() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}

// Exists reports whether path names a readable file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
