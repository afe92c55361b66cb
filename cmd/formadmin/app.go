package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin"
	"github.com/goliatone/go-formadmin/internal/cache"
	"github.com/goliatone/go-formadmin/internal/config"
	"github.com/goliatone/go-formadmin/internal/logging"
	"github.com/goliatone/go-formadmin/internal/metrics"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/remote"
	tpl "github.com/goliatone/go-formadmin/pkg/render/template"
	"github.com/goliatone/go-formadmin/pkg/renderers/tui"
)

// deps are the seams tests replace.
type deps struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// sender replaces the HTTP client when set.
	sender remote.Sender
	// driver replaces the survey prompts when set.
	driver tui.PromptDriver
}

func defaultDeps() deps {
	return deps{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// globalFlags are bound to the root command.
type globalFlags struct {
	configPath  string
	envFile     string
	logLevel    string
	redisAddr   string
	metricsFile string
	timeout     time.Duration
	templateDir string
}

// app is the per-invocation wiring built before any subcommand runs.
type app struct {
	deps      deps
	flags     *globalFlags
	cfg       *config.Config
	logger    *logging.Logger
	sender    remote.Sender
	snapshots *cache.Snapshots
	recorder  *metrics.Recorder
	catalogue *records.Catalogue
	console   *formadmin.Console
	views     *tpl.Views
}

// runE wraps a subcommand so it runs between setup and teardown. Teardown
// runs even when the command fails so metrics are still exported.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd, a.flags); err != nil {
			_ = a.teardown(cmd.Context())
			return err
		}
		err := fn(cmd, args)
		if terr := a.teardown(cmd.Context()); err == nil {
			err = terr
		}
		return err
	}
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, config.Options{Path: flags.configPath, EnvFile: flags.envFile})
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	logging.SetGlobal(logger)
	ctx = logging.NewContext(ctx, logger)
	cmd.SetContext(ctx)

	a.sender = a.deps.sender
	if a.sender == nil {
		a.sender = remote.New(
			remote.WithTimeout(cfg.Timeout),
			remote.WithUserAgent(fmt.Sprintf("%s/%s", appName, Version)),
		)
	}

	if cacheCfg := cfg.CacheConfig(); cacheCfg.Enabled() {
		snapshots, err := cache.Connect(ctx, cacheCfg)
		if err != nil {
			logger.Warn(ctx, "list cache disabled", zap.Error(err))
		} else {
			a.snapshots = snapshots
			a.sender = cache.NewSender(a.sender, snapshots)
		}
	}

	a.recorder, err = metrics.New()
	if err != nil {
		return err
	}
	a.console, err = formadmin.NewConsole(cfg.RemoteEndpoints(), a.sender)
	if err != nil {
		return err
	}
	a.catalogue = a.console.Catalogue()

	var viewOpts []tpl.Option
	if flags.templateDir != "" {
		viewOpts = append(viewOpts, tpl.WithBaseDir(flags.templateDir))
	}
	a.views, err = tpl.NewViews(viewOpts...)
	return err
}

func (a *app) teardown(ctx context.Context) error {
	var firstErr error
	if a.recorder != nil && a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := a.recorder.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			firstErr = fmt.Errorf("write metrics: %w", err)
		}
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.logger != nil {
		// stderr sync fails on some terminals
		_ = a.logger.Sync()
	}
	if firstErr != nil && a.logger != nil {
		a.logger.Error(ctx, "teardown failed", zap.Error(firstErr))
	}
	return firstErr
}

func (a *app) session(options ...tui.Option) (*tui.Session, error) {
	driver := a.deps.driver
	if driver == nil {
		driver = tui.NewSurveyDriver()
	}
	return tui.New(append([]tui.Option{tui.WithPromptDriver(driver)}, options...)...)
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *globalFlags) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("redis-addr") {
		cfg.Redis.Addr = flags.redisAddr
	}
	if changed("metrics-file") {
		cfg.Metrics.Textfile = flags.metricsFile
	}
	if changed("timeout") {
		cfg.Timeout = flags.timeout
	}
}
