// Package cache keeps snapshots of list responses in Redis so repeated list
// reads within the TTL do not hit the backends.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin/internal/logging"
	"github.com/goliatone/go-formadmin/pkg/remote"
)

const (
	keyPrefix  = "formadmin:list:"
	defaultTTL = 5 * time.Minute
	scanBatch  = 100
)

// Config describes the Redis connection.
type Config struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// Enabled reports whether an address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// Snapshots stores decoded list bodies keyed by URL.
type Snapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*Snapshots, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: connect to redis: %w", err)
	}
	return New(client, cfg.TTL), nil
}

// New wraps an existing client. A non-positive ttl uses the default.
func New(client *redis.Client, ttl time.Duration) *Snapshots {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Snapshots{client: client, ttl: ttl}
}

// Get returns the snapshot stored for url. ok is false on a miss.
func (s *Snapshots) Get(ctx context.Context, url string) (body any, ok bool, err error) {
	raw, err := s.client.Get(ctx, keyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", url, err)
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", url, err)
	}
	return body, true, nil
}

// Put stores body for url with the configured TTL.
func (s *Snapshots) Put(ctx context.Context, url string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", url, err)
	}
	if err := s.client.Set(ctx, keyPrefix+url, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", url, err)
	}
	return nil
}

// Purge drops every list snapshot.
func (s *Snapshots) Purge(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache: scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: delete: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close releases the connection.
func (s *Snapshots) Close() error {
	return s.client.Close()
}

// Sender serves GET requests from snapshots and forwards everything else.
// Successful GETs are stored; successful mutations purge all snapshots so
// the next list read sees the change. Cache errors never fail a request.
type Sender struct {
	next      remote.Sender
	snapshots *Snapshots
}

var _ remote.Sender = (*Sender)(nil)

// NewSender decorates next with snapshots.
func NewSender(next remote.Sender, snapshots *Snapshots) *Sender {
	return &Sender{next: next, snapshots: snapshots}
}

// Send implements remote.Sender.
func (s *Sender) Send(ctx context.Context, req remote.Request) remote.Result {
	log := logging.Log(ctx).With(zap.String("url", req.URL))

	if req.Method != "" && req.Method != http.MethodGet {
		res := s.next.Send(ctx, req)
		if res.OK() {
			if err := s.snapshots.Purge(ctx); err != nil {
				log.Warn(ctx, "purge list snapshots", zap.Error(err))
			}
		}
		return res
	}

	body, ok, err := s.snapshots.Get(ctx, req.URL)
	if err != nil {
		log.Warn(ctx, "read list snapshot", zap.Error(err))
	}
	if ok {
		log.Debug(ctx, "list snapshot hit")
		return remote.Ok(http.StatusOK, body)
	}

	res := s.next.Send(ctx, req)
	if res.OK() && res.Body != nil {
		if err := s.snapshots.Put(ctx, req.URL, res.Body); err != nil {
			log.Warn(ctx, "store list snapshot", zap.Error(err))
		}
	}
	return res
}
