// Package timeouts provides the deadlines applied to store calls.
//
// Handlers derive a context with one of these from r.Context() before every
// store call; yatubectl uses them around its commands.
//
//   - Ping: health checks
//   - Short: single-row reads and writes (get by id/slug/username, update)
//   - Medium: counted, paginated listings
//   - Long: deletes that cascade to posts
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

func Ping() time.Duration   { return get(&ping) }
func Short() time.Duration  { return get(&short) }
func Medium() time.Duration { return get(&medium) }
func Long() time.Duration   { return get(&long) }

func get(d *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *d
}

// Config holds timeout values. Zero values are ignored.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure overrides the non-zero values in cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range pairs(cfg) {
		if p.val > 0 {
			*p.dst = p.val
		}
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	Configure(Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong})
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long}
}

// Env variables read by ConfigureFromEnv, e.g. YATUBE_TIMEOUT_SHORT=3s.
const (
	EnvPing   = "YATUBE_TIMEOUT_PING"
	EnvShort  = "YATUBE_TIMEOUT_SHORT"
	EnvMedium = "YATUBE_TIMEOUT_MEDIUM"
	EnvLong   = "YATUBE_TIMEOUT_LONG"
)

// ConfigureFromEnv applies any valid positive durations found in the
// environment and returns how many were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, e := range []struct {
		name string
		dst  *time.Duration
	}{
		{EnvPing, &cfg.Ping},
		{EnvShort, &cfg.Short},
		{EnvMedium, &cfg.Medium},
		{EnvLong, &cfg.Long},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*e.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

type pair struct {
	dst *time.Duration
	val time.Duration
}

// pairs must be called with mu held.
func pairs(cfg Config) []pair {
	return []pair{
		{&ping, cfg.Ping},
		{&short, cfg.Short},
		{&medium, cfg.Medium},
		{&long, cfg.Long},
	}
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "delete user")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
