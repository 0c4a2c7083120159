// Package timeouts provides centralized timeout values for handler operations.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultMedium  = 10 * time.Second
	DefaultLong    = 30 * time.Second
	DefaultWebhook = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

// Configurable timeout values.
var (
	ping    = DefaultPing
	short   = DefaultShort
	medium  = DefaultMedium
	long    = DefaultLong
	webhook = DefaultWebhook
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for moderate operations.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for complex operations such as file uploads
// and storage sync.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Webhook returns the timeout for outbound webhook calls. Document
// extraction can take tens of seconds for large PDFs, so this is the
// longest timeout in the application.
func Webhook() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return webhook
}

// Config holds timeout configuration values.
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Medium  time.Duration
	Long    time.Duration
	Webhook time.Duration
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
	if cfg.Webhook > 0 {
		webhook = cfg.Webhook
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
	webhook = DefaultWebhook
}

// ConfigureFromEnv reads timeout configuration from environment variables.
// It returns the number of values that were overridden.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	set := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
				configured++
			}
		}
	}

	set("IMMERSIVE_TIMEOUT_PING", &ping)
	set("IMMERSIVE_TIMEOUT_SHORT", &short)
	set("IMMERSIVE_TIMEOUT_MEDIUM", &medium)
	set("IMMERSIVE_TIMEOUT_LONG", &long)
	set("IMMERSIVE_TIMEOUT_WEBHOOK", &webhook)

	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Ping:    ping,
		Short:   short,
		Medium:  medium,
		Long:    long,
		Webhook: webhook,
	}
}

// WithTimeout creates a context with timeout and logging.
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
