// Package http builds retrying HTTP clients on top of hashicorp's
// go-retryablehttp, logging retries through the application logger.
package http

import (
	"context"
	"time"

	"github.com/gabapcia/catapultcli/internal/pkg/logger"

	"github.com/hashicorp/go-retryablehttp"
)

type config struct {
	timeout      time.Duration // per request
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
}

// Option configures NewClient.
type Option func(*config)

// NewClient returns a retryablehttp.Client. Defaults: 5s timeout, 1s to 5s
// backoff, 2 retries.
//
// When retries are exhausted the last response is handed back to the caller
// instead of an error, so error bodies returned by the server can be decoded.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{}
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// leveledLogger adapts the global logger to retryablehttp.LeveledLogger.
// The library logs every request at debug level, so those stay at debug.
type leveledLogger struct{}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (leveledLogger) Error(msg string, keysAndValues ...any) {
	logger.Error(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Info(msg string, keysAndValues ...any) {
	logger.Info(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Debug(msg string, keysAndValues ...any) {
	logger.Debug(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Warn(msg string, keysAndValues ...any) {
	logger.Warn(context.Background(), msg, keysAndValues...)
}
