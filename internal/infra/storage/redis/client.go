// Package redis implements the account store and the announcement journal
// on Redis.
package redis

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// defaultJournalTTL bounds how long journal entries are kept.
const defaultJournalTTL = 7 * 24 * time.Hour

type client struct {
	conn       *redis.Client
	journalTTL time.Duration
}

// Option configures NewClient.
type Option func(*client)

// WithJournalTTL sets the expiry of journal entries. Zero keeps them forever.
func WithJournalTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.journalTTL = ttl
	}
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, addr, username, password string, db int, opts ...Option) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c := &client{
		conn:       conn,
		journalTTL: defaultJournalTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}
