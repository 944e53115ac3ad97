// Package catapult talks to a Catapult/Symbol node: REST queries and
// announcements through a rest.Client, notifications over the node's /ws
// WebSocket endpoint.
package catapult

import (
	"net/url"
	"time"

	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/resilience/retry"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"

	"github.com/gorilla/websocket"
)

const defaultHandshakeTimeout = 10 * time.Second

type client struct {
	conn     rest.Client
	announce rest.Client

	wsURL            string
	wsDialer         *websocket.Dialer
	retry            retry.Retry
	handshakeTimeout time.Duration
}

var _ monitor.Dialer = (*client)(nil)

type config struct {
	announce         rest.Client
	wsDialer         *websocket.Dialer
	retry            retry.Retry
	handshakeTimeout time.Duration
}

// Option configures NewClient.
type Option func(*config)

// WithAnnounceConn sends announcements through conn instead of the query
// connection. Announcements must not be retried by the transport.
func WithAnnounceConn(conn rest.Client) Option {
	return func(c *config) {
		c.announce = conn
	}
}

// WithRetry sets the retry policy of WebSocket dials.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithHandshakeTimeout bounds the WebSocket upgrade and the wait for the
// node's uid frame.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.handshakeTimeout = d
	}
}

// WithWebsocketDialer dials notifications through d. A zero
// d.HandshakeTimeout is replaced by the configured handshake timeout.
func WithWebsocketDialer(d *websocket.Dialer) Option {
	return func(c *config) {
		c.wsDialer = d
	}
}

// NewClient returns a node client. The WebSocket URL is derived from the
// REST endpoint: http becomes ws, https becomes wss, path /ws.
func NewClient(conn rest.Client, opts ...Option) *client {
	cfg := config{
		retry:            retry.New(retry.WithAttempts(3), retry.WithDelay(500*time.Millisecond)),
		handshakeTimeout: defaultHandshakeTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.announce == nil {
		cfg.announce = conn
	}

	base := cfg.wsDialer
	if base == nil {
		base = websocket.DefaultDialer
	}
	dialer := *base
	if base == websocket.DefaultDialer || dialer.HandshakeTimeout == 0 {
		dialer.HandshakeTimeout = cfg.handshakeTimeout
	}

	return &client{
		conn:             conn,
		announce:         cfg.announce,
		wsURL:            websocketURL(conn.BaseURL()),
		wsDialer:         &dialer,
		retry:            cfg.retry,
		handshakeTimeout: cfg.handshakeTimeout,
	}
}

func websocketURL(base *url.URL) string {
	u := *base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/ws"
	return u.String()
}
