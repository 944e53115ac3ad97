package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
)

var errConnClosed = errors.New("connection closed")

// fakeConn is an in-memory Conn fed through push.
type fakeConn struct {
	mu         sync.Mutex
	subscribed []string
	closed     bool

	messages chan Message
	failures chan error
	done     chan struct{}
	once     sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		messages: make(chan Message, 16),
		failures: make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (c *fakeConn) Subscribe(channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}
	c.subscribed = append(c.subscribed, channel)
	return nil
}

func (c *fakeConn) Next() (Message, error) {
	select {
	case <-c.done:
		return Message{}, errConnClosed
	case err := <-c.failures:
		return Message{}, err
	case msg := <-c.messages:
		return msg, nil
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

func (c *fakeConn) push(topic string, data any) {
	raw, _ := json.Marshal(data)
	c.messages <- Message{Topic: topic, Data: raw}
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) channels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.subscribed...)
}

// fakeDialer hands out a new fakeConn per Dial and remembers them.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
}

func (d *fakeDialer) Dial(ctx context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newFakeConn()
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *fakeDialer) dialed() []*fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeConn(nil), d.conns...)
}

// gatedDialer blocks every Dial once gate is armed, until release is closed.
type gatedDialer struct {
	fakeDialer

	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedDialer() *gatedDialer {
	return &gatedDialer{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (d *gatedDialer) Dial(ctx context.Context) (Conn, error) {
	if d.armed.Load() {
		d.entered <- struct{}{}
		select {
		case <-d.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return d.fakeDialer.Dial(ctx)
}
