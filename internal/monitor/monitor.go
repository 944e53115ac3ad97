// Package monitor keeps WebSocket subscriptions to a node: one for new
// blocks and one per monitored address. Every notification is passed to an
// EventHandler, and callers can wait for the confirmation of a transaction
// hash.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/x/chflow"

	lru "github.com/hashicorp/golang-lru"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrClosed is returned once CloseAll has been called.
	ErrClosed = errors.New("monitor closed")

	// ErrTransactionFailed is returned by AwaitConfirmation when the node
	// reports a failure status for the hash.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrListener wraps errors reported by a single subscription. They are
	// handed to the ErrorHandler and never stop other subscriptions.
	ErrListener = errors.New("listener error")
)

const (
	defaultRecentEvents = 512
	blockScope          = "block"
	instrumentationName = "github.com/gabapcia/catapultcli/internal/monitor"
)

// Manager owns the subscriptions of one process.
type Manager interface {
	// MonitorBlocks opens the block subscription. Calling it again while the
	// subscription is open does nothing.
	MonitorBlocks(ctx context.Context) error

	// MonitorAddress subscribes to status, confirmed, unconfirmed, partial
	// and cosignature notifications of address. It returns false, without
	// error, when address is already monitored or being subscribed. Other
	// subscriptions keep delivering while the connection is dialed.
	MonitorAddress(ctx context.Context, address catapult.Address) (bool, error)

	// AwaitConfirmation waits until hash is confirmed. A failure status for
	// hash yields ErrTransactionFailed. The signer (or recipient) address
	// must be monitored for the notification to arrive. Notifications seen
	// shortly before the call are taken into account.
	AwaitConfirmation(ctx context.Context, hash catapult.Hash) (Event, error)

	// CloseAll closes every subscription and waits for their handlers to
	// return; no handler runs after it returns. Handlers must not call it.
	// It is idempotent.
	CloseAll()
}

type subscription struct {
	scope string
	conn  Conn
}

type manager struct {
	dialer  Dialer
	onEvent EventHandler
	onError ErrorHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	blocks    *subscription
	addresses map[string]*subscription
	pending   map[string]struct{}
	waiters   map[catapult.Hash][]chan Event
	recent    *lru.Cache

	events metric.Int64Counter
}

var _ Manager = (*manager)(nil)

type config struct {
	onEvent      EventHandler
	onError      ErrorHandler
	recentEvents int
}

// Option configures New.
type Option func(*config)

// WithEventHandler replaces the default handler, which logs every event.
func WithEventHandler(h EventHandler) Option {
	return func(c *config) {
		c.onEvent = h
	}
}

// WithErrorHandler replaces the default handler, which logs listener errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.onError = h
	}
}

// WithRecentEvents sets how many confirmation and status events are kept
// for AwaitConfirmation calls that arrive late. Default 512.
func WithRecentEvents(n int) Option {
	return func(c *config) {
		c.recentEvents = n
	}
}

func New(dialer Dialer, opts ...Option) (*manager, error) {
	cfg := config{
		onEvent:      LogEvent,
		onError:      LogError,
		recentEvents: defaultRecentEvents,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	recent, err := lru.New(cfg.recentEvents)
	if err != nil {
		return nil, err
	}

	events, err := otel.Meter(instrumentationName).Int64Counter("catapult.monitor.events",
		metric.WithDescription("Notifications received from the node"),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &manager{
		dialer:    dialer,
		onEvent:   cfg.onEvent,
		onError:   cfg.onError,
		ctx:       ctx,
		cancel:    cancel,
		addresses: make(map[string]*subscription),
		pending:   make(map[string]struct{}),
		waiters:   make(map[catapult.Hash][]chan Event),
		recent:    recent,
		events:    events,
	}, nil
}

func (m *manager) MonitorBlocks(ctx context.Context) error {
	_, err := m.subscribe(ctx, blockScope, []string{channelBlock})
	return err
}

func (m *manager) MonitorAddress(ctx context.Context, address catapult.Address) (bool, error) {
	key := address.String()

	channels := make([]string, len(addressChannels))
	for i, c := range addressChannels {
		channels[i] = c + "/" + key
	}

	return m.subscribe(ctx, key, channels)
}

// subscribe reserves scope, opens its connection without holding m.mu and
// then publishes it. A scope that is open or still being opened reports
// false.
func (m *manager) subscribe(ctx context.Context, scope string, channels []string) (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrClosed
	}
	if _, ok := m.pending[scope]; ok || m.lookup(scope) != nil {
		m.mu.Unlock()
		return false, nil
	}
	m.pending[scope] = struct{}{}
	m.mu.Unlock()

	conn, err := m.open(ctx, scope, channels)

	m.mu.Lock()
	delete(m.pending, scope)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	if m.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return false, ErrClosed
	}

	sub := &subscription{scope: scope, conn: conn}
	if scope == blockScope {
		m.blocks = sub
	} else {
		m.addresses[scope] = sub
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go m.read(sub)
	return true, nil
}

// lookup returns the open subscription of scope. Callers hold m.mu.
func (m *manager) lookup(scope string) *subscription {
	if scope == blockScope {
		return m.blocks
	}
	return m.addresses[scope]
}

// open dials and subscribes to channels. CloseAll cancels m.ctx, which
// aborts a dial in progress.
func (m *manager) open(ctx context.Context, scope string, channels []string) (Conn, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()

	conn, err := m.dialer.Dial(ctx)
	if err != nil {
		if m.ctx.Err() != nil {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("%s: dial: %w", scope, err)
	}

	for _, channel := range channels {
		if err := conn.Subscribe(channel); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: subscribe %s: %w", scope, channel, err)
		}
	}

	return conn, nil
}

func (m *manager) read(sub *subscription) {
	defer m.wg.Done()

	for {
		msg, err := sub.conn.Next()
		if m.ctx.Err() != nil {
			return
		}

		if err != nil {
			m.onError(m.ctx, sub.scope, fmt.Errorf("%w: %s: %w", ErrListener, sub.scope, err))
			m.drop(sub)
			return
		}

		ev, err := decode(msg)
		if err != nil {
			m.onError(m.ctx, sub.scope, fmt.Errorf("%w: %w", ErrListener, err))
			continue
		}

		m.dispatch(ev)
	}
}

// drop forgets a failed subscription so it can be opened again.
func (m *manager) drop(sub *subscription) {
	m.mu.Lock()
	if m.blocks == sub {
		m.blocks = nil
	}
	if m.addresses[sub.scope] == sub {
		delete(m.addresses, sub.scope)
	}
	m.mu.Unlock()

	_ = sub.conn.Close()
}

func (m *manager) dispatch(ev Event) {
	m.events.Add(m.ctx, 1, metric.WithAttributes(attribute.String("kind", string(ev.Kind))))

	if !ev.Hash.IsZero() && (ev.Kind == KindConfirmed || ev.Kind == KindStatus) {
		m.mu.Lock()
		m.recent.Add(ev.Hash, ev)
		waiters := m.waiters[ev.Hash]
		delete(m.waiters, ev.Hash)
		m.mu.Unlock()

		// Waiter channels have room for exactly one event.
		for _, w := range waiters {
			chflow.TrySend(w, ev)
		}
	}

	m.onEvent(m.ctx, ev)
}

func (m *manager) AwaitConfirmation(ctx context.Context, hash catapult.Hash) (Event, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Event{}, ErrClosed
	}
	if v, ok := m.recent.Get(hash); ok {
		m.mu.Unlock()
		return confirmation(v.(Event))
	}

	ch := make(chan Event, 1)
	m.waiters[hash] = append(m.waiters[hash], ch)
	m.mu.Unlock()

	ev, err := chflow.ReceiveUntil(ctx, m.ctx.Done(), ch)
	if err != nil {
		m.removeWaiter(hash, ch)
		if errors.Is(err, chflow.ErrStopped) {
			return Event{}, ErrClosed
		}
		return Event{}, err
	}

	return confirmation(ev)
}

func (m *manager) removeWaiter(hash catapult.Hash, ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	waiters := m.waiters[hash]
	for i, w := range waiters {
		if w == ch {
			waiters = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}

	if len(waiters) == 0 {
		delete(m.waiters, hash)
	} else {
		m.waiters[hash] = waiters
	}
}

func confirmation(ev Event) (Event, error) {
	if ev.Kind == KindStatus {
		return ev, fmt.Errorf("%w: %s: %s", ErrTransactionFailed, ev.Hash, ev.Code)
	}
	return ev, nil
}

func (m *manager) CloseAll() {
	m.cancel()

	m.mu.Lock()
	m.closed = true

	subs := make([]*subscription, 0, len(m.addresses)+1)
	if m.blocks != nil {
		subs = append(subs, m.blocks)
	}
	for _, sub := range m.addresses {
		subs = append(subs, sub)
	}

	m.blocks = nil
	clear(m.addresses)
	m.mu.Unlock()

	for _, sub := range subs {
		_ = sub.conn.Close()
	}

	m.wg.Wait()
}
