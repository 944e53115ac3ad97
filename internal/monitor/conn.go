package monitor

import "context"

// Conn is one open notification connection.
type Conn interface {
	// Subscribe asks the node for notifications on channel, for example
	// "block" or "status/<address>".
	Subscribe(channel string) error

	// Next blocks until the next notification. It fails once the connection
	// is closed.
	Next() (Message, error)

	// Close releases the connection and unblocks Next. It is idempotent.
	Close() error
}

// Dialer opens notification connections.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
