package catapult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/pkg/resilience/retry"

	"github.com/gorilla/websocket"
)

// ErrHandshake is returned when the node does not greet a new WebSocket with
// its uid frame.
var ErrHandshake = errors.New("websocket handshake failed")

const closeWriteTimeout = time.Second

type (
	helloFrame struct {
		UID string `json:"uid"`
	}

	subscribeFrame struct {
		UID       string `json:"uid"`
		Subscribe string `json:"subscribe"`
	}
)

type listener struct {
	conn *websocket.Conn
	uid  string

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

var _ monitor.Conn = (*listener)(nil)

// Dial opens a WebSocket to the node and waits for its uid frame. Failed
// dials are retried, except when the node answers the upgrade with a 4xx.
func (c *client) Dial(ctx context.Context) (monitor.Conn, error) {
	var l *listener
	err := c.retry.Execute(ctx, func() error {
		var err error
		l, err = c.dial(ctx)
		if err != nil {
			logger.Debug(ctx, "websocket dial failed", "url", c.wsURL, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (c *client) dial(ctx context.Context) (*listener, error) {
	conn, res, err := c.wsDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		if res != nil && res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError {
			return nil, retry.Unrecoverable(fmt.Errorf("%w: status %d", ErrHandshake, res.StatusCode))
		}
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.handshakeTimeout)); err != nil {
		conn.Close()
		return nil, err
	}

	var hello helloFrame
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if hello.UID == "" {
		conn.Close()
		return nil, fmt.Errorf("%w: missing uid", ErrHandshake)
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, err
	}

	return &listener{conn: conn, uid: hello.UID}, nil
}

func (l *listener) Subscribe(channel string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	return l.conn.WriteJSON(subscribeFrame{UID: l.uid, Subscribe: channel})
}

func (l *listener) Next() (monitor.Message, error) {
	_, raw, err := l.conn.ReadMessage()
	if err != nil {
		return monitor.Message{}, err
	}

	// Frames that are not JSON are passed on with an empty topic so the
	// manager reports them without dropping the connection.
	var msg monitor.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return monitor.Message{Data: raw}, nil
	}
	return msg, nil
}

func (l *listener) Close() error {
	l.closeOnce.Do(func() {
		l.writeMu.Lock()
		_ = l.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWriteTimeout),
		)
		l.writeMu.Unlock()

		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}
