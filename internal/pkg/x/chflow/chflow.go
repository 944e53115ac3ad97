// Package chflow has channel helpers that honour cancellation.
package chflow

import (
	"context"
	"errors"
)

// ErrStopped is returned by ReceiveUntil when stop is closed, or ch is
// closed, before a value arrives.
var ErrStopped = errors.New("stopped")

// ReceiveUntil waits for the next value of ch. It returns ctx.Err() when ctx
// is done first and ErrStopped when stop is closed first.
func ReceiveUntil[T any](ctx context.Context, stop <-chan struct{}, ch <-chan T) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-stop:
		return zero, ErrStopped
	case v, ok := <-ch:
		if !ok {
			return zero, ErrStopped
		}
		return v, nil
	}
}

// TrySend delivers v when ch has room and reports whether it did.
func TrySend[T any](ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}
