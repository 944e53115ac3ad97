package monitor

import (
	"context"

	"github.com/gabapcia/catapultcli/internal/pkg/logger"
)

// EventHandler receives every decoded notification. Handlers of different
// subscriptions run concurrently.
type EventHandler func(ctx context.Context, ev Event)

// ErrorHandler receives listener errors. scope is "block" or the address.
type ErrorHandler func(ctx context.Context, scope string, err error)

// LogEvent is the default EventHandler.
func LogEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case KindBlock:
		logger.Info(ctx, "[MONITOR] new block", "height", ev.Height, "hash", ev.Hash.String())
	case KindStatus:
		logger.Error(ctx, "[ERROR] transaction status", "address", ev.Address, "hash", ev.Hash.String(), "code", ev.Code)
	case KindCosignature:
		logger.Info(ctx, "[MONITOR] cosignature", "address", ev.Address, "parent_hash", ev.Hash.String(), "signer", ev.Signer)
	default:
		logger.Info(ctx, "[MONITOR] "+string(ev.Kind)+" transaction", "address", ev.Address, "hash", ev.Hash.String(), "height", ev.Height)
	}
}

// LogError is the default ErrorHandler.
func LogError(ctx context.Context, scope string, err error) {
	logger.Error(ctx, "[ERROR] listener", "scope", scope, "error", err)
}
