// Package journal keeps a durable record of announced transactions and the
// outcome the listener later observed for them.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
)

// ErrEntryNotFound is returned by Storage.FindEntry for unknown hashes.
var ErrEntryNotFound = errors.New("journal entry not found")

// Status is the last known state of an announced transaction.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Entry is one announced transaction.
type Entry struct {
	Hash      catapult.Hash
	Kind      string
	Signer    string
	Status    Status
	Code      string // node error code for rejected or failed transactions
	Height    uint64 // set once confirmed
	UpdatedAt time.Time
}

// Storage persists entries by hash.
type Storage interface {
	SaveEntry(ctx context.Context, entry Entry) error

	// FindEntry returns ErrEntryNotFound for unknown hashes.
	FindEntry(ctx context.Context, hash catapult.Hash) (Entry, error)
}

// Journal records announcements and folds listener events into them.
type Journal interface {
	// Record stores entry, stamping UpdatedAt.
	Record(ctx context.Context, entry Entry) error

	// Observe updates the entry matching a confirmed or status event. Events
	// for hashes that were never recorded are ignored.
	Observe(ctx context.Context, ev monitor.Event) error

	// Lookup returns the entry for hash.
	Lookup(ctx context.Context, hash catapult.Hash) (Entry, error)
}

type service struct {
	storage Storage
	now     func() time.Time
}

var _ Journal = (*service)(nil)

// Option configures New.
type Option func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New returns a Journal backed by storage.
func New(storage Storage, opts ...Option) *service {
	s := &service{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	entry.UpdatedAt = s.now().UTC()
	return s.storage.SaveEntry(ctx, entry)
}

func (s *service) Observe(ctx context.Context, ev monitor.Event) error {
	if ev.Hash.IsZero() || (ev.Kind != monitor.KindConfirmed && ev.Kind != monitor.KindStatus) {
		return nil
	}

	entry, err := s.storage.FindEntry(ctx, ev.Hash)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	switch ev.Kind {
	case monitor.KindConfirmed:
		entry.Status = StatusConfirmed
		entry.Height = ev.Height
		entry.Code = ""
	case monitor.KindStatus:
		entry.Status = StatusFailed
		entry.Code = ev.Code
	}

	logger.Debug(ctx, "journal entry updated", "hash", ev.Hash, "status", entry.Status)
	return s.Record(ctx, entry)
}

func (s *service) Lookup(ctx context.Context, hash catapult.Hash) (Entry, error) {
	return s.storage.FindEntry(ctx, hash)
}
