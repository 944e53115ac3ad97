// Package announcer signs transactions and submits them to a node.
//
// Announcing is strictly sequential and never retried: sign, submit, then
// log the hash and signer on acceptance or the node's error on rejection.
package announcer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/journal"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gabapcia/catapultcli/internal/announcer"

// Node submits signed payloads.
type Node interface {
	// Announce returns the node's acknowledgement message.
	Announce(ctx context.Context, signed catapult.SignedTransaction) (string, error)
}

// Announcer signs and submits transactions.
type Announcer interface {
	// Sign signs tx with acct for the configured network. A blank or invalid
	// private key fails with account.ErrConfiguration.
	Sign(tx catapult.Transaction, acct account.Account) (catapult.SignedTransaction, error)

	// Submit announces signed once. Under PolicyReport a rejection yields a
	// Result with StatusRejected and a nil error.
	Submit(ctx context.Context, kind txbuilder.Kind, signed catapult.SignedTransaction) (Result, error)

	// Announce is Sign followed by Submit. Nothing is sent when signing fails.
	Announce(ctx context.Context, kind txbuilder.Kind, tx catapult.Transaction, acct account.Account) (Result, error)
}

type service struct {
	node           Node
	generationHash catapult.Hash
	policy         Policy
	journal        journal.Journal

	tracer        trace.Tracer
	announcements metric.Int64Counter
}

var _ Announcer = (*service)(nil)

type config struct {
	policy  Policy
	journal journal.Journal
}

// Option configures New.
type Option func(*config)

// WithPolicy sets the rejection policy. The default is PolicyReport.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithJournal records every submission in j. Journal failures are logged
// and never fail the announcement.
func WithJournal(j journal.Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// New returns an Announcer signing for the network identified by
// generationHash.
func New(node Node, generationHash catapult.Hash, opts ...Option) (*service, error) {
	cfg := config{policy: PolicyReport}
	for _, opt := range opts {
		opt(&cfg)
	}

	announcements, err := otel.Meter(instrumentationName).Int64Counter("catapult.announcer.announcements",
		metric.WithDescription("Transactions submitted to the node"),
	)
	if err != nil {
		return nil, err
	}

	return &service{
		node:           node,
		generationHash: generationHash,
		policy:         cfg.policy,
		journal:        cfg.journal,
		tracer:         otel.Tracer(instrumentationName),
		announcements:  announcements,
	}, nil
}

func (s *service) Sign(tx catapult.Transaction, acct account.Account) (catapult.SignedTransaction, error) {
	kp, err := acct.KeyPair()
	if err != nil {
		return catapult.SignedTransaction{}, err
	}
	return catapult.Sign(tx, kp, s.generationHash), nil
}

func (s *service) Announce(ctx context.Context, kind txbuilder.Kind, tx catapult.Transaction, acct account.Account) (Result, error) {
	signed, err := s.Sign(tx, acct)
	if err != nil {
		return Result{}, err
	}
	return s.Submit(ctx, kind, signed)
}

func (s *service) Submit(ctx context.Context, kind txbuilder.Kind, signed catapult.SignedTransaction) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "announce "+string(kind), trace.WithAttributes(
		attribute.String("catapult.kind", string(kind)),
		attribute.String("catapult.hash", signed.Hash.String()),
	))
	defer span.End()

	ctx = logger.Derive(ctx, "kind", string(kind), "hash", signed.Hash.String())

	result := Result{
		Kind:    kind,
		Hash:    signed.Hash,
		Signer:  signed.Signer,
		Payload: signed.PayloadHex(),
	}

	message, err := s.node.Announce(ctx, signed)
	if err != nil {
		result.Status = StatusRejected
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		logRejection(ctx, err)
	} else {
		result.Status = StatusAccepted
		result.Message = message
		logger.Info(ctx, "transaction announced", "signer", signed.Signer.String(), "message", message)
	}

	s.announcements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("status", string(result.Status)),
	))
	s.record(ctx, result)

	if result.Status == StatusRejected && s.policy == PolicyStrict {
		return result, &RejectedError{Kind: kind, Hash: signed.Hash, Err: err}
	}
	return result, nil
}

// logRejection prefers the node's structured error over the raw one.
func logRejection(ctx context.Context, err error) {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && (apiErr.Code != "" || apiErr.Message != "") {
		logger.Error(ctx, "transaction rejected", "status_code", apiErr.StatusCode, "code", apiErr.Code, "message", apiErr.Message)
		return
	}
	logger.Error(ctx, "transaction rejected", "error", err)
}

func (s *service) record(ctx context.Context, result Result) {
	if s.journal == nil {
		return
	}

	entry := journal.Entry{
		Hash:   result.Hash,
		Kind:   string(result.Kind),
		Signer: result.Signer.String(),
		Status: journal.StatusAccepted,
	}
	if result.Status == StatusRejected {
		entry.Status = journal.StatusRejected
		var apiErr *rest.APIError
		if errors.As(result.Err, &apiErr) {
			entry.Code = apiErr.Code
		}
	}

	if err := s.journal.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "failed to record announcement", "error", fmt.Errorf("journal: %w", err))
	}
}
