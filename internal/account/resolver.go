// Package account resolves symbolic account names (tester1, multisig1, ...)
// into signing identities.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/validator"
)

// Resolver maps account names to accounts.
type Resolver interface {
	// Resolve looks name up and parses its record. Unknown names and invalid
	// records fail with ErrConfiguration. A blank private key is accepted.
	Resolve(ctx context.Context, name string) (Account, error)
}

type resolver struct {
	store Store
}

var _ Resolver = (*resolver)(nil)

func New(store Store) *resolver {
	return &resolver{
		store: store,
	}
}

func (r *resolver) Resolve(ctx context.Context, name string) (Account, error) {
	record, err := r.store.FindAccount(ctx, name)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, fmt.Errorf("%w: %w: %q", ErrConfiguration, err, name)
	}
	if err != nil {
		return Account{}, err
	}

	return parseRecord(record)
}

func parseRecord(record Record) (Account, error) {
	if err := validator.Validate(record); err != nil {
		return Account{}, fmt.Errorf("%w: account %q: %w", ErrConfiguration, record.Name, err)
	}

	address, err := catapult.ParseAddress(record.Address)
	if err != nil {
		return Account{}, fmt.Errorf("%w: account %q: %w", ErrConfiguration, record.Name, err)
	}

	return Account{
		Name:       record.Name,
		Address:    address,
		PrivateKey: record.PrivateKey,
	}, nil
}
