// Package txbuilder turns typed command parameters into unsigned
// transactions. Building is pure: the clock and the nonce source are part of
// the environment.
package txbuilder

import (
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/validator"
)

// ErrInvalidParams is returned for parameters that cannot form a
// transaction. It is a configuration error.
var ErrInvalidParams = fmt.Errorf("%w: invalid transaction parameters", account.ErrConfiguration)

const (
	// DefaultMaxFee applies to every kind without its own fee.
	DefaultMaxFee uint64 = 1_000_000

	// TransferMaxFee is the fee used for transfers.
	TransferMaxFee uint64 = 5_000_000
)

// Kind names a transaction kind the tool can build.
type Kind string

const (
	KindRegisterNamespace           Kind = "register-namespace"
	KindAccountLink                 Kind = "account-link"
	KindAddressAlias                Kind = "address-alias"
	KindMosaicDefinition            Kind = "mosaic-definition"
	KindMosaicAlias                 Kind = "mosaic-alias"
	KindMosaicSupplyChange          Kind = "mosaic-supply-change"
	KindTransfer                    Kind = "transfer"
	KindHashLock                    Kind = "hash-lock"
	KindAggregateBonded             Kind = "aggregate-bonded"
	KindAccountOperationRestriction Kind = "account-operation-restriction"
)

// Params is one of the parameter types declared in this package.
type Params interface {
	Kind() Kind
	build(env Env, header catapult.Header) (catapult.Transaction, error)
}

// Env carries the network wide inputs of every transaction.
type Env struct {
	Network         catapult.NetworkType
	EpochAdjustment time.Duration

	// MaxFee overrides the per-kind fee when non-zero.
	MaxFee uint64

	// Now defaults to time.Now.
	Now func() time.Time

	// Nonce defaults to catapult.RandomMosaicNonce.
	Nonce func() (catapult.MosaicNonce, error)
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) nonce() (catapult.MosaicNonce, error) {
	if e.Nonce != nil {
		return e.Nonce()
	}
	return catapult.RandomMosaicNonce()
}

func (e Env) header(fee uint64) catapult.Header {
	if e.MaxFee != 0 {
		fee = e.MaxFee
	}

	return catapult.Header{
		Network:  e.Network,
		MaxFee:   fee,
		Deadline: catapult.NewDeadline(e.now(), catapult.DefaultDeadline, e.EpochAdjustment),
	}
}

// Build validates p and assembles the transaction it describes.
func Build(env Env, p Params) (catapult.Transaction, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: no parameters", ErrInvalidParams)
	}

	if err := validator.Validate(p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParams, p.Kind(), err)
	}

	fee := DefaultMaxFee
	if p.Kind() == KindTransfer {
		fee = TransferMaxFee
	}

	tx, err := p.build(env, env.header(fee))
	if err != nil && !errors.Is(err, ErrInvalidParams) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParams, p.Kind(), err)
	}
	return tx, err
}

// ClampDivisibility forces d into [0, catapult.MaxDivisibility]. Out of range
// input is clamped rather than rejected.
func ClampDivisibility(d int) uint8 {
	return uint8(min(max(d, 0), catapult.MaxDivisibility))
}
