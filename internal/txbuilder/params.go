package txbuilder

import (
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
)

// RegisterNamespace registers Name for Duration blocks, or under Parent
// when set.
type RegisterNamespace struct {
	Name     string `validate:"required"`
	Parent   string `validate:"omitempty,namespace_name"`
	Duration uint64
}

func (RegisterNamespace) Kind() Kind { return KindRegisterNamespace }

func (p RegisterNamespace) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	if p.Parent != "" {
		return catapult.NewChildNamespace(h, p.Name, p.Parent)
	}
	if p.Duration == 0 {
		return nil, fmt.Errorf("%w: root namespace needs a duration", ErrInvalidParams)
	}
	return catapult.NewRootNamespace(h, p.Name, p.Duration)
}

// AccountLink links (or unlinks) a remote key for delegated harvesting.
type AccountLink struct {
	RemotePublicKey catapult.PublicKey `validate:"required"`
	Action          catapult.LinkAction
}

func (AccountLink) Kind() Kind { return KindAccountLink }

func (p AccountLink) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	return catapult.AccountKeyLink{Header: h, LinkedPublicKey: p.RemotePublicKey, Action: p.Action}, nil
}

// AddressAlias binds or unbinds NamespaceID and Address.
type AddressAlias struct {
	NamespaceID catapult.NamespaceID `validate:"required"`
	Address     catapult.Address     `validate:"required"`
	Action      catapult.AliasAction
}

func (AddressAlias) Kind() Kind { return KindAddressAlias }

func (p AddressAlias) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	return catapult.AddressAlias{Header: h, Action: p.Action, NamespaceID: p.NamespaceID, Address: p.Address}, nil
}

// MosaicDefinition defines a new mosaic owned by Owner. Divisibility is
// clamped into range. A random nonce is drawn when Nonce is nil.
type MosaicDefinition struct {
	Owner         catapult.Address `validate:"required"`
	Divisibility  int
	SupplyMutable bool
	Transferable  bool
	Restrictable  bool
	Duration      uint64
	Nonce         *catapult.MosaicNonce
}

func (MosaicDefinition) Kind() Kind { return KindMosaicDefinition }

func (p MosaicDefinition) build(env Env, h catapult.Header) (catapult.Transaction, error) {
	var nonce catapult.MosaicNonce
	if p.Nonce != nil {
		nonce = *p.Nonce
	} else {
		n, err := env.nonce()
		if err != nil {
			return nil, err
		}
		nonce = n
	}

	return catapult.MosaicDefinition{
		Header:       h,
		ID:           catapult.MosaicIDFromNonce(nonce, p.Owner),
		Nonce:        nonce,
		Flags:        catapult.NewMosaicFlags(p.SupplyMutable, p.Transferable, p.Restrictable),
		Divisibility: ClampDivisibility(p.Divisibility),
		Duration:     p.Duration,
	}, nil
}

// MosaicAlias binds or unbinds the namespace Namespace and MosaicID.
type MosaicAlias struct {
	Namespace string            `validate:"required,namespace_name"`
	MosaicID  catapult.MosaicID `validate:"required"`
	Action    catapult.AliasAction
}

func (MosaicAlias) Kind() Kind { return KindMosaicAlias }

func (p MosaicAlias) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	id, err := catapult.NamespaceIDFromName(p.Namespace)
	if err != nil {
		return nil, err
	}
	return catapult.MosaicAlias{Header: h, Action: p.Action, NamespaceID: id, MosaicID: p.MosaicID}, nil
}

// MosaicSupplyChange changes the supply of MosaicID by Delta atomic units.
type MosaicSupplyChange struct {
	MosaicID catapult.MosaicID `validate:"required"`
	Action   catapult.MosaicSupplyChangeAction
	Delta    uint64 `validate:"required"`
}

func (MosaicSupplyChange) Kind() Kind { return KindMosaicSupplyChange }

func (p MosaicSupplyChange) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	return catapult.MosaicSupplyChange{Header: h, MosaicID: p.MosaicID, Action: p.Action, Delta: p.Delta}, nil
}

// Transfer sends Mosaics and an optional plain Message to Recipient.
type Transfer struct {
	Recipient catapult.Address `validate:"required"`
	Mosaics   []catapult.Mosaic
	Message   string
}

func (Transfer) Kind() Kind { return KindTransfer }

func (p Transfer) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	tx := catapult.Transfer{Header: h, Recipient: p.Recipient, Mosaics: p.Mosaics}
	if p.Message != "" {
		tx.Message = catapult.PlainMessage(p.Message)
	}
	return tx, nil
}

// HashLock deposits Mosaic for Duration blocks against the aggregate bonded
// transaction Hash.
type HashLock struct {
	Mosaic   catapult.Mosaic
	Duration uint64        `validate:"required"`
	Hash     catapult.Hash `validate:"required"`
}

func (HashLock) Kind() Kind { return KindHashLock }

func (p HashLock) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	if p.Mosaic.Amount == 0 {
		return nil, fmt.Errorf("%w: hash lock needs a non-zero deposit", ErrInvalidParams)
	}
	return catapult.HashLock{Header: h, Mosaic: p.Mosaic, Duration: p.Duration, Hash: p.Hash}, nil
}

// Embedded is an inner transaction of an aggregate and the public key of
// the account it is attributed to.
type Embedded struct {
	Signer catapult.PublicKey
	Params Params
}

// AggregateBonded wraps inner transactions for cosigning.
type AggregateBonded struct {
	Transactions []Embedded `validate:"required,min=1"`
}

func (AggregateBonded) Kind() Kind { return KindAggregateBonded }

func (p AggregateBonded) build(env Env, h catapult.Header) (catapult.Transaction, error) {
	inner := make([]catapult.EmbeddedTransaction, 0, len(p.Transactions))
	for i, e := range p.Transactions {
		if e.Params == nil || e.Params.Kind() == KindAggregateBonded {
			return nil, fmt.Errorf("%w: inner transaction %d: aggregates cannot be nested", ErrInvalidParams, i)
		}
		if e.Signer.IsZero() {
			return nil, fmt.Errorf("%w: inner transaction %d has no signer", ErrInvalidParams, i)
		}

		tx, err := Build(env, e.Params)
		if err != nil {
			return nil, fmt.Errorf("inner transaction %d: %w", i, err)
		}
		inner = append(inner, catapult.EmbeddedTransaction{Signer: e.Signer, Transaction: tx})
	}

	return catapult.AggregateBonded{Header: h, Transactions: inner}, nil
}

// AccountOperationRestriction updates the signer's outgoing transaction type
// restrictions.
type AccountOperationRestriction struct {
	Flags     catapult.OperationRestrictionFlags `validate:"required"`
	Additions []catapult.TransactionType
	Deletions []catapult.TransactionType
}

func (AccountOperationRestriction) Kind() Kind { return KindAccountOperationRestriction }

func (p AccountOperationRestriction) build(_ Env, h catapult.Header) (catapult.Transaction, error) {
	if len(p.Additions)+len(p.Deletions) == 0 {
		return nil, fmt.Errorf("%w: restriction needs at least one transaction type", ErrInvalidParams)
	}
	return catapult.AccountOperationRestriction{Header: h, Flags: p.Flags, Additions: p.Additions, Deletions: p.Deletions}, nil
}
