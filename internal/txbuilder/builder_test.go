package txbuilder

import (
	"errors"
	"testing"
	"time"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEpochAdjustment = 1573430400 * time.Second

var testNow = time.Unix(1573430400+3600, 0)

func testEnv() Env {
	return Env{
		Network:         catapult.MijinTest,
		EpochAdjustment: testEpochAdjustment,
		Now:             func() time.Time { return testNow },
		Nonce:           func() (catapult.MosaicNonce, error) { return 0x12345678, nil },
	}
}

func mustAddress(t *testing.T, s string) catapult.Address {
	t.Helper()

	a, err := catapult.ParseAddress(s)
	require.NoError(t, err)
	return a
}

func TestClampDivisibility(t *testing.T) {
	testCases := []struct {
		input    int
		expected uint8
	}{
		{-1, 0},
		{0, 0},
		{3, 3},
		{6, 6},
		{7, 6},
		{1 << 20, 6},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClampDivisibility(tc.input), "input %d", tc.input)
	}
}

func TestBuild_Header(t *testing.T) {
	t.Run("should stamp network, deadline and default fee", func(t *testing.T) {
		tx, err := Build(testEnv(), MosaicSupplyChange{MosaicID: 1, Action: catapult.SupplyIncrease, Delta: 290888000})

		require.NoError(t, err)
		header := tx.Base()
		assert.Equal(t, catapult.MijinTest, header.Network)
		assert.Equal(t, DefaultMaxFee, header.MaxFee)
		assert.Equal(t, catapult.Deadline((3600+2*3600)*1000), header.Deadline)
	})

	t.Run("should use the transfer fee for transfers", func(t *testing.T) {
		tx, err := Build(testEnv(), Transfer{Recipient: mustAddress(t, "SC3KUHEEBYHZL35OL6ST7KRMB6RTOEMP2J6UFMY")})

		require.NoError(t, err)
		assert.Equal(t, TransferMaxFee, tx.Base().MaxFee)
	})

	t.Run("should let the environment override the fee", func(t *testing.T) {
		env := testEnv()
		env.MaxFee = 42

		tx, err := Build(env, Transfer{Recipient: mustAddress(t, "SC3KUHEEBYHZL35OL6ST7KRMB6RTOEMP2J6UFMY")})

		require.NoError(t, err)
		assert.Equal(t, uint64(42), tx.Base().MaxFee)
	})

	t.Run("should reject nil parameters", func(t *testing.T) {
		_, err := Build(testEnv(), nil)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestBuild_Kinds(t *testing.T) {
	owner := mustAddress(t, "SATNE7Q5BITMUTRRN6IB4I7FLSDRDWZA34I2PMQ")

	t.Run("should register a root namespace", func(t *testing.T) {
		tx, err := Build(testEnv(), RegisterNamespace{Name: "foo", Duration: 1000})

		require.NoError(t, err)
		ns := tx.(catapult.NamespaceRegistration)
		assert.Equal(t, catapult.RootNamespace, ns.RegistrationType)
		assert.Equal(t, catapult.NamespaceID(0x82A9D1AC587EC054), ns.ID)
		assert.Equal(t, uint64(1000), ns.Duration)
	})

	t.Run("should register a child namespace", func(t *testing.T) {
		tx, err := Build(testEnv(), RegisterNamespace{Name: "bar", Parent: "foo"})

		require.NoError(t, err)
		ns := tx.(catapult.NamespaceRegistration)
		assert.Equal(t, catapult.ChildNamespace, ns.RegistrationType)
		assert.Equal(t, catapult.NamespaceID(0x82A9D1AC587EC054), ns.ParentID)
	})

	t.Run("should define a mosaic from the injected nonce and clamp divisibility", func(t *testing.T) {
		tx, err := Build(testEnv(), MosaicDefinition{Owner: owner, Divisibility: 9, SupplyMutable: true, Transferable: true, Duration: 100000})

		require.NoError(t, err)
		def := tx.(catapult.MosaicDefinition)
		assert.Equal(t, catapult.MosaicID(0x49D34FF5DEEE011B), def.ID)
		assert.Equal(t, uint8(6), def.Divisibility)
		assert.True(t, def.Flags.Has(catapult.FlagSupplyMutable|catapult.FlagTransferable))
		assert.False(t, def.Flags.Has(catapult.FlagRestrictable))
	})

	t.Run("should surface nonce failures", func(t *testing.T) {
		env := testEnv()
		env.Nonce = func() (catapult.MosaicNonce, error) { return 0, errors.New("entropy exhausted") }

		_, err := Build(env, MosaicDefinition{Owner: owner})
		assert.Error(t, err)
	})

	t.Run("should alias a mosaic by namespace name", func(t *testing.T) {
		tx, err := Build(testEnv(), MosaicAlias{Namespace: "cat.currency", MosaicID: 7, Action: catapult.AliasLink})

		require.NoError(t, err)
		alias := tx.(catapult.MosaicAlias)
		assert.Equal(t, catapult.NamespaceID(0x85BBEA6CC462B244), alias.NamespaceID)
		assert.Equal(t, catapult.AliasLink, alias.Action)
	})

	t.Run("should attach a plain message to transfers", func(t *testing.T) {
		tx, err := Build(testEnv(), Transfer{
			Recipient: owner,
			Mosaics:   []catapult.Mosaic{{ID: 0x85BBEA6CC462B244, Amount: 10}},
			Message:   "Testing transfer with fee",
		})

		require.NoError(t, err)
		transfer := tx.(catapult.Transfer)
		assert.Equal(t, catapult.PlainMessage("Testing transfer with fee"), transfer.Message)
	})

	t.Run("should wrap inner transactions of an aggregate", func(t *testing.T) {
		kp, err := catapult.GenerateKeyPair()
		require.NoError(t, err)

		tx, err := Build(testEnv(), AggregateBonded{Transactions: []Embedded{
			{Signer: kp.PublicKey(), Params: Transfer{Recipient: owner}},
		}})

		require.NoError(t, err)
		aggregate := tx.(catapult.AggregateBonded)
		require.Len(t, aggregate.Transactions, 1)
		assert.Equal(t, kp.PublicKey(), aggregate.Transactions[0].Signer)
	})

	t.Run("should build an operation restriction", func(t *testing.T) {
		tx, err := Build(testEnv(), AccountOperationRestriction{
			Flags:     catapult.AllowOutgoingTransactionType,
			Additions: []catapult.TransactionType{catapult.TypeAccountOperationRestriction},
		})

		require.NoError(t, err)
		assert.Equal(t, catapult.TypeAccountOperationRestriction, tx.Type())
	})
}

func TestBuild_InvalidParams(t *testing.T) {
	owner := mustAddress(t, "SATNE7Q5BITMUTRRN6IB4I7FLSDRDWZA34I2PMQ")

	testCases := []struct {
		name   string
		params Params
	}{
		{"namespace without a name", RegisterNamespace{Duration: 10}},
		{"root namespace without a duration", RegisterNamespace{Name: "foo"}},
		{"namespace with an invalid name", RegisterNamespace{Name: "Foo Bar", Duration: 10}},
		{"account link without a key", AccountLink{}},
		{"address alias without a namespace", AddressAlias{Address: owner}},
		{"mosaic alias with an invalid namespace", MosaicAlias{Namespace: "..", MosaicID: 1}},
		{"supply change without a mosaic", MosaicSupplyChange{Delta: 1}},
		{"transfer without a recipient", Transfer{}},
		{"hash lock without a hash", HashLock{Mosaic: catapult.Mosaic{ID: 1, Amount: 1}, Duration: 1}},
		{"hash lock without a deposit", HashLock{Duration: 1, Hash: catapult.Hash{1}}},
		{"empty aggregate", AggregateBonded{}},
		{"aggregate with an unsigned inner transaction", AggregateBonded{Transactions: []Embedded{{Params: Transfer{Recipient: owner}}}}},
		{"restriction without types", AccountOperationRestriction{Flags: catapult.AllowOutgoingTransactionType}},
	}

	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			_, err := Build(testEnv(), tc.params)

			assert.ErrorIs(t, err, ErrInvalidParams)
			assert.ErrorIs(t, err, account.ErrConfiguration)
		})
	}
}
