package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/announcer"
	nodeclient "github.com/gabapcia/catapultcli/internal/infra/blockchain/catapult"
	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey     = "575DBB3062267EFF57C970A336EBBC8FBCFE12C5BD3ED7BC11EB0481D7704CED"
	testPublicKey      = "2E834140FD66CF87B254A693A2C7862C819217B676D3943267156625E816EC6F"
	testSignerAddress  = "SATNE7Q5BITMUTRRN6IB4I7FLSDRDWZA34I2PMQ"
	testTester2Address = "SC3KUHEEBYHZL35OL6ST7KRMB6RTOEMP2J6UFMY"
	testGenerationHash = "167FF7C1CC4C2D536EDB7497608001C3A7E9B91D90FAB2A4ECFE6424A489D58E"
	testCurrencyMosaic = catapult.MosaicID(0x85BBEA6CC462B244)
)

type harness struct {
	node    *NodeMock
	monitor *ManagerMock
	svc     *Services
	out     bytes.Buffer

	endpoint   string
	bootstraps int
	releases   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		node:    NewNodeMock(t),
		monitor: NewManagerMock(t),
	}

	generationHash, err := catapult.ParseHash(testGenerationHash)
	require.NoError(t, err)

	ann, err := announcer.New(h.node, generationHash)
	require.NoError(t, err)

	currency, err := catapult.NamespaceIDFromName("cat.currency")
	require.NoError(t, err)

	store := account.NewStaticStore(account.Record{Name: "tester1", Address: testSignerAddress, PrivateKey: testPrivateKey})

	h.svc = &Services{
		Accounts:  account.New(store),
		Node:      h.node,
		Announcer: ann,
		Monitor:   h.monitor,
		Env: txbuilder.Env{
			Network:         catapult.MijinTest,
			EpochAdjustment: 1459468800 * time.Second,
			Now:             func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		CurrencyNamespace: currency,
	}
	return h
}

func (h *harness) run(ctx context.Context, input string, args ...string) error {
	bootstrap := func(_ context.Context, endpoint string) (*Services, func(), error) {
		h.endpoint = endpoint
		h.bootstraps++
		return h.svc, func() { h.releases++ }, nil
	}

	app := newApp(bootstrap, strings.NewReader(input), &h.out)
	return app.Run(ctx, append([]string{"catapultcli"}, args...))
}

func mustAddress(t *testing.T, raw string) catapult.Address {
	t.Helper()
	address, err := catapult.ParseAddress(raw)
	require.NoError(t, err)
	return address
}

func (h *harness) expectWatch(t *testing.T, addresses ...string) {
	h.monitor.On("MonitorBlocks", mock.Anything).Return(nil).Once()
	for _, a := range addresses {
		h.monitor.On("MonitorAddress", mock.Anything, mustAddress(t, a)).Return(true, nil).Once()
	}
}

// expectAnnounce accepts the next announcement of type txType and returns
// a pointer to the signed transaction once it happened.
func (h *harness) expectAnnounce(txType catapult.TransactionType) *catapult.SignedTransaction {
	var signed catapult.SignedTransaction
	h.node.On("Announce", mock.Anything, mock.MatchedBy(func(s catapult.SignedTransaction) bool {
		return s.Type == txType
	})).Run(func(args mock.Arguments) {
		signed = args.Get(1).(catapult.SignedTransaction)
	}).Return("packet 9 was pushed to the network via /transactions", nil).Once()
	return &signed
}

func TestRun(t *testing.T) {
	t.Run("should show help without building services", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "--help")

		// Assert
		assert.NoError(t, err)
		assert.Zero(t, h.bootstraps)
		assert.Contains(t, h.out.String(), "register-namespace")
	})

	t.Run("should pass the endpoint flag to the bootstrap and release once", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeNamespaceRegistration)

		// Act
		err := h.run(t.Context(), "", "-c", "http://node:3000", "--listen", "1ms", "register-namespace", "-n", "foo")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "http://node:3000", h.endpoint)
		assert.Equal(t, 1, h.bootstraps)
		assert.Equal(t, 1, h.releases)
	})

	t.Run("should fail when the bootstrap does", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		bootErr := errors.New("node unreachable")
		app := newApp(func(context.Context, string) (*Services, func(), error) {
			return nil, nil, bootErr
		}, strings.NewReader(""), &h.out)

		// Act
		err := app.Run(t.Context(), []string{"catapultcli", "register-namespace", "-n", "foo"})

		// Assert
		assert.ErrorIs(t, err, bootErr)
	})
}

func TestRegisterNamespaceCommand(t *testing.T) {
	t.Run("should announce with the name from the flag and print hash and signer", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		signed := h.expectAnnounce(catapult.TypeNamespaceRegistration)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "register-namespace", "-n", "foo")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "Hash:   "+signed.Hash.String())
		assert.Contains(t, h.out.String(), "Signer: "+testPublicKey)
	})

	t.Run("should ask for the name when the flag is missing", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeNamespaceRegistration)

		// Act
		err := h.run(t.Context(), "bar\n", "--listen", "1ms", "register-namespace")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "Enter a namespace name: ")
	})

	t.Run("should abort on an empty answer before touching the node", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "\n", "register-namespace")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorContains(t, err, "enter a valid namespace name")
		assert.Zero(t, h.bootstraps)
	})

	t.Run("should fail with a configuration error for a signer without key before any network call", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "--signer", "tester2", "register-namespace", "-n", "foo")

		// Assert
		assert.ErrorIs(t, err, account.ErrConfiguration)
		assert.Empty(t, h.monitor.Calls)
		assert.Empty(t, h.node.Calls)
	})

	t.Run("should fail for unknown signers", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "--signer", "nobody", "register-namespace", "-n", "foo")

		// Assert
		assert.ErrorIs(t, err, account.ErrConfiguration)
	})
}

func TestAwait(t *testing.T) {
	t.Run("should wait for the confirmation", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		signed := h.expectAnnounce(catapult.TypeNamespaceRegistration)
		h.monitor.On("AwaitConfirmation", mock.Anything, mock.Anything).Return(monitor.Event{Kind: monitor.KindConfirmed, Height: 77}, nil).Once()

		// Act
		err := h.run(t.Context(), "", "--await", "register-namespace", "-n", "foo")

		// Assert
		require.NoError(t, err)
		h.monitor.AssertCalled(t, "AwaitConfirmation", mock.Anything, signed.Hash)
		assert.Contains(t, h.out.String(), "at height 77")
	})

	t.Run("should return a failed status", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeNamespaceRegistration)
		h.monitor.On("AwaitConfirmation", mock.Anything, mock.Anything).Return(monitor.Event{}, monitor.ErrTransactionFailed).Once()

		// Act
		err := h.run(t.Context(), "", "--await", "register-namespace", "-n", "foo")

		// Assert
		assert.ErrorIs(t, err, monitor.ErrTransactionFailed)
	})

	t.Run("should not wait for rejected transactions", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.node.On("Announce", mock.Anything, mock.Anything).Return("", &rest.APIError{StatusCode: 409, Code: "InvalidArgument"}).Once()

		// Act
		err := h.run(t.Context(), "", "--await", "register-namespace", "-n", "foo")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "rejected")
		h.monitor.AssertNotCalled(t, "AwaitConfirmation", mock.Anything, mock.Anything)
	})
}

func TestMosaicDefinitionCommand(t *testing.T) {
	t.Run("should clamp the divisibility and ask for the flags", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		signed := h.expectAnnounce(catapult.TypeMosaicDefinition)

		// Act
		err := h.run(t.Context(), "y\nn\ny\n", "--listen", "1ms", "mosaic-definition", "-d", "9")

		// Assert
		require.NoError(t, err)
		payload := signed.Payload
		assert.EqualValues(t, 6, payload[len(payload)-1])
		assert.EqualValues(t, catapult.NewMosaicFlags(true, false, true), payload[len(payload)-2])
	})

	t.Run("should clamp negative divisibility to zero", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		signed := h.expectAnnounce(catapult.TypeMosaicDefinition)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "mosaic-definition", "-d=-1",
			"--supply-mutable", "--transferable", "--restrictable=false")

		// Assert
		require.NoError(t, err)
		assert.EqualValues(t, 0, signed.Payload[len(signed.Payload)-1])
	})

	t.Run("should reject a divisibility that is not a number", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "mosaic-definition", "-d", "three")

		// Assert
		assert.ErrorContains(t, err, "enter a valid divisibility")
	})
}

func TestMosaicAliasCommand(t *testing.T) {
	t.Run("should accept array and hex mosaic ids alike", func(t *testing.T) {
		for _, id := range []string{"[664046103, 198505464]", "0BD4F1F82794E317"} {
			t.Run(id, func(t *testing.T) {
				// Arrange
				h := newHarness(t)
				h.expectWatch(t, testSignerAddress)
				signed := h.expectAnnounce(catapult.TypeMosaicAlias)

				// Act
				err := h.run(t.Context(), "", "--listen", "1ms", "mosaic-alias", "-n", "cat.currency", "-m", id)

				// Assert
				require.NoError(t, err)
				assert.NotEmpty(t, signed.Payload)
			})
		}
	})

	t.Run("should reject an invalid namespace name", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "mosaic-alias", "-n", "Cat..Currency", "-m", "0BD4F1F82794E317")

		// Assert
		assert.ErrorContains(t, err, `enter a valid namespaceName (Ex: "cat.currency")`)
	})
}

func TestAddressAliasCommand(t *testing.T) {
	t.Run("should unlink the signer address", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeAddressAlias)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "unlink-address-alias", "-n", "[33347626, 3779697293]")

		// Assert
		require.NoError(t, err)
	})

	t.Run("should reject an invalid namespace id", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "link-address-alias", "-n", "[1, 2")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAccountLinkCommand(t *testing.T) {
	t.Run("should link a generated remote key after prompting", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeAccountKeyLink)

		// Act
		err := h.run(t.Context(), "1\n"+testPrivateKey+"\nn\n", "--listen", "1ms", "account-link")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "Delegated private key: ")
	})

	t.Run("should use the delegated key from the flag", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeAccountKeyLink)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "account-link",
			"-p", testPrivateKey, "--action", "unlink", "--delegated-key", testPrivateKey)

		// Assert
		require.NoError(t, err)
		assert.NotContains(t, h.out.String(), "Delegated private key")
	})

	t.Run("should reject an unknown action", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "account-link", "--action", "maybe")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestTransferCommand(t *testing.T) {
	t.Run("should send the currency mosaic to tester2 by default", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.node.On("LinkedMosaicID", mock.Anything, h.svc.CurrencyNamespace).Return(testCurrencyMosaic, nil).Once()
		h.expectWatch(t, testSignerAddress)
		signed := h.expectAnnounce(catapult.TypeTransfer)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "transfer")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, signed.PayloadHex(), mustAddress(t, testTester2Address).Hex())
	})

	t.Run("should skip the namespace lookup when the currency is known", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.svc.CurrencyMosaic = testCurrencyMosaic
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeTransfer)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "transfer", "-a", testSignerAddress, "--amount", "1")

		// Assert
		require.NoError(t, err)
		h.node.AssertNotCalled(t, "LinkedMosaicID", mock.Anything, mock.Anything)
	})

	t.Run("should fail before the currency lookup for a signer without key", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "--signer", "tester3", "transfer")

		// Assert
		assert.ErrorIs(t, err, account.ErrConfiguration)
		assert.Empty(t, h.node.Calls)
		assert.Empty(t, h.monitor.Calls)
	})
}

func TestHashLockCommand(t *testing.T) {
	t.Run("should lock funds and announce the aggregate once the lock is confirmed", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		recipientKey, err := catapult.ParsePublicKey(testPublicKey)
		require.NoError(t, err)

		h.monitor.On("MonitorBlocks", mock.Anything).Return(nil).Once()
		h.monitor.On("MonitorAddress", mock.Anything, mustAddress(t, testSignerAddress)).Return(true, nil).Once()
		h.monitor.On("MonitorAddress", mock.Anything, mustAddress(t, testSignerAddress)).Return(false, nil).Once()
		h.node.On("AccountPublicKey", mock.Anything, mustAddress(t, testSignerAddress)).Return(recipientKey, nil).Once()
		h.node.On("LinkedMosaicID", mock.Anything, h.svc.CurrencyNamespace).Return(testCurrencyMosaic, nil).Once()
		lock := h.expectAnnounce(catapult.TypeHashLock)
		aggregate := h.expectAnnounce(catapult.TypeAggregateBonded)
		h.monitor.On("AwaitConfirmation", mock.Anything, mock.Anything).Return(monitor.Event{Kind: monitor.KindConfirmed, Height: 9}, nil).Twice()

		// Act
		err = h.run(t.Context(), "", "--await", "hashlock")

		// Assert
		require.NoError(t, err)
		h.monitor.AssertCalled(t, "AwaitConfirmation", mock.Anything, lock.Hash)
		h.monitor.AssertCalled(t, "AwaitConfirmation", mock.Anything, aggregate.Hash)
		assert.Contains(t, lock.PayloadHex(), aggregate.Hash.String())
	})

	t.Run("should stop after the lock without --await", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		recipientKey, err := catapult.ParsePublicKey(testPublicKey)
		require.NoError(t, err)

		h.monitor.On("MonitorBlocks", mock.Anything).Return(nil).Once()
		h.monitor.On("MonitorAddress", mock.Anything, mock.Anything).Return(true, nil).Twice()
		h.node.On("AccountPublicKey", mock.Anything, mock.Anything).Return(recipientKey, nil).Once()
		h.node.On("LinkedMosaicID", mock.Anything, mock.Anything).Return(testCurrencyMosaic, nil).Once()
		h.expectAnnounce(catapult.TypeHashLock)

		// Act
		err = h.run(t.Context(), "", "--listen", "1ms", "hashlock", "-a", "tester2")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "use --await")
	})

	t.Run("should fail when the recipient public key is unknown", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.monitor.On("MonitorBlocks", mock.Anything).Return(nil).Once()
		h.monitor.On("MonitorAddress", mock.Anything, mock.Anything).Return(true, nil)
		h.node.On("AccountPublicKey", mock.Anything, mock.Anything).Return(catapult.PublicKey{}, nodeclient.ErrPublicKeyUnknown).Once()

		// Act
		err := h.run(t.Context(), "", "hashlock", "-a", "tester2")

		// Assert
		assert.ErrorIs(t, err, nodeclient.ErrPublicKeyUnknown)
	})
}

func TestHashLockCommand_BlankKey(t *testing.T) {
	t.Run("should fail before watching or querying the node", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "--signer", "tester3", "hashlock", "-a", "tester2")

		// Assert
		assert.ErrorIs(t, err, account.ErrConfiguration)
		assert.Empty(t, h.monitor.Calls)
		assert.Empty(t, h.node.Calls)
	})
}

func TestAccountRestrictionCommand(t *testing.T) {
	t.Run("should sign with tester4 by default", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "account-restriction-allow-operation")

		// Assert
		assert.ErrorIs(t, err, account.ErrConfiguration)
		assert.ErrorContains(t, err, `"tester4"`)
		assert.Empty(t, h.monitor.Calls)
	})

	t.Run("should reject unknown transaction types", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "account-restriction-allow-operation", "-t", "TELEPORT")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("should announce the restriction", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		h.expectAnnounce(catapult.TypeAccountOperationRestriction)

		// Act
		err := h.run(t.Context(), "", "--signer", "tester1", "--listen", "1ms", "account-restriction-allow-operation", "-t", "ACCOUNT_OPERATION_RESTRICTION", "-t", "TRANSFER")

		// Assert
		require.NoError(t, err)
	})
}

func TestMonitorCommand(t *testing.T) {
	t.Run("should monitor each distinct address once", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress, testTester2Address)

		// Act
		err := h.run(t.Context(), "", "--listen", "1ms", "monitor", "-a", "tester1", "-a", testSignerAddress, "-a", "tester2")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "Monitoring "+testSignerAddress)
		assert.Contains(t, h.out.String(), "Monitoring "+testTester2Address)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.expectWatch(t, testSignerAddress)
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		// Act
		err := h.run(ctx, "", "monitor")

		// Assert
		assert.NoError(t, err)
	})
}

func TestStatusCommand(t *testing.T) {
	t.Run("should ask the node without a journal", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		hash, err := catapult.ParseHash(testGenerationHash)
		require.NoError(t, err)
		h.node.On("TransactionStatus", mock.Anything, hash).Return(nodeclient.TransactionStatus{Group: "confirmed", Code: "Success", Height: 12}, nil).Once()

		// Act
		err = h.run(t.Context(), "", "status", "--hash", testGenerationHash)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "Group:   confirmed")
		assert.Contains(t, h.out.String(), "Height:  12")
	})

	t.Run("should reject a malformed hash", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.run(t.Context(), "", "status", "--hash", "xyz")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
