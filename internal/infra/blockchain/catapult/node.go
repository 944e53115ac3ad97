package catapult

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sdk "github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrPublicKeyUnknown is returned for accounts that never signed a
	// transaction, whose public key the node cannot know.
	ErrPublicKeyUnknown = errors.New("account public key unknown to the node")

	// ErrNoMosaicAlias is returned when a namespace is not linked to a mosaic.
	ErrNoMosaicAlias = errors.New("namespace is not linked to a mosaic")
)

const aliasTypeMosaic = 1

type (
	announceRequest struct {
		Payload string `json:"payload"`
	}

	announceResponse struct {
		Message string `json:"message"`
	}

	accountResponse struct {
		Account struct {
			Address   string `json:"address"`
			PublicKey string `json:"publicKey"`
		} `json:"account"`
	}

	namespaceResponse struct {
		Namespace struct {
			Alias struct {
				Type     int    `json:"type"`
				MosaicID string `json:"mosaicId"`
			} `json:"alias"`
		} `json:"namespace"`
	}

	nodeInfoResponse struct {
		NetworkIdentifier         uint8  `json:"networkIdentifier"`
		NetworkGenerationHashSeed string `json:"networkGenerationHashSeed"`
	}

	networkPropertiesResponse struct {
		Network struct {
			EpochAdjustment string `json:"epochAdjustment"`
		} `json:"network"`
		Chain struct {
			CurrencyMosaicID string `json:"currencyMosaicId"`
		} `json:"chain"`
	}

	transactionStatusResponse struct {
		Group  string `json:"group"`
		Code   string `json:"code"`
		Height string `json:"height"`
	}
)

// NetworkInfo is what the node reports about its network.
type NetworkInfo struct {
	Network          sdk.NetworkType
	GenerationHash   sdk.Hash
	EpochAdjustment  time.Duration
	CurrencyMosaicID sdk.MosaicID
}

// TransactionStatus is the node's view of an announced transaction.
type TransactionStatus struct {
	Group  string
	Code   string
	Height uint64
}

// Announce submits a signed transaction. Aggregate bonded transactions go
// to the partial cache, everything else to /transactions. The node's
// acknowledgement message is returned.
func (c *client) Announce(ctx context.Context, signed sdk.SignedTransaction) (string, error) {
	path := "/transactions"
	if signed.Type == sdk.TypeAggregateBonded {
		path = "/transactions/partial"
	}

	var res announceResponse
	if err := c.announce.Put(ctx, path, announceRequest{Payload: signed.PayloadHex()}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// AccountPublicKey looks up the public key of address.
func (c *client) AccountPublicKey(ctx context.Context, address sdk.Address) (sdk.PublicKey, error) {
	var res accountResponse
	if err := c.conn.Get(ctx, "/accounts/"+address.String(), &res); err != nil {
		if rest.IsNotFound(err) {
			return sdk.PublicKey{}, fmt.Errorf("%w: %s", ErrPublicKeyUnknown, address)
		}
		return sdk.PublicKey{}, err
	}

	key, err := sdk.ParsePublicKey(res.Account.PublicKey)
	if err != nil {
		return sdk.PublicKey{}, err
	}
	if key.IsZero() {
		return sdk.PublicKey{}, fmt.Errorf("%w: %s", ErrPublicKeyUnknown, address)
	}
	return key, nil
}

// LinkedMosaicID resolves the mosaic a namespace is an alias of.
func (c *client) LinkedMosaicID(ctx context.Context, id sdk.NamespaceID) (sdk.MosaicID, error) {
	var res namespaceResponse
	if err := c.conn.Get(ctx, "/namespaces/"+id.String(), &res); err != nil {
		return 0, err
	}

	alias := res.Namespace.Alias
	if alias.Type != aliasTypeMosaic {
		return 0, fmt.Errorf("%w: %s", ErrNoMosaicAlias, id)
	}

	v, err := sdk.ParseUInt64(alias.MosaicID)
	if err != nil {
		return 0, err
	}
	return sdk.MosaicID(v), nil
}

// NetworkInfo queries /node/info and /network/properties concurrently.
func (c *client) NetworkInfo(ctx context.Context) (NetworkInfo, error) {
	var (
		node  nodeInfoResponse
		props networkPropertiesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.conn.Get(gctx, "/node/info", &node)
	})
	g.Go(func() error {
		return c.conn.Get(gctx, "/network/properties", &props)
	})
	if err := g.Wait(); err != nil {
		return NetworkInfo{}, err
	}

	var (
		info = NetworkInfo{Network: sdk.NetworkType(node.NetworkIdentifier)}
		err  error
	)

	if info.GenerationHash, err = sdk.ParseHash(node.NetworkGenerationHashSeed); err != nil {
		return NetworkInfo{}, fmt.Errorf("node info: %w", err)
	}

	if info.EpochAdjustment, err = time.ParseDuration(props.Network.EpochAdjustment); err != nil {
		return NetworkInfo{}, fmt.Errorf("network properties: epoch adjustment: %w", err)
	}

	if props.Chain.CurrencyMosaicID != "" {
		v, err := sdk.ParseUInt64(props.Chain.CurrencyMosaicID)
		if err != nil {
			return NetworkInfo{}, fmt.Errorf("network properties: currency mosaic: %w", err)
		}
		info.CurrencyMosaicID = sdk.MosaicID(v)
	}

	return info, nil
}

// TransactionStatus asks the node which group hash is in.
func (c *client) TransactionStatus(ctx context.Context, hash sdk.Hash) (TransactionStatus, error) {
	var res transactionStatusResponse
	if err := c.conn.Get(ctx, "/transactionStatus/"+hash.String(), &res); err != nil {
		return TransactionStatus{}, err
	}

	status := TransactionStatus{Group: res.Group, Code: res.Code}
	if res.Height != "" {
		h, err := strconv.ParseUint(res.Height, 10, 64)
		if err != nil {
			return TransactionStatus{}, fmt.Errorf("transaction status: height: %w", err)
		}
		status.Height = h
	}
	return status, nil
}
