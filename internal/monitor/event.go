package monitor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
)

// Kind is the kind of a notification.
type Kind string

const (
	KindBlock           Kind = "block"
	KindStatus          Kind = "status"
	KindConfirmed       Kind = "confirmed"
	KindUnconfirmed     Kind = "unconfirmed"
	KindAggregateBonded Kind = "aggregate_bonded"
	KindCosignature     Kind = "cosignature"
)

// Channel names of the node's /ws endpoint.
const (
	channelBlock       = "block"
	channelConfirmed   = "confirmedAdded"
	channelUnconfirmed = "unconfirmedAdded"
	channelStatus      = "status"
	channelPartial     = "partialAdded"
	channelCosignature = "cosignature"
)

var channelKinds = map[string]Kind{
	channelBlock:       KindBlock,
	channelConfirmed:   KindConfirmed,
	channelUnconfirmed: KindUnconfirmed,
	channelStatus:      KindStatus,
	channelPartial:     KindAggregateBonded,
	channelCosignature: KindCosignature,
}

// addressChannels are subscribed for every monitored address.
var addressChannels = []string{
	channelStatus,
	channelConfirmed,
	channelUnconfirmed,
	channelPartial,
	channelCosignature,
}

// Message is a raw notification as read from the wire.
type Message struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Event is a decoded notification.
type Event struct {
	Kind Kind

	// Address is the monitored address; empty for blocks.
	Address string

	// Hash is the transaction hash, the block hash for blocks, or the parent
	// aggregate hash for cosignatures.
	Hash catapult.Hash

	// Height is set for blocks and confirmed transactions.
	Height uint64

	// Code is the failure code of a status notice.
	Code string

	// Signer is set for cosignatures.
	Signer string

	Raw json.RawMessage
}

type (
	transactionData struct {
		Meta struct {
			Hash   string `json:"hash"`
			Height string `json:"height"`
		} `json:"meta"`
	}

	blockData struct {
		Block struct {
			Height string `json:"height"`
		} `json:"block"`
		Meta struct {
			Hash string `json:"hash"`
		} `json:"meta"`
	}

	statusData struct {
		Hash string `json:"hash"`
		Code string `json:"code"`
	}

	cosignatureData struct {
		ParentHash      string `json:"parentHash"`
		SignerPublicKey string `json:"signerPublicKey"`
	}
)

// decode turns a wire message into an Event. Topics look like "block" or
// "confirmedAdded/<address>".
func decode(msg Message) (Event, error) {
	channel, address, _ := strings.Cut(msg.Topic, "/")

	kind, ok := channelKinds[channel]
	if !ok {
		return Event{}, fmt.Errorf("unknown topic %q", msg.Topic)
	}

	ev := Event{Kind: kind, Address: address, Raw: msg.Data}

	var (
		hash, height string
		err          error
	)
	switch kind {
	case KindBlock:
		var data blockData
		err = json.Unmarshal(msg.Data, &data)
		hash, height = data.Meta.Hash, data.Block.Height
	case KindStatus:
		var data statusData
		err = json.Unmarshal(msg.Data, &data)
		hash, ev.Code = data.Hash, data.Code
	case KindCosignature:
		var data cosignatureData
		err = json.Unmarshal(msg.Data, &data)
		hash, ev.Signer = data.ParentHash, data.SignerPublicKey
	default:
		var data transactionData
		err = json.Unmarshal(msg.Data, &data)
		hash, height = data.Meta.Hash, data.Meta.Height
	}
	if err != nil {
		return Event{}, fmt.Errorf("%s: %w", msg.Topic, err)
	}

	if hash != "" {
		if ev.Hash, err = catapult.ParseHash(hash); err != nil {
			return Event{}, fmt.Errorf("%s: %w", msg.Topic, err)
		}
	}

	if height != "" {
		if ev.Height, err = strconv.ParseUint(height, 10, 64); err != nil {
			return Event{}, fmt.Errorf("%s: invalid height: %w", msg.Topic, err)
		}
	}

	return ev, nil
}
