package catapult

import (
	"slices"
)

// MessageType tags the payload of a transfer message.
type MessageType uint8

const PlainMessageType MessageType = 0

// Message is an optional transfer message. The zero value is "no message".
type Message struct {
	Type    MessageType
	Payload []byte
}

// PlainMessage wraps s as an unencrypted message.
func PlainMessage(s string) Message {
	return Message{Type: PlainMessageType, Payload: []byte(s)}
}

func (m Message) size() int {
	if m.Payload == nil {
		return 0
	}
	return 1 + len(m.Payload)
}

// Mosaic is an amount of a mosaic. ID may also hold a namespace id aliasing
// the mosaic, which the network resolves on inclusion.
type Mosaic struct {
	ID     MosaicID
	Amount uint64
}

// Transfer moves mosaics and an optional message to Recipient.
type Transfer struct {
	Header
	Recipient Address
	Mosaics   []Mosaic
	Message   Message
}

func (Transfer) Type() TransactionType { return TypeTransfer }
func (Transfer) Version() uint8        { return 1 }

func (t Transfer) marshalBody() []byte {
	mosaics := slices.Clone(t.Mosaics)
	slices.SortFunc(mosaics, func(a, b Mosaic) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	w := newWriter(AddressSize + 8 + 16*len(mosaics) + t.Message.size())
	w.bytes(t.Recipient[:])
	w.u16(uint16(t.Message.size()))
	w.u8(uint8(len(mosaics)))
	w.u32(0)
	w.u8(0)
	for _, m := range mosaics {
		w.u64(uint64(m.ID))
		w.u64(m.Amount)
	}
	if t.Message.Payload != nil {
		w.u8(uint8(t.Message.Type))
		w.bytes(t.Message.Payload)
	}

	return w.buf
}
