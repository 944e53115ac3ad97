package catapult

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// TransactionType identifies a transaction kind on the wire.
type TransactionType uint16

const (
	TypeTransfer                    TransactionType = 0x4154
	TypeNamespaceRegistration       TransactionType = 0x414E
	TypeAddressAlias                TransactionType = 0x424E
	TypeMosaicAlias                 TransactionType = 0x434E
	TypeMosaicDefinition            TransactionType = 0x414D
	TypeMosaicSupplyChange          TransactionType = 0x424D
	TypeAccountKeyLink              TransactionType = 0x414C
	TypeAccountOperationRestriction TransactionType = 0x4350
	TypeHashLock                    TransactionType = 0x4148
	TypeAggregateComplete           TransactionType = 0x4141
	TypeAggregateBonded             TransactionType = 0x4241
)

var transactionTypeNames = map[TransactionType]string{
	TypeTransfer:                    "TRANSFER",
	TypeNamespaceRegistration:       "NAMESPACE_REGISTRATION",
	TypeAddressAlias:                "ADDRESS_ALIAS",
	TypeMosaicAlias:                 "MOSAIC_ALIAS",
	TypeMosaicDefinition:            "MOSAIC_DEFINITION",
	TypeMosaicSupplyChange:          "MOSAIC_SUPPLY_CHANGE",
	TypeAccountKeyLink:              "ACCOUNT_KEY_LINK",
	TypeAccountOperationRestriction: "ACCOUNT_OPERATION_RESTRICTION",
	TypeHashLock:                    "HASH_LOCK",
	TypeAggregateComplete:           "AGGREGATE_COMPLETE",
	TypeAggregateBonded:             "AGGREGATE_BONDED",
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransactionType(0x%04X)", uint16(t))
}

func (t TransactionType) IsAggregate() bool {
	return t == TypeAggregateBonded || t == TypeAggregateComplete
}

// ParseTransactionType accepts a type name ("TRANSFER") or its numeric value
// in decimal ("16724") or hex ("0x4154").
func ParseTransactionType(s string) (TransactionType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range transactionTypeNames {
		if n == name {
			return t, nil
		}
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
	return TransactionType(v), nil
}

// Header carries the fields shared by every transaction.
type Header struct {
	Network  NetworkType
	MaxFee   uint64
	Deadline Deadline
}

// Base returns the shared header; it is promoted to every transaction that
// embeds Header.
func (h Header) Base() Header {
	return h
}

// Transaction is an unsigned transaction of one of the kinds declared in this
// package. The set is closed: only this package can add implementations.
type Transaction interface {
	Type() TransactionType
	Version() uint8
	Base() Header

	marshalBody() []byte
}

const (
	signatureOffset      = 8
	signerOffset         = signatureOffset + 64
	verifiableDataOffset = signerOffset + 32 + 4
	typeOffset           = verifiableDataOffset + 2

	transactionHeaderSize = verifiableDataOffset + 20
	embeddedHeaderSize    = 48

	// aggregateSigningSize covers the header fields and the transactions hash;
	// cosignatures appended later must not change the aggregate hash.
	aggregateSigningSize = 20 + 32
)

// Serialize lays out tx as a full transaction with the given signer and
// signature.
func Serialize(tx Transaction, signer PublicKey, signature Signature) []byte {
	var (
		header = tx.Base()
		body   = tx.marshalBody()
		size   = transactionHeaderSize + len(body)
		w      = newWriter(size)
	)

	w.u32(uint32(size))
	w.u32(0)
	w.bytes(signature[:])
	w.bytes(signer[:])
	w.u32(0)
	w.u8(tx.Version())
	w.u8(uint8(header.Network))
	w.u16(uint16(tx.Type()))
	w.u64(header.MaxFee)
	w.u64(uint64(header.Deadline))
	w.bytes(body)

	return w.buf
}

// serializeEmbedded lays out tx as an inner transaction of an aggregate.
// Embedded transactions carry no fee, deadline nor signature.
func serializeEmbedded(tx Transaction, signer PublicKey) []byte {
	var (
		body = tx.marshalBody()
		size = embeddedHeaderSize + len(body)
		w    = newWriter(size)
	)

	w.u32(uint32(size))
	w.u32(0)
	w.bytes(signer[:])
	w.u32(0)
	w.u8(tx.Version())
	w.u8(uint8(tx.Base().Network))
	w.u16(uint16(tx.Type()))
	w.bytes(body)

	return w.buf
}

// writer appends little-endian fields to a byte slice.
type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) u8(v uint8)     { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16)   { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32)   { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)   { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) padTo(align int) {
	for len(w.buf)%align != 0 {
		w.buf = append(w.buf, 0)
	}
}
