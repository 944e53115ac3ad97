package catapult

// OperationRestrictionFlags selects what an operation restriction applies to.
type OperationRestrictionFlags uint16

const (
	restrictionTransactionType OperationRestrictionFlags = 0x0004
	restrictionOutgoing        OperationRestrictionFlags = 0x4000
	restrictionBlock           OperationRestrictionFlags = 0x8000

	AllowOutgoingTransactionType = restrictionOutgoing | restrictionTransactionType
	BlockOutgoingTransactionType = restrictionBlock | restrictionOutgoing | restrictionTransactionType
)

// AccountOperationRestriction adds or removes transaction types from the
// signer's outgoing allow (or block) list.
type AccountOperationRestriction struct {
	Header
	Flags     OperationRestrictionFlags
	Additions []TransactionType
	Deletions []TransactionType
}

func (AccountOperationRestriction) Type() TransactionType { return TypeAccountOperationRestriction }
func (AccountOperationRestriction) Version() uint8        { return 1 }

func (r AccountOperationRestriction) marshalBody() []byte {
	w := newWriter(8 + 2*(len(r.Additions)+len(r.Deletions)))
	w.u16(uint16(r.Flags))
	w.u8(uint8(len(r.Additions)))
	w.u8(uint8(len(r.Deletions)))
	w.u32(0)
	for _, t := range r.Additions {
		w.u16(uint16(t))
	}
	for _, t := range r.Deletions {
		w.u16(uint16(t))
	}
	return w.buf
}
