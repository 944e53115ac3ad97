package catapult

// MosaicFlags is the bit set of mosaic properties.
type MosaicFlags uint8

const (
	FlagSupplyMutable MosaicFlags = 1 << iota
	FlagTransferable
	FlagRestrictable
	FlagRevokable
)

// MaxDivisibility is the largest number of decimal places a mosaic may have.
const MaxDivisibility = 6

// NewMosaicFlags assembles the flag set from its three user facing toggles.
func NewMosaicFlags(supplyMutable, transferable, restrictable bool) MosaicFlags {
	var f MosaicFlags
	if supplyMutable {
		f |= FlagSupplyMutable
	}
	if transferable {
		f |= FlagTransferable
	}
	if restrictable {
		f |= FlagRestrictable
	}
	return f
}

func (f MosaicFlags) Has(flag MosaicFlags) bool {
	return f&flag == flag
}

// MosaicDefinition creates mosaic ID (derived from Nonce and the owner's
// address) with the given properties.
type MosaicDefinition struct {
	Header
	ID           MosaicID
	Nonce        MosaicNonce
	Flags        MosaicFlags
	Divisibility uint8
	Duration     uint64
}

func (MosaicDefinition) Type() TransactionType { return TypeMosaicDefinition }
func (MosaicDefinition) Version() uint8        { return 1 }

func (m MosaicDefinition) marshalBody() []byte {
	w := newWriter(22)
	w.u64(uint64(m.ID))
	w.u64(m.Duration)
	w.u32(uint32(m.Nonce))
	w.u8(uint8(m.Flags))
	w.u8(m.Divisibility)
	return w.buf
}

type MosaicSupplyChangeAction uint8

const (
	SupplyDecrease MosaicSupplyChangeAction = 0
	SupplyIncrease MosaicSupplyChangeAction = 1
)

func (a MosaicSupplyChangeAction) String() string {
	if a == SupplyIncrease {
		return "increase"
	}
	return "decrease"
}

// MosaicSupplyChange increases or decreases the supply of MosaicID by Delta
// atomic units.
type MosaicSupplyChange struct {
	Header
	MosaicID MosaicID
	Action   MosaicSupplyChangeAction
	Delta    uint64
}

func (MosaicSupplyChange) Type() TransactionType { return TypeMosaicSupplyChange }
func (MosaicSupplyChange) Version() uint8        { return 1 }

func (m MosaicSupplyChange) marshalBody() []byte {
	w := newWriter(17)
	w.u64(uint64(m.MosaicID))
	w.u64(m.Delta)
	w.u8(uint8(m.Action))
	return w.buf
}
