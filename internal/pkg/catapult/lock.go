package catapult

// HashLock locks Mosaic for Duration blocks as a deposit for the aggregate
// bonded transaction identified by Hash.
type HashLock struct {
	Header
	Mosaic   Mosaic
	Duration uint64
	Hash     Hash
}

func (HashLock) Type() TransactionType { return TypeHashLock }
func (HashLock) Version() uint8        { return 1 }

func (l HashLock) marshalBody() []byte {
	w := newWriter(56)
	w.u64(uint64(l.Mosaic.ID))
	w.u64(l.Mosaic.Amount)
	w.u64(l.Duration)
	w.bytes(l.Hash[:])
	return w.buf
}
