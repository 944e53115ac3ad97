package catapult

import "golang.org/x/crypto/sha3"

const embeddedAlignment = 8

// EmbeddedTransaction is an inner transaction of an aggregate, attributed to
// Signer. Its fee and deadline are ignored.
type EmbeddedTransaction struct {
	Signer      PublicKey
	Transaction Transaction
}

// AggregateBonded groups inner transactions that must be cosigned by every
// involved signer. It needs a confirmed HashLock before it can be announced.
type AggregateBonded struct {
	Header
	Transactions []EmbeddedTransaction
}

func (AggregateBonded) Type() TransactionType { return TypeAggregateBonded }
func (AggregateBonded) Version() uint8        { return 2 }

func (a AggregateBonded) marshalBody() []byte {
	var (
		inner  = newWriter(0)
		hashes = make([]Hash, 0, len(a.Transactions))
	)
	for _, e := range a.Transactions {
		raw := serializeEmbedded(e.Transaction, e.Signer)
		hashes = append(hashes, sha3.Sum256(raw))

		inner.bytes(raw)
		inner.padTo(embeddedAlignment)
	}

	root := merkleRoot(hashes)

	w := newWriter(40 + len(inner.buf))
	w.bytes(root[:])
	w.u32(uint32(len(inner.buf)))
	w.u32(0)
	w.bytes(inner.buf)
	return w.buf
}

// merkleRoot folds hashes pairwise, duplicating the last one on odd levels.
func merkleRoot(hashes []Hash) Hash {
	if len(hashes) == 0 {
		return Hash{}
	}

	level := append([]Hash(nil), hashes...)
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			h := sha3.New256()
			h.Write(level[i][:])
			h.Write(level[i+1][:])

			var parent Hash
			copy(parent[:], h.Sum(nil))
			next = append(next, parent)
		}
		level = next
	}

	return level[0]
}
