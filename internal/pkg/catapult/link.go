package catapult

type LinkAction uint8

const (
	Unlink LinkAction = 0
	Link   LinkAction = 1
)

func (a LinkAction) String() string {
	if a == Link {
		return "link"
	}
	return "unlink"
}

// AccountKeyLink delegates harvesting of the signer to LinkedPublicKey.
type AccountKeyLink struct {
	Header
	LinkedPublicKey PublicKey
	Action          LinkAction
}

func (AccountKeyLink) Type() TransactionType { return TypeAccountKeyLink }
func (AccountKeyLink) Version() uint8        { return 1 }

func (l AccountKeyLink) marshalBody() []byte {
	w := newWriter(33)
	w.bytes(l.LinkedPublicKey[:])
	w.u8(uint8(l.Action))
	return w.buf
}
