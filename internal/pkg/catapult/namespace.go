package catapult

type NamespaceRegistrationType uint8

const (
	RootNamespace  NamespaceRegistrationType = 0
	ChildNamespace NamespaceRegistrationType = 1
)

// AliasAction links or unlinks a namespace alias.
type AliasAction uint8

const (
	AliasUnlink AliasAction = 0
	AliasLink   AliasAction = 1
)

func (a AliasAction) String() string {
	if a == AliasLink {
		return "link"
	}
	return "unlink"
}

// NamespaceRegistration registers a root namespace for Duration blocks, or a
// child namespace under ParentID.
type NamespaceRegistration struct {
	Header
	RegistrationType NamespaceRegistrationType
	Name             string
	ID               NamespaceID
	Duration         uint64
	ParentID         NamespaceID
}

// NewRootNamespace registers name (a single level) for duration blocks.
func NewRootNamespace(header Header, name string, duration uint64) (NamespaceRegistration, error) {
	if err := validateNamespacePart(name); err != nil {
		return NamespaceRegistration{}, err
	}

	return NamespaceRegistration{
		Header:           header,
		RegistrationType: RootNamespace,
		Name:             name,
		ID:               GenerateNamespaceID(0, name),
		Duration:         duration,
	}, nil
}

// NewChildNamespace registers name below the dotted parent namespace.
func NewChildNamespace(header Header, name, parent string) (NamespaceRegistration, error) {
	if err := validateNamespacePart(name); err != nil {
		return NamespaceRegistration{}, err
	}

	parentID, err := NamespaceIDFromName(parent)
	if err != nil {
		return NamespaceRegistration{}, err
	}

	return NamespaceRegistration{
		Header:           header,
		RegistrationType: ChildNamespace,
		Name:             name,
		ID:               GenerateNamespaceID(parentID, name),
		ParentID:         parentID,
	}, nil
}

func (NamespaceRegistration) Type() TransactionType { return TypeNamespaceRegistration }
func (NamespaceRegistration) Version() uint8        { return 1 }

func (n NamespaceRegistration) marshalBody() []byte {
	w := newWriter(18 + len(n.Name))
	if n.RegistrationType == RootNamespace {
		w.u64(n.Duration)
	} else {
		w.u64(uint64(n.ParentID))
	}
	w.u64(uint64(n.ID))
	w.u8(uint8(n.RegistrationType))
	w.u8(uint8(len(n.Name)))
	w.bytes([]byte(n.Name))
	return w.buf
}

// AddressAlias binds (or unbinds) a namespace to an address.
type AddressAlias struct {
	Header
	Action      AliasAction
	NamespaceID NamespaceID
	Address     Address
}

func (AddressAlias) Type() TransactionType { return TypeAddressAlias }
func (AddressAlias) Version() uint8        { return 1 }

func (a AddressAlias) marshalBody() []byte {
	w := newWriter(8 + AddressSize + 1)
	w.u64(uint64(a.NamespaceID))
	w.bytes(a.Address[:])
	w.u8(uint8(a.Action))
	return w.buf
}

// MosaicAlias binds (or unbinds) a namespace to a mosaic.
type MosaicAlias struct {
	Header
	Action      AliasAction
	NamespaceID NamespaceID
	MosaicID    MosaicID
}

func (MosaicAlias) Type() TransactionType { return TypeMosaicAlias }
func (MosaicAlias) Version() uint8        { return 1 }

func (a MosaicAlias) marshalBody() []byte {
	w := newWriter(17)
	w.u64(uint64(a.NamespaceID))
	w.u64(uint64(a.MosaicID))
	w.u8(uint8(a.Action))
	return w.buf
}
