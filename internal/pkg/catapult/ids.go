package catapult

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	namespaceFlag     uint64 = 1 << 63
	maxNamespaceSize         = 64
	maxNamespaceDepth        = 3
)

// ErrInvalidNamespaceName is returned for names that break the network's
// naming rules.
var ErrInvalidNamespaceName = errors.New("invalid namespace name")

var namespacePartPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type (
	NamespaceID uint64
	MosaicID    uint64
	MosaicNonce uint32
)

func (id NamespaceID) String() string { return FormatUInt64(uint64(id)) }
func (id MosaicID) String() string    { return FormatUInt64(uint64(id)) }

// NamespacePath returns the ids of every level of a dotted namespace name,
// root first.
func NamespacePath(name string) ([]NamespaceID, error) {
	parts := strings.Split(name, ".")
	if len(parts) > maxNamespaceDepth {
		return nil, fmt.Errorf("%w: %q has more than %d levels", ErrInvalidNamespaceName, name, maxNamespaceDepth)
	}

	var (
		parent NamespaceID
		path   = make([]NamespaceID, 0, len(parts))
	)
	for _, part := range parts {
		if err := validateNamespacePart(part); err != nil {
			return nil, err
		}

		parent = GenerateNamespaceID(parent, part)
		path = append(path, parent)
	}

	return path, nil
}

// NamespaceIDFromName returns the id of the deepest level of name.
func NamespaceIDFromName(name string) (NamespaceID, error) {
	path, err := NamespacePath(name)
	if err != nil {
		return 0, err
	}
	return path[len(path)-1], nil
}

// GenerateNamespaceID derives the id of a single namespace level below parent
// (zero for root namespaces).
func GenerateNamespaceID(parent NamespaceID, name string) NamespaceID {
	var words [8]byte
	binary.LittleEndian.PutUint32(words[:4], uint32(parent))
	binary.LittleEndian.PutUint32(words[4:], uint32(uint64(parent)>>32))

	h := sha3.New256()
	h.Write(words[:])
	h.Write([]byte(name))
	digest := h.Sum(nil)

	return NamespaceID(binary.LittleEndian.Uint64(digest[:8]) | namespaceFlag)
}

func validateNamespacePart(part string) error {
	if len(part) == 0 || len(part) > maxNamespaceSize {
		return fmt.Errorf("%w: %q must have 1 to %d characters", ErrInvalidNamespaceName, part, maxNamespaceSize)
	}

	if !namespacePartPattern.MatchString(part) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespaceName, part)
	}

	return nil
}

// MosaicIDFromNonce derives the id of a mosaic defined by owner with nonce.
func MosaicIDFromNonce(nonce MosaicNonce, owner Address) MosaicID {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(nonce))

	h := sha3.New256()
	h.Write(n[:])
	h.Write(owner[:])
	digest := h.Sum(nil)

	return MosaicID(binary.LittleEndian.Uint64(digest[:8]) &^ namespaceFlag)
}

// RandomMosaicNonce draws a nonce from crypto/rand.
func RandomMosaicNonce() (MosaicNonce, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return MosaicNonce(binary.LittleEndian.Uint32(b[:])), nil
}
