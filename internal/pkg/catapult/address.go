package catapult

import (
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address derivation is defined over RIPEMD-160
	"golang.org/x/crypto/sha3"
)

const (
	AddressSize = 24

	addressEncodedSize       = 39
	legacyAddressEncodedSize = 40
	addressCoreSize          = 21 // network byte + RIPEMD-160 digest
	addressChecksumSize      = AddressSize - addressCoreSize
)

// ErrInvalidAddress is returned when an address fails to decode or its
// checksum does not match.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a decoded 24-byte account address.
type Address [AddressSize]byte

// AddressFromPublicKey derives the address of pub on the given network.
func AddressFromPublicKey(pub PublicKey, network NetworkType) Address {
	keyHash := sha3.Sum256(pub[:])

	ripemd := ripemd160.New()
	ripemd.Write(keyHash[:])

	core := make([]byte, 0, addressCoreSize)
	core = append(core, byte(network))
	core = ripemd.Sum(core)

	return addressFromCore(core)
}

func addressFromCore(core []byte) Address {
	var a Address
	copy(a[:], core[:addressCoreSize])

	checksum := sha3.Sum256(core[:addressCoreSize])
	copy(a[addressCoreSize:], checksum[:addressChecksumSize])
	return a
}

// ParseAddress decodes the base32 form of an address. Dashes are ignored so
// pretty printed addresses are accepted. The 40 character legacy encoding
// used by early test networks is accepted too: its network byte and key
// digest are kept and the checksum is recomputed.
func ParseAddress(raw string) (Address, error) {
	plain := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))

	switch len(plain) {
	case addressEncodedSize:
		decoded, err := base32.StdEncoding.DecodeString(plain + "A")
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, raw, err)
		}

		var a Address
		copy(a[:], decoded[:AddressSize])
		if !a.IsValid() {
			return Address{}, fmt.Errorf("%w: %q: checksum mismatch", ErrInvalidAddress, raw)
		}
		return a, nil
	case legacyAddressEncodedSize:
		decoded, err := base32.StdEncoding.DecodeString(plain)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, raw, err)
		}
		return addressFromCore(decoded), nil
	default:
		return Address{}, fmt.Errorf("%w: %q: unexpected length %d", ErrInvalidAddress, raw, len(plain))
	}
}

// IsValid reports whether the embedded checksum matches.
func (a Address) IsValid() bool {
	return addressFromCore(a[:addressCoreSize]) == a
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Network() NetworkType {
	return NetworkType(a[0])
}

// String returns the plain base32 form, e.g. "TATNE7Q5BITMUTRRN6IB4I7FLSDRDWZA37JGO5Q".
func (a Address) String() string {
	padded := append(a[:], 0)
	return base32.StdEncoding.EncodeToString(padded)[:addressEncodedSize]
}

// Hex returns the upper-case hex form used by the REST gateway.
func (a Address) Hex() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}
