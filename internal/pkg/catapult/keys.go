package catapult

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for malformed public or private keys.
var ErrInvalidKey = errors.New("invalid key")

type (
	PublicKey [ed25519.PublicKeySize]byte
	Signature [ed25519.SignatureSize]byte
)

func (k PublicKey) String() string {
	return strings.ToUpper(hex.EncodeToString(k[:]))
}

func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

func (s Signature) String() string {
	return strings.ToUpper(hex.EncodeToString(s[:]))
}

// ParsePublicKey decodes a 64 hex character public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var key PublicKey
	if err := decodeFixedHex(s, key[:]); err != nil {
		return key, fmt.Errorf("%w: public key: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// KeyPair is an Ed25519 signing key. The zero value cannot sign.
type KeyPair struct {
	private ed25519.PrivateKey
	public  PublicKey
}

// NewKeyPair builds a key pair from a 64 hex character private key (the
// Ed25519 seed).
func NewKeyPair(privateKey string) (KeyPair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if err := decodeFixedHex(privateKey, seed); err != nil {
		return KeyPair{}, fmt.Errorf("%w: private key: %w", ErrInvalidKey, err)
	}

	return keyPairFromSeed(seed), nil
}

// GenerateKeyPair returns a fresh random key pair.
func GenerateKeyPair() (KeyPair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return KeyPair{}, err
	}

	return keyPairFromSeed(seed), nil
}

func keyPairFromSeed(seed []byte) KeyPair {
	private := ed25519.NewKeyFromSeed(seed)

	var public PublicKey
	copy(public[:], private.Public().(ed25519.PublicKey))

	return KeyPair{private: private, public: public}
}

func (kp KeyPair) PublicKey() PublicKey {
	return kp.public
}

// PrivateKey returns the hex encoded seed.
func (kp KeyPair) PrivateKey() string {
	if kp.private == nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(kp.private.Seed()))
}

func (kp KeyPair) IsZero() bool {
	return kp.private == nil
}

func (kp KeyPair) Sign(data []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(kp.private, data))
	return sig
}

// Verify reports whether sig is a valid signature of data by pub.
func Verify(pub PublicKey, data []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), data, sig[:])
}

func decodeFixedHex(s string, dst []byte) error {
	s = strings.TrimSpace(s)
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf("expected %d hex characters, got %d", hex.EncodedLen(len(dst)), len(s))
	}

	_, err := hex.Decode(dst, []byte(s))
	return err
}
