package catapult

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrMalformedPayload is returned when a payload is too short to be a
// transaction.
var ErrMalformedPayload = errors.New("malformed transaction payload")

// Hash is a 32-byte SHA3-256 digest: transaction hashes and generation hashes.
type Hash [32]byte

func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash decodes a 64 hex character hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if err := decodeFixedHex(s, h[:]); err != nil {
		return h, fmt.Errorf("invalid hash: %w", err)
	}
	return h, nil
}

// Decode implements envconfig.Decoder.
func (h *Hash) Decode(value string) error {
	parsed, err := ParseHash(value)
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}

// SignedTransaction is a serialized, signed transaction ready to announce.
type SignedTransaction struct {
	Payload []byte
	Hash    Hash
	Signer  PublicKey
	Type    TransactionType
	Network NetworkType
}

// PayloadHex returns the payload in the upper-case hex form the REST gateway
// expects.
func (s SignedTransaction) PayloadHex() string {
	return strings.ToUpper(hex.EncodeToString(s.Payload))
}

// Sign serializes tx, signs it with kp for the network identified by
// generationHash and computes its hash.
func Sign(tx Transaction, kp KeyPair, generationHash Hash) SignedTransaction {
	payload := Serialize(tx, kp.PublicKey(), Signature{})

	data := signingData(payload, tx.Type())
	message := make([]byte, 0, len(generationHash)+len(data))
	message = append(message, generationHash[:]...)
	message = append(message, data...)

	signature := kp.Sign(message)
	copy(payload[signatureOffset:signerOffset], signature[:])

	hash, _ := TransactionHash(payload, generationHash)
	return SignedTransaction{
		Payload: payload,
		Hash:    hash,
		Signer:  kp.PublicKey(),
		Type:    tx.Type(),
		Network: tx.Base().Network,
	}
}

// TransactionHash computes the hash of a signed payload.
func TransactionHash(payload []byte, generationHash Hash) (Hash, error) {
	if len(payload) < transactionHeaderSize {
		return Hash{}, ErrMalformedPayload
	}

	txType := TransactionType(binary.LittleEndian.Uint16(payload[typeOffset:]))

	h := sha3.New256()
	h.Write(payload[signatureOffset:signerOffset])
	h.Write(payload[signerOffset : signerOffset+32])
	h.Write(generationHash[:])
	h.Write(signingData(payload, txType))

	var hash Hash
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

// VerifySignature checks the signature embedded in a signed payload.
func VerifySignature(payload []byte, generationHash Hash) bool {
	if len(payload) < transactionHeaderSize {
		return false
	}

	var (
		signature Signature
		signer    PublicKey
	)
	copy(signature[:], payload[signatureOffset:signerOffset])
	copy(signer[:], payload[signerOffset:signerOffset+32])

	txType := TransactionType(binary.LittleEndian.Uint16(payload[typeOffset:]))
	message := append(append([]byte{}, generationHash[:]...), signingData(payload, txType)...)
	return Verify(signer, message, signature)
}

func signingData(payload []byte, txType TransactionType) []byte {
	data := payload[verifiableDataOffset:]
	if txType.IsAggregate() && len(data) >= aggregateSigningSize {
		data = data[:aggregateSigningSize]
	}
	return data
}
