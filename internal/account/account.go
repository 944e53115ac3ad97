package account

import (
	"errors"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"go.uber.org/zap/zapcore"
)

var (
	// ErrConfiguration marks missing or invalid user input: unknown account
	// names, blank or malformed private keys. It is raised before any
	// network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrAccountNotFound is returned by stores for unknown names.
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a named signing identity. PrivateKey may be blank: that is only
// an error once the account is asked to sign.
type Account struct {
	Name       string
	Address    catapult.Address
	PrivateKey string
}

// KeyPair derives the signing key pair. It fails with ErrConfiguration when
// the private key is blank, malformed, or belongs to another address.
func (a Account) KeyPair() (catapult.KeyPair, error) {
	if a.PrivateKey == "" {
		return catapult.KeyPair{}, fmt.Errorf("%w: account %q has no private key", ErrConfiguration, a.Name)
	}

	kp, err := catapult.NewKeyPair(a.PrivateKey)
	if err != nil {
		return catapult.KeyPair{}, fmt.Errorf("%w: account %q: %w", ErrConfiguration, a.Name, err)
	}

	if derived := catapult.AddressFromPublicKey(kp.PublicKey(), a.Address.Network()); derived != a.Address {
		return catapult.KeyPair{}, fmt.Errorf("%w: account %q: private key belongs to %s, not %s", ErrConfiguration, a.Name, derived, a.Address)
	}

	return kp, nil
}

// MarshalLogObject logs the account without its key.
func (a Account) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", a.Name)
	enc.AddString("address", a.Address.String())
	enc.AddBool("has_private_key", a.PrivateKey != "")
	return nil
}

// FromPrivateKey builds an ad-hoc account for a key given on the command line.
func FromPrivateKey(name, privateKey string, network catapult.NetworkType) (Account, error) {
	kp, err := catapult.NewKeyPair(privateKey)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return Account{
		Name:       name,
		Address:    catapult.AddressFromPublicKey(kp.PublicKey(), network),
		PrivateKey: kp.PrivateKey(),
	}, nil
}
