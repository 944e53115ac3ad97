// Package catapult models the Catapult/Symbol primitives needed to build,
// sign and hash transactions: network identifiers, 64-bit identifiers,
// Ed25519 key pairs, addresses, namespace and mosaic ids, deadlines and the
// binary layout of every supported transaction kind.
//
// Cryptographic primitives are delegated: Ed25519 comes from crypto/ed25519,
// SHA3-256 and RIPEMD-160 from golang.org/x/crypto. This package only
// arranges bytes the way the network expects them.
package catapult
