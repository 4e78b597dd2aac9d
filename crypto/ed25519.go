package crypto

import (
	"bytes"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (Signature, error)
	PublicKey() PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey is an ed25519 private key. Never persist it on chain.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Validate ensures the public key has the length expected by ed25519.
func (p PublicKey) Validate() error {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p.Ed25519))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message []byte, sig Signature) bool {
	if p.Validate() != nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a signature condition.
func (p PublicKey) Condition() escrowd.Condition {
	return escrowd.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is a shortcut for p.Condition().Address()
func (p PublicKey) Address() escrowd.Address {
	return p.Condition().Address()
}

// Equals returns true if both keys hold the same bytes.
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p.Ed25519, o.Ed25519)
}

var _ Signer = PrivateKey{}

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) (Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return Signature{}, errors.Wrap(errors.ErrInput, "private key length")
	}
	return Signature{Ed25519: ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)}, nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
