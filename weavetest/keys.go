package weavetest

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
)

// NewKey returns a random private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() escrowd.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceAsset returns a 32 byte asset id filled with the given byte.
func SequenceAsset(b byte) []byte {
	asset := make([]byte, 32)
	for i := range asset {
		asset[i] = b
	}
	return asset
}
