package sigs

import (
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []StdSignature
}

// StdSignature binds a signature to the signer public key and the
// sequence it was created for.
type StdSignature struct {
	Pubkey    crypto.PublicKey `json:"pubkey"`
	Signature crypto.Signature `json:"signature"`
	Sequence  int64            `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards
func (s StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
