package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent,
// Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// UserData keeps the public key and the replay protection counter of a
// signer.
type UserData struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Pubkey   crypto.PublicKey `json:"pubkey"`
	Sequence int64            `json:"sequence"`
}

var _ orm.CloneableData = (*UserData)(nil)

// Validate checks the metadata and the sequence range.
func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.Pubkey.Ed25519) == 0 {
		return errors.Wrap(ErrInvalidSequence, "needs pubkey")
	}
	return nil
}

// Copy makes a new UserData with the same data.
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Metadata: u.Metadata.Copy(),
		Pubkey:   crypto.PublicKey{Ed25519: append([]byte(nil), u.Pubkey.Ed25519...)},
		Sequence: u.Sequence,
	}
}

// Marshal encodes the user with amino.
func (u UserData) Marshal() ([]byte, error) {
	return orm.Encode(u)
}

// Unmarshal decodes the user with amino.
func (u *UserData) Unmarshal(raw []byte) error {
	return orm.Decode(raw, u)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a pubkey. The key is the address of
// the public key.
func NewUser(pubkey crypto.PublicKey) orm.Object {
	var key escrowd.Address
	if len(pubkey.Ed25519) > 0 {
		key = pubkey.Address()
	}
	value := &UserData{
		Metadata: escrowd.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
	return orm.NewSimpleObj(key, value)
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(crypto.PublicKey{})),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db escrowd.KVStore, pubkey crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
func NextNonce(db escrowd.ReadOnlyKVStore, signer escrowd.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	// If not yet present, nonce counting starts with zero.
	return 0, nil
}
