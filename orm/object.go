package orm

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// SimpleObj pairs a key with its data. Buckets use it as the prototype they
// clone for every load.
type SimpleObj struct {
	key   []byte
	value CloneableData
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Value() escrowd.Persistent {
	return o.value
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires both a key and a value, then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "value")
	}
	return o.value.Validate()
}

// Clone returns a deep copy. A nil key stays nil.
func (o *SimpleObj) Clone() Object {
	cpy := &SimpleObj{value: o.value.Copy()}
	if len(o.key) != 0 {
		cpy.key = append([]byte(nil), o.key...)
	}
	return cpy
}
