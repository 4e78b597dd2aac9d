package orm

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/x"
)

// Object is a keyed record held by a Bucket. The bucket prefixes the key
// with its name before it reaches the store.
type Object interface {
	Cloneable
	Key() []byte
	SetKey([]byte)
	x.Validater
	Value() escrowd.Persistent
}

// Cloneable creates an empty object that data can be loaded into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is the value part of an Object. Validate is called before
// every save.
type CloneableData interface {
	x.Validater
	escrowd.Persistent
	Copy() CloneableData
}
