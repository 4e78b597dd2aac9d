// Package store provides the in-memory caching layers that sit on top of
// the persistent commit store, so that every transaction can be written
// atomically or dropped as a whole.
package store

import "github.com/iov-one/escrowd"

// Move references for all storage types into this package
// for shorter names everywhere

//nolint
type (
	ReadOnlyKVStore  = escrowd.ReadOnlyKVStore
	SetDeleter       = escrowd.SetDeleter
	KVStore          = escrowd.KVStore
	Batch            = escrowd.Batch
	Iterator         = escrowd.Iterator
	CacheableKVStore = escrowd.CacheableKVStore
	KVCacheWrap      = escrowd.KVCacheWrap
	CommitKVStore    = escrowd.CommitKVStore
	CommitID         = escrowd.CommitID
	Model            = escrowd.Model
)
