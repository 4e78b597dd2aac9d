package store

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// RegisterQuery exposes the raw key value store under "/". It answers
// exact key lookups and "?prefix" scans over full database keys.
func RegisterQuery(qr escrowd.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

var _ escrowd.QueryHandler = rawQuery{}

func (rawQuery) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	switch mod {
	case escrowd.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrEmpty, "key")
		}
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []Model{escrowd.Pair(data, value)}, nil
	case escrowd.PrefixQueryMod:
		return QueryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// QueryPrefix returns all models whose key starts with prefix, in key
// order.
func QueryPrefix(db ReadOnlyKVStore, prefix []byte) ([]Model, error) {
	itr, err := db.Iterator(prefix, PrefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ReadAll(itr)
}

// PrefixEnd returns the smallest key that is greater than all keys with
// the given prefix, or nil if there is no such key.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
