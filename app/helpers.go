package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It
// needs the raw store queries registered under "/".
type ABCIStore struct {
	app abci.Application
}

var _ escrowd.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore wraps the application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for one key", len(value.Results))
	}
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	return value != nil, err
}

// Iterator does a prefix query and filters the result down to the range.
func (a *ABCIStore) Iterator(start, end []byte) (escrowd.Iterator, error) {
	models, err := a.scan(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator loads the same range as Iterator and plays it backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (escrowd.Iterator, error) {
	models, err := a.scan(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

// scan queries the common prefix of start and end, then drops everything
// outside of [start, end).
func (a *ABCIStore) scan(start, end []byte) ([]escrowd.Model, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: commonPrefix(start, end),
	})
	if query.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert to model")
	}
	res := models[:0]
	for _, m := range models {
		if start != nil && string(m.Key) < string(start) {
			continue
		}
		if end != nil && string(m.Key) >= string(end) {
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

func commonPrefix(a, b []byte) []byte {
	if a == nil || b == nil {
		return nil
	}
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

func toModels(keys, values []byte) ([]escrowd.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
