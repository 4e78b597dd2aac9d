package store

import (
	"bytes"

	"github.com/iov-one/escrowd/errors"
)

// SliceIterator iterates over a materialized list of models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next model or ErrIteratorDone.
func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release drops the slice.
func (s *SliceIterator) Release() {
	s.data = nil
}

// ReadAll drains the iterator and releases it.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, Model{Key: key, Value: value})
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// mergeIterators combines cached entries with the parent iterator. Cached
// entries win over the parent on equal keys and deleted entries hide them.
func mergeIterators(cache []cached, parent Iterator, reverse bool) (Iterator, error) {
	below, err := ReadAll(parent)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}

	// before reports whether a goes first in the iteration order.
	before := func(a, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) > 0
		}
		return bytes.Compare(a, b) < 0
	}

	res := make([]Model, 0, len(cache)+len(below))
	i, j := 0, 0
	for i < len(cache) || j < len(below) {
		switch {
		case j == len(below) || (i < len(cache) && before(cache[i].key, below[j].Key)):
			if !cache[i].deleted {
				res = append(res, Model{Key: cache[i].key, Value: cache[i].value})
			}
			i++
		case i == len(cache) || before(below[j].Key, cache[i].key):
			res = append(res, below[j])
			j++
		default:
			// same key, the cache shadows the parent
			if !cache[i].deleted {
				res = append(res, Model{Key: cache[i].key, Value: cache[i].value})
			}
			i++
			j++
		}
	}
	return NewSliceIterator(res), nil
}
