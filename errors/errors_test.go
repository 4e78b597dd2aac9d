package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		root   *Error
		err    error
		wantIs bool
	}{
		"same instance": {
			root:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"different root": {
			root:   ErrNotFound,
			err:    ErrState,
			wantIs: false,
		},
		"wrapped many times": {
			root:   ErrOverflow,
			err:    Wrap(Wrapf(ErrOverflow, "deposit %d", 7), "balance"),
			wantIs: true,
		},
		"wrapped with pkg/errors": {
			root:   ErrDatabase,
			err:    errors.Wrap(ErrDatabase, "write"),
			wantIs: true,
		},
		"stdlib error is never a registered one": {
			root:   ErrInput,
			err:    Wrap(stdlib.New("boom"), "input"),
			wantIs: false,
		},
		"nil root matches nil": {
			root:   nil,
			err:    nil,
			wantIs: true,
		},
		"nil root matches typed nil": {
			root:   nil,
			err:    (*Error)(nil),
			wantIs: true,
		},
		"nil root does not match an error": {
			root:   nil,
			err:    ErrEmpty,
			wantIs: false,
		},
		"error does not match nil": {
			root:   ErrEmpty,
			err:    nil,
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.root.Is(tc.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	plain := fmt.Errorf("disk full")

	err := Wrap(Wrap(plain, "save"), "settle")
	assert.Equal(t, plain, errors.Cause(err))
	assert.Equal(t, "settle: save: disk full", err.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestRegisterDuplicatedCode(t *testing.T) {
	assert.Panics(t, func() {
		Register(ErrNotFound.ABCICode(), "again")
	})
}

func TestNewAndNewf(t *testing.T) {
	err := ErrAmount.Newf("price %d", 0)
	require.Error(t, err)
	assert.True(t, ErrAmount.Is(err))
	assert.Equal(t, "price 0: invalid amount", err.Error())
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("unexpected state")
	}

	err := run()
	require.Error(t, err)
	assert.True(t, ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "unexpected state")
}

func TestWithType(t *testing.T) {
	err := WithType(ErrType, uint64(3))
	assert.True(t, ErrType.Is(err))
	assert.Equal(t, "uint64: invalid type", err.Error())
}
