package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = "escrow-test"

// signedTx is a minimal SignedTx implementation.
type signedTx struct {
	weavetest.Tx
	payload []byte
	sigs    []StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

func (tx *signedTx) GetSignatures() []StdSignature {
	return tx.sigs
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("deposit"), testChainID, 0)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := BuildSignBytes([]byte("deposit"), testChainID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "sequence must change the bytes")

	c, err := BuildSignBytes([]byte("deposit"), "other-chain", 0)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "chain id must change the bytes")

	_, err = BuildSignBytes([]byte("deposit"), testChainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = BuildSignBytes([]byte("deposit"), "x", 0)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignatureSequence(t *testing.T) {
	db := store.MemStore()
	key := weavetest.NewKey()
	tx := &signedTx{payload: []byte("settle")}

	sig0, err := SignTx(key, tx, testChainID, 0)
	require.NoError(t, err)

	cond, err := VerifySignature(db, sig0, tx.payload, testChainID)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().Condition(), cond)

	nonce, err := NextNonce(db, key.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)

	// replay is rejected
	_, err = VerifySignature(db, sig0, tx.payload, testChainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// signature for other bytes is rejected
	sig1, err := SignTx(key, tx, testChainID, 1)
	require.NoError(t, err)
	_, err = VerifySignature(db, sig1, []byte("tampered"), testChainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(db, sig1, tx.payload, testChainID)
	require.NoError(t, err)
}

func TestDecorator(t *testing.T) {
	alice := weavetest.NewKey()
	bob := weavetest.NewKey()

	cases := map[string]struct {
		tx      func(t *testing.T) escrowd.Tx
		dec     Decorator
		wantErr *errors.Error
		signers []escrowd.Condition
	}{
		"single signature": {
			tx: func(t *testing.T) escrowd.Tx {
				tx := &signedTx{payload: []byte("a")}
				sig, err := SignTx(alice, tx, testChainID, 0)
				require.NoError(t, err)
				tx.sigs = []StdSignature{sig}
				return tx
			},
			dec:     NewDecorator(),
			signers: []escrowd.Condition{alice.PublicKey().Condition()},
		},
		"two signatures": {
			tx: func(t *testing.T) escrowd.Tx {
				tx := &signedTx{payload: []byte("b")}
				a, err := SignTx(alice, tx, testChainID, 0)
				require.NoError(t, err)
				b, err := SignTx(bob, tx, testChainID, 0)
				require.NoError(t, err)
				tx.sigs = []StdSignature{a, b}
				return tx
			},
			dec:     NewDecorator(),
			signers: []escrowd.Condition{alice.PublicKey().Condition(), bob.PublicKey().Condition()},
		},
		"no signature": {
			tx: func(t *testing.T) escrowd.Tx {
				return &signedTx{payload: []byte("c")}
			},
			dec:     NewDecorator(),
			wantErr: errors.ErrUnauthorized,
		},
		"no signature allowed": {
			tx: func(t *testing.T) escrowd.Tx {
				return &signedTx{payload: []byte("c")}
			},
			dec:     NewDecorator().AllowMissingSigs(),
			signers: []escrowd.Condition{},
		},
		"wrong chain": {
			tx: func(t *testing.T) escrowd.Tx {
				tx := &signedTx{payload: []byte("d")}
				sig, err := SignTx(alice, tx, "another-chain", 0)
				require.NoError(t, err)
				tx.sigs = []StdSignature{sig}
				return tx
			},
			dec:     NewDecorator(),
			wantErr: errors.ErrUnauthorized,
		},
		"not a signed transaction": {
			tx: func(t *testing.T) escrowd.Tx {
				return &weavetest.Tx{}
			},
			dec:     NewDecorator(),
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := escrowd.WithChainID(context.Background(), testChainID)

			var got []escrowd.Condition
			h := weavetest.Decorate(&captureHandler{got: &got}, tc.dec)

			res, err := h.Check(ctx, db, tc.tx(t))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.signers, got)
			assert.Equal(t, int64(len(tc.signers)*signatureVerifyCost), res.GasPayment)
		})
	}
}

type captureHandler struct {
	got *[]escrowd.Condition
}

func (h *captureHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	*h.got = Authenticate{}.GetConditions(ctx)
	return &escrowd.CheckResult{}, nil
}

func (h *captureHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	*h.got = Authenticate{}.GetConditions(ctx)
	return &escrowd.DeliverResult{}, nil
}
