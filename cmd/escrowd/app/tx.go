package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/sale"
	"github.com/iov-one/escrowd/x/sigs"
	amino "github.com/tendermint/go-amino"
)

// cdc knows every message the application can route.
var cdc = newCodec()

func newCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*escrowd.Msg)(nil), nil)
	c.RegisterConcrete(&sale.CreateMsg{}, "sale/create", nil)
	c.RegisterConcrete(&sale.InsertAssetMsg{}, "sale/insert_asset", nil)
	c.RegisterConcrete(&sale.DepositMsg{}, "sale/deposit", nil)
	c.RegisterConcrete(&sale.SettleMsg{}, "sale/settle", nil)
	c.Seal()
	return c
}

// Tx is the transaction format of the application: a single message
// together with the signatures authorizing it.
type Tx struct {
	Msg        escrowd.Msg         `json:"msg"`
	Signatures []sigs.StdSignature `json:"signatures"`
}

var _ escrowd.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (escrowd.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the message carried by the transaction.
func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. This is the transaction with the
// signatures removed.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return cpy.Marshal()
}

// Marshal encodes the transaction with amino.
func (tx Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "encode tx: %s", err)
	}
	return bz, nil
}

// Unmarshal decodes the transaction with amino.
func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrInput, "empty tx")
	}
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode tx: %s", err)
	}
	return nil
}

// Sign appends the signature of signer for the given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "cannot sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
