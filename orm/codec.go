package orm

import (
	"github.com/iov-one/escrowd/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc encodes all persisted models. Models are plain structs, so no type
// registration is required.
var cdc = amino.NewCodec()

// Encode serializes a model into its binary representation.
func Encode(model interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(model)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "encode %T: %s", model, err)
	}
	return bz, nil
}

// Decode loads the binary representation into the model pointer. An empty
// input leaves the model untouched.
func Decode(raw []byte, model interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, model); err != nil {
		return errors.Wrapf(errors.ErrModel, "decode %T: %s", model, err)
	}
	return nil
}
