package sale

import (
	"encoding/hex"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Genesis is the "sale" section of the genesis app state.
type Genesis struct {
	Seller escrowd.Address `json:"seller"`
	// Asset is the hex encoded asset id.
	Asset string `json:"asset"`
	Price uint64 `json:"price"`
}

// Initializer constructs the contract from genesis.
type Initializer struct {
	Ledger *Ledger
}

var _ escrowd.Initializer = (*Initializer)(nil)

// FromGenesis runs createWithListing when a seller is given and
// createEmpty otherwise. Without a "sale" section nothing is created.
func (i *Initializer) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	if _, ok := opts["sale"]; !ok {
		return nil
	}
	var gen Genesis
	if err := opts.ReadOptions("sale", &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ledger := i.Ledger
	if ledger == nil {
		ledger = NewLedger()
	}
	if len(gen.Seller) == 0 {
		if gen.Asset != "" || gen.Price != 0 {
			return errors.Wrap(errors.ErrInput, "asset without a seller")
		}
		return ledger.CreateEmpty(db)
	}
	asset, err := hex.DecodeString(gen.Asset)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "asset: %s", err)
	}
	return ledger.CreateWithListing(db, gen.Seller, asset, gen.Price)
}
