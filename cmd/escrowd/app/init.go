package app

import (
	"encoding/hex"
	"encoding/json"
	"flag"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/sale"
)

// GenInitOptions produces the "sale" section of the genesis app state.
//
// Without flags the contract is created empty. Given -seller together with
// -asset and -price, the seller's asset is listed at genesis.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var (
		seller string
		asset  string
		price  uint64
	)
	fs := flag.NewFlagSet("sale", flag.ContinueOnError)
	fs.StringVar(&seller, "seller", "", "address of the seller (hex, bech32: or cond: prefixed)")
	fs.StringVar(&asset, "asset", "", "hex encoded 32 byte asset id")
	fs.Uint64Var(&price, "price", 0, "asking price of the asset")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	var gen sale.Genesis
	if seller != "" {
		addr, err := escrowd.ParseAddress(seller)
		if err != nil {
			return nil, errors.Wrap(err, "seller")
		}
		gen.Seller = addr
	}
	if asset != "" {
		raw, err := hex.DecodeString(asset)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "asset: %s", err)
		}
		if len(raw) != sale.AssetIDLength {
			return nil, errors.Wrapf(errors.ErrInput, "asset must be %d bytes", sale.AssetIDLength)
		}
		gen.Asset = hex.EncodeToString(raw)
	}
	if len(gen.Seller) == 0 && (gen.Asset != "" || price != 0) {
		return nil, errors.Wrap(errors.ErrInput, "a listing requires a seller")
	}
	if len(gen.Seller) != 0 && gen.Asset == "" {
		return nil, errors.Wrap(errors.ErrInput, "a seller requires an asset")
	}
	gen.Price = price

	return json.Marshal(map[string]interface{}{
		"sale": gen,
	})
}
