package sale

import "github.com/iov-one/escrowd/errors"

// Escrow errors use the 1100-1109 code range.
var (
	ErrAssetAlreadyListed  = errors.Register(1100, "asset already listed")
	ErrSelfTrade           = errors.Register(1101, "self trade disallowed")
	ErrSellerCannotDeposit = errors.Register(1102, "seller cannot deposit")
	ErrNoListing           = errors.Register(1103, "no listing available")
	ErrNoAssetOrFund       = errors.Register(1104, "no asset or fund")
	ErrInsufficientFunds   = errors.Register(1105, "insufficient funds")
	ErrTerminated          = errors.Register(1106, "contract terminated")
	ErrNotSeller           = errors.Register(1107, "caller is not the seller")
	ErrAlreadyCreated      = errors.Register(1108, "contract already created")
	ErrNotCreated          = errors.Register(1109, "contract not created")
)
