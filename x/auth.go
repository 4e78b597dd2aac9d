package x

import (
	"github.com/iov-one/escrowd"
)

// Authenticator reports the conditions fulfilled by the current
// transaction. Handlers take it as a dependency, tests pass a mock.
type Authenticator interface {
	GetConditions(escrowd.Context) []escrowd.Condition
	HasAddress(escrowd.Context, escrowd.Address) bool
}

// GetAddresses returns the addresses of all fulfilled conditions, in
// signing order.
func GetAddresses(ctx escrowd.Context, auth Authenticator) []escrowd.Address {
	var addrs []escrowd.Address
	for _, c := range auth.GetConditions(ctx) {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner is the first fulfilled condition. It acts as the caller of
// every ledger operation. Nil if nothing was signed.
func MainSigner(ctx escrowd.Context, auth Authenticator) escrowd.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
