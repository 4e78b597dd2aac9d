package sale

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// RegisterQuery exposes the ledger reads and the raw escrow tables.
// The ledger reads under /sale/listing, /sale/holding, /sale/balance and
// /sale/status take a party address as data. The buckets are registered as
// /sale/listings, /sale/holdings, /sale/buyerfunds, /sale/sellerfunds and
// /sale/contract.
func RegisterQuery(qr escrowd.QueryRouter, ledger *Ledger) {
	qr.Register("/sale/listing", partyQuery{ledger: ledger, read: listingOf})
	qr.Register("/sale/holding", partyQuery{ledger: ledger, read: holdingOf})
	qr.Register("/sale/balance", partyQuery{ledger: ledger, read: buyerBalanceOf})
	qr.Register("/sale/status", partyQuery{ledger: ledger, read: statusOf})

	ledger.listings.Register("sale/listings", qr)
	ledger.holdings.Register("sale/holdings", qr)
	ledger.buyerFunds.Register("sale/buyerfunds", qr)
	ledger.sellerFunds.Register("sale/sellerfunds", qr)
	ledger.contracts.Register("sale/contract", qr)
}

// partyQuery answers a ledger read about a single party. A nil value means
// there is nothing to return.
type partyQuery struct {
	ledger *Ledger
	read   func(*Ledger, escrowd.ReadOnlyKVStore, escrowd.Address) ([]byte, error)
}

var _ escrowd.QueryHandler = partyQuery{}

func (q partyQuery) Query(db escrowd.ReadOnlyKVStore, mod string, data []byte) ([]escrowd.Model, error) {
	if mod != escrowd.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	party := escrowd.Address(data)
	if err := party.Validate(); err != nil {
		return nil, errors.Wrap(err, "party")
	}
	value, err := q.read(q.ledger, db, party)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []escrowd.Model{escrowd.Pair(party, value)}, nil
}

func listingOf(l *Ledger, db escrowd.ReadOnlyKVStore, party escrowd.Address) ([]byte, error) {
	listing, err := l.GetListing(db, party)
	if err != nil || listing == nil {
		return nil, err
	}
	return listing.Marshal()
}

func holdingOf(l *Ledger, db escrowd.ReadOnlyKVStore, party escrowd.Address) ([]byte, error) {
	holding, err := l.GetHolding(db, party)
	if err != nil || holding == nil {
		return nil, err
	}
	return holding.Marshal()
}

func buyerBalanceOf(l *Ledger, db escrowd.ReadOnlyKVStore, party escrowd.Address) ([]byte, error) {
	amount, ok, err := l.CheckBuyerBalance(db, party)
	if err != nil || !ok {
		return nil, err
	}
	return Balance{Metadata: escrowd.Metadata{Schema: 1}, Amount: amount}.Marshal()
}

func statusOf(l *Ledger, db escrowd.ReadOnlyKVStore, party escrowd.Address) ([]byte, error) {
	status, err := l.DescribeStatus(db, party)
	if err != nil {
		return nil, err
	}
	return []byte(status), nil
}
