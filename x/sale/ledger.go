package sale

import (
	"fmt"
	"math"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

const (
	contractBucketName   = "contract"
	listingBucketName    = "listing"
	sellerFundBucketName = "sfund"
	buyerFundBucketName  = "bfund"
	holdingBucketName    = "holding"
)

// Ledger is the escrow state machine. It holds no state itself, all tables
// live in the store passed to every call. The caller of every operation is
// an explicit argument and must come from verified signatures.
type Ledger struct {
	contracts   ContractBucket
	listings    ListingBucket
	sellerFunds BalanceBucket
	buyerFunds  BalanceBucket
	holdings    ListingBucket
}

// NewLedger returns a ledger operating on the escrow buckets.
func NewLedger() *Ledger {
	return &Ledger{
		contracts:   NewContractBucket(),
		listings:    NewListingBucket(listingBucketName),
		sellerFunds: NewBalanceBucket(sellerFundBucketName),
		buyerFunds:  NewBalanceBucket(buyerFundBucketName),
		holdings:    NewListingBucket(holdingBucketName),
	}
}

// Plan is a list of writes produced by a fully validated operation. Nothing
// touches the store until Apply is called.
type Plan struct {
	steps []step
}

type step struct {
	desc  string
	write func(escrowd.KVStore) error
}

func (p *Plan) add(desc string, write func(escrowd.KVStore) error) {
	p.steps = append(p.steps, step{desc: desc, write: write})
}

// Len returns the number of planned writes.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Apply performs all planned writes. If the store can be cache wrapped,
// the writes are staged and flushed together, a failing write discards all
// of them.
func (p *Plan) Apply(db escrowd.KVStore) error {
	cacheable, ok := db.(escrowd.CacheableKVStore)
	if !ok {
		return p.run(db)
	}
	cache := cacheable.CacheWrap()
	if err := p.run(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		cache.Discard()
		return errors.Wrap(err, "flush plan")
	}
	return nil
}

func (p *Plan) run(db escrowd.KVStore) error {
	for _, s := range p.steps {
		if err := s.write(db); err != nil {
			return errors.Wrap(err, s.desc)
		}
	}
	return nil
}

// CreateWithListing builds a contract with the caller as the seller and the
// given asset as its first listing.
func (l *Ledger) CreateWithListing(db escrowd.KVStore, caller escrowd.Address, asset []byte, price uint64) error {
	plan, err := l.PlanCreateWithListing(db, caller, asset, price)
	if err != nil {
		return err
	}
	return plan.Apply(db)
}

// PlanCreateWithListing validates CreateWithListing.
func (l *Ledger) PlanCreateWithListing(db escrowd.ReadOnlyKVStore, caller escrowd.Address, asset []byte, price uint64) (*Plan, error) {
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(err, "seller")
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}
	if err := l.ensureNotCreated(db); err != nil {
		return nil, err
	}

	contract := &Contract{
		Metadata: escrowd.Metadata{Schema: 1},
		Seller:   caller.Clone(),
		Asset:    append([]byte(nil), asset...),
		Price:    price,
	}
	listing := newListing(asset, price)

	var plan Plan
	plan.add("store contract", func(db escrowd.KVStore) error {
		return l.contracts.Store(db, contract)
	})
	plan.add("store listing", func(db escrowd.KVStore) error {
		return l.listings.Store(db, contract.Seller, listing)
	})
	return &plan, nil
}

// CreateEmpty builds a contract with zero terms and no seller.
func (l *Ledger) CreateEmpty(db escrowd.KVStore) error {
	plan, err := l.PlanCreateEmpty(db)
	if err != nil {
		return err
	}
	return plan.Apply(db)
}

// PlanCreateEmpty validates CreateEmpty.
func (l *Ledger) PlanCreateEmpty(db escrowd.ReadOnlyKVStore) (*Plan, error) {
	if err := l.ensureNotCreated(db); err != nil {
		return nil, err
	}
	contract := &Contract{Metadata: escrowd.Metadata{Schema: 1}}

	var plan Plan
	plan.add("store contract", func(db escrowd.KVStore) error {
		return l.contracts.Store(db, contract)
	})
	return &plan, nil
}

// InsertAsset installs a listing for the caller. A contract without a seller
// takes the caller as its seller.
func (l *Ledger) InsertAsset(db escrowd.KVStore, caller escrowd.Address, asset []byte, price uint64) error {
	plan, err := l.PlanInsertAsset(db, caller, asset, price)
	if err != nil {
		return err
	}
	return plan.Apply(db)
}

// PlanInsertAsset validates InsertAsset.
func (l *Ledger) PlanInsertAsset(db escrowd.ReadOnlyKVStore, caller escrowd.Address, asset []byte, price uint64) (*Plan, error) {
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(err, "caller")
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}
	contract, err := l.loadActive(db)
	if err != nil {
		return nil, err
	}
	if len(contract.Seller) != 0 && !contract.IsSeller(caller) {
		return nil, errors.Wrapf(ErrNotSeller, "seller is %s", contract.Seller)
	}
	current, err := l.listings.Load(db, caller)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, errors.Wrapf(ErrAssetAlreadyListed, "current asset %X", current.Asset)
	}

	var plan Plan
	if len(contract.Seller) == 0 {
		updated := contract.Copy().(*Contract)
		updated.Seller = caller.Clone()
		plan.add("store contract", func(db escrowd.KVStore) error {
			return l.contracts.Store(db, updated)
		})
	}
	listing := newListing(asset, price)
	owner := caller.Clone()
	plan.add("store listing", func(db escrowd.KVStore) error {
		return l.listings.Store(db, owner, listing)
	})
	return &plan, nil
}

// DepositFunds adds amount to the buyer balance of the caller, who becomes
// the current buyer. Target is the seller the caller wants to buy from.
func (l *Ledger) DepositFunds(db escrowd.KVStore, caller, target escrowd.Address, amount uint64) error {
	plan, err := l.PlanDepositFunds(db, caller, target, amount)
	if err != nil {
		return err
	}
	return plan.Apply(db)
}

// PlanDepositFunds validates DepositFunds. All preconditions are checked
// before the new balance is computed.
func (l *Ledger) PlanDepositFunds(db escrowd.ReadOnlyKVStore, caller, target escrowd.Address, amount uint64) (*Plan, error) {
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(err, "caller")
	}
	if err := target.Validate(); err != nil {
		return nil, errors.Wrap(err, "target")
	}
	contract, err := l.loadActive(db)
	if err != nil {
		return nil, err
	}
	if caller.Equals(target) {
		return nil, errors.Wrap(ErrSelfTrade, "cannot buy own asset")
	}
	if contract.IsSeller(caller) {
		return nil, errors.Wrap(ErrSellerCannotDeposit, "seller cannot buy")
	}
	listing, err := l.listings.Load(db, target)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, errors.Wrapf(ErrNoListing, "target %s", target)
	}

	var balance uint64
	current, err := l.buyerFunds.Load(db, caller)
	if err != nil {
		return nil, err
	}
	if current != nil {
		balance = current.Amount
	}
	if amount > math.MaxUint64-balance {
		return nil, errors.Wrapf(errors.ErrOverflow, "balance %d plus deposit %d", balance, amount)
	}
	balance += amount

	updated := contract.Copy().(*Contract)
	updated.Buyer = caller.Clone()
	buyer := updated.Buyer

	var plan Plan
	plan.add("store buyer fund", func(db escrowd.KVStore) error {
		return l.buyerFunds.Store(db, buyer, balance)
	})
	plan.add("store contract", func(db escrowd.KVStore) error {
		return l.contracts.Store(db, updated)
	})
	return &plan, nil
}

// Settle exchanges the caller listing for the buyer fund of the target and
// terminates the contract. The holding given to the target is returned.
func (l *Ledger) Settle(db escrowd.KVStore, caller, target escrowd.Address) (*Holding, error) {
	plan, holding, err := l.PlanSettle(db, caller, target)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(db); err != nil {
		return nil, err
	}
	return holding, nil
}

// PlanSettle validates Settle and returns the holding the target will
// receive.
func (l *Ledger) PlanSettle(db escrowd.ReadOnlyKVStore, caller, target escrowd.Address) (*Plan, *Holding, error) {
	if err := caller.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "caller")
	}
	if err := target.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "target")
	}
	contract, err := l.loadActive(db)
	if err != nil {
		return nil, nil, err
	}
	listing, err := l.listings.Load(db, caller)
	if err != nil {
		return nil, nil, err
	}
	fund, err := l.buyerFunds.Load(db, target)
	if err != nil {
		return nil, nil, err
	}
	if listing == nil || fund == nil {
		return nil, nil, errors.Wrapf(ErrNoAssetOrFund, "seller listing %t, buyer fund %t", listing != nil, fund != nil)
	}
	if fund.Amount < listing.Price {
		return nil, nil, errors.Wrapf(ErrInsufficientFunds, "fund %d, price %d", fund.Amount, listing.Price)
	}
	change := fund.Amount - listing.Price

	holding := listing.Copy().(*Holding)
	terminated := contract.Copy().(*Contract)
	terminated.Terminated = true
	seller := caller.Clone()
	buyer := target.Clone()

	var plan Plan
	plan.add("store holding", func(db escrowd.KVStore) error {
		return l.holdings.Store(db, buyer, holding)
	})
	if change > 0 {
		plan.add("store buyer fund", func(db escrowd.KVStore) error {
			return l.buyerFunds.Store(db, buyer, change)
		})
	} else {
		plan.add("delete buyer fund", func(db escrowd.KVStore) error {
			return l.buyerFunds.Delete(db, buyer)
		})
	}
	plan.add("delete listing", func(db escrowd.KVStore) error {
		return l.listings.Delete(db, seller)
	})
	plan.add("store seller fund", func(db escrowd.KVStore) error {
		return l.sellerFunds.Store(db, seller, holding.Price)
	})
	plan.add("terminate contract", func(db escrowd.KVStore) error {
		return l.contracts.Store(db, terminated)
	})
	return &plan, holding, nil
}

// GetListing returns the listing of the party, or nil.
func (l *Ledger) GetListing(db escrowd.ReadOnlyKVStore, party escrowd.Address) (*Listing, error) {
	return l.listings.Load(db, party)
}

// GetHolding returns the asset the party received on settlement, or nil.
func (l *Ledger) GetHolding(db escrowd.ReadOnlyKVStore, party escrowd.Address) (*Holding, error) {
	return l.holdings.Load(db, party)
}

// CheckBuyerBalance returns the buyer fund of the party. The second value
// is false if the party has no buyer fund entry.
func (l *Ledger) CheckBuyerBalance(db escrowd.ReadOnlyKVStore, party escrowd.Address) (uint64, bool, error) {
	fund, err := l.buyerFunds.Load(db, party)
	if err != nil || fund == nil {
		return 0, false, err
	}
	return fund.Amount, true, nil
}

// SellerBalance returns the seller fund of the party, zero if missing.
func (l *Ledger) SellerBalance(db escrowd.ReadOnlyKVStore, party escrowd.Address) (uint64, error) {
	fund, err := l.sellerFunds.Load(db, party)
	if err != nil || fund == nil {
		return 0, err
	}
	return fund.Amount, nil
}

// Contract returns the contract record, or nil before construction.
func (l *Ledger) Contract(db escrowd.ReadOnlyKVStore) (*Contract, error) {
	return l.contracts.Load(db)
}

// DescribeStatus renders what the ledger knows about the party. The seller
// sees its listing and seller fund, the current buyer its holding and buyer
// fund. Anybody else gets "No data".
func (l *Ledger) DescribeStatus(db escrowd.ReadOnlyKVStore, party escrowd.Address) (string, error) {
	contract, err := l.contracts.Load(db)
	if err != nil {
		return "", err
	}
	switch {
	case contract == nil:
		return statusNoData, nil
	case contract.IsSeller(party):
		return l.status(db, party, l.listings, l.sellerFunds)
	case contract.IsBuyer(party):
		return l.status(db, party, l.holdings, l.buyerFunds)
	default:
		return statusNoData, nil
	}
}

const statusNoData = "No data"

func (l *Ledger) status(db escrowd.ReadOnlyKVStore, party escrowd.Address, items ListingBucket, funds BalanceBucket) (string, error) {
	item, err := items.Load(db, party)
	if err != nil {
		return "", err
	}
	var fund uint64
	bal, err := funds.Load(db, party)
	if err != nil {
		return "", err
	}
	if bal != nil {
		fund = bal.Amount
	}
	if item == nil {
		return fmt.Sprintf("No item data. Fund: %d", fund), nil
	}
	return fmt.Sprintf("Current item: %X. Current price: %d. Fund: %d", item.Asset, item.Price, fund), nil
}

// loadActive returns the contract if it exists and did not settle yet.
func (l *Ledger) loadActive(db escrowd.ReadOnlyKVStore) (*Contract, error) {
	contract, err := l.contracts.Load(db)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, errors.Wrap(ErrNotCreated, "no contract")
	}
	if contract.Terminated {
		return nil, errors.Wrap(ErrTerminated, "settled")
	}
	return contract, nil
}

func (l *Ledger) ensureNotCreated(db escrowd.ReadOnlyKVStore) error {
	contract, err := l.contracts.Load(db)
	if err != nil {
		return err
	}
	if contract == nil {
		return nil
	}
	if contract.Terminated {
		return errors.Wrap(ErrTerminated, "settled")
	}
	return errors.Wrap(ErrAlreadyCreated, "construction runs once")
}

func newListing(asset []byte, price uint64) *Listing {
	return &Listing{
		Metadata: escrowd.Metadata{Schema: 1},
		Asset:    append([]byte(nil), asset...),
		Price:    price,
	}
}
