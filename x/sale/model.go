package sale

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// AssetIDLength is the size of an asset content identifier.
const AssetIDLength = 32

// contractKey is the only key of the contract bucket.
var contractKey = []byte("escrow")

// Listing is an asset a seller offers at a fixed price.
type Listing struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Asset    []byte           `json:"asset"`
	Price    uint64           `json:"price"`
}

var _ orm.CloneableData = (*Listing)(nil)

// Validate ensures the asset id has the right length.
func (l *Listing) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", l.Metadata.Validate())
	errs = errors.AppendField(errs, "Asset", validateAsset(l.Asset))
	return errs
}

// Copy makes a deep copy of the listing.
func (l *Listing) Copy() orm.CloneableData {
	return &Listing{
		Metadata: l.Metadata.Copy(),
		Asset:    append([]byte(nil), l.Asset...),
		Price:    l.Price,
	}
}

func (l Listing) Marshal() ([]byte, error) { return orm.Encode(l) }

func (l *Listing) Unmarshal(raw []byte) error { return orm.Decode(raw, l) }

// Holding is what a buyer received on settlement. It has the same shape as
// a listing.
type Holding = Listing

// Balance is the fund a party holds in one role.
type Balance struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Amount   uint64           `json:"amount"`
}

var _ orm.CloneableData = (*Balance)(nil)

// Validate checks the metadata. Amounts are unsigned, so never negative.
func (b *Balance) Validate() error {
	return errors.Field("Metadata", b.Metadata.Validate(), "")
}

// Copy makes a copy of the balance.
func (b *Balance) Copy() orm.CloneableData {
	cpy := *b
	return &cpy
}

func (b Balance) Marshal() ([]byte, error) { return orm.Encode(b) }

func (b *Balance) Unmarshal(raw []byte) error { return orm.Decode(raw, b) }

// Contract keeps the roles and the construction terms of the sale.
type Contract struct {
	Metadata escrowd.Metadata `json:"metadata"`
	// Seller is empty until a listing is created.
	Seller escrowd.Address `json:"seller"`
	// Buyer is the party that deposited last.
	Buyer      escrowd.Address `json:"buyer"`
	Asset      []byte          `json:"asset"`
	Price      uint64          `json:"price"`
	Terminated bool            `json:"terminated"`
}

var _ orm.CloneableData = (*Contract)(nil)

// Validate checks the roles, if set, and the construction terms.
func (c *Contract) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.Seller) != 0 {
		errs = errors.AppendField(errs, "Seller", c.Seller.Validate())
	}
	if len(c.Buyer) != 0 {
		errs = errors.AppendField(errs, "Buyer", c.Buyer.Validate())
	}
	if len(c.Asset) != 0 {
		errs = errors.AppendField(errs, "Asset", validateAsset(c.Asset))
	}
	return errs
}

// Copy makes a deep copy of the contract.
func (c *Contract) Copy() orm.CloneableData {
	return &Contract{
		Metadata:   c.Metadata.Copy(),
		Seller:     c.Seller.Clone(),
		Buyer:      c.Buyer.Clone(),
		Asset:      append([]byte(nil), c.Asset...),
		Price:      c.Price,
		Terminated: c.Terminated,
	}
}

func (c Contract) Marshal() ([]byte, error) { return orm.Encode(c) }

func (c *Contract) Unmarshal(raw []byte) error { return orm.Decode(raw, c) }

// IsSeller returns true if the seller is set and equal to party.
func (c *Contract) IsSeller(party escrowd.Address) bool {
	return len(c.Seller) != 0 && c.Seller.Equals(party)
}

// IsBuyer returns true if the buyer slot is set and equal to party.
func (c *Contract) IsBuyer(party escrowd.Address) bool {
	return len(c.Buyer) != 0 && c.Buyer.Equals(party)
}

func validateAsset(asset []byte) error {
	if len(asset) != AssetIDLength {
		return errors.Wrapf(errors.ErrInput, "asset id must be %d bytes, got %d", AssetIDLength, len(asset))
	}
	return nil
}

// ContractBucket stores the single contract record.
type ContractBucket struct {
	orm.Bucket
}

// NewContractBucket initializes the contract bucket.
func NewContractBucket() ContractBucket {
	return ContractBucket{
		Bucket: orm.NewBucket(contractBucketName, orm.NewSimpleObj(nil, &Contract{})),
	}
}

// Load returns the contract record, or nil if it was never created.
func (b ContractBucket) Load(db escrowd.ReadOnlyKVStore) (*Contract, error) {
	obj, err := b.Get(db, contractKey)
	if err != nil || obj == nil {
		return nil, err
	}
	c, ok := obj.Value().(*Contract)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return c, nil
}

// Store writes the contract record.
func (b ContractBucket) Store(db escrowd.KVStore, c *Contract) error {
	return b.Save(db, orm.NewSimpleObj(contractKey, c))
}

// ListingBucket stores listings keyed by the owner address. Used both for
// seller listings and for buyer holdings.
type ListingBucket struct {
	orm.Bucket
}

// NewListingBucket initializes a listing bucket under the given name.
func NewListingBucket(name string) ListingBucket {
	return ListingBucket{
		Bucket: orm.NewBucket(name, orm.NewSimpleObj(nil, &Listing{})),
	}
}

// Load returns the listing of the party, or nil.
func (b ListingBucket) Load(db escrowd.ReadOnlyKVStore, party escrowd.Address) (*Listing, error) {
	obj, err := b.Get(db, party)
	if err != nil || obj == nil {
		return nil, err
	}
	l, ok := obj.Value().(*Listing)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return l, nil
}

// Store writes the listing of the party.
func (b ListingBucket) Store(db escrowd.KVStore, party escrowd.Address, l *Listing) error {
	return b.Save(db, orm.NewSimpleObj(party, l))
}

// BalanceBucket stores balances keyed by the owner address.
type BalanceBucket struct {
	orm.Bucket
}

// NewBalanceBucket initializes a balance bucket under the given name.
func NewBalanceBucket(name string) BalanceBucket {
	return BalanceBucket{
		Bucket: orm.NewBucket(name, orm.NewSimpleObj(nil, &Balance{})),
	}
}

// Load returns the balance of the party, or nil if there is no entry.
func (b BalanceBucket) Load(db escrowd.ReadOnlyKVStore, party escrowd.Address) (*Balance, error) {
	obj, err := b.Get(db, party)
	if err != nil || obj == nil {
		return nil, err
	}
	bal, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return bal, nil
}

// Store writes the balance of the party.
func (b BalanceBucket) Store(db escrowd.KVStore, party escrowd.Address, amount uint64) error {
	bal := &Balance{Metadata: escrowd.Metadata{Schema: 1}, Amount: amount}
	return b.Save(db, orm.NewSimpleObj(party, bal))
}
