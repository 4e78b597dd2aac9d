package sale

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

const (
	pathCreateMsg      = "sale/create"
	pathInsertAssetMsg = "sale/insert_asset"
	pathDepositMsg     = "sale/deposit"
	pathSettleMsg      = "sale/settle"
)

var (
	_ escrowd.Msg = (*CreateMsg)(nil)
	_ escrowd.Msg = (*InsertAssetMsg)(nil)
	_ escrowd.Msg = (*DepositMsg)(nil)
	_ escrowd.Msg = (*SettleMsg)(nil)
)

// CreateMsg constructs the contract. With an asset the signer becomes the
// seller and the asset its first listing, without one the contract starts
// empty.
type CreateMsg struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Asset    []byte           `json:"asset"`
	Price    uint64           `json:"price"`
}

// Path returns the routing path for this message.
func (CreateMsg) Path() string { return pathCreateMsg }

// Validate makes sure the asset id is valid if present. An empty contract
// cannot carry a price.
func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if len(m.Asset) == 0 {
		if m.Price != 0 {
			errs = errors.Append(errs, errors.Field("Price", errors.ErrInput, "price without an asset"))
		}
		return errs
	}
	return errors.AppendField(errs, "Asset", validateAsset(m.Asset))
}

// Empty returns true if this message creates a contract without a listing.
func (m *CreateMsg) Empty() bool {
	return len(m.Asset) == 0
}

func (m CreateMsg) Marshal() ([]byte, error) { return orm.Encode(m) }

func (m *CreateMsg) Unmarshal(raw []byte) error { return orm.Decode(raw, m) }

// InsertAssetMsg lists an asset for the signer.
type InsertAssetMsg struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Asset    []byte           `json:"asset"`
	Price    uint64           `json:"price"`
}

// Path returns the routing path for this message.
func (InsertAssetMsg) Path() string { return pathInsertAssetMsg }

func (m *InsertAssetMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Asset", validateAsset(m.Asset))
	return errs
}

func (m InsertAssetMsg) Marshal() ([]byte, error) { return orm.Encode(m) }

func (m *InsertAssetMsg) Unmarshal(raw []byte) error { return orm.Decode(raw, m) }

// DepositMsg adds funds to the buyer balance of the signer, to buy the
// asset listed by Target.
type DepositMsg struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Target   escrowd.Address  `json:"target"`
	Amount   uint64           `json:"amount"`
}

// Path returns the routing path for this message.
func (DepositMsg) Path() string { return pathDepositMsg }

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Target", m.Target.Validate())
	return errs
}

func (m DepositMsg) Marshal() ([]byte, error) { return orm.Encode(m) }

func (m *DepositMsg) Unmarshal(raw []byte) error { return orm.Decode(raw, m) }

// SettleMsg is sent by the seller to exchange its listing for the buyer
// fund of Target.
type SettleMsg struct {
	Metadata escrowd.Metadata `json:"metadata"`
	Target   escrowd.Address  `json:"target"`
}

// Path returns the routing path for this message.
func (SettleMsg) Path() string { return pathSettleMsg }

func (m *SettleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Target", m.Target.Validate())
	return errs
}

func (m SettleMsg) Marshal() ([]byte, error) { return orm.Encode(m) }

func (m *SettleMsg) Unmarshal(raw []byte) error { return orm.Decode(raw, m) }
