package sale

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createCost      int64 = 200
	insertAssetCost int64 = 100
	depositCost     int64 = 50
	settleCost      int64 = 300
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r escrowd.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, ledger: ledger})
	r.Handle(&InsertAssetMsg{}, InsertAssetHandler{auth: auth, ledger: ledger})
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, ledger: ledger})
	r.Handle(&SettleMsg{}, SettleHandler{auth: auth, ledger: ledger})
}

// caller returns the address of the main signer.
func caller(ctx escrowd.Context, auth x.Authenticator) (escrowd.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

// CreateHandler constructs the contract.
type CreateHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ escrowd.Handler = CreateHandler{}

// Check validates the construction without writing.
func (h CreateHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.plan(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: createCost}, nil
}

// Deliver constructs the contract.
func (h CreateHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	plan, err := h.plan(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(db); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{}, nil
}

func (h CreateHandler) plan(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*Plan, error) {
	var msg CreateMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if msg.Empty() {
		return h.ledger.PlanCreateEmpty(db)
	}
	seller, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	return h.ledger.PlanCreateWithListing(db, seller, msg.Asset, msg.Price)
}

// InsertAssetHandler lists an asset for the signer.
type InsertAssetHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ escrowd.Handler = InsertAssetHandler{}

func (h InsertAssetHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.plan(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: insertAssetCost}, nil
}

func (h InsertAssetHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	plan, err := h.plan(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(db); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{}, nil
}

func (h InsertAssetHandler) plan(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*Plan, error) {
	var msg InsertAssetMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	seller, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	return h.ledger.PlanInsertAsset(db, seller, msg.Asset, msg.Price)
}

// DepositHandler adds funds to the buyer balance of the signer.
type DepositHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ escrowd.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.plan(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	plan, err := h.plan(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(db); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{}, nil
}

func (h DepositHandler) plan(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*Plan, error) {
	var msg DepositMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	buyer, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	return h.ledger.PlanDepositFunds(db, buyer, msg.Target, msg.Amount)
}

// SettleHandler exchanges the signer listing for the target buyer fund and
// terminates the contract.
type SettleHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ escrowd.Handler = SettleHandler{}

func (h SettleHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, _, err := h.plan(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: settleCost}, nil
}

// Deliver settles and returns the serialized holding of the buyer.
func (h SettleHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	plan, holding, msg, err := h.plan(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(db); err != nil {
		return nil, err
	}
	seller, _ := caller(ctx, h.auth)

	raw, err := holding.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "holding")
	}
	escrowd.GetLogger(ctx).Info("contract settled and terminated",
		"seller", seller.String(),
		"buyer", msg.Target.String(),
		"price", holding.Price)

	res := &escrowd.DeliverResult{
		Data: raw,
		Log:  "settled",
		Tags: []common.KVPair{
			{Key: []byte("seller"), Value: []byte(seller.String())},
			{Key: []byte("buyer"), Value: []byte(msg.Target.String())},
		},
	}
	return res, nil
}

func (h SettleHandler) plan(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*Plan, *Holding, *SettleMsg, error) {
	var msg SettleMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	seller, err := caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	plan, holding, err := h.ledger.PlanSettle(db, seller, msg.Target)
	if err != nil {
		return nil, nil, nil, err
	}
	return plan, holding, &msg, nil
}
