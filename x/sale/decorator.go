package sale

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// TerminationDecorator rejects every transaction once the contract settled.
type TerminationDecorator struct {
	ledger *Ledger
}

var _ escrowd.Decorator = TerminationDecorator{}

// NewTerminationDecorator returns a decorator guarding the given ledger.
func NewTerminationDecorator(ledger *Ledger) TerminationDecorator {
	return TerminationDecorator{ledger: ledger}
}

func (d TerminationDecorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	if err := d.ensureActive(db); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d TerminationDecorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	if err := d.ensureActive(db); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d TerminationDecorator) ensureActive(db escrowd.ReadOnlyKVStore) error {
	contract, err := d.ledger.Contract(db)
	if err != nil {
		return err
	}
	if contract != nil && contract.Terminated {
		return errors.Wrap(ErrTerminated, "no transaction accepted")
	}
	return nil
}
