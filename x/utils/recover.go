package utils

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Recovery turns a panic of any following handler into an ErrPanic error.
// The panic is logged with the request logger before it is returned.
type Recovery struct{}

var _ escrowd.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (_ *escrowd.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (_ *escrowd.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

func logPanic(ctx escrowd.Context, err *error) {
	if errors.ErrPanic.Is(*err) {
		escrowd.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
