package app

import (
	"reflect"

	"github.com/iov-one/escrowd"
)

// Decorators is an ordered decorator stack waiting for its final handler.
// The first decorator sees a transaction first.
type Decorators struct {
	chain []escrowd.Decorator
}

// ChainDecorators starts a stack. Nil decorators are skipped, so optional
// layers can be passed as nil.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
func ChainDecorators(chain ...escrowd.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with the decorators appended at the bottom.
func (d Decorators) Chain(chain ...escrowd.Decorator) Decorators {
	all := make([]escrowd.Decorator, 0, len(d.chain)+len(chain))
	all = append(all, d.chain...)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			all = append(all, dec)
		}
	}
	return Decorators{chain: all}
}

func isNilDecorator(d escrowd.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h escrowd.Handler) escrowd.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{dec: d.chain[i], next: h}
	}
	return h
}

// decorated runs one decorator in front of the rest of the stack.
type decorated struct {
	dec  escrowd.Decorator
	next escrowd.Handler
}

var _ escrowd.Handler = decorated{}

func (s decorated) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s decorated) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}
