package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/escrowd"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions. Signer and
// Signers are both considered, Signer being a shortcut for the common case
// of a single party.
type Auth struct {
	Signer  escrowd.Condition
	Signers []escrowd.Condition
}

func (a *Auth) GetConditions(escrowd.Context) []escrowd.Condition {
	if a.Signer != nil {
		return append([]escrowd.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions,
// so that a single handler instance can serve many callers in one test.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx escrowd.Context, conds ...escrowd.Condition) escrowd.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx escrowd.Context) []escrowd.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]escrowd.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []escrowd.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
