package weavetest

import "github.com/iov-one/escrowd"

// Handler is a mock implementation of the escrowd.Handler interface that
// counts its calls and returns preset results.
type Handler struct {
	checkCall   int
	CheckResult escrowd.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult escrowd.DeliverResult
	DeliverErr    error
}

var _ escrowd.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes Key=Value into the store on every call and then
// returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ escrowd.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &escrowd.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &escrowd.DeliverResult{}, nil
}

// PanicHandler panics with Msg on every call.
type PanicHandler struct {
	Msg string
}

var _ escrowd.Handler = PanicHandler{}

func (h PanicHandler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	panic(h.Msg)
}
