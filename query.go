package escrowd

import (
	"fmt"
)

// Query modes understood by bucket query handlers.
const (
	// KeyQueryMod returns the single entry stored under the key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every entry whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a single query result entry.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model for the key and its value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries against a read only view of the state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister installs the query handlers of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths, like /sale/status, to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register panics if the path is already taken. Routes are set up once at
// startup, so a collision is a wiring mistake.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q is already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler for the path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
