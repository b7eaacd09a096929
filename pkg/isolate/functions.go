package isolate

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrUnknownFunction = fmt.Errorf("unknown function")

// FunctionResolver maps function names to registered functions. Resolved
// names are kept in an LRU cache in front of the table.
type FunctionResolver struct {
	lock  sync.RWMutex
	table map[string]any

	cache  *lru.Cache[string, any]
	lookup func(name string) (any, bool)
}

func NewFunctionResolver(cacheSize int) (*FunctionResolver, error) {
	cache, err := lru.New[string, any](cacheSize)
	if err != nil {
		return nil, err
	}
	r := &FunctionResolver{table: make(map[string]any), cache: cache}
	r.lookup = r.find
	return r, nil
}

func (r *FunctionResolver) Register(name string, fn any) error {
	if name == "" || fn == nil {
		return fmt.Errorf("function name and value are required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.table[name]; ok {
		return fmt.Errorf("function %q already registered", name)
	}
	r.table[name] = fn
	return nil
}

func (r *FunctionResolver) Has(name string) bool {
	_, ok := r.find(name)
	return ok
}

func (r *FunctionResolver) Resolve(name string) (any, error) {
	if fn, ok := r.cache.Get(name); ok {
		return fn, nil
	}
	fn, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	r.cache.Add(name, fn)
	return fn, nil
}

func (r *FunctionResolver) find(name string) (any, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	fn, ok := r.table[name]
	return fn, ok
}
