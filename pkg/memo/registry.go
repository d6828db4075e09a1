package memo

import "fmt"

// Registry bridges two call phases that share a key but not a call stack: a
// populate phase that computes and stores a result without needing it, and a
// later retrieve phase that fetches it.
//
// The typical shape is an override hook invoked by some framework (which
// calls [Registry.Populate] and returns control) and a downstream consumer
// (which calls [Registry.Retrieve] for the same key). Each key moves through
// a two-state lifecycle, empty then populated, enforced at the API boundary:
// retrieving a key that was never populated is a fatal usage error, not an
// empty result.
//
// A Registry is backed by a [Cache], so retrieved pointers are address-stable
// for the registry's lifetime. Like the caches, a Registry belongs to a
// single goroutine: the populate phase must have completed on the same
// goroutine before any retrieve for that key.
//
// The zero value is an empty registry ready for use.
type Registry[K comparable, V any] struct {
	cache Cache[K, V]
}

// Populate computes and stores the value for key, discarding the result.
//
// If key is already populated, compute is not invoked and the stored value
// is kept (first writer wins, matching [Cache.Get]).
func (r *Registry[K, V]) Populate(key K, compute func(K) V) {
	_ = r.cache.Get(key, compute)
}

// Retrieve returns the stable pointer stored for key by an earlier
// [Registry.Populate] call.
//
// Retrieving a key that was never populated is a contract violation and
// panics with a diagnostic naming the key. Use [Registry.Lookup] if absence
// is an expected condition.
func (r *Registry[K, V]) Retrieve(key K) *V {
	slot, ok := r.cache.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("memo: no value populated for key %v - did the populate hook run on this goroutine before Retrieve?", key))
	}

	return slot
}

// Lookup returns the stored pointer for key, or false if key was never
// populated.
func (r *Registry[K, V]) Lookup(key K) (*V, bool) {
	return r.cache.Lookup(key)
}

// Len returns the number of populated keys.
func (r *Registry[K, V]) Len() int {
	return r.cache.Len()
}

// Range calls fn for each populated key and stored pointer, in unspecified
// order. If fn returns false, iteration stops.
func (r *Registry[K, V]) Range(fn func(key K, value *V) bool) {
	r.cache.Range(fn)
}
