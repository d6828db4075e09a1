package memo

import "fmt"

// ValueCache is an insert-only memoization cache for cheaply copyable
// results. Get returns a copy of the stored value, so no pointer-validity
// concerns apply and no per-value allocation is made.
//
// Unlike [Cache], the presence check and the insert happen inside a single
// write borrow, so any re-entrant access from compute panics immediately.
//
// The zero value is an empty cache ready for use. A ValueCache belongs to a
// single goroutine (see the package documentation).
type ValueCache[K comparable, V any] struct {
	cell    borrowCell
	entries map[K]V
}

// Get returns a copy of the cached value for key, or runs compute and
// stores its result if key is not in the cache.
//
// The contract matches [Cache.Get]: compute runs at most once per distinct
// key, and the first writer wins.
func (c *ValueCache[K, V]) Get(key K, compute func(K) V) V {
	c.cell.beginWrite(fmt.Sprintf("get(%v)", key))
	defer c.cell.endWrite()

	if value, ok := c.entries[key]; ok {
		return value
	}

	value := compute(key)

	if c.entries == nil {
		c.entries = make(map[K]V)
	}

	c.entries[key] = value

	return value
}

// Lookup returns a copy of the stored value for key. The second result is
// false if key has never been inserted.
func (c *ValueCache[K, V]) Lookup(key K) (V, bool) {
	c.cell.beginRead()
	value, ok := c.entries[key]
	c.cell.endRead()

	return value, ok
}

// Len returns the number of keys currently stored.
func (c *ValueCache[K, V]) Len() int {
	c.cell.beginRead()
	n := len(c.entries)
	c.cell.endRead()

	return n
}
