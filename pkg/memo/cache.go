package memo

import "fmt"

// Cache is an insert-only memoization cache that hands out stable pointers.
//
// Each value is stored behind its own heap allocation, so the internal map
// may grow and rehash freely without moving payloads. A pointer returned by
// [Cache.Get] therefore stays valid, and keeps its address, for as long as
// the cache itself is reachable - later inserts of other keys never
// invalidate it.
//
// Keys are never removed or overwritten. Two Get calls with the same key
// return the identical pointer, not merely equal values.
//
// The zero value is an empty cache ready for use. A Cache must not be
// copied after first use and belongs to a single goroutine (see the package
// documentation).
type Cache[K comparable, V any] struct {
	cell  borrowCell
	slots map[K]*V
}

// Get returns the cached value for key, or runs compute and stores its
// result if key is not in the cache.
//
// compute runs at most once per distinct key for the lifetime of the cache.
// If key is already present, compute is not invoked - even if it differs
// from the function supplied on first insertion. The cache is keyed purely
// by key; the first writer wins, silently.
//
// compute must not call back into the same cache for a key that is not
// already cached; doing so panics (see the package documentation).
func (c *Cache[K, V]) Get(key K, compute func(K) V) *V {
	if slot, ok := c.Lookup(key); ok {
		return slot
	}

	value := c.computeUnderRead(key, compute)

	c.insert(key, value)

	slot, _ := c.Lookup(key)

	return slot
}

// computeUnderRead runs compute while holding a read borrow, so that a
// re-entrant miss on this cache trips the cell at its insert instead of
// interleaving two pending inserts. The borrow is released even if compute
// panics.
func (c *Cache[K, V]) computeUnderRead(key K, compute func(K) V) V {
	c.cell.beginRead()
	defer c.cell.endRead()

	return compute(key)
}

func (c *Cache[K, V]) insert(key K, value V) {
	c.cell.beginWrite(fmt.Sprintf("insert(%v)", key))
	defer c.cell.endWrite()

	if c.slots == nil {
		c.slots = make(map[K]*V)
	}

	// Re-check before storing: a key may only ever be written once.
	if _, ok := c.slots[key]; !ok {
		c.slots[key] = &value
	}
}

// Lookup returns the stored pointer for key without computing anything.
// The second result is false if key has never been inserted.
func (c *Cache[K, V]) Lookup(key K) (*V, bool) {
	c.cell.beginRead()
	slot, ok := c.slots[key]
	c.cell.endRead()

	return slot, ok
}

// Len returns the number of keys currently stored.
func (c *Cache[K, V]) Len() int {
	c.cell.beginRead()
	n := len(c.slots)
	c.cell.endRead()

	return n
}

// Range calls fn for each key and stored pointer, in unspecified order.
// If fn returns false, iteration stops.
//
// fn runs under a read borrow: it may call [Cache.Lookup] or hit cached
// keys via [Cache.Get], but inserting into the same cache panics.
func (c *Cache[K, V]) Range(fn func(key K, value *V) bool) {
	c.cell.beginRead()
	defer c.cell.endRead()

	for k, v := range c.slots {
		if !fn(k, v) {
			return
		}
	}
}
