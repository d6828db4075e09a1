// Package memo provides insert-only memoization caches keyed by comparable
// values.
//
// Two cache variants exist:
//
//   - [Cache] stores each value behind its own heap allocation and returns
//     pointers that stay valid, and address-stable, for the cache's lifetime.
//     Use it when callers hold on to results or when copying is expensive.
//   - [ValueCache] stores values inline and returns copies. Use it for small,
//     cheaply copyable results.
//
// [Registry] layers a two-phase populate/retrieve protocol on top of [Cache]
// for pipelines where the code that produces a result and the code that
// consumes it do not share a call stack.
//
// # Basic Usage
//
//	var cache memo.Cache[string, Result]
//
//	r := cache.Get("item", func(key string) Result {
//	    return expensiveComputation(key)
//	})
//
// The compute function runs at most once per distinct key. Later Get calls
// with the same key return the stored result and ignore the compute function
// they were given, even if it differs from the first one.
//
// # Concurrency
//
// A cache belongs to a single goroutine. Caches do no locking; instead every
// operation takes a checked borrow on the internal map, and a conflicting
// borrow panics immediately. In particular, a compute function that calls
// back into the same cache panics instead of deadlocking or corrupting the
// map. This is a programming error, not a recoverable condition.
//
// Callers that need to share one logical cache across goroutines must add
// their own synchronization on top.
package memo
