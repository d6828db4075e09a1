package memo_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/calvinalkan/memocache/pkg/memo"
)

func ExampleCache() {
	var cache memo.Cache[int, int]

	x := cache.Get(0, func(int) int { return 0 })
	y := cache.Get(1, func(int) int { return 1 })
	z := cache.Get(0, func(int) int { return 2 })

	fmt.Println(*x, *y, *z, x == z)
	// Output: 0 1 0 true
}

func Test_Get_Keeps_First_Value_When_Different_Compute_Supplied(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[int, int]

	x := cache.Get(0, func(int) int { return 0 })
	y := cache.Get(1, func(int) int { return 1 })
	z := cache.Get(0, func(int) int { return 2 })

	if got, want := *x, 0; got != want {
		t.Errorf("*x=%d, want=%d", got, want)
	}

	if got, want := *y, 1; got != want {
		t.Errorf("*y=%d, want=%d", got, want)
	}

	// First writer wins: the second compute for key 0 must not run.
	if got, want := *z, 0; got != want {
		t.Errorf("*z=%d, want=%d", got, want)
	}

	if x != z {
		t.Errorf("x=%p z=%p, want identical pointers for the same key", x, z)
	}
}

func Test_Get_Invokes_Compute_Exactly_Once_Per_Key(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[string, int]

	calls := map[string]int{}
	compute := func(key string) int {
		calls[key]++

		return len(key)
	}

	for range 5 {
		cache.Get("alpha", compute)
		cache.Get("beta", compute)
	}

	if got, want := calls["alpha"], 1; got != want {
		t.Errorf("compute calls for alpha=%d, want=%d", got, want)
	}

	if got, want := calls["beta"], 1; got != want {
		t.Errorf("compute calls for beta=%d, want=%d", got, want)
	}

	if got, want := cache.Len(), 2; got != want {
		t.Errorf("Len()=%d, want=%d", got, want)
	}
}

func Test_Get_Pointer_Stays_Valid_When_Cache_Grows(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[int, string]

	first := cache.Get(0, func(int) string { return "zero" })

	// Force plenty of internal map growth and rehashing.
	for i := 1; i <= 10_000; i++ {
		cache.Get(i, func(k int) string { return fmt.Sprintf("value-%d", k) })
	}

	if got, want := *first, "zero"; got != want {
		t.Errorf("*first=%q after growth, want=%q", got, want)
	}

	again := cache.Get(0, func(int) string { return "clobbered" })
	if first != again {
		t.Errorf("first=%p again=%p, want the same slot after growth", first, again)
	}
}

func Test_Get_Panics_When_Compute_Reenters_Same_Cache(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[int, int]

	expectPanic(t, "re-entrant", func() {
		cache.Get(0, func(int) int {
			// A re-entrant miss must fail fast, not hang or interleave
			// two pending inserts.
			return *cache.Get(0, func(int) int { return 1 })
		})
	})
}

func Test_Get_Allows_Cached_Key_Hit_From_Inside_Compute(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[int, int]

	cache.Get(1, func(int) int { return 10 })

	// Reading an already-cached key only takes a nested read borrow.
	got := cache.Get(2, func(int) int {
		inner := cache.Get(1, func(int) int {
			t.Error("compute ran for an already-cached key")

			return 0
		})

		return *inner + 1
	})

	if want := 11; *got != want {
		t.Errorf("*got=%d, want=%d", *got, want)
	}
}

func Test_Lookup_Reports_Presence_Without_Computing(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[string, int]

	if _, ok := cache.Lookup("missing"); ok {
		t.Error("Lookup on empty cache reported a hit")
	}

	stored := cache.Get("k", func(string) int { return 7 })

	found, ok := cache.Lookup("k")
	if !ok {
		t.Fatal("Lookup missed a stored key")
	}

	if found != stored {
		t.Errorf("Lookup=%p Get=%p, want identical pointers", found, stored)
	}
}

func Test_Range_Visits_All_Entries_And_Honors_Stop(t *testing.T) {
	t.Parallel()

	var cache memo.Cache[int, int]

	for i := range 4 {
		cache.Get(i, func(k int) int { return k * k })
	}

	seen := map[int]int{}
	cache.Range(func(key int, value *int) bool {
		seen[key] = *value

		return true
	})

	if got, want := len(seen), 4; got != want {
		t.Fatalf("visited %d entries, want %d", got, want)
	}

	for k, v := range seen {
		if v != k*k {
			t.Errorf("seen[%d]=%d, want=%d", k, v, k*k)
		}
	}

	visits := 0
	cache.Range(func(int, *int) bool {
		visits++

		return false
	})

	if got, want := visits, 1; got != want {
		t.Errorf("visits after stop=%d, want=%d", got, want)
	}
}

// expectPanic runs fn and fails the test unless it panics with a message
// containing wantSubstr.
func expectPanic(t *testing.T, wantSubstr string, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic, got none")
		}

		msg := fmt.Sprint(r)
		if !strings.Contains(msg, wantSubstr) {
			t.Fatalf("panic=%q, want it to contain %q", msg, wantSubstr)
		}
	}()

	fn()
}
