package memo_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/memocache/pkg/memo"
)

func ExampleValueCache() {
	var cache memo.ValueCache[string, int]

	a := cache.Get("key", func(k string) int { return len(k) })
	b := cache.Get("key", func(string) int { return -1 })

	fmt.Println(a, b)
	// Output: 3 3
}

func Test_ValueCache_Get_Invokes_Compute_Exactly_Once_Per_Key(t *testing.T) {
	t.Parallel()

	var cache memo.ValueCache[int, int]

	calls := 0
	compute := func(k int) int {
		calls++

		return k * 10
	}

	for range 3 {
		if got, want := cache.Get(4, compute), 40; got != want {
			t.Errorf("Get(4)=%d, want=%d", got, want)
		}
	}

	if got, want := calls, 1; got != want {
		t.Errorf("compute calls=%d, want=%d", got, want)
	}
}

func Test_ValueCache_Get_Keeps_First_Value_When_Different_Compute_Supplied(t *testing.T) {
	t.Parallel()

	var cache memo.ValueCache[int, int]

	first := cache.Get(0, func(int) int { return 0 })
	second := cache.Get(0, func(int) int { return 2 })

	if got, want := first, 0; got != want {
		t.Errorf("first=%d, want=%d", got, want)
	}

	if got, want := second, 0; got != want {
		t.Errorf("second=%d, want=%d", got, want)
	}
}

func Test_ValueCache_Get_Returns_Independent_Copies(t *testing.T) {
	t.Parallel()

	type point struct{ X, Y int }

	var cache memo.ValueCache[string, point]

	a := cache.Get("p", func(string) point { return point{X: 1, Y: 2} })
	a.X = 99

	b := cache.Get("p", func(string) point { return point{} })

	if diff := cmp.Diff(point{X: 1, Y: 2}, b); diff != "" {
		t.Errorf("stored value changed through a returned copy (-want +got):\n%s", diff)
	}
}

func Test_ValueCache_Get_Panics_When_Compute_Reenters_Same_Cache(t *testing.T) {
	t.Parallel()

	var cache memo.ValueCache[int, int]

	// The presence check and insert share one write borrow, so any
	// re-entrant access faults, cached key or not.
	expectPanic(t, "re-entrant", func() {
		cache.Get(0, func(int) int {
			return cache.Get(1, func(int) int { return 1 })
		})
	})
}

func Test_ValueCache_Lookup_And_Len_Report_Stored_Entries(t *testing.T) {
	t.Parallel()

	var cache memo.ValueCache[string, string]

	if got, want := cache.Len(), 0; got != want {
		t.Errorf("Len()=%d, want=%d", got, want)
	}

	cache.Get("a", func(string) string { return "A" })
	cache.Get("b", func(string) string { return "B" })

	if got, want := cache.Len(), 2; got != want {
		t.Errorf("Len()=%d, want=%d", got, want)
	}

	v, ok := cache.Lookup("a")
	if !ok || v != "A" {
		t.Errorf("Lookup(a)=(%q, %v), want=(%q, true)", v, ok, "A")
	}

	if _, ok := cache.Lookup("missing"); ok {
		t.Error("Lookup reported a hit for a missing key")
	}
}
