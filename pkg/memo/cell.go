package memo

// borrowCell enforces the single-writer discipline on a cache's internal map.
//
// It is a checked-borrow primitive, not a lock. Caches are confined to one
// goroutine, so a conflicting borrow can only mean a re-entrant call (a
// compute function calling back into its own cache) or cross-goroutine
// misuse. Blocking would deadlock in the re-entrant case; the cell panics
// instead, at the moment of violation.
//
// Read borrows nest. A write borrow excludes all other borrows.
type borrowCell struct {
	reads  int
	writer string // active write operation, empty if none
}

func (c *borrowCell) beginRead() {
	if c.writer != "" {
		panic("memo: read access during " + c.writer + " on the same cache (re-entrant call from inside compute?)")
	}

	c.reads++
}

func (c *borrowCell) endRead() {
	c.reads--
}

// beginWrite acquires the exclusive write borrow. op names the operation and
// its key so the panic identifies the offending call, e.g. `insert("k")`.
func (c *borrowCell) beginWrite(op string) {
	if c.writer != "" {
		panic("memo: " + op + " during " + c.writer + " on the same cache (re-entrant call from inside compute?)")
	}

	if c.reads > 0 {
		panic("memo: " + op + " while the same cache is being read (re-entrant Get from inside compute?)")
	}

	c.writer = op
}

func (c *borrowCell) endWrite() {
	c.writer = ""
}
