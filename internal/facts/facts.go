// Package facts extracts per-file facts and memoizes them through a
// populate/retrieve registry.
//
// The package demonstrates the two-phase bridge from [memo.Registry]: an
// extraction hook populates the registry as a side effect and returns
// control, and a separate entry point retrieves the stored facts later.
// The producer and the consumer share only the file path as a key, not a
// call stack.
package facts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/memocache/pkg/memo"
)

// FileFacts holds everything the analyzer knows about one file.
type FileFacts struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Lines  int    `json:"lines"`
	SHA256 string `json:"sha256"`
}

// Analyzer owns a registry of per-file facts, keyed by cleaned path.
//
// Like the registry backing it, an Analyzer belongs to a single goroutine.
// Facts pointers returned by [Analyzer.Facts] stay valid for the analyzer's
// lifetime.
type Analyzer struct {
	registry memo.Registry[string, FileFacts]
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Key returns the registry key for path.
func Key(path string) string {
	return filepath.Clean(path)
}

// Hook returns the populate-phase callback. It reads the file, extracts its
// facts and stores them under the file's key, discarding the result. The
// facts become available to [Analyzer.Facts] afterwards.
//
// Running the hook twice for the same path keeps the first extraction.
func (a *Analyzer) Hook() func(path string) error {
	return func(path string) error {
		key := Key(path)

		// Read before populating so an I/O failure surfaces as an error
		// instead of poisoning the registry.
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		a.registry.Populate(key, func(string) FileFacts {
			return extract(key, data, info.Size())
		})

		return nil
	}
}

// Facts returns the facts stored for path by an earlier hook invocation.
//
// Calling Facts for a path the hook never ran on is a contract violation
// and panics with a diagnostic naming the path. Use [Analyzer.Lookup] when
// absence is expected.
func (a *Analyzer) Facts(path string) *FileFacts {
	return a.registry.Retrieve(Key(path))
}

// Lookup returns the stored facts for path, or false if the hook has not
// run for it.
func (a *Analyzer) Lookup(path string) (*FileFacts, bool) {
	return a.registry.Lookup(Key(path))
}

// Len returns the number of analyzed files.
func (a *Analyzer) Len() int {
	return a.registry.Len()
}

// Range calls fn for each analyzed file, in unspecified order. If fn
// returns false, iteration stops.
func (a *Analyzer) Range(fn func(key string, f *FileFacts) bool) {
	a.registry.Range(fn)
}

func extract(key string, data []byte, size int64) FileFacts {
	lines := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		lines++
	}

	sum := sha256.Sum256(data)

	return FileFacts{
		Path:   key,
		Size:   size,
		Lines:  lines,
		SHA256: hex.EncodeToString(sum[:]),
	}
}
