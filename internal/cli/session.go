package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/calvinalkan/memocache/internal/facts"
	"github.com/calvinalkan/memocache/internal/flock"
	"github.com/calvinalkan/memocache/pkg/memo"
)

// session holds the caches a memoq invocation works against. One-shot
// commands and the REPL dispatch through the same session, so both paths
// exercise identical behavior.
type session struct {
	cfg      Config
	io       *IO
	analyzer *facts.Analyzer
	hook     func(path string) error

	// bulk holds synthetic uuid-keyed entries; values are the byte length
	// of the key, enough to show the compute-once behavior.
	bulk memo.ValueCache[string, int]
}

func newSession(cfg Config, out *IO) *session {
	analyzer := facts.NewAnalyzer()

	return &session{
		cfg:      cfg,
		io:       out,
		analyzer: analyzer,
		hook:     analyzer.Hook(),
	}
}

// dispatch executes one command. Returned errors are user-facing.
func (s *session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "get":
		return s.cmdGet(args)
	case "peek":
		return s.cmdPeek(args)
	case "keys":
		return s.cmdKeys()
	case "stats":
		return s.cmdStats()
	case "bulk":
		return s.cmdBulk(args)
	case "dump":
		return s.cmdDump(args)
	case "help", "?":
		s.printHelp()

		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

// resolve turns a user-supplied path into an absolute one under the
// configured root.
func (s *session) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(s.cfg.RootAbs, path)
}

// cmdGet analyzes each path (at most once, ever) and prints its facts.
func (s *session) cmdGet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: get <path>...", errMissingArg)
	}

	for _, arg := range args {
		path := s.resolve(arg)

		_, cached := s.analyzer.Lookup(path)

		if err := s.hook(path); err != nil {
			return err
		}

		f := s.analyzer.Facts(path)

		origin := "computed"
		if cached {
			origin = "cached"
		}

		s.io.Printf("%s (%s)\n", f.Path, origin)
		s.io.Printf("  size:   %d bytes\n", f.Size)
		s.io.Printf("  lines:  %d\n", f.Lines)
		s.io.Printf("  sha256: %s\n", f.SHA256)
	}

	return nil
}

// cmdPeek prints facts if present, without analyzing.
func (s *session) cmdPeek(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: peek <path>", errMissingArg)
	}

	path := s.resolve(args[0])

	f, ok := s.analyzer.Lookup(path)
	if !ok {
		s.io.Printf("not analyzed: %s\n", path)

		return nil
	}

	s.io.Printf("%s: %d bytes, %d lines, sha256=%s\n", f.Path, f.Size, f.Lines, f.SHA256)

	return nil
}

func (s *session) cmdKeys() error {
	keys := s.sortedKeys()

	for _, k := range keys {
		s.io.Println(k)
	}

	s.io.Printf("%d entries\n", len(keys))

	return nil
}

func (s *session) cmdStats() error {
	var totalBytes int64

	var totalLines int

	s.analyzer.Range(func(_ string, f *facts.FileFacts) bool {
		totalBytes += f.Size
		totalLines += f.Lines

		return true
	})

	s.io.Printf("files:        %d\n", s.analyzer.Len())
	s.io.Printf("total bytes:  %d\n", totalBytes)
	s.io.Printf("total lines:  %d\n", totalLines)
	s.io.Printf("bulk entries: %d\n", s.bulk.Len())

	return nil
}

// cmdBulk inserts n synthetic uuid-keyed entries through the value cache.
func (s *session) cmdBulk(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: bulk <count>", errMissingArg)
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid count: %s", args[0])
	}

	for range n {
		key := uuid.NewString()
		_ = s.bulk.Get(key, func(k string) int { return len(k) })
	}

	s.io.Printf("inserted %d entries (%d total)\n", n, s.bulk.Len())

	return nil
}

// cmdDump writes all collected facts to a JSON file, atomically and guarded
// by a lock file against concurrent memoq processes.
func (s *session) cmdDump(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: dump <file>", errMissingArg)
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.EffectiveCwd, path)
	}

	lock, err := flock.Acquire(path)
	if err != nil {
		if errors.Is(err, flock.ErrWouldBlock) {
			return fmt.Errorf("another memoq is writing %s, try again", path)
		}

		return err
	}

	defer func() { _ = lock.Close() }()

	report := make([]facts.FileFacts, 0, s.analyzer.Len())

	s.analyzer.Range(func(_ string, f *facts.FileFacts) bool {
		report = append(report, *f)

		return true
	})

	sort.Slice(report, func(i, j int) bool { return report[i].Path < report[j].Path })

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	data = append(data, '\n')

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	s.io.Printf("wrote %d entries to %s\n", len(report), path)

	return nil
}

func (s *session) sortedKeys() []string {
	keys := make([]string, 0, s.analyzer.Len())

	s.analyzer.Range(func(key string, _ *facts.FileFacts) bool {
		keys = append(keys, key)

		return true
	})

	sort.Strings(keys)

	return keys
}

func (s *session) printHelp() {
	s.io.Println("Commands:")
	s.io.Println("  get <path>...     Analyze files and print their facts (cached after first call)")
	s.io.Println("  peek <path>       Print facts if already analyzed, without analyzing")
	s.io.Println("  keys              List analyzed paths")
	s.io.Println("  stats             Show cache statistics")
	s.io.Println("  bulk <count>      Insert synthetic uuid-keyed entries into the value cache")
	s.io.Println("  dump <file>       Write all facts to a JSON file (atomic, lock-guarded)")
	s.io.Println("  help              Show this help")
	s.io.Println("  exit / quit / q   Exit the REPL")
}
