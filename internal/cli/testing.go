package cli

import (
	"bytes"
	"strings"
	"testing"
)

// CLI provides a clean interface for running memoq in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes memoq with the given args and returns stdout, stderr, and
// exit code. Args should not include "memoq" or "--cwd" - those are added
// automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	r.t.Helper()

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"memoq", "--cwd", r.Dir}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// RunScript executes memoq's REPL with script as piped input and returns
// stdout, stderr, and exit code.
func (r *CLI) RunScript(script string, args ...string) (string, string, int) {
	r.t.Helper()

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"memoq", "--cwd", r.Dir}, args...)
	code := Run(strings.NewReader(script), &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// AssertContains fails the test if s does not contain substr.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("output %q does not contain %q", s, substr)
	}
}
