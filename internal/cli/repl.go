package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// replCommands is the completion set for the interactive prompt.
var replCommands = []string{
	"get", "peek", "keys", "stats", "bulk", "dump", "help", "exit", "quit",
}

// runREPL drives the interactive loop. When in is the process stdin the
// loop uses liner for readline-style editing, completion and history;
// otherwise (tests, piped scripts) it reads plain lines from in.
func runREPL(sess *session, in io.Reader, env map[string]string) int {
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		return runLinerREPL(sess, env)
	}

	if in == nil {
		return runLinerREPL(sess, env)
	}

	return runPipedREPL(sess, in)
}

func runPipedREPL(sess *session, in io.Reader) int {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		quit, err := evalLine(sess, scanner.Text())
		if err != nil {
			sess.io.ErrPrintln("error:", err)
		}

		if quit {
			break
		}
	}

	return 0
}

func runLinerREPL(sess *session, env map[string]string) int {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, strings.ToLower(prefix)) {
				out = append(out, cmd)
			}
		}

		return out
	})

	histPath := historyFile(sess.cfg, env)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil { //nolint:gosec // history path comes from config
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	sess.io.Printf("memoq - memoization cache explorer (root=%s)\n", sess.cfg.RootAbs)
	sess.io.Println("Type 'help' for available commands.")
	sess.io.Println()

	for {
		input, err := line.Prompt("memoq> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				sess.io.Println("\nBye!")

				break
			}

			sess.io.ErrPrintln("error:", fmt.Errorf("reading input: %w", err))

			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		quit, evalErr := evalLine(sess, input)
		if evalErr != nil {
			sess.io.ErrPrintln("error:", evalErr)
		}

		if quit {
			sess.io.Println("Bye!")

			break
		}
	}

	saveHistory(line, histPath)

	return 0
}

// evalLine executes one REPL line. The quit result is true for exit commands.
func evalLine(sess *session, input string) (bool, error) {
	cmd, args := fields(input)
	if cmd == "" {
		return false, nil
	}

	switch cmd {
	case "exit", "quit", "q":
		return true, nil
	default:
		return false, sess.dispatch(cmd, args)
	}
}

// historyFile resolves the REPL history path: config first, then a dotfile
// in the home directory. Empty means no history persistence.
func historyFile(cfg Config, env map[string]string) string {
	if cfg.HistoryFile != "" {
		if filepath.IsAbs(cfg.HistoryFile) {
			return cfg.HistoryFile
		}

		return filepath.Join(cfg.EffectiveCwd, cfg.HistoryFile)
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".memoq_history")
	}

	return ""
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path) //nolint:gosec // history path comes from config
	if err != nil {
		return
	}

	defer f.Close()

	_, _ = line.WriteHistory(f)
}
