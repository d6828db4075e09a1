package cli

import (
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point for memoq. Returns the exit code.
//
// With a command after the global flags, memoq runs it once and exits.
// Without one, it starts the interactive REPL (reading from in only when it
// is nil-safe to do so; the REPL itself talks to the terminal via liner).
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	ioCtx := NewIO(out, errOut)

	flags := flag.NewFlagSet("memoq", flag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(io.Discard)

	workDir := flags.StringP("cwd", "C", "", "run as if memoq was started in this directory")
	configPath := flags.StringP("config", "c", "", "explicit config file (must exist)")
	root := flags.String("root", "", "analysis root directory (overrides config)")
	history := flags.String("history", "", "REPL history file (overrides config)")
	help := flags.BoolP("help", "h", false, "show help")

	err := flags.Parse(args[1:])
	if err != nil {
		ioCtx.ErrPrintln("error:", err)
		printUsage(ioCtx)

		return 1
	}

	if *help {
		printUsage(ioCtx)

		return 0
	}

	cfg, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		RootOverride:    *root,
		HistoryOverride: *history,
		Env:             env,
	})
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	sess := newSession(cfg, ioCtx)

	remaining := flags.Args()
	if len(remaining) == 0 {
		return runREPL(sess, in, env)
	}

	cmd := remaining[0]

	cmdErr := sess.dispatch(cmd, remaining[1:])
	if cmdErr != nil {
		ioCtx.ErrPrintln("error:", cmdErr)

		if errors.Is(cmdErr, errUnknownCommand) {
			printUsage(ioCtx)
		}

		return 1
	}

	return 0
}

func printUsage(o *IO) {
	o.ErrPrintln("Usage: memoq [global flags] [command [args]]")
	o.ErrPrintln()
	o.ErrPrintln("Without a command, memoq starts an interactive REPL.")
	o.ErrPrintln()
	o.ErrPrintln("Global flags:")
	o.ErrPrintln("  -C, --cwd <dir>      run as if memoq was started in <dir>")
	o.ErrPrintln("  -c, --config <file>  explicit config file (must exist)")
	o.ErrPrintln("      --root <dir>     analysis root directory (overrides config)")
	o.ErrPrintln("      --history <file> REPL history file (overrides config)")
	o.ErrPrintln("  -h, --help           show this help")
	o.ErrPrintln()
	o.ErrPrintln("Commands:")

	for _, line := range commandHelpLines() {
		o.ErrPrintln("  " + line)
	}
}

func commandHelpLines() []string {
	return []string{
		"get <path>...     analyze files and print their facts",
		"peek <path>       print facts if already analyzed",
		"keys              list analyzed paths",
		"stats             show cache statistics",
		"bulk <count>      insert synthetic entries into the value cache",
		"dump <file>       write all facts to a JSON file",
	}
}

// fields splits a REPL line into command and arguments.
func fields(line string) (string, []string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}

	return strings.ToLower(parts[0]), parts[1:]
}
