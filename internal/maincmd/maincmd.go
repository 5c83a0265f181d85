// Package maincmd implements the loopc CLI entry point: argument parsing
// and dispatch to the compile pipeline, in the style of the teacher's own
// cmd/nenuphar + internal/maincmd (a Cmd struct with flag-tagged fields, a
// Validate method, and a Main(args, stdio) mainer.ExitCode entry point).
// Unlike the teacher's multi-subcommand tool, loopc's external interface
// (spec §6) is a single operation — `<tool> <source_path>` — so dispatch
// is a direct call rather than the teacher's reflection-based command
// table.
package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/InAnYan/loop/internal/compile"
	"github.com/InAnYan/loop/internal/config"
	"github.com/InAnYan/loop/lang/diag"
)

const binName = "loopc"

var (
	shortUsage = fmt.Sprintf("usage: %s [<option>...] <source_path>\nRun '%[1]s --help' for details.\n", binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <source_path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiles <source_path>.loop (the extension is appended automatically) to
its bytecode artifact under <dir>/.loop_compiled/<basename>.code.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --verbose                 Also print note-level diagnostics.

Exit codes: 0 success, 2 usage error, 3 compile failure.
`, binName)
)

// Exit codes per spec §6. mainer's own ExitCode enum is for its internal
// parse-failure signaling only; loopc's contract is specific about the
// numeric values, so they are defined here rather than reused from
// mainer.
const (
	ExitSuccess mainer.ExitCode = 0
	ExitUsage   mainer.ExitCode = 2
	ExitFailure mainer.ExitCode = 3
)

// Cmd is loopc's command-line surface.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Verbose bool `flag:"verbose"`

	args []string
}

// SetArgs implements the interface mainer.Parser expects for positional
// arguments.
func (c *Cmd) SetArgs(args []string) { c.args = args }

// SetFlags implements the interface mainer.Parser expects for knowing
// which flags were explicitly set (unused here — loopc has no flag whose
// meaning depends on having been set versus left at its zero value).
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate checks that exactly one source path was given, unless a
// help/version flag short-circuits the command entirely.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one <source_path>, got %d", len(c.args))
	}
	return nil
}

// Main parses args, dispatches to the compile pipeline, and returns the
// process exit code per spec §6 (0 success, 2 usage error, 3 compile
// failure).
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return ExitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return ExitSuccess
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return ExitSuccess
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return c.compile(ctx, stdio)
}

// reportable returns the subset of bag's diagnostics to print: everything
// when verbose, errors only otherwise (notes like "previous definition
// was here" are supporting detail, not required to see that the compile
// failed).
func reportable(bag *diag.Bag, verbose bool) *diag.Bag {
	if verbose {
		return bag
	}
	out := &diag.Bag{}
	for _, d := range bag.All() {
		if d.Severity == diag.Error {
			out.Errorf(d.Span, "%s", d.Message)
		}
	}
	return out
}

func (c *Cmd) compile(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	sourcePath := c.args[0] + ".loop"

	cfg, err := config.Load(filepath.Dir(sourcePath))
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %v\n", binName, err)
		return ExitUsage
	}
	if c.Verbose {
		cfg.Verbose = true // --verbose on the CLI outranks loop.yaml/env
	}

	bag := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(ctx, sourcePath, bag)

	if report := reportable(bag, cfg.Verbose); len(report.All()) > 0 {
		diag.Fprint(stdio.Stderr, report)
	}

	if !ok || bag.HadError() {
		return ExitFailure
	}
	return ExitSuccess
}
