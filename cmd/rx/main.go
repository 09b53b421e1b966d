// Command rx is the CLI driver over internal/engine: it loads and runs
// compiled .rxb bytecode and shells out to the self-hosted compiler
// bytecode for the compile subcommands (spec.md §6, SPEC_FULL.md §10).
// It contains no tokenizer, parser, or AST-to-bytecode compiler of its
// own — those are external collaborators per spec.md §1.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/rxconfig"
	"github.com/rxlang/reactive/internal/rxlog"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode lets a subcommand's RunE report a runtime-error-triggered
// exit(1) without Cobra treating it as an ordinary Go error it also
// prints (the Runtime error message is printed by the subcommand itself,
// in spec.md §7's exact format).
var exitCode int

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rx",
		Short:         "Runtime for the rx reactive bytecode language",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runBare,
	}
	rxconfig.BindFlags(root)

	root.AddCommand(
		newBootstrapCmd(),
		newCompileCmd("compile", true, false),
		newCompileCmd("compile-module", false, false),
		newCompileCmd("compile-expi", true, true),
		newCompileCmd("compile-expi-module", false, true),
		newRunCmd(),
	)
	return root
}

// runBare implements the bare `<path>.rx` / `<path>.rxb` positional form:
// compile-then-run for .rx, run for .rxb.
func runBare(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	path := args[0]
	cfg, err := rxconfig.Load(cmd)
	if err != nil {
		return err
	}
	log := rxlog.New(cfg.Verbose)

	switch {
	case strings.HasSuffix(path, ".rxb"):
		return execRunPath(path, log)
	case strings.HasSuffix(path, ".rx"):
		rxb := strings.TrimSuffix(path, ".rx") + ".rxb"
		if err := compileWithBootstrap(cfg, path, rxb, true, false); err != nil {
			return err
		}
		return execRunPath(rxb, log)
	default:
		_ = cmd.Usage()
		return fmt.Errorf("unrecognized file extension for %q (expected .rx or .rxb)", path)
	}
}

// execRunPath loads and runs a .rxb file, translating a *engine.RuntimeError
// into spec.md §7's exact "Runtime error: ..." + stack-trace output and an
// exit(1) without Cobra also printing the error a second time.
func execRunPath(path string, log logr.Logger) error {
	vm := newEngine(filepath.Dir(path), log)
	vm.SetOutput(stdoutWriter{})
	if err := runBytecodeFile(vm, path); err != nil {
		if rerr, ok := err.(*engine.RuntimeError); ok {
			printRuntimeError(rerr)
			exitCode = 1
			return nil
		}
		return err
	}
	return nil
}

// printRuntimeError writes spec.md §7's fatal-error format: the message,
// then each call-frame name, most recent call last.
func printRuntimeError(err *engine.RuntimeError) {
	fmt.Fprintln(os.Stderr, "Runtime error:", err.Message)
	for _, name := range err.Trace {
		fmt.Fprintln(os.Stderr, "  at", name)
	}
}

type stdoutWriter struct{}

func (stdoutWriter) WriteString(s string) (int, error) { return fmt.Print(s) }
