package main

import (
	"strings"

	"github.com/rxlang/reactive/internal/module"
	"github.com/rxlang/reactive/internal/rxconfig"
	"github.com/rxlang/reactive/internal/rxlog"
	"github.com/spf13/cobra"
)

// newCompileCmd builds one of the four compile subcommands spec.md §6
// names: compile, compile-module, compile-expi, compile-expi-module. They
// differ only in whether the source must define main (requireMain) and
// which bootstrap compiler stage runs it (experimental).
func newCompileCmd(name string, requireMain, experimental bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <src.rx> [dst.rxb]",
		Short: "Compile an rx source file to bytecode",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rxconfig.Load(cmd)
			if err != nil {
				return err
			}
			dst := defaultCompiledPath(args[0])
			if len(args) == 2 {
				dst = args[1]
			}
			return compileWithBootstrap(cfg, args[0], dst, requireMain, experimental)
		},
	}
}

// defaultCompiledPath is the output path a compile subcommand uses when the
// caller omits it: the source extension replaced with .rxb (spec.md §6).
func defaultCompiledPath(src string) string {
	return strings.TrimSuffix(src, ".rx") + ".rxb"
}

// compileWithBootstrap runs the bootstrap compiler (stable or experimental
// per experimental) over srcPath, producing dstPath, enforcing requireMain
// for whole-program compiles and relaxing it for library modules.
func compileWithBootstrap(cfg *rxconfig.Config, srcPath, dstPath string, requireMain, experimental bool) error {
	log := rxlog.New(cfg.Verbose)
	compilerPath := module.CompilerPath(cfg.ProjectRoot, experimental, true)

	vm := newEngine(cfg.ProjectRoot, log)
	return runCompilerProgram(vm, compilerPath, srcPath, dstPath, requireMain)
}
