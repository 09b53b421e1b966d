package main

import (
	"path/filepath"

	"github.com/rxlang/reactive/internal/module"
	"github.com/rxlang/reactive/internal/rxconfig"
	"github.com/rxlang/reactive/internal/rxlog"
	"github.com/spf13/cobra"
)

// newBootstrapCmd implements `rx bootstrap`: compile the experimental
// compiler's own source using the stable compiler's bytecode, advancing
// the experimental stage to a fresh build of itself (SPEC_FULL.md §10).
func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Rebuild the experimental compiler using the stable compiler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rxconfig.Load(cmd)
			if err != nil {
				return err
			}
			log := rxlog.New(cfg.Verbose)

			stableCompiler := module.CompilerPath(cfg.ProjectRoot, false, true)
			experimentalSrc := filepath.Join(cfg.ProjectRoot, module.BootstrapRoot, "experimental", "compiler.rx")
			experimentalDst := module.CompilerPath(cfg.ProjectRoot, true, true)

			vm := newEngine(cfg.ProjectRoot, log)
			return runCompilerProgram(vm, stableCompiler, experimentalSrc, experimentalDst, true)
		},
	}
}
