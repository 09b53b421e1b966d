package main

import (
	"github.com/rxlang/reactive/internal/rxconfig"
	"github.com/rxlang/reactive/internal/rxlog"
	"github.com/spf13/cobra"
)

// newRunCmd implements `rx run <path.rxb>`, the explicit counterpart to
// the bare `rx <path>` positional form for scripts that want an
// unambiguous subcommand (spec.md §6).
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path.rxb>",
		Short: "Run a compiled rx bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rxconfig.Load(cmd)
			if err != nil {
				return err
			}
			log := rxlog.New(cfg.Verbose)
			return execRunPath(args[0], log)
		},
	}
}
