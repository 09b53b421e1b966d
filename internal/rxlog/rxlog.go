// Package rxlog wires the engine's execution tracing to a real
// structured logger instead of a compile-time debug constant, following
// the teacher's vmdebug trace but routed through go-logr/logr backed by
// klog/v2 (SPEC_FULL.md §4's "Execution tracing").
package rxlog

import (
	"flag"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
)

// New returns a logr.Logger for the engine. At V(1) the engine logs every
// dispatched opcode; verbose enables that level via klog's own -v flag,
// which New sets programmatically so callers never touch package-global
// flag state directly.
func New(verbose bool) logr.Logger {
	var fs flag.FlagSet
	klog.InitFlags(&fs)
	if verbose {
		_ = fs.Set("v", "1")
	} else {
		_ = fs.Set("v", "0")
	}
	return klog.Background()
}
