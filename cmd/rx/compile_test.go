package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCompiledPathSwapsExtension(t *testing.T) {
	require.Equal(t, "foo.rxb", defaultCompiledPath("foo.rx"))
	require.Equal(t, "dir/bar.rxb", defaultCompiledPath("dir/bar.rx"))
}

// compile's output path is optional: a bare source argument must be
// accepted by the Args validator, not just the documented two-argument
// form.
func TestCompileCmdAcceptsOneOrTwoArgs(t *testing.T) {
	cmd := newCompileCmd("compile", true, false)
	require.NoError(t, cmd.Args(cmd, []string{"src.rx"}))
	require.NoError(t, cmd.Args(cmd, []string{"src.rx", "dst.rxb"}))
	require.Error(t, cmd.Args(cmd, []string{}))
	require.Error(t, cmd.Args(cmd, []string{"a", "b", "c"}))
}
