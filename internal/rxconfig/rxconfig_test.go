package rxconfig_test

import (
	"testing"

	"github.com/rxlang/reactive/internal/rxconfig"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	rxconfig.BindFlags(cmd)
	cmd.SetArgs([]string{})
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Execute())

	cfg, err := rxconfig.Load(cmd)
	require.NoError(t, err)
	require.False(t, cfg.Verbose)
	require.Equal(t, ".", cfg.ProjectRoot)
}

func TestLoadReadsFlags(t *testing.T) {
	cmd := newTestCmd()
	cmd.SetArgs([]string{"--verbose", "--project-root", "/srv/rx"})
	require.NoError(t, cmd.Execute())

	cfg, err := rxconfig.Load(cmd)
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
	require.Equal(t, "/srv/rx", cfg.ProjectRoot)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RX_VERBOSE", "true")
	t.Setenv("RX_PROJECT_ROOT", "/from/env")

	cmd := newTestCmd()
	require.NoError(t, cmd.Execute())

	cfg, err := rxconfig.Load(cmd)
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
	require.Equal(t, "/from/env", cfg.ProjectRoot)
}
