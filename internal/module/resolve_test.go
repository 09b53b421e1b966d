package module_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxlang/reactive/internal/module"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersImportingFileDirectory(t *testing.T) {
	root := t.TempDir()
	baseDir := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(baseDir, 0o755))

	local := filepath.Join(baseDir, "util.rxb")
	require.NoError(t, os.WriteFile(local, []byte("RXB1\n"), 0o644))

	got, err := module.Resolve([]string{"util"}, baseDir)
	require.NoError(t, err)
	require.Equal(t, local, got)
}

func TestResolveFallsBackToCWD(t *testing.T) {
	root := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { require.NoError(t, os.Chdir(cwd)) })

	require.NoError(t, os.WriteFile(filepath.Join(root, "shared.rxb"), []byte("RXB1\n"), 0o644))

	got, err := module.Resolve([]string{"shared"}, filepath.Join(root, "nonexistent"))
	require.NoError(t, err)
	require.Equal(t, "shared.rxb", got)
}

func TestResolveNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := module.Resolve([]string{"missing", "mod"}, root)
	require.ErrorContains(t, err, "not found")
}

func TestCompilerPath(t *testing.T) {
	require.Equal(t, filepath.Join("proj", "project/bootstrap", "stable", "compiler.rx"),
		module.CompilerPath("proj", false, false))
	require.Equal(t, filepath.Join("proj", "project/bootstrap", "experimental", "compiler.rxb"),
		module.CompilerPath("proj", true, true))
}
