package natives

import (
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/vmvalue"
	"github.com/stretchr/testify/require"
)

func newVM() *engine.VM {
	return engine.New(".", logr.Discard())
}

func TestFileWriteReadExistsRemove(t *testing.T) {
	vm := newVM()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	pathArg := vm.StringToCharArray(path)
	contentsArg := vm.StringToCharArray("hello reactive world")

	_, err := fileWrite(vm, []vmvalue.Value{pathArg, contentsArg})
	require.NoError(t, err)

	exists, err := fileExists(vm, []vmvalue.Value{pathArg})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(1), exists)

	got, err := fileRead(vm, []vmvalue.Value{pathArg})
	require.NoError(t, err)
	s, err := vm.CharsToString(got)
	require.NoError(t, err)
	require.Equal(t, "hello reactive world", s)

	removed, err := fileRemove(vm, []vmvalue.Value{pathArg})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(1), removed)

	exists, err = fileExists(vm, []vmvalue.Value{pathArg})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(0), exists)
}

func TestFileReadMissingIsFatal(t *testing.T) {
	vm := newVM()
	path := vm.StringToCharArray(filepath.Join(t.TempDir(), "nope.txt"))
	_, err := fileRead(vm, []vmvalue.Value{path})
	require.Error(t, err)
}

func TestBufferPushAndToString(t *testing.T) {
	vm := newVM()
	ref, err := bufNew(vm, nil)
	require.NoError(t, err)

	_, err = bufPushStr(vm, []vmvalue.Value{ref, vm.StringToCharArray("abc")})
	require.NoError(t, err)
	_, err = bufPushChar(vm, []vmvalue.Value{ref, vmvalue.Char('!')})
	require.NoError(t, err)

	result, err := bufToString(vm, []vmvalue.Value{ref})
	require.NoError(t, err)
	s, err := vm.CharsToString(result)
	require.NoError(t, err)
	require.Equal(t, "abc!", s)
}

func TestBufferWriteFile(t *testing.T) {
	vm := newVM()
	ref, err := bufNew(vm, nil)
	require.NoError(t, err)
	_, err = bufPushStr(vm, []vmvalue.Value{ref, vm.StringToCharArray("on disk")})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "buf.txt")
	_, err = bufWriteFile(vm, []vmvalue.Value{ref, vm.StringToCharArray(path)})
	require.NoError(t, err)

	got, err := fileRead(vm, []vmvalue.Value{vm.StringToCharArray(path)})
	require.NoError(t, err)
	s, err := vm.CharsToString(got)
	require.NoError(t, err)
	require.Equal(t, "on disk", s)
}

func TestVecPushAndPop(t *testing.T) {
	vm := newVM()
	ref, err := vecNew(vm, nil)
	require.NoError(t, err)

	n, err := vecPush(vm, []vmvalue.Value{ref, vmvalue.Integer(10)})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(1), n)

	n, err = vecPush(vm, []vmvalue.Value{ref, vmvalue.Integer(20)})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(2), n)

	popped, err := vecPop(vm, []vmvalue.Value{ref})
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(20), popped)
}

func TestRequireArgcMismatchIsFatal(t *testing.T) {
	vm := newVM()
	_, err := bufPushChar(vm, []vmvalue.Value{vmvalue.Integer(0)})
	require.ErrorContains(t, err, "expected 2 argument")
}

// TestInstallRegistersEveryNative exercises one zero-argument native from
// the buffer, vec and input groups through the engine's own Call dispatch
// (rather than calling the unexported Go functions directly), confirming
// Install wired those groups into the VM's global environment under their
// internal_* names. The filesystem group has no zero-argument native and
// is not called here. internal_input_init/readline are skipped: they
// touch the real terminal, which a test process does not reliably have.
func TestInstallRegistersEveryNative(t *testing.T) {
	vm := engine.New(".", logr.Discard())
	Install(vm)

	err := vm.Run([]bytecode.Instruction{
		bytecode.Call{Name: "internal_buf_new", Argc: 0},
		bytecode.Call{Name: "internal_vec_new", Argc: 0},
		bytecode.Call{Name: "internal_input_poll", Argc: 0},
	})
	require.NoError(t, err)
}
