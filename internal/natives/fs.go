// Package natives implements the engine's native-function contract: host
// callables for filesystem, character-buffer, growable-vec, and raw
// terminal input access (spec.md §4.1). It depends on internal/engine for
// the VM and Value types; internal/engine does not depend back on it —
// a caller (cmd/rx, or a test) wires the two together by calling Install.
package natives

import (
	"os"

	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/vmvalue"
)

func installFS(vm *engine.VM) {
	vm.RegisterNative("internal_file_read", fileRead)
	vm.RegisterNative("internal_file_write", fileWrite)
	vm.RegisterNative("internal_file_exists", fileExists)
	vm.RegisterNative("internal_file_remove", fileRemove)
}

func fileRead(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_file_read", args, 1); err != nil {
		return nil, err
	}
	path, err := vm.CharsToString(args[0])
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vm.Fatal("internal_file_read: %s", err)
	}
	return vm.StringToCharArray(string(data)), nil
}

func fileWrite(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_file_write", args, 2); err != nil {
		return nil, err
	}
	path, err := vm.CharsToString(args[0])
	if err != nil {
		return nil, err
	}
	contents, err := vm.CharsToString(args[1])
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return nil, vm.Fatal("internal_file_write: %s", err)
	}
	return vmvalue.Integer(len([]rune(contents))), nil
}

func fileExists(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_file_exists", args, 1); err != nil {
		return nil, err
	}
	path, err := vm.CharsToString(args[0])
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return vmvalue.Integer(0), nil
	}
	return vmvalue.Integer(1), nil
}

func fileRemove(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_file_remove", args, 1); err != nil {
		return nil, err
	}
	path, err := vm.CharsToString(args[0])
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return vmvalue.Integer(0), nil
		}
		return nil, vm.Fatal("internal_file_remove: %s", err)
	}
	return vmvalue.Integer(1), nil
}
