package natives

import (
	"os"

	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/vmvalue"
)

func installBuffer(vm *engine.VM) {
	vm.RegisterNative("internal_buf_new", bufNew)
	vm.RegisterNative("internal_buf_push_char", bufPushChar)
	vm.RegisterNative("internal_buf_push_str", bufPushStr)
	vm.RegisterNative("internal_buf_to_string", bufToString)
	vm.RegisterNative("internal_buf_write_file", bufWriteFile)
}

func bufRef(vm *engine.VM, v vmvalue.Value) (vmvalue.BufferRef, error) {
	resolved, err := vm.Resolve(v)
	if err != nil {
		return 0, err
	}
	ref, ok := resolved.(vmvalue.BufferRef)
	if !ok {
		return 0, vm.Fatal("expected a buffer reference, found %T", resolved)
	}
	return ref, nil
}

func charArg(vm *engine.VM, v vmvalue.Value) (vmvalue.Char, error) {
	resolved, err := vm.Resolve(v)
	if err != nil {
		return 0, err
	}
	c, ok := resolved.(vmvalue.Char)
	if !ok {
		return 0, vm.Fatal("expected a Char, found %T", resolved)
	}
	return c, nil
}

func bufNew(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_buf_new", args, 0); err != nil {
		return nil, err
	}
	return vm.Heaps().Buffers.New(), nil
}

func bufPushChar(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_buf_push_char", args, 2); err != nil {
		return nil, err
	}
	ref, err := bufRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	c, err := charArg(vm, args[1])
	if err != nil {
		return nil, err
	}
	if err := vm.Heaps().Buffers.PushChar(ref, rune(c)); err != nil {
		return nil, vm.Fatal("%s", err)
	}
	return vmvalue.Integer(0), nil
}

func bufPushStr(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_buf_push_str", args, 2); err != nil {
		return nil, err
	}
	ref, err := bufRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	s, err := vm.CharsToString(args[1])
	if err != nil {
		return nil, err
	}
	if err := vm.Heaps().Buffers.PushString(ref, s); err != nil {
		return nil, vm.Fatal("%s", err)
	}
	return vmvalue.Integer(0), nil
}

func bufToString(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_buf_to_string", args, 1); err != nil {
		return nil, err
	}
	ref, err := bufRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	s, err := vm.Heaps().Buffers.String(ref)
	if err != nil {
		return nil, vm.Fatal("%s", err)
	}
	return vm.StringToCharArray(s), nil
}

func bufWriteFile(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_buf_write_file", args, 2); err != nil {
		return nil, err
	}
	ref, err := bufRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	path, err := vm.CharsToString(args[1])
	if err != nil {
		return nil, err
	}
	s, err := vm.Heaps().Buffers.String(ref)
	if err != nil {
		return nil, vm.Fatal("%s", err)
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return nil, vm.Fatal("internal_buf_write_file: %s", err)
	}
	return vmvalue.Integer(len([]rune(s))), nil
}
