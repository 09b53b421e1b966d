package natives

import (
	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/vmvalue"
)

func installInput(vm *engine.VM) {
	vm.RegisterNative("internal_input_init", inputInit)
	vm.RegisterNative("internal_input_poll", inputPoll)
	vm.RegisterNative("internal_input_shutdown", inputShutdown)
	vm.RegisterNative("internal_input_readline", inputReadline)
}

func inputInit(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_input_init", args, 0); err != nil {
		return nil, err
	}
	if err := vm.Stdin().Init(); err != nil {
		return nil, vm.Fatal("internal_input_init: %s", err)
	}
	return vmvalue.Integer(0), nil
}

func inputPoll(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_input_poll", args, 0); err != nil {
		return nil, err
	}
	return vmvalue.Integer(vm.Stdin().Poll()), nil
}

func inputShutdown(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_input_shutdown", args, 0); err != nil {
		return nil, err
	}
	if err := vm.Stdin().Shutdown(); err != nil {
		return nil, vm.Fatal("internal_input_shutdown: %s", err)
	}
	return vmvalue.Integer(0), nil
}

func inputReadline(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_input_readline", args, 0); err != nil {
		return nil, err
	}
	line, err := vm.Stdin().Readline()
	if err != nil {
		return vm.StringToCharArray(""), nil
	}
	return vm.StringToCharArray(line), nil
}
