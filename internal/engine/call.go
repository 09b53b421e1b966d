package engine

import "github.com/rxlang/reactive/internal/vmvalue"

// execCall implements Call(name, argc): pop argc arguments (the stack
// holds them with the first argument deepest), resolve name, and either
// dispatch to a NativeFunction or enter a user frame.
func (vm *VM) execCall(name string, argc int) error {
	reversed := make([]vmvalue.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		reversed[i] = v
	}

	callee, err := vm.lookup(name)
	if err != nil {
		return err
	}

	switch fn := callee.(type) {
	case vmvalue.Function:
		result, err := vm.callFunction(name, fn, reversed)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case vmvalue.NativeFunction:
		native, ok := vm.natives[string(fn)]
		if !ok {
			return vm.fatal("unregistered native function `%s`", string(fn))
		}
		result, err := native(vm, reversed)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	default:
		return vm.fatal("`%s` is not callable", name)
	}
}
