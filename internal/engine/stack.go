package engine

import "github.com/rxlang/reactive/internal/vmvalue"

func (vm *VM) push(v vmvalue.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (vmvalue.Value, error) {
	if len(vm.stack) == 0 {
		return nil, vm.fatal("operand stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

// popResolved pops and forces the top of stack, erroring if it is still
// Uninitialized.
func (vm *VM) popResolved() (vmvalue.Value, error) {
	v, err := vm.pop()
	if err != nil {
		return nil, err
	}
	resolved, err := vm.resolve(v)
	if err != nil {
		return nil, err
	}
	if _, ok := resolved.(vmvalue.Uninitialized); ok {
		return nil, vm.fatal("read of an uninitialized value")
	}
	return resolved, nil
}
