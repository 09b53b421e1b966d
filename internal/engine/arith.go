package engine

import "github.com/rxlang/reactive/internal/vmvalue"

// asInteger resolves v (forcing it if reactive) and requires it to be an
// Integer, the VM's sole arithmetic kind.
func (vm *VM) asInteger(v vmvalue.Value) (vmvalue.Integer, error) {
	resolved, err := vm.resolve(v)
	if err != nil {
		return 0, err
	}
	switch t := resolved.(type) {
	case vmvalue.Integer:
		return t, nil
	case vmvalue.Uninitialized:
		return 0, vm.fatal("read of an uninitialized value")
	default:
		return 0, vm.fatal("expected an integer, found %T", resolved)
	}
}

func boolToInt(b bool) vmvalue.Integer {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) binaryIntOp(op func(a, b vmvalue.Integer) (vmvalue.Integer, error)) error {
	b, err := vm.popInt()
	if err != nil {
		return err
	}
	a, err := vm.popInt()
	if err != nil {
		return err
	}
	result, err := op(a, b)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *VM) popInt() (vmvalue.Integer, error) {
	v, err := vm.pop()
	if err != nil {
		return 0, err
	}
	return vm.asInteger(v)
}

func (vm *VM) execAdd() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return a + b, nil })
}

func (vm *VM) execSub() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return a - b, nil })
}

func (vm *VM) execMul() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return a * b, nil })
}

func (vm *VM) execDiv() error {
	b, err := vm.popInt()
	if err != nil {
		return err
	}
	a, err := vm.popInt()
	if err != nil {
		return err
	}
	if b == 0 {
		return vm.fatal("division by zero")
	}
	vm.push(a / b)
	return nil
}

func (vm *VM) execModulo() error {
	b, err := vm.popInt()
	if err != nil {
		return err
	}
	a, err := vm.popInt()
	if err != nil {
		return err
	}
	if b == 0 {
		return vm.fatal("modulo by zero")
	}
	vm.push(a % b)
	return nil
}

func (vm *VM) execGreater() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return boolToInt(a > b), nil })
}

func (vm *VM) execLess() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return boolToInt(a < b), nil })
}

func (vm *VM) execGreaterEqual() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return boolToInt(a >= b), nil })
}

func (vm *VM) execLessEqual() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) { return boolToInt(a <= b), nil })
}

func (vm *VM) execAnd() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) {
		return boolToInt(a.Truthy() && b.Truthy()), nil
	})
}

func (vm *VM) execOr() error {
	return vm.binaryIntOp(func(a, b vmvalue.Integer) (vmvalue.Integer, error) {
		return boolToInt(a.Truthy() || b.Truthy()), nil
	})
}

// execEqual and execNotEqual compare resolved values structurally rather
// than requiring both sides to be Integer: Char, ArrayRef, VecRef,
// BufferRef and StructRef are all comparable Go values once forced.
func (vm *VM) execEqual() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	ra, err := vm.resolve(a)
	if err != nil {
		return err
	}
	rb, err := vm.resolve(b)
	if err != nil {
		return err
	}
	vm.push(boolToInt(ra == rb))
	return nil
}

func (vm *VM) execNotEqual() error {
	if err := vm.execEqual(); err != nil {
		return err
	}
	top, err := vm.popInt()
	if err != nil {
		return err
	}
	vm.push(boolToInt(top == 0))
	return nil
}
