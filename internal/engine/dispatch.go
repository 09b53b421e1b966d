package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// runLoop fetches, decodes and executes vm.code starting at vm.pointer
// until it runs off the end (returned=false) or a Return fires
// (returned=true). Taken branches set the pointer directly and skip the
// trailing increment; every other instruction falls through to it.
func (vm *VM) runLoop() (returned bool, err error) {
	for vm.pointer < len(vm.code) {
		instr := vm.code[vm.pointer]
		vm.Log.V(1).Info("exec", "pc", vm.pointer, "instr", instr)
		jumped, err := vm.step(instr)
		if err != nil {
			return false, err
		}
		if _, isReturn := instr.(bytecode.Return); isReturn {
			return true, nil
		}
		if !jumped {
			vm.pointer++
		}
	}
	return false, nil
}

// step executes a single instruction and reports whether it was a taken
// branch (Jump, or a JumpIfZero that fired), which skips the caller's
// pointer increment.
func (vm *VM) step(instr bytecode.Instruction) (jumped bool, err error) {
	switch op := instr.(type) {

	case bytecode.Push:
		vm.push(vmvalue.Integer(op.N))
	case bytecode.PushChar:
		vm.push(vmvalue.Char(op.Code))
	case bytecode.Load:
		v, err := vm.lookup(op.Name)
		if err != nil {
			return false, err
		}
		vm.push(v)

	case bytecode.Store:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		if err := vm.bindMutable(op.Name, v); err != nil {
			return false, err
		}
	case bytecode.StoreImmutable:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		if err := vm.bindImmutable(op.Name, v); err != nil {
			return false, err
		}
	case bytecode.StoreReactive:
		lazy, err := vm.freeze(op.Expr)
		if err != nil {
			return false, err
		}
		if err := vm.bindMutable(op.Name, lazy); err != nil {
			return false, err
		}

	case bytecode.Add:
		return false, vm.execAdd()
	case bytecode.Sub:
		return false, vm.execSub()
	case bytecode.Mul:
		return false, vm.execMul()
	case bytecode.Div:
		return false, vm.execDiv()
	case bytecode.Modulo:
		return false, vm.execModulo()
	case bytecode.Greater:
		return false, vm.execGreater()
	case bytecode.Less:
		return false, vm.execLess()
	case bytecode.GreaterEqual:
		return false, vm.execGreaterEqual()
	case bytecode.LessEqual:
		return false, vm.execLessEqual()
	case bytecode.Equal:
		return false, vm.execEqual()
	case bytecode.NotEqual:
		return false, vm.execNotEqual()
	case bytecode.And:
		return false, vm.execAnd()
	case bytecode.Or:
		return false, vm.execOr()

	case bytecode.Label:
		// no-op; resolved into vm.labels before execution begins.

	case bytecode.Jump:
		target, ok := vm.labels[op.Label]
		if !ok {
			return false, vm.fatal("undefined label `%s`", op.Label)
		}
		vm.pointer = target
		return true, nil

	case bytecode.JumpIfZero:
		n, err := vm.popInt()
		if err != nil {
			return false, err
		}
		if n == 0 {
			target, ok := vm.labels[op.Label]
			if !ok {
				return false, vm.fatal("undefined label `%s`", op.Label)
			}
			vm.pointer = target
			return true, nil
		}

	case bytecode.Return:
		// Handled by runLoop, which halts this frame's execution on seeing
		// it; callFunction then takes the TOS as the result. Nothing to do
		// here.

	case bytecode.ArrayNew:
		n, err := vm.popInt()
		if err != nil {
			return false, err
		}
		if n < 0 {
			return false, vm.fatal("array length must be non-negative, got %d", n)
		}
		vm.push(vm.heaps.Arrays.New(int(n)))
	case bytecode.ArrayGet:
		idx, err := vm.popInt()
		if err != nil {
			return false, err
		}
		ref, err := vm.popArrayRef()
		if err != nil {
			return false, err
		}
		v, err := vm.heaps.Arrays.Get(ref, int(idx))
		if err != nil {
			return false, vm.fatal("%s", err)
		}
		resolved, err := vm.resolve(v)
		if err != nil {
			return false, err
		}
		vm.push(resolved)
	case bytecode.ArrayLValue:
		idx, err := vm.popInt()
		if err != nil {
			return false, err
		}
		ref, err := vm.popArrayRef()
		if err != nil {
			return false, err
		}
		vm.push(vmvalue.ArrayElem{ArrayID: int(ref), Index: int(idx)})
	case bytecode.StoreIndex:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		idx, err := vm.popInt()
		if err != nil {
			return false, err
		}
		if err := vm.storeIndexNamed(op.Name, int(idx), v); err != nil {
			return false, err
		}
	case bytecode.StoreIndexReactive:
		idx, err := vm.popInt()
		if err != nil {
			return false, err
		}
		lazy, err := vm.freeze(op.Expr)
		if err != nil {
			return false, err
		}
		if err := vm.storeIndexReactiveNamed(op.Name, int(idx), lazy); err != nil {
			return false, err
		}

	case bytecode.StoreStruct:
		vm.defineStruct(op.Name, op.Fields)
	case bytecode.NewStruct:
		id, err := vm.newStruct(op.Name)
		if err != nil {
			return false, err
		}
		vm.push(id)
	case bytecode.FieldGet:
		ref, err := vm.popStructRef()
		if err != nil {
			return false, err
		}
		v, err := vm.getField(ref, op.Field)
		if err != nil {
			return false, err
		}
		vm.push(v)
	case bytecode.FieldSet:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		ref, err := vm.popStructRef()
		if err != nil {
			return false, err
		}
		if err := vm.setField(ref, op.Field, v); err != nil {
			return false, err
		}
	case bytecode.FieldSetReactive:
		ref, err := vm.popStructRef()
		if err != nil {
			return false, err
		}
		if err := vm.setFieldReactive(ref, op.Field, op.Expr); err != nil {
			return false, err
		}
	case bytecode.FieldLValue:
		ref, err := vm.popStructRef()
		if err != nil {
			return false, err
		}
		vm.push(vmvalue.StructField{StructID: int(ref), Field: op.Field})

	case bytecode.StoreThrough:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		lv, err := vm.popLValue()
		if err != nil {
			return false, err
		}
		if err := vm.writeThrough(lv, v); err != nil {
			return false, err
		}
	case bytecode.StoreThroughImmutable:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		lv, err := vm.popLValue()
		if err != nil {
			return false, err
		}
		if err := vm.writeThrough(lv, v); err != nil {
			return false, err
		}
		vm.markThroughImmutable(lv)
	case bytecode.StoreThroughReactive:
		lv, err := vm.popLValue()
		if err != nil {
			return false, err
		}
		if err := vm.writeThroughReactive(lv, op.Expr); err != nil {
			return false, err
		}

	case bytecode.StoreFunction:
		vm.writableEnv()[op.Name] = vmvalue.Function{Params: op.Params, Code: op.Body}
	case bytecode.Call:
		if err := vm.execCall(op.Name, op.Argc); err != nil {
			return false, err
		}

	case bytecode.PushImmutableContext:
		vm.pushImmutableScope(nil)
	case bytecode.PopImmutableContext:
		if len(vm.immutable) <= 1 {
			return false, vm.fatal("cannot pop the outermost immutable scope")
		}
		vm.popImmutableScope()
	case bytecode.ClearImmutableContext:
		top := vm.immutable[len(vm.immutable)-1]
		for k := range top {
			delete(top, k)
		}

	case bytecode.Print:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		s, err := vm.render(v)
		if err != nil {
			return false, err
		}
		vm.print(s)
	case bytecode.Println:
		v, err := vm.pop()
		if err != nil {
			return false, err
		}
		s, err := vm.render(v)
		if err != nil {
			return false, err
		}
		vm.print(s + "\n")
	case bytecode.Assert:
		n, err := vm.popInt()
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, vm.fatal("assertion failed")
		}
	case bytecode.Error:
		return false, vm.fatal("%s", op.Message)

	case bytecode.Import:
		if err := vm.execImport(op.Segments); err != nil {
			return false, err
		}

	case bytecode.Cast:
		v, err := vm.popResolved()
		if err != nil {
			return false, err
		}
		casted, err := vm.execCast(op.Target, v)
		if err != nil {
			return false, err
		}
		vm.push(casted)

	default:
		return false, vm.fatal("unhandled instruction %T", instr)
	}
	return false, nil
}

func (vm *VM) popArrayRef() (vmvalue.ArrayRef, error) {
	v, err := vm.popResolved()
	if err != nil {
		return 0, err
	}
	ref, ok := v.(vmvalue.ArrayRef)
	if !ok {
		return 0, vm.fatal("expected an array reference, found %T", v)
	}
	return ref, nil
}

func (vm *VM) popStructRef() (vmvalue.StructRef, error) {
	v, err := vm.popResolved()
	if err != nil {
		return 0, err
	}
	ref, ok := v.(vmvalue.StructRef)
	if !ok {
		return 0, vm.fatal("expected a struct reference, found %T", v)
	}
	return ref, nil
}

func (vm *VM) popLValue() (vmvalue.LValue, error) {
	v, err := vm.pop()
	if err != nil {
		return nil, err
	}
	lv, ok := vmvalue.AsLValue(v)
	if !ok {
		return nil, vm.fatal("expected an lvalue, found %T", v)
	}
	return lv, nil
}
