package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// writeThrough performs the indirect store an LValue names, without
// marking the cell immutable.
func (vm *VM) writeThrough(lv vmvalue.LValue, v vmvalue.Value) error {
	switch t := lv.(type) {
	case vmvalue.ArrayElem:
		if err := vm.heaps.Arrays.Set(vmvalue.ArrayRef(t.ArrayID), t.Index, v); err != nil {
			return vm.fatal("%s", err)
		}
	case vmvalue.VecElem:
		if err := vm.heaps.Vecs.Set(vmvalue.VecRef(t.VecID), t.Index, v); err != nil {
			return vm.fatal("%s", err)
		}
	case vmvalue.StructField:
		if err := vm.setField(vmvalue.StructRef(t.StructID), t.Field, v); err != nil {
			return err
		}
	default:
		return vm.fatal("not an lvalue")
	}
	return nil
}

// markThroughImmutable marks the cell an LValue names as immutable,
// called after a StoreThroughImmutable's write has already landed.
func (vm *VM) markThroughImmutable(lv vmvalue.LValue) {
	switch t := lv.(type) {
	case vmvalue.ArrayElem:
		vm.heaps.Arrays.MarkImmutable(vmvalue.ArrayRef(t.ArrayID), t.Index)
	case vmvalue.VecElem:
		vm.heaps.Vecs.MarkImmutable(vmvalue.VecRef(t.VecID), t.Index)
	case vmvalue.StructField:
		if inst, err := vm.heaps.Structs.Instance(vmvalue.StructRef(t.StructID)); err == nil {
			inst.MarkImmutable(t.Field)
		}
	}
}

// writeThroughReactive installs a freshly frozen reactive expression at
// the cell an LValue names. A struct field is written directly, bypassing
// any prior immutability mark (same rationale as setFieldReactive); an
// array or vec cell goes through forceArraySet/forceVecSet and is still
// rejected if it was marked immutable.
func (vm *VM) writeThroughReactive(lv vmvalue.LValue, expr bytecode.ReactiveExpr) error {
	lazy, err := vm.freeze(expr)
	if err != nil {
		return err
	}
	switch t := lv.(type) {
	case vmvalue.ArrayElem:
		return vm.forceArraySet(vmvalue.ArrayRef(t.ArrayID), t.Index, lazy)
	case vmvalue.VecElem:
		return vm.forceVecSet(vmvalue.VecRef(t.VecID), t.Index, lazy)
	case vmvalue.StructField:
		inst, err := vm.heaps.Structs.Instance(vmvalue.StructRef(t.StructID))
		if err != nil {
			return vm.fatal("%s", err)
		}
		inst.Fields[t.Field] = lazy
		return nil
	default:
		return vm.fatal("not an lvalue")
	}
}

// forceArraySet and forceVecSet store v through the heap's Set and report
// its error as fatal; they do not bypass the heap's immutability check,
// so a cell marked immutable is rejected.
func (vm *VM) forceArraySet(id vmvalue.ArrayRef, index int, v vmvalue.Value) error {
	if err := vm.heaps.Arrays.Set(id, index, v); err != nil {
		return vm.fatal("%s", err)
	}
	return nil
}

func (vm *VM) forceVecSet(id vmvalue.VecRef, index int, v vmvalue.Value) error {
	if err := vm.heaps.Vecs.Set(id, index, v); err != nil {
		return vm.fatal("%s", err)
	}
	return nil
}
