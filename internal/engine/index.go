package engine

import "github.com/rxlang/reactive/internal/vmvalue"

// resolveIndexable looks name up in the writable environment only (spec
// §4.1: StoreIndex/StoreIndexReactive write "into the named
// writable-environment array", not through an arbitrary LValue) and
// requires it be an array or vec reference.
func (vm *VM) resolveIndexable(name string) (vmvalue.Value, error) {
	env := vm.writableEnv()
	v, ok := env[name]
	if !ok {
		return nil, vm.fatal("undefined reference `%s`", name)
	}
	switch v.(type) {
	case vmvalue.ArrayRef, vmvalue.VecRef:
		return v, nil
	default:
		return nil, vm.fatal("`%s` is not an array or vec", name)
	}
}

// storeIndexNamed implements StoreIndex(name): it honors the same
// immutable-scope shadow rejection as Store, since it targets a name
// rather than a heap cell directly.
func (vm *VM) storeIndexNamed(name string, index int, v vmvalue.Value) error {
	if vm.immutableExists(name) {
		return vm.fatal("cannot store to `%s`: shadowed by an immutable binding", name)
	}
	ref, err := vm.resolveIndexable(name)
	if err != nil {
		return err
	}
	switch r := ref.(type) {
	case vmvalue.ArrayRef:
		if err := vm.heaps.Arrays.Set(r, index, v); err != nil {
			return vm.fatal("%s", err)
		}
	case vmvalue.VecRef:
		if err := vm.heaps.Vecs.Set(r, index, v); err != nil {
			return vm.fatal("%s", err)
		}
	}
	return nil
}

// storeIndexReactiveNamed is StoreIndex's lazy analogue. It writes through
// forceArraySet/forceVecSet, so, unlike a reactive struct-field rebind, it
// does not bypass the heap's per-cell immutability check.
func (vm *VM) storeIndexReactiveNamed(name string, index int, lazy vmvalue.LazyValue) error {
	if vm.immutableExists(name) {
		return vm.fatal("cannot store to `%s`: shadowed by an immutable binding", name)
	}
	ref, err := vm.resolveIndexable(name)
	if err != nil {
		return err
	}
	switch r := ref.(type) {
	case vmvalue.ArrayRef:
		return vm.forceArraySet(r, index, lazy)
	case vmvalue.VecRef:
		return vm.forceVecSet(r, index, lazy)
	}
	return nil
}
