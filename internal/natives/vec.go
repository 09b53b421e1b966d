package natives

import (
	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/vmvalue"
)

func installVec(vm *engine.VM) {
	vm.RegisterNative("internal_vec_new", vecNew)
	vm.RegisterNative("internal_vec_push", vecPush)
	vm.RegisterNative("internal_vec_pop", vecPop)
}

func vecRef(vm *engine.VM, v vmvalue.Value) (vmvalue.VecRef, error) {
	resolved, err := vm.Resolve(v)
	if err != nil {
		return 0, err
	}
	ref, ok := resolved.(vmvalue.VecRef)
	if !ok {
		return 0, vm.Fatal("expected a vec reference, found %T", resolved)
	}
	return ref, nil
}

func vecNew(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_vec_new", args, 0); err != nil {
		return nil, err
	}
	return vm.Heaps().Vecs.New(), nil
}

func vecPush(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_vec_push", args, 2); err != nil {
		return nil, err
	}
	ref, err := vecRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	if err := vm.Heaps().Vecs.Push(ref, args[1]); err != nil {
		return nil, vm.Fatal("%s", err)
	}
	n, err := vm.Heaps().Vecs.Len(ref)
	if err != nil {
		return nil, vm.Fatal("%s", err)
	}
	return vmvalue.Integer(n), nil
}

func vecPop(vm *engine.VM, args []vmvalue.Value) (vmvalue.Value, error) {
	if err := vm.RequireArgc("internal_vec_pop", args, 1); err != nil {
		return nil, err
	}
	ref, err := vecRef(vm, args[0])
	if err != nil {
		return nil, err
	}
	v, err := vm.Heaps().Vecs.Pop(ref)
	if err != nil {
		return nil, vm.Fatal("%s", err)
	}
	return vm.Resolve(v)
}
