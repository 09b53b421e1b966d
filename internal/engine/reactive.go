package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// freeze captures expr's free variables at the current point of execution,
// producing the LazyValue a StoreReactive/StoreIndexReactive/
// FieldSetReactive/reactive-field-initializer instruction binds. Captured
// values are snapshotted as-is, possibly themselves still lazy — forcing
// is always deferred to read time (spec §4.3).
func (vm *VM) freeze(expr bytecode.ReactiveExpr) (vmvalue.LazyValue, error) {
	snapshot := make(map[string]vmvalue.Value, len(expr.Captures))
	for _, name := range expr.Captures {
		v, err := vm.rawLookup(name)
		if err != nil {
			return vmvalue.LazyValue{}, err
		}
		snapshot[name] = v
	}
	vm.nextLazyID++
	return vmvalue.LazyValue{ID: vm.nextLazyID, Expr: expr, Snapshot: snapshot}, nil
}

// rawLookup is lookup without the force-on-read step: a capture snapshot
// must preserve whatever is currently bound, lazy or not.
func (vm *VM) rawLookup(name string) (vmvalue.Value, error) {
	if v, ok := vm.findImmutable(name); ok {
		return v, nil
	}
	if len(vm.structContext) > 0 {
		id := vm.structContext[len(vm.structContext)-1]
		inst, err := vm.heaps.Structs.Instance(id)
		if err != nil {
			return nil, vm.fatal("%s", err)
		}
		if v, ok := inst.Get(name); ok {
			return v, nil
		}
	}
	if vm.localEnv != nil {
		if v, ok := vm.localEnv[name]; ok {
			return v, nil
		}
	}
	if v, ok := vm.globalEnv[name]; ok {
		return v, nil
	}
	return nil, vm.fatal("undefined reference `%s`", name)
}

// resolve forces v if it is a LazyValue, recursively, so that every
// consumer of a Value (arithmetic, printing, array storage, comparisons)
// sees a concrete result without special-casing laziness itself.
func (vm *VM) resolve(v vmvalue.Value) (vmvalue.Value, error) {
	lazy, ok := v.(vmvalue.LazyValue)
	if !ok {
		return v, nil
	}
	return vm.forceLazy(lazy)
}

func (vm *VM) forceLazy(lazy vmvalue.LazyValue) (vmvalue.Value, error) {
	if _, active := vm.forcing[lazy.ID]; active {
		return nil, vm.fatal("reactive cycle detected")
	}
	vm.forcing[lazy.ID] = struct{}{}
	defer delete(vm.forcing, lazy.ID)

	vm.pushImmutableScope(lazy.Snapshot)
	result, err := vm.runExprBlock(lazy.Expr.Code)
	vm.popImmutableScope()
	if err != nil {
		return nil, err
	}
	return vm.resolve(result)
}

// tryGetField reads field off the struct instance id, forcing it if it is
// reactive, detecting self-referential cycles via activeFields. ok is
// false (with a nil error) when the instance has no such field, so
// lookup's struct-sibling tier can fall through to local/global scope.
func (vm *VM) tryGetField(id vmvalue.StructRef, field string) (vmvalue.Value, bool, error) {
	inst, err := vm.heaps.Structs.Instance(id)
	if err != nil {
		return nil, false, vm.fatal("%s", err)
	}
	v, ok := inst.Get(field)
	if !ok {
		return nil, false, nil
	}

	lazy, isLazy := v.(vmvalue.LazyValue)
	if !isLazy {
		return v, true, nil
	}

	key := structFieldKey{structID: int(id), field: field}
	if _, active := vm.activeFields[key]; active {
		return nil, true, vm.fatal("reactive cycle detected on field %q", field)
	}
	vm.activeFields[key] = struct{}{}
	vm.structContext = append(vm.structContext, id)

	scope := make(map[string]vmvalue.Value, len(inst.Fields))
	for name, fv := range inst.Fields {
		scope[name] = fv
	}
	vm.pushImmutableScope(scope)
	result, err := vm.runExprBlock(lazy.Expr.Code)
	vm.popImmutableScope()

	vm.structContext = vm.structContext[:len(vm.structContext)-1]
	delete(vm.activeFields, key)

	if err != nil {
		return nil, true, err
	}
	resolved, err := vm.resolve(result)
	return resolved, true, err
}
