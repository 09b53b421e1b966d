package engine

import "github.com/rxlang/reactive/internal/vmvalue"

// findImmutable searches the immutable scope stack innermost-first and
// returns the bound value, if any.
func (vm *VM) findImmutable(name string) (vmvalue.Value, bool) {
	for i := len(vm.immutable) - 1; i >= 0; i-- {
		if v, ok := vm.immutable[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// immutableExists reports whether name is bound in any immutable scope
// currently on the stack.
func (vm *VM) immutableExists(name string) bool {
	_, ok := vm.findImmutable(name)
	return ok
}

// lookup resolves name for Load: immutable scopes (innermost first), then
// a sibling field of the struct instance currently being initialized or
// forced (if any), then the local frame environment if one is active,
// else the global environment. The struct-sibling tier is what lets a
// reactive or Mutable/Immutable field initializer refer to another field
// of the same instance by its bare name, forcing it if it is itself
// reactive.
func (vm *VM) lookup(name string) (vmvalue.Value, error) {
	if v, ok := vm.findImmutable(name); ok {
		return vm.resolve(v)
	}
	if len(vm.structContext) > 0 {
		id := vm.structContext[len(vm.structContext)-1]
		if v, ok, err := vm.tryGetField(id, name); err != nil {
			return nil, err
		} else if ok {
			return v, nil
		}
	}
	if vm.localEnv != nil {
		if v, ok := vm.localEnv[name]; ok {
			return vm.resolve(v)
		}
	}
	if v, ok := vm.globalEnv[name]; ok {
		return vm.resolve(v)
	}
	return nil, vm.fatal("undefined reference `%s`", name)
}

// writableEnv returns the environment Store/StoreIndex/StoreFunction write
// into: the local frame env if a function is active, else the global env.
func (vm *VM) writableEnv() map[string]vmvalue.Value {
	if vm.localEnv != nil {
		return vm.localEnv
	}
	return vm.globalEnv
}

// bindMutable implements Store: rejects the name if any immutable scope
// shadows it.
func (vm *VM) bindMutable(name string, v vmvalue.Value) error {
	if vm.immutableExists(name) {
		return vm.fatal("cannot store to `%s`: shadowed by an immutable binding", name)
	}
	vm.writableEnv()[name] = v
	return nil
}

// bindImmutable implements StoreImmutable: fails on redefinition within
// the topmost immutable scope.
func (vm *VM) bindImmutable(name string, v vmvalue.Value) error {
	top := vm.immutable[len(vm.immutable)-1]
	if _, exists := top[name]; exists {
		return vm.fatal("`%s` is already defined in this immutable scope", name)
	}
	top[name] = v
	return nil
}

func (vm *VM) pushImmutableScope(scope map[string]vmvalue.Value) {
	if scope == nil {
		scope = make(map[string]vmvalue.Value)
	}
	vm.immutable = append(vm.immutable, scope)
}

func (vm *VM) popImmutableScope() {
	vm.immutable = vm.immutable[:len(vm.immutable)-1]
}
