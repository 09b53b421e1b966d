package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// defineStruct registers a StoreStruct's field list under its name,
// overwriting any earlier definition (the compiler only ever emits one
// StoreStruct per name, but re-running top-level code, e.g. a REPL line,
// should win over the stale definition rather than fail).
func (vm *VM) defineStruct(name string, fields []bytecode.FieldInit) {
	vm.structDefs[name] = structDef{fields: fields}
}

// newStruct allocates an instance of name and runs its field initializers
// in declaration order. Each initializer (and any reactive field forced
// while it runs) can refer to a sibling field by bare name via
// structContext; a forward reference to a field not yet initialized reads
// back vmvalue.Uninitialized, which is fatal the moment something tries
// to use it as a concrete value.
func (vm *VM) newStruct(name string) (vmvalue.StructRef, error) {
	def, ok := vm.structDefs[name]
	if !ok {
		return 0, vm.fatal("undefined struct `%s`", name)
	}

	id := vm.heaps.Structs.New()
	inst, err := vm.heaps.Structs.Instance(id)
	if err != nil {
		return 0, vm.fatal("%s", err)
	}
	for _, f := range def.fields {
		inst.Fields[f.Name] = vmvalue.Uninitialized{}
	}

	vm.structContext = append(vm.structContext, id)
	for _, f := range def.fields {
		var value vmvalue.Value
		switch f.Kind {
		case bytecode.FieldNone:
			value = vmvalue.Uninitialized{}
		case bytecode.FieldMutable, bytecode.FieldImmutable:
			v, err := vm.runExprBlock(f.Code)
			if err != nil {
				vm.structContext = vm.structContext[:len(vm.structContext)-1]
				return 0, err
			}
			value = v
		case bytecode.FieldReactive:
			lazy, err := vm.freeze(f.Expr)
			if err != nil {
				vm.structContext = vm.structContext[:len(vm.structContext)-1]
				return 0, err
			}
			value = lazy
		default:
			vm.structContext = vm.structContext[:len(vm.structContext)-1]
			return 0, vm.fatal("unknown field init kind for `%s`", f.Name)
		}
		inst.Fields[f.Name] = value
		if f.Kind == bytecode.FieldImmutable {
			inst.MarkImmutable(f.Name)
		}
	}
	vm.structContext = vm.structContext[:len(vm.structContext)-1]

	return id, nil
}

// getField reads field off id, forcing and resolving it if reactive.
func (vm *VM) getField(id vmvalue.StructRef, field string) (vmvalue.Value, error) {
	v, ok, err := vm.tryGetField(id, field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, vm.fatal("struct has no field `%s`", field)
	}
	return v, nil
}

// setField writes field on id, rejecting the write if it was marked
// immutable (StoreStruct's Immutable kind, or a prior StoreThroughImmutable
// via a FieldLValue).
func (vm *VM) setField(id vmvalue.StructRef, field string, v vmvalue.Value) error {
	inst, err := vm.heaps.Structs.Instance(id)
	if err != nil {
		return vm.fatal("%s", err)
	}
	if err := inst.Set(field, v); err != nil {
		return vm.fatal("%s", err)
	}
	return nil
}

// setFieldReactive rebinds field to a freshly frozen reactive expression,
// bypassing the immutability check: FieldSetReactive always installs a
// new deferred computation regardless of a prior mark (spec §4.4 — a
// reactive rebind is not a "write through" of the old value).
func (vm *VM) setFieldReactive(id vmvalue.StructRef, field string, expr bytecode.ReactiveExpr) error {
	lazy, err := vm.freeze(expr)
	if err != nil {
		return err
	}
	inst, err := vm.heaps.Structs.Instance(id)
	if err != nil {
		return vm.fatal("%s", err)
	}
	inst.Fields[field] = lazy
	return nil
}
