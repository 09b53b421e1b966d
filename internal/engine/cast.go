package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// execCast implements Cast(Int|Char): Char→Int takes the code point,
// Int→Char requires a valid, non-surrogate Unicode scalar value. Casting
// to the value's own kind is a no-op.
func (vm *VM) execCast(target bytecode.CastType, v vmvalue.Value) (vmvalue.Value, error) {
	switch target {
	case bytecode.CastInt:
		switch t := v.(type) {
		case vmvalue.Integer:
			return t, nil
		case vmvalue.Char:
			return vmvalue.Integer(int32(t)), nil
		default:
			return nil, vm.fatal("cannot cast %T to Int", v)
		}
	case bytecode.CastChar:
		switch t := v.(type) {
		case vmvalue.Char:
			return t, nil
		case vmvalue.Integer:
			if t < 0 || t > 0x10FFFF || (t >= 0xD800 && t <= 0xDFFF) {
				return nil, vm.fatal("%d is not a valid Unicode scalar value", t)
			}
			return vmvalue.Char(uint32(t)), nil
		default:
			return nil, vm.fatal("cannot cast %T to Char", v)
		}
	default:
		return nil, vm.fatal("unknown cast target")
	}
}
