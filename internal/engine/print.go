package engine

import (
	"strconv"
	"strings"

	"github.com/rxlang/reactive/internal/vmvalue"
)

// render implements the Print/Println rule set: integers print decimal,
// a lone Char prints as the character itself, a Char-aggregate (array,
// vec or buffer) prints as its concatenated text, and an
// Integer-aggregate prints its length rather than its contents. An empty
// aggregate has no element to classify by, so it prints as length 0.
func (vm *VM) render(v vmvalue.Value) (string, error) {
	resolved, err := vm.resolve(v)
	if err != nil {
		return "", err
	}
	switch t := resolved.(type) {
	case vmvalue.Integer:
		return strconv.Itoa(int(t)), nil
	case vmvalue.Char:
		return string(rune(t)), nil
	case vmvalue.BufferRef:
		return vm.heaps.Buffers.String(t)
	case vmvalue.ArrayRef:
		return vm.renderAggregate(t)
	case vmvalue.VecRef:
		return vm.renderAggregate(t)
	case vmvalue.StructRef:
		return "<struct>", nil
	case vmvalue.Function, vmvalue.NativeFunction:
		return "<function>", nil
	case vmvalue.Uninitialized:
		return "", vm.fatal("read of an uninitialized value")
	default:
		return "", vm.fatal("cannot print value of type %T", resolved)
	}
}

// renderAggregate classifies an array or vec by its first element's
// resolved type and renders it per the rule in render's doc comment.
func (vm *VM) renderAggregate(ref any) (string, error) {
	var elems []vmvalue.Value
	var err error
	switch r := ref.(type) {
	case vmvalue.ArrayRef:
		n, e := vm.heaps.Arrays.Len(r)
		if e != nil {
			return "", vm.fatal("%s", e)
		}
		elems = make([]vmvalue.Value, n)
		for i := range elems {
			if elems[i], err = vm.heaps.Arrays.Get(r, i); err != nil {
				return "", vm.fatal("%s", err)
			}
		}
	case vmvalue.VecRef:
		n, e := vm.heaps.Vecs.Len(r)
		if e != nil {
			return "", vm.fatal("%s", e)
		}
		elems = make([]vmvalue.Value, n)
		for i := range elems {
			if elems[i], err = vm.heaps.Vecs.Get(r, i); err != nil {
				return "", vm.fatal("%s", err)
			}
		}
	}

	if len(elems) == 0 {
		return "0", nil
	}
	first, err := vm.resolve(elems[0])
	if err != nil {
		return "", err
	}
	if _, isChar := first.(vmvalue.Char); !isChar {
		return strconv.Itoa(len(elems)), nil
	}

	var sb strings.Builder
	for _, e := range elems {
		r, err := vm.resolve(e)
		if err != nil {
			return "", err
		}
		c, ok := r.(vmvalue.Char)
		if !ok {
			return "", vm.fatal("mixed-type aggregate cannot be printed as text")
		}
		sb.WriteRune(rune(c))
	}
	return sb.String(), nil
}
