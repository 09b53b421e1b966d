package engine

import "github.com/rxlang/reactive/internal/vmvalue"

// charsToString converts an array or vec of Chars (the convention the
// native contract uses for path and string arguments) into a Go string.
func (vm *VM) charsToString(v vmvalue.Value) (string, error) {
	resolved, err := vm.resolve(v)
	if err != nil {
		return "", err
	}

	var length int
	var get func(i int) (vmvalue.Value, error)

	switch t := resolved.(type) {
	case vmvalue.ArrayRef:
		n, err := vm.heaps.Arrays.Len(t)
		if err != nil {
			return "", vm.fatal("%s", err)
		}
		length = n
		get = func(i int) (vmvalue.Value, error) { return vm.heaps.Arrays.Get(t, i) }
	case vmvalue.VecRef:
		n, err := vm.heaps.Vecs.Len(t)
		if err != nil {
			return "", vm.fatal("%s", err)
		}
		length = n
		get = func(i int) (vmvalue.Value, error) { return vm.heaps.Vecs.Get(t, i) }
	default:
		return "", vm.fatal("expected an array or vec of Chars, found %T", resolved)
	}

	runes := make([]rune, length)
	for i := 0; i < length; i++ {
		raw, err := get(i)
		if err != nil {
			return "", vm.fatal("%s", err)
		}
		elem, err := vm.resolve(raw)
		if err != nil {
			return "", err
		}
		c, ok := elem.(vmvalue.Char)
		if !ok {
			return "", vm.fatal("expected a Char element, found %T", elem)
		}
		runes[i] = rune(c)
	}
	return string(runes), nil
}

// stringToCharArray allocates a new fixed array holding one Char per rune
// of s, the native contract's convention for returning text (e.g.
// internal_file_read, internal_buf_to_string).
func (vm *VM) stringToCharArray(s string) vmvalue.ArrayRef {
	runes := []rune(s)
	ref := vm.heaps.Arrays.New(len(runes))
	for i, r := range runes {
		_ = vm.heaps.Arrays.Set(ref, i, vmvalue.Char(r))
	}
	return ref
}

func (vm *VM) requireArgc(name string, args []vmvalue.Value, want int) error {
	if len(args) != want {
		return vm.fatal("%s: expected %d argument(s), got %d", name, want, len(args))
	}
	return nil
}
