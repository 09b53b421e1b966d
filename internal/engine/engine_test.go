package engine_test

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/engine"
	"github.com/stretchr/testify/require"
)

// captureOutput collects everything Print/Println writes, in place of
// os.Stdout.
type captureOutput struct{ lines []byte }

func (c *captureOutput) WriteString(s string) (int, error) {
	c.lines = append(c.lines, s...)
	return len(s), nil
}

func newVM() (*engine.VM, *captureOutput) {
	vm := engine.New(".", logr.Discard())
	out := &captureOutput{}
	vm.SetOutput(out)
	return vm, out
}

// 2 + 3 = 5.
func TestArithmeticAndPrintln(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 2},
		bytecode.Push{N: 3},
		bytecode.Add{},
		bytecode.Println{},
	})
	require.NoError(t, err)
	require.Equal(t, "5\n", string(out.lines))
}

// An immutable binding can be reloaded once its scope is popped and a
// fresh one pushed, the way a REPL re-evaluating a line would, even
// though redefining it within the same scope is rejected.
func TestImmutableReload(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.PushImmutableContext{},
		bytecode.Push{N: 1},
		bytecode.StoreImmutable{Name: "x"},
		bytecode.Load{Name: "x"},
		bytecode.Println{},
		bytecode.PopImmutableContext{},

		bytecode.PushImmutableContext{},
		bytecode.Push{N: 2},
		bytecode.StoreImmutable{Name: "x"},
		bytecode.Load{Name: "x"},
		bytecode.Println{},
		bytecode.PopImmutableContext{},
	})
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", string(out.lines))
}

func TestImmutableRedefinitionWithinSameScopeFails(t *testing.T) {
	vm, _ := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 1},
		bytecode.StoreImmutable{Name: "x"},
		bytecode.Push{N: 2},
		bytecode.StoreImmutable{Name: "x"},
	})
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, "already defined")
}

// A reactive binding freezes its captures at bind time: changing the
// captured global afterward does not change what the reactive produces.
func TestReactiveCapturesFreshnessAtBind(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 10},
		bytecode.Store{Name: "a"},
		bytecode.StoreReactive{
			Name: "r",
			Expr: bytecode.ReactiveExpr{
				Captures: []string{"a"},
				Code: []bytecode.Instruction{
					bytecode.Load{Name: "a"},
					bytecode.Push{N: 1},
					bytecode.Add{},
				},
			},
		},
		bytecode.Load{Name: "r"},
		bytecode.Println{},

		bytecode.Push{N: 20},
		bytecode.Store{Name: "a"},
		bytecode.Load{Name: "r"},
		bytecode.Println{},
	})
	require.NoError(t, err)
	require.Equal(t, "11\n11\n", string(out.lines))
}

// A reactive whose body reads its own binding must be caught as a cycle
// rather than recursing until the Go call stack overflows.
func TestReactiveSelfCycleDetected(t *testing.T) {
	vm, _ := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.StoreReactive{
			Name: "r",
			Expr: bytecode.ReactiveExpr{
				Code: []bytecode.Instruction{
					bytecode.Load{Name: "r"},
				},
			},
		},
		bytecode.Load{Name: "r"},
	})
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, "reactive cycle")
}

// A reactive struct field resolves a sibling field by bare name through
// the struct's current value, not a frozen capture, so changing the
// sibling changes what the reactive field reads next time.
func TestStructFieldSiblingReactiveIsLive(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.StoreStruct{
			Name: "P",
			Fields: []bytecode.FieldInit{
				{Name: "x", Kind: bytecode.FieldMutable, Code: []bytecode.Instruction{bytecode.Push{N: 3}}},
				{Name: "y", Kind: bytecode.FieldReactive, Expr: bytecode.ReactiveExpr{
					Captures: []string{"x"},
					Code: []bytecode.Instruction{
						bytecode.Load{Name: "x"},
						bytecode.Push{N: 2},
						bytecode.Mul{},
					},
				}},
			},
		},
		bytecode.NewStruct{Name: "P"},
		bytecode.Store{Name: "p"},

		bytecode.Load{Name: "p"},
		bytecode.FieldGet{Field: "y"},
		bytecode.Println{},

		bytecode.Load{Name: "p"},
		bytecode.Push{N: 10},
		bytecode.FieldSet{Field: "x"},

		bytecode.Load{Name: "p"},
		bytecode.FieldGet{Field: "y"},
		bytecode.Println{},
	})
	require.NoError(t, err)
	require.Equal(t, "6\n20\n", string(out.lines))
}

// A function's parameters and local bindings are isolated from the
// calling frame: a global of the same name as a parameter survives the
// call unchanged.
func TestFunctionFrameIsolation(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 100},
		bytecode.Store{Name: "n"},

		bytecode.StoreFunction{
			Name:   "f",
			Params: []string{"n"},
			Body: []bytecode.Instruction{
				bytecode.Load{Name: "n"},
				bytecode.Push{N: 1},
				bytecode.Add{},
				bytecode.Return{},
			},
		},

		bytecode.Push{N: 5},
		bytecode.Call{Name: "f", Argc: 1},
		bytecode.Println{},

		bytecode.Load{Name: "n"},
		bytecode.Println{},
	})
	require.NoError(t, err)
	require.Equal(t, "6\n100\n", string(out.lines))
}

// Writing through an lvalue twice after the first write is marked
// immutable fails on the second attempt.
func TestIndirectStoreThenImmutableThenFails(t *testing.T) {
	vm, _ := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 2},
		bytecode.ArrayNew{},
		bytecode.Store{Name: "arr"},

		bytecode.Load{Name: "arr"},
		bytecode.Push{N: 0},
		bytecode.ArrayLValue{},
		bytecode.Push{N: 42},
		bytecode.StoreThroughImmutable{},

		bytecode.Load{Name: "arr"},
		bytecode.Push{N: 0},
		bytecode.ArrayLValue{},
		bytecode.Push{N: 99},
		bytecode.StoreThrough{},
	})
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, "immutable")
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	vm, _ := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 1},
		bytecode.Push{N: 0},
		bytecode.Div{},
	})
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, "division by zero")
}

func TestCastIntToCharAndBack(t *testing.T) {
	vm, out := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.Push{N: 65},
		bytecode.Cast{Target: bytecode.CastChar},
		bytecode.Println{},
		bytecode.Push{N: 65},
		bytecode.Cast{Target: bytecode.CastChar},
		bytecode.Cast{Target: bytecode.CastInt},
		bytecode.Println{},
	})
	require.NoError(t, err)
	require.Equal(t, "A\n65\n", string(out.lines))
}

func TestRuntimeErrorTraceNamesActiveFrames(t *testing.T) {
	vm, _ := newVM()
	err := vm.Run([]bytecode.Instruction{
		bytecode.StoreFunction{
			Name: "boom",
			Body: []bytecode.Instruction{
				bytecode.Push{N: 1},
				bytecode.Push{N: 0},
				bytecode.Div{},
			},
		},
		bytecode.Call{Name: "boom", Argc: 0},
	})
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, []string{"boom"}, rerr.Trace)
}
