package bytecode_test

import (
	"testing"

	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/stretchr/testify/require"
)

// TestSerializeRoundTrip exercises spec's round-trip testable property:
// deserialize(serialize(I)) == I, mirroring the teacher's TestAsmRoundtrip
// shape (assemble, disassemble, compare) even though here both directions
// run over the same text grammar instead of assemble vs. a binary Program.
func TestSerializeRoundTrip(t *testing.T) {
	programs := [][]bytecode.Instruction{
		{bytecode.Push{N: 2}, bytecode.Push{N: 3}, bytecode.Add{}, bytecode.Println{}},
		{
			bytecode.StoreFunction{
				Name:   "square",
				Params: []string{"n"},
				Body: []bytecode.Instruction{
					bytecode.Load{Name: "n"},
					bytecode.Load{Name: "n"},
					bytecode.Mul{},
					bytecode.Return{},
				},
			},
			bytecode.Push{N: 5},
			bytecode.Call{Name: "square", Argc: 1},
			bytecode.Println{},
		},
		{
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
					{Name: "z", Kind: bytecode.FieldNone},
				},
			},
		},
		{
			bytecode.ArrayNew{},
			bytecode.ArrayLValue{},
			bytecode.Push{N: 42},
			bytecode.StoreThrough{},
			bytecode.StoreThroughImmutable{},
			bytecode.StoreThroughReactive{Expr: bytecode.ReactiveExpr{
				Captures: []string{"a", "b"},
				Code:     []bytecode.Instruction{bytecode.Load{Name: "a"}},
			}},
		},
		{bytecode.Error{Message: "bad \"quote\" and \\ and \nnewline"}},
		{bytecode.Import{Segments: []string{"std", "io"}}},
		{bytecode.Cast{Target: bytecode.CastChar}, bytecode.Cast{Target: bytecode.CastInt}},
	}

	for i, prog := range programs {
		t.Run(string(rune('a'+i)), func(t *testing.T) {
			data, err := bytecode.Serialize(prog)
			require.NoError(t, err)
			got, err := bytecode.Deserialize(data)
			require.NoError(t, err)
			require.Equal(t, prog, got)
		})
	}
}
