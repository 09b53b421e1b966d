package bytecode_test

import (
	"testing"

	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/stretchr/testify/require"
)

func TestDeserializeHeaderRejection(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		err  string
	}{
		{"empty", "", "bytecode is empty"},
		{"wrong magic", "RXB2\nPush 1\n", "invalid bytecode header"},
		{"missing magic", "Push 1\n", "invalid bytecode header"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := bytecode.Deserialize([]byte(c.in))
			require.ErrorContains(t, err, c.err)
		})
	}
}

func TestDeserializeInstructions(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		want []bytecode.Instruction
		err  string
	}{
		{"push and add", "RXB1\nPush 2\nPush 3\nAdd\nPrintln\n", []bytecode.Instruction{
			bytecode.Push{N: 2},
			bytecode.Push{N: 3},
			bytecode.Add{},
			bytecode.Println{},
		}, ""},

		{"load store", "RXB1\nPush 10\nStoreImmutable \"x\"\nLoad \"x\"\n", []bytecode.Instruction{
			bytecode.Push{N: 10},
			bytecode.StoreImmutable{Name: "x"},
			bytecode.Load{Name: "x"},
		}, ""},

		{"unknown opcode", "RXB1\nBogus\n", nil, "unknown instruction `Bogus`"},

		{"bad arity", "RXB1\nPush 1 2\n", nil, "Push expects 2 token(s)"},

		{"blank line is an error", "RXB1\nPush 1\n\nAdd\n", nil, "empty line"},

		{"function with nested code", `RXB1
StoreFunction "f" 1 "n" 3
Load "n"
Load "n"
Mul
`, []bytecode.Instruction{
			bytecode.StoreFunction{
				Name:   "f",
				Params: []string{"n"},
				Body: []bytecode.Instruction{
					bytecode.Load{Name: "n"},
					bytecode.Load{Name: "n"},
					bytecode.Mul{},
				},
			},
		}, ""},

		{"reactive captures", `RXB1
StoreReactive "r" 1 "a" 3
Load "a"
Push 10
Mul
`, []bytecode.Instruction{
			bytecode.StoreReactive{
				Name: "r",
				Expr: bytecode.ReactiveExpr{
					Captures: []string{"a"},
					Code: []bytecode.Instruction{
						bytecode.Load{Name: "a"},
						bytecode.Push{N: 10},
						bytecode.Mul{},
					},
				},
			},
		}, ""},

		{"struct with field kinds", `RXB1
StoreStruct "P" 2
Field "x" Mutable 1
Push 3
Field "y" Reactive 1 "x" 3
Load "x"
Push 2
Mul
`, []bytecode.Instruction{
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
		}, ""},

		{"cast", "RXB1\nCast Char\nCast Int\n", []bytecode.Instruction{
			bytecode.Cast{Target: bytecode.CastChar},
			bytecode.Cast{Target: bytecode.CastInt},
		}, ""},

		{"unknown cast type", "RXB1\nCast Bogus\n", nil, "unknown cast type"},

		{"import segments", `RXB1
Import 2 "fmt" "strings"
`, []bytecode.Instruction{
			bytecode.Import{Segments: []string{"fmt", "strings"}},
		}, ""},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, err := bytecode.Deserialize([]byte(c.in))
			if c.err != "" {
				require.ErrorContains(t, err, c.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestDeserializeStringEscapes(t *testing.T) {
	in := "RXB1\nError \"line\\nbreak \\u{1F600}\"\n"
	got, err := bytecode.Deserialize([]byte(in))
	require.NoError(t, err)
	require.Equal(t, []bytecode.Instruction{
		bytecode.Error{Message: "line\nbreak \U0001F600"},
	}, got)
}
