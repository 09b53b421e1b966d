// Package bytecode defines the RXB1 instruction grammar and its textual
// on-disk encoding. It has no notion of a runtime value, a heap, or an
// environment — it only knows how to turn an instruction stream into text
// and back, recursively, for the nested code blocks that functions,
// reactive expressions, and struct field initializers carry.
package bytecode

// Instruction is a closed sum of every RXB1 opcode. Each concrete type
// below implements it with an unexported marker method, so a value
// outside this package can never satisfy it and a type switch over all
// the cases is exhaustiveness-checkable.
type Instruction interface {
	isInstruction()
}

// CastType selects the target kind for a Cast instruction.
type CastType int

const (
	CastInt CastType = iota
	CastChar
)

func (c CastType) String() string {
	switch c {
	case CastInt:
		return "Int"
	case CastChar:
		return "Char"
	default:
		return "Cast?"
	}
}

// ReactiveExpr is a deferred expression: its instruction stream plus the
// ordered list of free-variable names the engine must snapshot when the
// expression is frozen (see spec §4.3).
type ReactiveExpr struct {
	Code     []Instruction
	Captures []string
}

// FieldInitKind distinguishes the four ways a StoreStruct field can be
// initialized.
type FieldInitKind int

const (
	FieldNone FieldInitKind = iota
	FieldMutable
	FieldImmutable
	FieldReactive
)

func (k FieldInitKind) String() string {
	switch k {
	case FieldNone:
		return "None"
	case FieldMutable:
		return "Mutable"
	case FieldImmutable:
		return "Immutable"
	case FieldReactive:
		return "Reactive"
	default:
		return "FieldInitKind?"
	}
}

// FieldInit is one entry of a StoreStruct's field list. Code is populated
// for Mutable/Immutable; Expr is populated for Reactive; neither is set
// for None.
type FieldInit struct {
	Name     string
	Kind     FieldInitKind
	Code     []Instruction
	Expr     ReactiveExpr
}

// --- stack / literal ---

type Push struct{ N int32 }
type PushChar struct{ Code uint32 }
type Load struct{ Name string }

func (Push) isInstruction()     {}
func (PushChar) isInstruction() {}
func (Load) isInstruction()     {}

// --- variable storage ---

type Store struct{ Name string }
type StoreImmutable struct{ Name string }
type StoreReactive struct {
	Name string
	Expr ReactiveExpr
}

func (Store) isInstruction()          {}
func (StoreImmutable) isInstruction() {}
func (StoreReactive) isInstruction()  {}

// --- arithmetic ---

type Add struct{}
type Sub struct{}
type Mul struct{}
type Div struct{}
type Modulo struct{}

func (Add) isInstruction()     {}
func (Sub) isInstruction()     {}
func (Mul) isInstruction()     {}
func (Div) isInstruction()     {}
func (Modulo) isInstruction()  {}

// --- comparison / logic ---

type Greater struct{}
type Less struct{}
type GreaterEqual struct{}
type LessEqual struct{}
type Equal struct{}
type NotEqual struct{}
type And struct{}
type Or struct{}

func (Greater) isInstruction()      {}
func (Less) isInstruction()         {}
func (GreaterEqual) isInstruction() {}
func (LessEqual) isInstruction()    {}
func (Equal) isInstruction()        {}
func (NotEqual) isInstruction()     {}
func (And) isInstruction()          {}
func (Or) isInstruction()           {}

// --- control flow ---

type Label struct{ Name string }
type Jump struct{ Label string }
type JumpIfZero struct{ Label string }
type Return struct{}

func (Label) isInstruction()      {}
func (Jump) isInstruction()       {}
func (JumpIfZero) isInstruction() {}
func (Return) isInstruction()     {}

// --- arrays ---

type ArrayNew struct{}
type ArrayGet struct{}
type ArrayLValue struct{}
type StoreIndex struct{ Name string }
type StoreIndexReactive struct {
	Name string
	Expr ReactiveExpr
}

func (ArrayNew) isInstruction()           {}
func (ArrayGet) isInstruction()           {}
func (ArrayLValue) isInstruction()        {}
func (StoreIndex) isInstruction()         {}
func (StoreIndexReactive) isInstruction() {}

// --- structs ---

type StoreStruct struct {
	Name   string
	Fields []FieldInit
}
type NewStruct struct{ Name string }
type FieldGet struct{ Field string }
type FieldSet struct{ Field string }
type FieldSetReactive struct {
	Field string
	Expr  ReactiveExpr
}
type FieldLValue struct{ Field string }

func (StoreStruct) isInstruction()      {}
func (NewStruct) isInstruction()        {}
func (FieldGet) isInstruction()         {}
func (FieldSet) isInstruction()         {}
func (FieldSetReactive) isInstruction() {}
func (FieldLValue) isInstruction()      {}

// --- indirect stores ---

type StoreThrough struct{}
type StoreThroughReactive struct{ Expr ReactiveExpr }
type StoreThroughImmutable struct{}

func (StoreThrough) isInstruction()          {}
func (StoreThroughReactive) isInstruction()  {}
func (StoreThroughImmutable) isInstruction() {}

// --- functions ---

type StoreFunction struct {
	Name   string
	Params []string
	Body   []Instruction
}
type Call struct {
	Name string
	Argc int
}

func (StoreFunction) isInstruction() {}
func (Call) isInstruction()          {}

// --- immutable scopes ---

type PushImmutableContext struct{}
type PopImmutableContext struct{}
type ClearImmutableContext struct{}

func (PushImmutableContext) isInstruction()  {}
func (PopImmutableContext) isInstruction()   {}
func (ClearImmutableContext) isInstruction() {}

// --- io ---

type Print struct{}
type Println struct{}
type Assert struct{}
type Error struct{ Message string }

func (Print) isInstruction()   {}
func (Println) isInstruction() {}
func (Assert) isInstruction()  {}
func (Error) isInstruction()   {}

// --- modules ---

type Import struct{ Segments []string }

func (Import) isInstruction() {}

// --- casts ---

type Cast struct{ Target CastType }

func (Cast) isInstruction() {}
