package bytecode

import (
	"fmt"
	"strings"
)

// Serialize renders an instruction stream back to RXB1 text. Unlike the
// teacher's Dasm (which only ever disassembles a binary-encoded Program
// and panics as "unreachable" for now), RXB1's round-trip testable
// property requires this direction to actually work, so it walks the same
// grammar parseOp understands and emits it in reverse.
func Serialize(instrs []Instruction) ([]byte, error) {
	var b strings.Builder
	b.WriteString(Magic)
	b.WriteByte('\n')
	w := &writer{b: &b}
	if err := w.writeAll(instrs); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

type writer struct {
	b *strings.Builder
}

func (w *writer) writeAll(instrs []Instruction) error {
	for _, instr := range instrs {
		if err := w.writeInstruction(instr); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) line(parts ...string) {
	w.b.WriteString(strings.Join(parts, " "))
	w.b.WriteByte('\n')
}

func (w *writer) writeInstruction(instr Instruction) error {
	switch v := instr.(type) {
	case Push:
		w.line("Push", itoa(int64(v.N)))
	case PushChar:
		w.line("PushChar", utoa(uint64(v.Code)))
	case Load:
		w.line("Load", v.Name)
	case Store:
		w.line("Store", v.Name)
	case StoreImmutable:
		w.line("StoreImmutable", v.Name)
	case StoreReactive:
		w.writeReactiveNamed("StoreReactive", v.Name, v.Expr)
	case Add:
		w.line("Add")
	case Sub:
		w.line("Sub")
	case Mul:
		w.line("Mul")
	case Div:
		w.line("Div")
	case Modulo:
		w.line("Modulo")
	case Greater:
		w.line("Greater")
	case Less:
		w.line("Less")
	case GreaterEqual:
		w.line("GreaterEqual")
	case LessEqual:
		w.line("LessEqual")
	case Equal:
		w.line("Equal")
	case NotEqual:
		w.line("NotEqual")
	case And:
		w.line("And")
	case Or:
		w.line("Or")
	case Label:
		w.line("Label", v.Name)
	case Jump:
		w.line("Jump", v.Label)
	case JumpIfZero:
		w.line("JumpIfZero", v.Label)
	case Return:
		w.line("Return")
	case ArrayNew:
		w.line("ArrayNew")
	case ArrayGet:
		w.line("ArrayGet")
	case ArrayLValue:
		w.line("ArrayLValue")
	case StoreIndex:
		w.line("StoreIndex", v.Name)
	case StoreIndexReactive:
		w.writeReactiveNamed("StoreIndexReactive", v.Name, v.Expr)
	case StoreStruct:
		return w.writeStruct(v)
	case NewStruct:
		w.line("NewStruct", v.Name)
	case FieldGet:
		w.line("FieldGet", v.Field)
	case FieldSet:
		w.line("FieldSet", v.Field)
	case FieldSetReactive:
		w.writeReactiveNamed("FieldSetReactive", v.Field, v.Expr)
	case FieldLValue:
		w.line("FieldLValue", v.Field)
	case StoreThrough:
		w.line("StoreThrough")
	case StoreThroughReactive:
		w.writeReactiveUnnamed("StoreThroughReactive", v.Expr)
	case StoreThroughImmutable:
		w.line("StoreThroughImmutable")
	case StoreFunction:
		return w.writeFunction(v)
	case Call:
		w.line("Call", v.Name, itoa(int64(v.Argc)))
	case PushImmutableContext:
		w.line("PushImmutableContext")
	case PopImmutableContext:
		w.line("PopImmutableContext")
	case ClearImmutableContext:
		w.line("ClearImmutableContext")
	case Print:
		w.line("Print")
	case Println:
		w.line("Println")
	case Assert:
		w.line("Assert")
	case Error:
		w.line("Error", quoteString(v.Message))
	case Import:
		parts := append([]string{"Import", itoa(int64(len(v.Segments)))}, v.Segments...)
		w.line(parts...)
	case Cast:
		w.line("Cast", v.Target.String())
	default:
		return fmt.Errorf("serialize: unknown instruction %T", instr)
	}
	return nil
}

func (w *writer) writeReactiveNamed(op, name string, expr ReactiveExpr) {
	parts := []string{op, name, itoa(int64(len(expr.Captures)))}
	parts = append(parts, expr.Captures...)
	parts = append(parts, itoa(int64(len(expr.Code))))
	w.line(parts...)
	w.writeAll(expr.Code)
}

func (w *writer) writeReactiveUnnamed(op string, expr ReactiveExpr) {
	parts := []string{op, itoa(int64(len(expr.Captures)))}
	parts = append(parts, expr.Captures...)
	parts = append(parts, itoa(int64(len(expr.Code))))
	w.line(parts...)
	w.writeAll(expr.Code)
}

func (w *writer) writeFunction(v StoreFunction) error {
	parts := []string{"StoreFunction", v.Name, itoa(int64(len(v.Params)))}
	parts = append(parts, v.Params...)
	parts = append(parts, itoa(int64(len(v.Body))))
	w.line(parts...)
	return w.writeAll(v.Body)
}

func (w *writer) writeStruct(v StoreStruct) error {
	w.line("StoreStruct", v.Name, itoa(int64(len(v.Fields))))
	for _, f := range v.Fields {
		if err := w.writeField(f); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeField(f FieldInit) error {
	switch f.Kind {
	case FieldNone:
		w.line("Field", f.Name, "None")
		return nil
	case FieldMutable:
		w.line("Field", f.Name, "Mutable", itoa(int64(len(f.Code))))
		return w.writeAll(f.Code)
	case FieldImmutable:
		w.line("Field", f.Name, "Immutable", itoa(int64(len(f.Code))))
		return w.writeAll(f.Code)
	case FieldReactive:
		parts := []string{"Field", f.Name, "Reactive", itoa(int64(len(f.Expr.Captures)))}
		parts = append(parts, f.Expr.Captures...)
		parts = append(parts, itoa(int64(len(f.Expr.Code))))
		w.line(parts...)
		return w.writeAll(f.Expr.Code)
	default:
		return fmt.Errorf("serialize: unknown field init kind %v", f.Kind)
	}
}

func itoa(n int64) string {
	return fmt.Sprintf("%d", n)
}

func utoa(n uint64) string {
	return fmt.Sprintf("%d", n)
}
