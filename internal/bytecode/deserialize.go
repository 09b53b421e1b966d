package bytecode

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
)

// Magic is the exact header line every RXB1 file must begin with.
const Magic = "RXB1"

// Deserialize parses RXB1 text into an instruction stream. It rejects any
// input whose first line is not exactly Magic, and reports errors with
// 1-based line numbers.
func Deserialize(input []byte) ([]Instruction, error) {
	lines, err := splitLines(input)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("bytecode is empty")
	}
	if lines[0] != Magic {
		return nil, fmt.Errorf("invalid bytecode header: expected %s", Magic)
	}

	p := &parser{lines: lines[1:]}
	var instrs []Instruction
	for !p.done() {
		instr, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	return instrs, nil
}

// splitLines preserves blank-line-is-an-error semantics by keeping empty
// lines in the stream; tokenizeLine will reject them when they're
// actually consumed as an instruction line.
func splitLines(input []byte) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(input))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bytecode: %w", err)
	}
	return lines, nil
}

type parser struct {
	lines    []string
	index    int
	lastLine int // 1-based index of the most recently consumed line, within the post-header stream
}

func (p *parser) done() bool {
	return p.index >= len(p.lines)
}

func (p *parser) nextLine() (string, error) {
	if p.index >= len(p.lines) {
		return "", p.errorf("unexpected end of bytecode")
	}
	line := p.lines[p.index]
	p.lastLine = p.index + 1
	p.index++
	return line, nil
}

// errorf reports an error tagged with the 1-based line number, within the
// instruction stream that follows the RXB1 header, of the last line
// consumed.
func (p *parser) errorf(format string, args ...any) error {
	line := p.lastLine
	if line == 0 {
		line = p.index + 1
	}
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *parser) parseInstruction() (Instruction, error) {
	line, err := p.nextLine()
	if err != nil {
		return nil, err
	}
	tokens, err := tokenizeLine(line)
	if err != nil {
		return nil, p.errorf("%s", err)
	}
	return p.parseOp(tokens)
}

func (p *parser) arity(tokens []string, want int, op string) error {
	if len(tokens) != want {
		return p.errorf("%s expects %d token(s)", op, want)
	}
	return nil
}

func (p *parser) parseOp(tokens []string) (Instruction, error) {
	if len(tokens) == 0 {
		return nil, p.errorf("empty instruction line")
	}
	op := tokens[0]
	switch op {
	case "Push":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		n, err := p.parseI32(tokens[1])
		if err != nil {
			return nil, err
		}
		return Push{N: n}, nil

	case "PushChar":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		c, err := p.parseU32(tokens[1])
		if err != nil {
			return nil, err
		}
		return PushChar{Code: c}, nil

	case "Load":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return Load{Name: tokens[1]}, nil

	case "Store":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return Store{Name: tokens[1]}, nil

	case "StoreImmutable":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return StoreImmutable{Name: tokens[1]}, nil

	case "StoreReactive":
		name, expr, err := p.parseReactiveNamed(tokens)
		if err != nil {
			return nil, err
		}
		return StoreReactive{Name: name, Expr: expr}, nil

	case "Add":
		return Add{}, p.arity(tokens, 1, op)
	case "Sub":
		return Sub{}, p.arity(tokens, 1, op)
	case "Mul":
		return Mul{}, p.arity(tokens, 1, op)
	case "Div":
		return Div{}, p.arity(tokens, 1, op)
	case "Modulo":
		return Modulo{}, p.arity(tokens, 1, op)

	case "Greater":
		return Greater{}, p.arity(tokens, 1, op)
	case "Less":
		return Less{}, p.arity(tokens, 1, op)
	case "GreaterEqual":
		return GreaterEqual{}, p.arity(tokens, 1, op)
	case "LessEqual":
		return LessEqual{}, p.arity(tokens, 1, op)
	case "Equal":
		return Equal{}, p.arity(tokens, 1, op)
	case "NotEqual":
		return NotEqual{}, p.arity(tokens, 1, op)
	case "And":
		return And{}, p.arity(tokens, 1, op)
	case "Or":
		return Or{}, p.arity(tokens, 1, op)

	case "Label":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return Label{Name: tokens[1]}, nil

	case "Jump":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return Jump{Label: tokens[1]}, nil

	case "JumpIfZero":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return JumpIfZero{Label: tokens[1]}, nil

	case "Return":
		return Return{}, p.arity(tokens, 1, op)

	case "ArrayNew":
		return ArrayNew{}, p.arity(tokens, 1, op)
	case "ArrayGet":
		return ArrayGet{}, p.arity(tokens, 1, op)
	case "ArrayLValue":
		return ArrayLValue{}, p.arity(tokens, 1, op)

	case "StoreIndex":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return StoreIndex{Name: tokens[1]}, nil

	case "StoreIndexReactive":
		name, expr, err := p.parseReactiveNamed(tokens)
		if err != nil {
			return nil, err
		}
		return StoreIndexReactive{Name: name, Expr: expr}, nil

	case "StoreStruct":
		return p.parseStruct(tokens)

	case "NewStruct":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return NewStruct{Name: tokens[1]}, nil

	case "FieldGet":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return FieldGet{Field: tokens[1]}, nil

	case "FieldSet":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return FieldSet{Field: tokens[1]}, nil

	case "FieldSetReactive":
		name, expr, err := p.parseReactiveNamed(tokens)
		if err != nil {
			return nil, err
		}
		return FieldSetReactive{Field: name, Expr: expr}, nil

	case "FieldLValue":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return FieldLValue{Field: tokens[1]}, nil

	case "StoreThrough":
		return StoreThrough{}, p.arity(tokens, 1, op)

	case "StoreThroughReactive":
		expr, err := p.parseReactiveUnnamed(tokens)
		if err != nil {
			return nil, err
		}
		return StoreThroughReactive{Expr: expr}, nil

	case "StoreThroughImmutable":
		return StoreThroughImmutable{}, p.arity(tokens, 1, op)

	case "StoreFunction":
		return p.parseFunction(tokens)

	case "Call":
		if err := p.arity(tokens, 3, op); err != nil {
			return nil, err
		}
		argc, err := p.parseUsize(tokens[2])
		if err != nil {
			return nil, err
		}
		return Call{Name: tokens[1], Argc: argc}, nil

	case "PushImmutableContext":
		return PushImmutableContext{}, p.arity(tokens, 1, op)
	case "PopImmutableContext":
		return PopImmutableContext{}, p.arity(tokens, 1, op)
	case "ClearImmutableContext":
		return ClearImmutableContext{}, p.arity(tokens, 1, op)

	case "Print":
		return Print{}, p.arity(tokens, 1, op)
	case "Println":
		return Println{}, p.arity(tokens, 1, op)
	case "Assert":
		return Assert{}, p.arity(tokens, 1, op)
	case "Error":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		return Error{Message: tokens[1]}, nil

	case "Import":
		return p.parseImport(tokens)

	case "Cast":
		if err := p.arity(tokens, 2, op); err != nil {
			return nil, err
		}
		switch tokens[1] {
		case "Int":
			return Cast{Target: CastInt}, nil
		case "Char":
			return Cast{Target: CastChar}, nil
		default:
			return nil, p.errorf("unknown cast type `%s`", tokens[1])
		}

	default:
		return nil, p.errorf("unknown instruction `%s`", op)
	}
}

func (p *parser) parseImport(tokens []string) (Instruction, error) {
	if len(tokens) < 2 {
		return nil, p.errorf("Import expects a count")
	}
	count, err := p.parseUsize(tokens[1])
	if err != nil {
		return nil, err
	}
	if len(tokens) != 2+count {
		return nil, p.errorf("Import expects %d segment(s)", count)
	}
	segments := append([]string(nil), tokens[2:]...)
	return Import{Segments: segments}, nil
}

func (p *parser) parseFunction(tokens []string) (Instruction, error) {
	if len(tokens) < 4 {
		return nil, p.errorf("StoreFunction expects name, param count, params, code length")
	}
	name := tokens[1]
	paramCount, err := p.parseUsize(tokens[2])
	if err != nil {
		return nil, err
	}
	if len(tokens) != 4+paramCount {
		return nil, p.errorf("StoreFunction expects %d parameter(s)", paramCount)
	}
	params := append([]string(nil), tokens[3:3+paramCount]...)
	codeLen, err := p.parseUsize(tokens[3+paramCount])
	if err != nil {
		return nil, err
	}
	code, err := p.parseInstructions(codeLen)
	if err != nil {
		return nil, err
	}
	return StoreFunction{Name: name, Params: params, Body: code}, nil
}

func (p *parser) parseStruct(tokens []string) (Instruction, error) {
	if len(tokens) != 3 {
		return nil, p.errorf("StoreStruct expects name and field count")
	}
	name := tokens[1]
	fieldCount, err := p.parseUsize(tokens[2])
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInit, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return StoreStruct{Name: name, Fields: fields}, nil
}

func (p *parser) parseField() (FieldInit, error) {
	line, err := p.nextLine()
	if err != nil {
		return FieldInit{}, err
	}
	tokens, err := tokenizeLine(line)
	if err != nil {
		return FieldInit{}, p.errorf("%s", err)
	}
	if len(tokens) < 3 || tokens[0] != "Field" {
		return FieldInit{}, p.errorf("expected Field entry")
	}
	name := tokens[1]
	switch tokens[2] {
	case "None":
		if len(tokens) != 3 {
			return FieldInit{}, p.errorf("Field None expects no extra tokens")
		}
		return FieldInit{Name: name, Kind: FieldNone}, nil

	case "Mutable":
		if len(tokens) != 4 {
			return FieldInit{}, p.errorf("Field Mutable expects code length")
		}
		codeLen, err := p.parseUsize(tokens[3])
		if err != nil {
			return FieldInit{}, err
		}
		code, err := p.parseInstructions(codeLen)
		if err != nil {
			return FieldInit{}, err
		}
		return FieldInit{Name: name, Kind: FieldMutable, Code: code}, nil

	case "Immutable":
		if len(tokens) != 4 {
			return FieldInit{}, p.errorf("Field Immutable expects code length")
		}
		codeLen, err := p.parseUsize(tokens[3])
		if err != nil {
			return FieldInit{}, err
		}
		code, err := p.parseInstructions(codeLen)
		if err != nil {
			return FieldInit{}, err
		}
		return FieldInit{Name: name, Kind: FieldImmutable, Code: code}, nil

	case "Reactive":
		if len(tokens) < 5 {
			return FieldInit{}, p.errorf("Field Reactive expects captures and code length")
		}
		capCount, err := p.parseUsize(tokens[3])
		if err != nil {
			return FieldInit{}, err
		}
		if len(tokens) != 5+capCount {
			return FieldInit{}, p.errorf("Field Reactive expects %d capture(s)", capCount)
		}
		captures := append([]string(nil), tokens[4:4+capCount]...)
		codeLen, err := p.parseUsize(tokens[4+capCount])
		if err != nil {
			return FieldInit{}, err
		}
		code, err := p.parseInstructions(codeLen)
		if err != nil {
			return FieldInit{}, err
		}
		return FieldInit{Name: name, Kind: FieldReactive, Expr: ReactiveExpr{Code: code, Captures: captures}}, nil

	default:
		return FieldInit{}, p.errorf("unknown field init `%s`", tokens[2])
	}
}

func (p *parser) parseReactiveNamed(tokens []string) (string, ReactiveExpr, error) {
	if len(tokens) < 4 {
		return "", ReactiveExpr{}, p.errorf("expected name, capture count, captures, code length")
	}
	name := tokens[1]
	capCount, err := p.parseUsize(tokens[2])
	if err != nil {
		return "", ReactiveExpr{}, err
	}
	if len(tokens) != 4+capCount {
		return "", ReactiveExpr{}, p.errorf("expected %d capture(s)", capCount)
	}
	captures := append([]string(nil), tokens[3:3+capCount]...)
	codeLen, err := p.parseUsize(tokens[3+capCount])
	if err != nil {
		return "", ReactiveExpr{}, err
	}
	code, err := p.parseInstructions(codeLen)
	if err != nil {
		return "", ReactiveExpr{}, err
	}
	return name, ReactiveExpr{Code: code, Captures: captures}, nil
}

func (p *parser) parseReactiveUnnamed(tokens []string) (ReactiveExpr, error) {
	if len(tokens) < 3 {
		return ReactiveExpr{}, p.errorf("expected capture count, captures, code length")
	}
	capCount, err := p.parseUsize(tokens[1])
	if err != nil {
		return ReactiveExpr{}, err
	}
	if len(tokens) != 3+capCount {
		return ReactiveExpr{}, p.errorf("expected %d capture(s)", capCount)
	}
	captures := append([]string(nil), tokens[2:2+capCount]...)
	codeLen, err := p.parseUsize(tokens[2+capCount])
	if err != nil {
		return ReactiveExpr{}, err
	}
	code, err := p.parseInstructions(codeLen)
	if err != nil {
		return ReactiveExpr{}, err
	}
	return ReactiveExpr{Code: code, Captures: captures}, nil
}

func (p *parser) parseInstructions(count int) ([]Instruction, error) {
	code := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		instr, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		code = append(code, instr)
	}
	return code, nil
}

func (p *parser) parseI32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, p.errorf("invalid i32 `%s`", s)
	}
	return int32(n), nil
}

func (p *parser) parseU32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, p.errorf("invalid u32 `%s`", s)
	}
	return uint32(n), nil
}

func (p *parser) parseUsize(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, p.errorf("invalid usize `%s`", s)
	}
	return int(n), nil
}
