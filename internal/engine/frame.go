package engine

import (
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// callFrame records one active user-function call: the caller's local
// environment, the operand-stack depth at the moment of call (used only
// to detect a callee that leaves no result; extra values a callee leaves
// are not removed), and the function name for stack traces.
// callFunction does not fill in the code, labels and pointer fields;
// runNested saves and restores the caller's code state itself.
//
// Grounded on original_source/src/vm/mod.rs's CallFrame and on the
// teacher's save/restore of cur code+ip around nested execution in
// interp.go's CallInternal.
type callFrame struct {
	code     []bytecode.Instruction
	labels   map[string]int
	pointer  int
	localEnv map[string]vmvalue.Value

	stackBase int

	functionName string
}

// codeState is the subset of callFrame needed to run any nested block
// (function body, reactive expression, struct field initializer, an
// imported module) and restore the caller's position afterward, without
// touching localEnv or the call stack.
type codeState struct {
	code    []bytecode.Instruction
	labels  map[string]int
	pointer int
}

func (vm *VM) saveCodeState() codeState {
	return codeState{code: vm.code, labels: vm.labels, pointer: vm.pointer}
}

func (vm *VM) restoreCodeState(s codeState) {
	vm.code = s.code
	vm.labels = s.labels
	vm.pointer = s.pointer
}

// runNested swaps in code as the active instruction stream, runs it to
// completion, and restores the caller's code state. It reports whether a
// Return instruction fired (vs. falling off the end) so callers that need
// the implicit-zero-return rule (function bodies) can apply it; callers
// that just need "one value left on the stack" (reactive expressions,
// field initializers) can ignore it.
func (vm *VM) runNested(code []bytecode.Instruction) (returned bool, err error) {
	saved := vm.saveCodeState()
	vm.code = code
	vm.labels = buildLabels(code)
	vm.pointer = 0
	returned, err = vm.runLoop()
	vm.restoreCodeState(saved)
	return returned, err
}

// callFunction invokes fn with args already evaluated in call order. It
// binds parameters immutably in a fresh scope, installs a fresh local
// environment, pushes a callFrame for stack traces, and applies the
// implicit Integer(0) return when the body runs off its end.
func (vm *VM) callFunction(name string, fn vmvalue.Function, args []vmvalue.Value) (vmvalue.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, vm.fatal("function %q expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}

	savedLocal := vm.localEnv
	vm.localEnv = make(map[string]vmvalue.Value)

	params := make(map[string]vmvalue.Value, len(fn.Params))
	for i, p := range fn.Params {
		params[p] = args[i]
	}

	frame := &callFrame{
		localEnv:     savedLocal,
		stackBase:    len(vm.stack),
		functionName: name,
	}
	vm.callStack = append(vm.callStack, frame)
	vm.pushImmutableScope(params)

	returned, err := vm.runNested(fn.Code)

	vm.popImmutableScope()
	vm.callStack = vm.callStack[:len(vm.callStack)-1]
	vm.localEnv = savedLocal

	if err != nil {
		return nil, err
	}

	if !returned {
		vm.stack = append(vm.stack, vmvalue.Integer(0))
	}

	if len(vm.stack) <= frame.stackBase {
		return nil, vm.fatal("function %q returned without leaving a value on the stack", name)
	}
	result := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return result, nil
}

// runExprBlock runs a self-contained expression block (a reactive
// expression's code, or a struct field initializer's code) that is
// guaranteed by the compiler to leave exactly one value on top of the
// stack when it finishes, and pops that value.
func (vm *VM) runExprBlock(code []bytecode.Instruction) (vmvalue.Value, error) {
	base := len(vm.stack)
	_, err := vm.runNested(code)
	if err != nil {
		return nil, err
	}
	if len(vm.stack) <= base {
		return nil, vm.fatal("expression block produced no value")
	}
	result := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return result, nil
}
