// Package engine implements the reactive bytecode virtual machine: the
// fetch-decode-execute loop, scoped environments, call frames, the
// reactive forcing protocol, and the native-function registry. It is the
// single owner of all mutable runtime state (spec §5) — there is no
// concurrency primitive anywhere in this package except in rawinput.go:
// its reader goroutine only ever writes to a buffered channel the engine
// drains synchronously, and its signal goroutine only restores the
// terminal and exits the process.
package engine

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/heap"
	"github.com/rxlang/reactive/internal/vmvalue"
)

// NativeFunc is a host-registered callable: it consumes its already-popped
// argument vector and returns a single result or an error.
type NativeFunc func(vm *VM, args []vmvalue.Value) (vmvalue.Value, error)

// structDef is a registered StoreStruct's field list, keyed by struct name.
type structDef struct {
	fields []bytecode.FieldInit
}

// VM is the engine's single execution context.
type VM struct {
	// Operand stack, shared across every nested frame (function calls,
	// reactive forcing, struct-field initializers, module execution).
	stack []vmvalue.Value

	// Global mutable environment (top-level bindings).
	globalEnv map[string]vmvalue.Value

	// Local mutable environment of the active function frame, nil at top
	// level.
	localEnv map[string]vmvalue.Value

	// Stack of immutable scope maps; always has at least one entry.
	immutable []map[string]vmvalue.Value

	// Currently executing flat instruction vector, its resolved label
	// map, and the instruction pointer into it.
	code    []bytecode.Instruction
	labels  map[string]int
	pointer int

	heaps      heap.Heaps
	structDefs map[string]structDef

	natives map[string]NativeFunc

	importedModules map[string]bool
	moduleDir       string

	callStack []*callFrame

	// structContext is the stack of struct instances currently being
	// initialized or whose reactive field is currently being forced; it
	// lets a field initializer or reactive expression refer to a sibling
	// field by bare name (spec §4.4).
	structContext []vmvalue.StructRef

	// activeFields and forcing guard against reactive cycles: a (struct
	// id, field) pair in activeFields, or a LazyValue.ID in forcing, is
	// currently being forced.
	activeFields map[structFieldKey]struct{}
	forcing      map[int]struct{}

	// nextLazyID hands out the ID stamped on each LazyValue at freeze
	// time, so forcing can key on a copy-stable identity instead of a
	// Go pointer.
	nextLazyID int

	Log   logr.Logger
	stdin RawInput

	out writer
}

// Stdin exposes the raw-terminal input facility so internal/natives can
// wire internal_input_init/poll/shutdown/readline to it without the
// engine importing that package.
func (vm *VM) Stdin() *RawInput { return &vm.stdin }

// RegisterNative installs a host callable under name and binds it into
// the global environment as a NativeFunction, so Call(name, argc)
// dispatches it exactly like a user-defined function (spec §4.1).
// internal/natives is the sole intended caller.
func (vm *VM) RegisterNative(name string, fn NativeFunc) {
	vm.natives[name] = fn
	vm.globalEnv[name] = vmvalue.NativeFunction(name)
}

// Heaps exposes the array/vec/buffer/struct arenas to native functions.
func (vm *VM) Heaps() *heap.Heaps { return &vm.heaps }

// Resolve forces v if it is a LazyValue; exported for internal/natives.
func (vm *VM) Resolve(v vmvalue.Value) (vmvalue.Value, error) { return vm.resolve(v) }

// Fatal builds a RuntimeError stamped with the current call stack;
// exported for internal/natives to report failures the same way the
// engine itself does.
func (vm *VM) Fatal(format string, args ...any) error { return vm.fatal(format, args...) }

// CharsToString converts an array or vec of Chars into a Go string, the
// native contract's convention for path and text arguments.
func (vm *VM) CharsToString(v vmvalue.Value) (string, error) { return vm.charsToString(v) }

// StringToCharArray allocates a new fixed array holding one Char per rune
// of s, the native contract's convention for returning text.
func (vm *VM) StringToCharArray(s string) vmvalue.ArrayRef { return vm.stringToCharArray(s) }

// RequireArgc validates a native's argument count, reporting name in the
// resulting RuntimeError.
func (vm *VM) RequireArgc(name string, args []vmvalue.Value, want int) error {
	return vm.requireArgc(name, args, want)
}

type structFieldKey struct {
	structID int
	field    string
}

// writer is the subset of io we print to; split out so tests can capture
// output without touching os.Stdout.
type writer interface {
	WriteString(s string) (int, error)
}

// New builds a VM ready to run top-level code. moduleDir is the directory
// Import resolves relative paths against (see internal/module).
func New(moduleDir string, log logr.Logger) *VM {
	vm := &VM{
		globalEnv:       make(map[string]vmvalue.Value),
		immutable:       []map[string]vmvalue.Value{make(map[string]vmvalue.Value)},
		structDefs:      make(map[string]structDef),
		natives:         make(map[string]NativeFunc),
		importedModules: make(map[string]bool),
		moduleDir:       moduleDir,
		activeFields:    make(map[structFieldKey]struct{}),
		forcing:         make(map[int]struct{}),
		Log:             log,
	}
	return vm
}

// SetOutput redirects Print/Println output; defaults to os.Stdout via the
// cmd/rx entrypoint.
func (vm *VM) SetOutput(w writer) { vm.out = w }

func (vm *VM) print(s string) {
	if vm.out != nil {
		vm.out.WriteString(s)
		return
	}
	fmt.Print(s)
}

func buildLabels(code []bytecode.Instruction) map[string]int {
	labels := make(map[string]int)
	for i, instr := range code {
		if l, ok := instr.(bytecode.Label); ok {
			labels[l.Name] = i
		}
	}
	return labels
}

// Run executes top-level code to completion (either the code runs off the
// end of the vector, or a top-level Return halts it).
func (vm *VM) Run(code []bytecode.Instruction) error {
	vm.code = code
	vm.labels = buildLabels(code)
	vm.pointer = 0
	_, err := vm.runLoop()
	return err
}
