package main

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/engine"
	"github.com/rxlang/reactive/internal/natives"
)

// newEngine builds a VM ready for real execution: natives installed,
// output wired to stdout, logging at the configured verbosity.
func newEngine(moduleDir string, log logr.Logger) *engine.VM {
	vm := engine.New(moduleDir, log)
	natives.Install(vm)
	return vm
}

// runBytecodeFile loads and executes a .rxb file, reporting a
// *engine.RuntimeError exactly as spec.md §7 prescribes.
func runBytecodeFile(vm *engine.VM, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	instrs, err := bytecode.Deserialize(data)
	if err != nil {
		return err
	}
	return vm.Run(instrs)
}

// buildStringArgCode synthesizes the instruction sequence that builds a
// fixed CharArray literal equal to s and leaves its ArrayRef on the
// stack, binding it transiently to temp so each StoreThrough cell-write
// can reload the reference (the grammar has no literal-array-from-stack
// instruction — see SPEC_FULL.md §10).
func buildStringArgCode(s string, temp string) []bytecode.Instruction {
	runes := []rune(s)
	instrs := []bytecode.Instruction{
		bytecode.Push{N: int32(len(runes))},
		bytecode.ArrayNew{},
		bytecode.Store{Name: temp},
	}
	for i, r := range runes {
		instrs = append(instrs,
			bytecode.Load{Name: temp},
			bytecode.Push{N: int32(i)},
			bytecode.ArrayLValue{},
			bytecode.PushChar{Code: uint32(r)},
			bytecode.StoreThrough{},
		)
	}
	instrs = append(instrs, bytecode.Load{Name: temp})
	return instrs
}

// compilerEntryPoint is the driver's convention for the self-hosted
// compiler's entry function: compile(src_path, dst_path, require_main).
// The compiler bytecode itself is out of this repo's scope (spec.md §1);
// this name is this driver's half of that contract.
const compilerEntryPoint = "compile"

// runCompilerProgram loads compilerPath, appends a call to
// compilerEntryPoint with the two path arguments and the require-main
// flag, and executes it. The compiler is expected to write dstPath
// itself via internal_file_write as a side effect of the call.
func runCompilerProgram(vm *engine.VM, compilerPath, srcPath, dstPath string, requireMain bool) error {
	data, err := os.ReadFile(compilerPath)
	if err != nil {
		return err
	}
	instrs, err := bytecode.Deserialize(data)
	if err != nil {
		return err
	}

	flag := int32(0)
	if requireMain {
		flag = 1
	}

	call := append([]bytecode.Instruction{}, instrs...)
	call = append(call, buildStringArgCode(srcPath, "__rx_src")...)
	call = append(call, buildStringArgCode(dstPath, "__rx_dst")...)
	call = append(call, bytecode.Push{N: flag})
	call = append(call, bytecode.Call{Name: compilerEntryPoint, Argc: 3})

	return vm.Run(call)
}
