package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rxlang/reactive/internal/bytecode"
	"github.com/rxlang/reactive/internal/module"
)

// execImport implements Import(segments): resolve, load, and run the
// module's top-level code once per process. The module's definitions
// (StoreFunction, StoreStruct, top-level Store/StoreImmutable) land
// directly in this VM's global environment, the same way a REPL line or
// the main program's own top-level code would.
func (vm *VM) execImport(segments []string) error {
	key := strings.Join(segments, "/")
	if vm.importedModules[key] {
		return nil
	}

	path, err := module.Resolve(segments, vm.moduleDir)
	if err != nil {
		return vm.fatal("%s", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return vm.fatal("cannot read module `%s`: %s", key, err)
	}
	instrs, err := bytecode.Deserialize(data)
	if err != nil {
		return vm.fatal("module `%s`: %s", key, err)
	}

	vm.importedModules[key] = true

	savedDir := vm.moduleDir
	vm.moduleDir = filepath.Dir(path)
	_, err = vm.runNested(instrs)
	vm.moduleDir = savedDir
	return err
}
