package natives

import "github.com/rxlang/reactive/internal/engine"

// Install registers the full native-function contract (filesystem,
// character buffer, growable vec, raw terminal input) on vm. Called once
// by whatever constructs the VM for real execution (cmd/rx); tests that
// don't need natives can skip it.
func Install(vm *engine.VM) {
	installFS(vm)
	installBuffer(vm)
	installVec(vm)
	installInput(vm)
}
