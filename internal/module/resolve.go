// Package module resolves Import segments to on-disk .rxb paths and
// knows the bootstrap project layout's fixed tree (spec.md §6 / §9's
// module-resolution Open Question).
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns Import segments into a file path, trying baseDir (the
// importing file's directory) first and falling back to the process's
// current working directory. baseDir may be empty, in which case only
// the CWD-relative candidate is tried.
func Resolve(segments []string, baseDir string) (string, error) {
	rel := filepath.Join(segments...) + ".rxb"

	var tried []string
	if baseDir != "" {
		candidate := filepath.Join(baseDir, rel)
		tried = append(tried, candidate)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	tried = append(tried, rel)
	if _, err := os.Stat(rel); err == nil {
		return rel, nil
	}

	return "", fmt.Errorf("module `%s` not found (tried %s)", strings.Join(segments, "/"), strings.Join(tried, ", "))
}

// BootstrapRoot is the project-relative directory holding the two-stage
// compiler bootstrap tree: project/bootstrap/{stable,experimental}/.
const BootstrapRoot = "project/bootstrap"

// CompilerPath returns the path to the stable or experimental compiler's
// source (.rx) or bytecode (.rxb) under root.
func CompilerPath(root string, experimental bool, compiled bool) string {
	stage := "stable"
	if experimental {
		stage = "experimental"
	}
	ext := ".rx"
	if compiled {
		ext = ".rxb"
	}
	return filepath.Join(root, BootstrapRoot, stage, "compiler"+ext)
}
