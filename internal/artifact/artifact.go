// Package artifact reads and writes the on-disk compiled-module JSON blob
// described in spec §6: pretty-printed JSON rooted at
// {"globals_count", "chunk"}, placed at <dir>/.loop_compiled/<basename>.code
// next to the source file it was compiled from, grounded on
// passes/write_chunk.py and loop_ast/module.py's get_compiled_path in
// original_source.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/InAnYan/loop/lang/compiler"
)

// CompiledPath returns the derived artifact path for a module at
// sourcePath: <dir>/.loop_compiled/<basename-without-ext>.code, mirroring
// get_compiled_path in original_source/loopc/loop_ast/module.py.
func CompiledPath(sourcePath string) string {
	dir, file := filepath.Split(sourcePath)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, ".loop_compiled", base+".code")
}

// Write serialises mod as pretty-printed JSON to compiledPath, creating
// its parent directory (.loop_compiled/) if necessary — the Go
// equivalent of write_chunk.py's os.makedirs(dir, exist_ok=True) guard.
func Write(compiledPath string, mod *compiler.ModuleValue) error {
	if dir := filepath.Dir(compiledPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: creating %q: %w", dir, err)
		}
	}

	data, err := mod.ArtifactJSON()
	if err != nil {
		return fmt.Errorf("artifact: encoding module: %w", err)
	}

	var pretty strings.Builder
	if err := json.Indent(&pretty, data, "", "    "); err != nil {
		return fmt.Errorf("artifact: pretty-printing: %w", err)
	}

	if err := os.WriteFile(compiledPath, []byte(pretty.String()), 0o644); err != nil {
		return fmt.Errorf("artifact: writing %q: %w", compiledPath, err)
	}
	return nil
}

// Read loads the artifact at compiledPath and decodes it into a generic
// JSON value, for tooling that inspects a compiled artifact without
// depending on lang/compiler's in-memory Value types (the VM, or a
// golden-file test comparing emitted bytecode against a checked-in
// fixture).
func Read(compiledPath string) (any, error) {
	data, err := os.ReadFile(compiledPath)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading %q: %w", compiledPath, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("artifact: decoding %q: %w", compiledPath, err)
	}
	return v, nil
}

// IsFresh reports whether the artifact at compiledPath exists and is
// newer than the source at sourcePath — the intended freshness guard per
// spec §9 ("Freshness check"): the Python original compares
// mtime(compiled) < mtime(compiled), a self-comparison bug that always
// yields false; the corrected form implemented here is
// mtime(compiled) > mtime(source).
func IsFresh(compiledPath, sourcePath string) bool {
	compiledInfo, err := os.Stat(compiledPath)
	if err != nil {
		return false
	}
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return false
	}
	return compiledInfo.ModTime().After(sourceInfo.ModTime())
}
