package compile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InAnYan/loop/internal/artifact"
	"github.com/InAnYan/loop/internal/compile"
	"github.com/InAnYan/loop/internal/config"
	"github.com/InAnYan/loop/lang/diag"
)

func TestCompileFileWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "m.loop")
	require.NoError(t, os.WriteFile(source, []byte("var x = 1 + 2;\nprint x;\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	bag := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(context.Background(), source, bag)
	require.True(t, ok)
	assert.False(t, bag.HadError())

	_, err = os.Stat(artifact.CompiledPath(source))
	assert.NoError(t, err)
}

func TestCompileFileSkipsFreshArtifact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "m.loop")
	require.NoError(t, os.WriteFile(source, []byte("print 1;\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	bag := &diag.Bag{}
	require.True(t, compile.New(cfg).CompileFile(context.Background(), source, bag))

	compiledPath := artifact.CompiledPath(source)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(compiledPath, future, future))

	marker := []byte("corrupted-to-prove-it-was-not-rewritten")
	require.NoError(t, os.WriteFile(compiledPath, marker, 0o644))
	require.NoError(t, os.Chtimes(compiledPath, future, future))

	bag2 := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(context.Background(), source, bag2)
	require.True(t, ok)

	got, err := os.ReadFile(compiledPath)
	require.NoError(t, err)
	assert.Equal(t, marker, got, "fresh artifact must not be recompiled")
}

func TestCompileFileReportsDiagnosticOnRedefinition(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "m.loop")
	require.NoError(t, os.WriteFile(source, []byte("var a = 1;\nvar a = 2;\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	bag := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(context.Background(), source, bag)
	assert.False(t, ok)
	assert.True(t, bag.HadError())

	_, err = os.Stat(artifact.CompiledPath(source))
	assert.True(t, os.IsNotExist(err), "no artifact should be written on a failed compile")
}

func TestCompileFileRecursesIntoImports(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.loop")
	main := filepath.Join(dir, "main.loop")
	require.NoError(t, os.WriteFile(lib, []byte("export var greeting = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(main, []byte(`import "lib.loop" as lib;
print lib;
`), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	bag := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(context.Background(), main, bag)
	require.True(t, ok, "%v", bag.All())
	assert.False(t, bag.HadError())

	_, err = os.Stat(artifact.CompiledPath(main))
	assert.NoError(t, err)
	_, err = os.Stat(artifact.CompiledPath(lib))
	assert.NoError(t, err, "recursively imported module must also be compiled")
}

func TestCompileFileMissingSourceReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	bag := &diag.Bag{}
	ok := compile.New(cfg).CompileFile(context.Background(), filepath.Join(dir, "missing.loop"), bag)
	assert.False(t, ok)
	assert.True(t, bag.HadError())
}
