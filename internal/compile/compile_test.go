package compile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InAnYan/loop/internal/filetest"
	"github.com/InAnYan/loop/lang/compiler"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/lower"
	"github.com/InAnYan/loop/lang/parser"
	"github.com/InAnYan/loop/lang/resolver"
	"github.com/InAnYan/loop/lang/token"
)

var update = flag.Bool("test.update-compile-tests", false, "update testdata/*.want golden files")

const testdataDir = "testdata"

// TestGoldenArtifacts compiles every *.loop fixture in testdata/ through
// the full pipeline (parse, lower-before, resolve, lower-after, emit) and
// diffs the resulting pretty-printed artifact JSON against its golden
// testdata/<name>.want file, the same golden-file discipline the teacher
// applies to its parser/resolver fixtures via filetest.
func TestGoldenArtifacts(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, testdataDir, ".loop") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(testdataDir, fi.Name()))
			require.NoError(t, err)

			file := token.NewFile(fi.Name(), string(src))
			bag := &diag.Bag{}

			mod := parser.Parse(file, bag)
			require.NotNil(t, mod)
			require.False(t, bag.HadError())

			lower.NewBefore().Lower(mod)
			resolver.New("", nil, bag).Resolve(context.Background(), mod)
			require.False(t, bag.HadError())
			lower.NewAfter().Lower(mod)

			value := compiler.CompileModule(mod, bag)
			require.False(t, bag.HadError())

			data, err := value.ArtifactJSON()
			require.NoError(t, err)

			var pretty bytes.Buffer
			require.NoError(t, json.Indent(&pretty, data, "", "    "))

			filetest.DiffArtifact(t, fi, pretty.String(), testdataDir, update)
		})
	}
}
