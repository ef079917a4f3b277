package program

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tsgo/internal/diag"
)

func TestProgramSingleFileReportsTS2322(t *testing.T) {
	p := New(nil)
	_, err := p.AddFile("a.ts", []byte(`const x: number = "hi";`))
	require.NoError(t, err)

	ds := p.Check()
	require.Len(t, ds, 1)
	require.Equal(t, diag.TS2322, ds[0].Code)
}

func TestProgramMultiFileAmbientMergeVisibleAcrossFiles(t *testing.T) {
	p := New(nil)
	_, err := p.AddFile("a.d.ts", []byte(`declare const greeting: string;`))
	require.NoError(t, err)
	_, err = p.AddFile("b.ts", []byte(`const g: string = greeting;`))
	require.NoError(t, err)

	ds := p.Check()
	require.Emptyf(t, ds, "ambient declared in one file, used in another: %v", ds)
}

func TestProgramLoadLibsResolvesDependencyOrder(t *testing.T) {
	p := New(nil)
	require.NoError(t, p.LoadLibs([]string{"es2015.core"}))

	files := p.Files()
	require.Equal(t, []string{"lib.es5.d.ts", "lib.es2015.core.d.ts"}, files)
}

func TestProgramUnknownLibReportsError(t *testing.T) {
	p := New(nil)
	require.Error(t, p.LoadLibs([]string{"does-not-exist"}))
}

func TestProgramDiagnosticsSortedAcrossFiles(t *testing.T) {
	p := New(nil)
	_, err := p.AddFile("a.ts", []byte(`const a: number = "x";`))
	require.NoError(t, err)
	_, err = p.AddFile("b.ts", []byte(`const b: string = 1;`))
	require.NoError(t, err)

	ds := p.Check()
	require.Len(t, ds, 2)
	require.Less(t, ds[0].File, ds[1].File)
}

func TestProgramPathAndLineColResolveSpans(t *testing.T) {
	p := New(nil)
	id, err := p.AddFile("sub/dir/a.ts", []byte("const x: number = \"hi\";\n"))
	require.NoError(t, err)
	require.Equal(t, "sub/dir/a.ts", p.Path(id))

	line, col := p.LineCol(id, 0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)
}
