package chameleon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleCharStruct(t *testing.T) {
	gf, err := parseGrammarFile("s1.chm", []byte(`struct Root { x: char = 'A'; }`))
	require.NoError(t, err)
	require.Len(t, gf.structs, 1)
	assert.Equal(t, "Root", gf.structs[0].name)
	require.Len(t, gf.structs[0].fields, 1)
	f := gf.structs[0].fields[0]
	assert.Equal(t, "x", f.name)
	require.NotNil(t, f.body.CharSet)
	require.Len(t, f.body.CharSet.items, 1)
	assert.Equal(t, int64('A'), f.body.CharSet.items[0].lo)
}

func TestParseOneofBranches(t *testing.T) {
	src := `struct Root { x: oneof { a: char = 'A'; b: char = 'B'; } }`
	gf, err := parseGrammarFile("s2.chm", []byte(src))
	require.NoError(t, err)
	body := gf.structs[0].fields[0].body
	require.NotNil(t, body.OneOf)
	require.Len(t, body.OneOf.branches, 2)
	assert.Equal(t, "a", body.OneOf.branches[0].name)
	assert.Equal(t, "b", body.OneOf.branches[1].name)
}

func TestParseRepeatsRange(t *testing.T) {
	src := `struct Root { xs: repeats 0..4 char = 'x'; }`
	gf, err := parseGrammarFile("s3.chm", []byte(src))
	require.NoError(t, err)
	body := gf.structs[0].fields[0].body
	require.NotNil(t, body.Repeats)
	assert.Equal(t, 0, body.Repeats.lo)
	assert.Equal(t, 4, body.Repeats.hi)
}

func TestParseRepeatsExactly(t *testing.T) {
	src := `struct Root { xs: repeats 3 char = 'x'; }`
	gf, err := parseGrammarFile("exact.chm", []byte(src))
	require.NoError(t, err)
	body := gf.structs[0].fields[0].body
	require.NotNil(t, body.Repeats)
	assert.Equal(t, 3, body.Repeats.lo)
	assert.Equal(t, 4, body.Repeats.hi)
}

func TestParseNumWidth(t *testing.T) {
	src := `struct Root { x: num(4) = 0..100; }`
	gf, err := parseGrammarFile("num.chm", []byte(src))
	require.NoError(t, err)
	body := gf.structs[0].fields[0].body
	require.NotNil(t, body.NumSet)
	assert.Equal(t, 4, body.NumSet.width)
}

func TestParseImportAndEntrypoint(t *testing.T) {
	src := "import \"common.chm\";\nentrypoint Root;\nstruct Root { x: char = 'A'; }"
	gf, err := parseGrammarFile("main.chm", []byte(src))
	require.NoError(t, err)
	require.Len(t, gf.imports, 1)
	assert.Equal(t, "common.chm", gf.imports[0].path)
	require.Len(t, gf.entrypoints, 1)
	assert.Equal(t, "Root", gf.entrypoints[0].name)
}

func TestParseAnonymousStructOmitsSemicolon(t *testing.T) {
	src := `struct Root { x: struct { a: char = 'A'; } y: char = 'B'; }`
	gf, err := parseGrammarFile("anon.chm", []byte(src))
	require.NoError(t, err)
	require.Len(t, gf.structs[0].fields, 2)
	assert.NotNil(t, gf.structs[0].fields[0].body.Struct)
}

func TestParseBadNumWidthRejected(t *testing.T) {
	_, err := parseGrammarFile("badnum.chm", []byte(`struct Root { x: num(3) = 0..1; }`))
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrBadNumberset, ce.Kind)
}

func TestParseFirstErrorWins(t *testing.T) {
	_, err := parseGrammarFile("bad.chm", []byte(`struct Root { x: char = ; y: oneof`))
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrParse, ce.Kind)
}
