package chameleon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *grammarFile {
	t.Helper()
	gf, err := parseGrammarFile("t.chm", []byte(src))
	require.NoError(t, err)
	return gf
}

func TestDesugarSingleRuleStruct(t *testing.T) {
	gf := parseOne(t, `struct Root { x: char = 'A'; y: string = "ok"; }`)
	g, err := desugar([]*grammarFile{gf})
	require.NoError(t, err)

	id, ok := g.lookupNonterminal("Root")
	require.True(t, ok)
	nt := g.Nonterms[id]
	require.Len(t, nt.Rules, 1)
	require.Len(t, nt.Rules[0], 2)
	assert.Equal(t, symNumberset, nt.Rules[0][0].Kind)
	assert.Equal(t, symTerminal, nt.Rules[0][1].Kind)
	assert.Equal(t, id, g.EntrypointID, "Root is the implicit default entrypoint")
}

func TestDesugarOneofProducesMultiRuleNonterminal(t *testing.T) {
	gf := parseOne(t, `struct Root { x: oneof { a: char = 'A'; b: char = 'B'; } }`)
	g, err := desugar([]*grammarFile{gf})
	require.NoError(t, err)

	id, _ := g.lookupNonterminal("Root")
	rootRule := g.Nonterms[id].Rules[0]
	require.Len(t, rootRule, 1)
	require.Equal(t, symNonterminal, rootRule[0].Kind)

	oneofID := rootRule[0].NonterminalID
	oneofNT := g.Nonterms[oneofID]
	require.Len(t, oneofNT.Rules, 2)
	assert.Equal(t, "", oneofNT.Name, "oneof bodies are anonymous")
}

func TestDesugarOptionalProducesEpsilonAndValueRule(t *testing.T) {
	gf := parseOne(t, `struct Root { x: optional char = 'A'; }`)
	g, err := desugar([]*grammarFile{gf})
	require.NoError(t, err)

	id, _ := g.lookupNonterminal("Root")
	rootRule := g.Nonterms[id].Rules[0]
	optNT := g.Nonterms[rootRule[0].NonterminalID]
	require.Len(t, optNT.Rules, 2)
	assert.Empty(t, optNT.Rules[0], "first rule is epsilon")
	assert.Len(t, optNT.Rules[1], 1)
}

func TestDesugarRepeatsFansOutByLength(t *testing.T) {
	gf := parseOne(t, `struct Root { xs: repeats 0..4 char = 'x'; }`)
	g, err := desugar([]*grammarFile{gf})
	require.NoError(t, err)

	id, _ := g.lookupNonterminal("Root")
	rootRule := g.Nonterms[id].Rules[0]
	repNT := g.Nonterms[rootRule[0].NonterminalID]
	require.Len(t, repNT.Rules, 4)
	for length, rule := range repNT.Rules {
		assert.Len(t, rule, length)
	}
}

func TestDesugarUnknownReferenceSuggestsClosestName(t *testing.T) {
	gf := parseOne(t, `struct Root { x: Foo; } struct Foot { y: char = 'A'; }`)
	_, err := desugar([]*grammarFile{gf})
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrUnknownReference, ce.Kind)
	assert.Equal(t, "Foot", ce.Suggestion)
}

func TestDesugarDuplicateNonterminal(t *testing.T) {
	gf := parseOne(t, `struct Root { x: char = 'A'; } struct Root { y: char = 'B'; }`)
	_, err := desugar([]*grammarFile{gf})
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrDuplicateNonterminal, ce.Kind)
}

func TestDesugarExplicitEntrypointNotFound(t *testing.T) {
	gf := parseOne(t, `entrypoint Missing; struct Root { x: char = 'A'; }`)
	_, err := desugar([]*grammarFile{gf})
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrEntrypointNotFound, ce.Kind)
}

func TestDesugarCharRangesCollapseToCanonicalForm(t *testing.T) {
	gf := parseOne(t, `struct Root { x: char = 'a', 'b', 0x63..0x64; }`)
	g, err := desugar([]*grammarFile{gf})
	require.NoError(t, err)
	id, _ := g.lookupNonterminal("Root")
	sym := g.Nonterms[id].Rules[0][0]
	ns := g.Numbersets[sym.NumbersetID]
	want := []numRange{{int64('a'), int64('d')}}
	if diff := cmp.Diff(want, ns.Ranges); diff != "" {
		t.Errorf("merged ranges mismatch, a/b/c should collapse to one contiguous range (-want +got):\n%s", diff)
	}
}
