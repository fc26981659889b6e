package chameleon

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translateSrc(t *testing.T, src string, opts TranslateOptions) (string, error) {
	t.Helper()
	if opts.Log == nil {
		log := logrus.New()
		log.SetLevel(logrus.PanicLevel) // keep test output quiet
		opts.Log = log
	}
	return Translate([]*Source{{Name: "t.chm", Bytes: []byte(src)}}, opts)
}

// TestTranslateSingleCharStruct is S1: a single literal struct
// produces a one-byte numberset sampler that always yields 'A'.
func TestTranslateSingleCharStruct(t *testing.T) {
	out, err := translateSrc(t, `struct Root { _: char = 'A'; }`, TranslateOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "chameleon_numset_0_sample")
	assert.Contains(t, out, "65ULL") // 'A'
}

// TestTranslateOneofBranches is the S2 shape: a oneof becomes a
// multi-rule nonterminal with a switch over both branches.
func TestTranslateOneofBranches(t *testing.T) {
	out, err := translateSrc(t, `struct Root { x: oneof { a: char = 'A'; b: char = 'B'; } }`, TranslateOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "switch (rule) {")
	assert.Contains(t, out, "case 0: {")
	assert.Contains(t, out, "case 1: {")
}

// TestTranslateRepeatsRange is the S3 shape: four fanned-out rule
// lengths, 0 through 3.
func TestTranslateRepeatsRange(t *testing.T) {
	cg := compileGrammar(t, `struct Root { xs: repeats 0..4 char = 'x'; }`)
	id, _ := cg.lookupNonterminal("Root")
	repNT := cg.Nonterms[cg.Nonterms[id].Rules[0][0].NonterminalID]
	assert.Len(t, repNT.Rules, 4)
	lengths := map[int]bool{}
	for _, r := range repNT.Rules {
		lengths[len(r)] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true, 3: true}, lengths)
}

func TestTranslatePropagatesParseErrors(t *testing.T) {
	_, err := translateSrc(t, `struct Root { x: }`, TranslateOptions{})
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ErrParse, ce.Kind)
}

func TestTranslateEntrypointOption(t *testing.T) {
	// Other and Root reference each other so both stay reachable
	// regardless of which one is picked as the entrypoint.
	out, err := translateSrc(t,
		`struct Root { x: Other; } struct Other { y: char = 'A'; z: optional Root; }`,
		TranslateOptions{Entrypoint: "Other"})
	require.NoError(t, err)
	assert.Contains(t, out, "chameleon_generate(ChameleonWalk walk")
}

func TestImportPathsReportsDeclaredImports(t *testing.T) {
	paths, err := ImportPaths(&Source{Name: "t.chm", Bytes: []byte(`import "a.chm"; import "sub/b.chm"; struct Root { x: char = 'A'; }`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.chm", "sub/b.chm"}, paths)
}

func TestTranslateBabyModeOmitsMutate(t *testing.T) {
	out, err := translateSrc(t, `struct Root { x: char = 'A'; }`, TranslateOptions{Emit: EmitOptions{Baby: true}})
	require.NoError(t, err)
	assert.NotContains(t, out, "_mutate(")
	assert.Contains(t, out, "chameleon_generate(unsigned char *out")
}
