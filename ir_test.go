package chameleon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMergeRangesCoalescesOverlapAndAdjacency(t *testing.T) {
	got := mergeRanges([]numRange{{0, 10}, {5, 15}, {20, 25}, {25, 30}})
	want := []numRange{{0, 15}, {20, 30}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeRanges mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRangesEmpty(t *testing.T) {
	assert.Nil(t, mergeRanges(nil))
}

func TestInternTerminalDeduplicates(t *testing.T) {
	g := newGrammar()
	id1 := g.internTerminal([]byte("hello"))
	id2 := g.internTerminal([]byte("hello"))
	id3 := g.internTerminal([]byte("world"))
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.Len(t, g.Terminals, 2)
}

func TestInternNumbersetDeduplicatesAfterMerging(t *testing.T) {
	g := newGrammar()
	id1 := g.internNumberset(1, []numRange{{65, 66}, {67, 68}})
	id2 := g.internNumberset(1, []numRange{{67, 68}, {65, 66}})
	assert.Equal(t, id1, id2)

	id3 := g.internNumberset(2, []numRange{{65, 66}, {67, 68}})
	assert.NotEqual(t, id1, id3, "same ranges at a different width must not collapse")
}

func TestNumbersetCount(t *testing.T) {
	ns := &Numberset{Ranges: []numRange{{0, 10}, {20, 23}}}
	assert.Equal(t, int64(13), ns.Count())
}

func TestAddNonterminalRegistersName(t *testing.T) {
	g := newGrammar()
	nt := g.addNonterminal("Root")
	id, ok := g.lookupNonterminal("Root")
	assert.True(t, ok)
	assert.Equal(t, nt.id, id)

	anon := g.addNonterminal("")
	_, ok = g.lookupNonterminal("")
	assert.False(t, ok, "anonymous nonterminals are never name-indexed")
	assert.NotEqual(t, nt.id, anon.id)
}
