package chameleon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestNameFindsCloseMatch(t *testing.T) {
	got := suggestName("Roott", []string{"Root", "Leaf", "Branch"})
	assert.Equal(t, "Root", got)
}

func TestSuggestNameReturnsEmptyWhenNothingClose(t *testing.T) {
	got := suggestName("Zzzzzzzzzz", []string{"Root", "Leaf"})
	assert.Empty(t, got)
}

func TestSuggestNameEmptyCandidates(t *testing.T) {
	assert.Empty(t, suggestName("Root", nil))
}
