package chameleon

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestName returns the closest match for name among candidates, or
// "" if nothing is close enough to be worth showing. Used to attach a
// "did you mean" hint to UnknownReference and EntrypointNotFound
// diagnostics (spec.md §7, SPEC_FULL.md §10.2).
func suggestName(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	// Case-insensitive edit distance, so both missing and extra runes
	// count; a distance more than half the length of name plus two is
	// too far off to be useful.
	if best == "" || bestDist > len(name)/2+2 {
		return ""
	}
	return best
}
