package chameleon

// computeTriangular marks which multi-rule Nonterminals use triangular
// rule selection (spec.md §4.4: picking a rule with a weight that falls
// with its position favors earlier alternatives, which keeps
// recursive generation terminating in practice). A Nonterminal needs at
// least two rules for "which rule" to be a meaningful choice at all, so
// that is the threshold: single-rule and zero-rule nonterminals are
// never triangular.
func computeTriangular(g *Grammar) {
	for _, nt := range g.Nonterms {
		nt.IsTriangular = len(nt.Rules) >= 2
	}
}

// triangularWeights returns the cumulative triangular-number table used
// by the emitted C selection code: for n rules, rule i (0-indexed) gets
// raw weight n-i, so the first declared rule is heaviest (weight n) and
// the last is lightest (weight 1). Grammars are written with the
// recursion-terminating alternative first by convention, so front-
// loading rule 0 biases generation toward branches that end recursion
// rather than expand it. The emitter walks this table with a single
// random draw in [0, total) to pick a rule in O(n).
func triangularWeights(n int) []int {
	weights := make([]int, n)
	total := 0
	for i := 0; i < n; i++ {
		total += n - i
		weights[i] = total
	}
	return weights
}
