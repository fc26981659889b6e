package chameleon

// validate computes the per-Nonterminal flags the emitter needs
// (spec.md §4.3/§4.4) and checks the two structural invariants the
// desugarer cannot check on its own: every Nonterminal is reachable
// from the entrypoint, and the step-type width fits the largest rule
// count in the grammar.
//
// entrypointOverride, when non-empty, replaces the entrypoint chosen
// by desugar.go (the `--entrypoint` CLI flag, SPEC_FULL.md §4.5).
func validate(g *Grammar, entrypointOverride string) (*compiledGrammar, error) {
	if entrypointOverride != "" {
		id, ok := g.lookupNonterminal(entrypointOverride)
		if !ok {
			err := newEntrypointNotFound(entrypointOverride)
			err.Suggestion = suggestName(entrypointOverride, g.names())
			return nil, err
		}
		g.EntrypointID = id
	}

	computeFlags(g)

	reachable := reachabilityFrom(g, g.EntrypointID)
	for _, nt := range g.Nonterms {
		if nt.Name == "" {
			continue // compiler-synthesized nonterminals are always reachable through their owner
		}
		if !reachable[nt.id] {
			return nil, newUnreachableNonterminal(nt.Name)
		}
	}

	stepWidth := stepTypeWidth(g)

	computeTriangular(g)

	return &compiledGrammar{Grammar: g, StepWidth: stepWidth}, nil
}

// compiledGrammar bundles a validated Grammar with the facts emit_c.go
// needs but that don't belong on the IR proper.
type compiledGrammar struct {
	*Grammar
	StepWidth int // bits: 8, 16, or 32 (spec.md §4.4 step-tape encoding)
}

func computeFlags(g *Grammar) {
	for _, nt := range g.Nonterms {
		noSymbols, hasTerms, hasNonterms := true, false, false
		for _, rule := range nt.Rules {
			if len(rule) > 0 {
				noSymbols = false
			}
			for _, sym := range rule {
				switch sym.Kind {
				case symTerminal, symNumberset:
					hasTerms = true
				case symNonterminal:
					hasNonterms = true
				}
			}
		}
		nt.HasNoSymbols = noSymbols
		nt.HasTerms = hasTerms
		nt.HasNonterms = hasNonterms
	}
}

// reachabilityFrom runs a worklist BFS over Nonterminal references
// starting at root, returning the set of visited ids.
func reachabilityFrom(g *Grammar, root int) map[int]bool {
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, rule := range g.Nonterms[id].Rules {
			for _, sym := range rule {
				if sym.Kind != symNonterminal {
					continue
				}
				if !seen[sym.NonterminalID] {
					seen[sym.NonterminalID] = true
					queue = append(queue, sym.NonterminalID)
				}
			}
		}
	}
	return seen
}

// stepTypeWidth returns the narrowest of {8, 16, 32} bits wide enough
// to index the largest Rules slice in the grammar, per spec.md §4.4's
// step-tape encoding.
func stepTypeWidth(g *Grammar) int {
	max := 0
	for _, nt := range g.Nonterms {
		if n := len(nt.Rules); n > max {
			max = n
		}
	}
	switch {
	case max <= 1<<8:
		return 8
	case max <= 1<<16:
		return 16
	default:
		return 32
	}
}
