package chameleon

// desugar lowers a parsed grammarFile into a Grammar IR, implementing
// the rewrites of spec.md §4.2:
//
//   - a top-level struct becomes a single-rule Nonterminal, its fields
//     concatenated in declaration order;
//   - an anonymous struct body becomes a fresh single-rule Nonterminal;
//   - a oneof becomes a fresh Nonterminal with one rule per branch;
//   - optional X becomes a fresh two-rule Nonterminal, [epsilon, X];
//   - repeats N..M X becomes a fresh Nonterminal with one rule per
//     length in [N, M), each rule X repeated that many times;
//   - char/num/string literals intern into the Terminal/Numberset
//     tables.
//
// Name resolution happens in two passes so forward references between
// top-level structs work regardless of declaration order: register
// every struct name first, then lower each struct's body.
func desugar(files []*grammarFile) (*Grammar, error) {
	g := newGrammar()

	// Pass 1: register every top-level struct name up front so field
	// references can resolve forward.
	for _, gf := range files {
		for _, sd := range gf.structs {
			if _, exists := g.lookupNonterminal(sd.name); exists {
				return nil, newDuplicateNonterminal(gf.file, sd.name, sd.span)
			}
			g.addNonterminal(sd.name)
		}
	}

	d := &desugarer{g: g}

	// Pass 2: lower each struct's fields into its (already allocated)
	// Nonterminal's single rule.
	for _, gf := range files {
		d.file = gf.file
		for _, sd := range gf.structs {
			id, _ := g.lookupNonterminal(sd.name)
			rule, err := d.lowerFields(sd.fields)
			if err != nil {
				return nil, err
			}
			g.Nonterms[id].Rules = []Rule{rule}
		}
	}

	// Entrypoint: last `entrypoint` decl wins if more than one is
	// given; the `--entrypoint` override is applied later, in
	// validate.
	entrypointName := "Root"
	haveExplicit := false
	for _, gf := range files {
		for _, ep := range gf.entrypoints {
			entrypointName = ep.name
			haveExplicit = true
		}
	}
	id, ok := g.lookupNonterminal(entrypointName)
	if !ok {
		if !haveExplicit {
			return nil, newEntrypointNotFound(entrypointName)
		}
		err := newEntrypointNotFound(entrypointName)
		err.Suggestion = suggestName(entrypointName, g.names())
		return nil, err
	}
	g.EntrypointID = id

	return g, nil
}

type desugarer struct {
	g    *Grammar
	file string
}

// lowerFields lowers a field list (struct body or oneof's implicit
// per-branch body) into one Rule, concatenating each field's Symbol in
// order.
func (d *desugarer) lowerFields(fields []*field) (Rule, error) {
	rule := make(Rule, 0, len(fields))
	for _, f := range fields {
		sym, err := d.lowerFieldBody(f.body)
		if err != nil {
			return nil, err
		}
		rule = append(rule, sym)
	}
	return rule, nil
}

// lowerFieldBody lowers one field's right-hand side into a single
// Symbol, synthesizing fresh Nonterminals for the recursive shapes
// (optional, repeats, struct, oneof).
func (d *desugarer) lowerFieldBody(fb *fieldBody) (Symbol, error) {
	switch {
	case fb.Ref != nil:
		id, ok := d.g.lookupNonterminal(*fb.Ref)
		if !ok {
			err := newUnknownReference(d.file, *fb.Ref, fb.span)
			err.Suggestion = suggestName(*fb.Ref, d.g.names())
			return Symbol{}, err
		}
		return symFromNonterminal(id), nil

	case fb.CharSet != nil:
		ranges, err := charItemsToRanges(d.file, fb.CharSet.items, 1)
		if err != nil {
			return Symbol{}, err
		}
		return symFromNumberset(d.g.internNumberset(1, ranges)), nil

	case fb.NumSet != nil:
		ranges, err := charItemsToRanges(d.file, fb.NumSet.items, fb.NumSet.width)
		if err != nil {
			return Symbol{}, err
		}
		return symFromNumberset(d.g.internNumberset(fb.NumSet.width, ranges)), nil

	case fb.StrLit != nil:
		return symFromTerminal(d.g.internTerminal([]byte(*fb.StrLit))), nil

	case fb.Optional != nil:
		inner, err := d.lowerFieldBody(fb.Optional)
		if err != nil {
			return Symbol{}, err
		}
		nt := d.g.addNonterminal("")
		nt.Rules = []Rule{{}, {inner}}
		return symFromNonterminal(nt.id), nil

	case fb.Repeats != nil:
		return d.lowerRepeats(fb.Repeats)

	case fb.Struct != nil:
		rule, err := d.lowerFields(fb.Struct.fields)
		if err != nil {
			return Symbol{}, err
		}
		nt := d.g.addNonterminal("")
		nt.Rules = []Rule{rule}
		return symFromNonterminal(nt.id), nil

	case fb.OneOf != nil:
		nt := d.g.addNonterminal("")
		rules := make([]Rule, 0, len(fb.OneOf.branches))
		for _, branch := range fb.OneOf.branches {
			sym, err := d.lowerFieldBody(branch.body)
			if err != nil {
				return Symbol{}, err
			}
			rules = append(rules, Rule{sym})
		}
		nt.Rules = rules
		return symFromNonterminal(nt.id), nil
	}

	panic("fieldBody with no populated variant")
}

// lowerRepeats desugars `repeats N..M body` into a fresh Nonterminal
// with one rule per length in [N, M), the rule for length k holding k
// copies of body's lowered Symbol.
func (d *desugarer) lowerRepeats(rb *repeatsBody) (Symbol, error) {
	inner, err := d.lowerFieldBody(rb.body)
	if err != nil {
		return Symbol{}, err
	}
	nt := d.g.addNonterminal("")
	rules := make([]Rule, 0, rb.hi-rb.lo)
	for k := rb.lo; k < rb.hi; k++ {
		rule := make(Rule, k)
		for i := 0; i < k; i++ {
			rule[i] = inner
		}
		rules = append(rules, rule)
	}
	nt.Rules = rules
	return symFromNonterminal(nt.id), nil
}

// charItemsToRanges validates each charItem against the value range a
// field of the given byte width can hold and converts to numRange.
func charItemsToRanges(file string, items []charItem, width int) ([]numRange, error) {
	var max int64 = 1
	for i := 0; i < width; i++ {
		max *= 256
	}
	out := make([]numRange, 0, len(items))
	for _, it := range items {
		if it.lo < 0 || it.hi > max {
			return nil, newBadNumberset(file, it.span, "value out of range for the declared width")
		}
		out = append(out, numRange{Lo: it.lo, Hi: it.hi})
	}
	return out, nil
}
