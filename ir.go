package chameleon

import (
	"fmt"
	"sort"
	"strings"
)

// Terminal is an interned literal byte string, e.g. the desugared form
// of `string = "foo"`. A `char = 'a'` field lowers to a Numberset, not
// a Terminal.
type Terminal struct {
	id    int
	bytes []byte
}

func (t *Terminal) String() string { return fmt.Sprintf("Terminal(%q)", t.bytes) }

// numRange is a half-open range [Lo, Hi) of a Numberset, per spec.md
// §3. Multiple ranges on one Numberset are kept sorted and merged so
// two grammars that spell the same set differently intern to the same
// Numberset.
type numRange struct {
	Lo, Hi int64
}

// Numberset is an interned, width-tagged set of integer ranges. Width
// is in bytes (1, 2, 4, or 8) and is part of the interning key: a
// `char` set and a `num(2)` set covering the same values are distinct
// Numbersets because they sample a different number of bytes.
type Numberset struct {
	id     int
	Width  int
	Ranges []numRange
}

func (n *Numberset) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Numberset(width=%d, ", n.Width)
	for i, r := range n.Ranges {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "[%d,%d)", r.Lo, r.Hi)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Count returns the number of distinct integer values the set covers.
func (n *Numberset) Count() int64 {
	var total int64
	for _, r := range n.Ranges {
		total += r.Hi - r.Lo
	}
	return total
}

// symbolKind tags the Symbol union.
type symbolKind int

const (
	symNonterminal symbolKind = iota
	symTerminal
	symNumberset
)

// Symbol is one element of a Rule: a reference to another Nonterminal,
// an interned Terminal, or an interned Numberset. Exactly one of
// NonterminalID/TerminalID/NumbersetID is meaningful, selected by Kind.
type Symbol struct {
	Kind          symbolKind
	NonterminalID int
	TerminalID    int
	NumbersetID   int
}

func symFromNonterminal(id int) Symbol { return Symbol{Kind: symNonterminal, NonterminalID: id} }
func symFromTerminal(id int) Symbol    { return Symbol{Kind: symTerminal, TerminalID: id} }
func symFromNumberset(id int) Symbol   { return Symbol{Kind: symNumberset, NumbersetID: id} }

// Rule is one alternative production of a Nonterminal: an ordered
// sequence of Symbols concatenated at generation time.
type Rule []Symbol

// Nonterminal is one named production point of the grammar, with one
// or more Rules. A single-rule Nonterminal models a `struct` (its
// Rule is the field sequence); a multi-rule Nonterminal models a
// `oneof` (each Rule is one branch) or the fan-out of a `repeats`.
type Nonterminal struct {
	id    int
	Name  string // empty for compiler-synthesized nonterminals
	Rules []Rule

	// Flags computed once by validate.go / triangular.go.
	HasNoSymbols  bool // true if every Rule is empty (epsilon only)
	HasTerms      bool // true if any Rule contains a Terminal or Numberset
	HasNonterms   bool // true if any Rule contains a Symbol referencing another Nonterminal
	IsTriangular  bool // see triangular.go
}

func (nt *Nonterminal) String() string {
	name := nt.Name
	if name == "" {
		name = fmt.Sprintf("$anon%d", nt.id)
	}
	return fmt.Sprintf("Nonterminal(%s, %d rule(s))", name, len(nt.Rules))
}

// Grammar is the fully-built intermediate representation a single .chm
// compile produces: interned Terminal/Numberset tables, the ordered
// Nonterminal table (dense ids, index == id), and an entrypoint.
//
// Construction happens exclusively through the intern*/addNonterminal
// helpers so that equal literals always collapse to the same id; the
// emitter (emit_c.go) relies on this to deduplicate generated C
// constants.
type Grammar struct {
	Terminals   []*Terminal
	Numbersets  []*Numberset
	Nonterms    []*Nonterminal
	EntrypointID int

	termIndex map[string]int
	nsIndex   map[string]int
	nameIndex map[string]int
}

func newGrammar() *Grammar {
	return &Grammar{
		EntrypointID: -1,
		termIndex:    map[string]int{},
		nsIndex:      map[string]int{},
		nameIndex:    map[string]int{},
	}
}

func (g *Grammar) internTerminal(b []byte) int {
	key := string(b)
	if id, ok := g.termIndex[key]; ok {
		return id
	}
	id := len(g.Terminals)
	g.Terminals = append(g.Terminals, &Terminal{id: id, bytes: append([]byte(nil), b...)})
	g.termIndex[key] = id
	return id
}

// internNumberset merges overlapping/adjacent ranges, sorts them, and
// interns the (width, ranges) pair.
func (g *Grammar) internNumberset(width int, ranges []numRange) int {
	merged := mergeRanges(ranges)
	key := numbersetKey(width, merged)
	if id, ok := g.nsIndex[key]; ok {
		return id
	}
	id := len(g.Numbersets)
	g.Numbersets = append(g.Numbersets, &Numberset{id: id, Width: width, Ranges: merged})
	g.nsIndex[key] = id
	return id
}

func numbersetKey(width int, ranges []numRange) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:", width)
	for _, r := range ranges {
		fmt.Fprintf(&sb, "%d-%d;", r.Lo, r.Hi)
	}
	return sb.String()
}

// mergeRanges sorts by Lo and coalesces overlapping or touching
// ranges, per spec.md §3's "a Numberset is a canonical set of
// disjoint half-open ranges" invariant.
func mergeRanges(ranges []numRange) []numRange {
	if len(ranges) == 0 {
		return nil
	}
	cp := append([]numRange(nil), ranges...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Lo < cp[j].Lo })
	out := []numRange{cp[0]}
	for _, r := range cp[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// addNonterminal registers a new, empty Nonterminal and returns its
// id. name is empty for compiler-synthesized nonterminals (anonymous
// struct/oneof bodies, repeats fan-out helpers).
func (g *Grammar) addNonterminal(name string) *Nonterminal {
	id := len(g.Nonterms)
	nt := &Nonterminal{id: id, Name: name}
	g.Nonterms = append(g.Nonterms, nt)
	if name != "" {
		g.nameIndex[name] = id
	}
	return nt
}

// lookupNonterminal resolves a top-level struct name to its id.
func (g *Grammar) lookupNonterminal(name string) (int, bool) {
	id, ok := g.nameIndex[name]
	return id, ok
}

// names returns every registered top-level (non-anonymous) nonterminal
// name, used by suggest.go to build "did you mean" candidates.
func (g *Grammar) names() []string {
	out := make([]string, 0, len(g.nameIndex))
	for n := range g.nameIndex {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
