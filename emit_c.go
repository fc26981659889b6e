package chameleon

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:embed runtime/prelude_prng.c
var cRuntimePRNGPrelude string

//go:embed runtime/prelude_walk.c
var cRuntimeWalkPrelude string

// EmitOptions controls the shape of the generated C source, covering
// both spec.md §4.4 (prefix, baby mode) and the SPEC_FULL.md §4.4
// additions (thread-safe feature, build-id header comment).
type EmitOptions struct {
	Prefix     string // prepended to every exported symbol; defaults to "chameleon"
	Baby       bool   // emit only seed()/generate(), no walk/mutate/init/destroy
	ThreadSafe bool   // give the PRNG state thread-local storage
	BuildID    string // stamped into the header comment; a fresh uuid.New() if empty
}

func (o EmitOptions) prefix() string {
	if o.Prefix == "" {
		return "chameleon"
	}
	return o.Prefix
}

// EmitC lowers a validated grammar into self-contained C source
// exposing the runtime API of spec.md §4.4.
func EmitC(g *compiledGrammar, opts EmitOptions) (string, error) {
	if opts.BuildID == "" {
		opts.BuildID = uuid.New().String()
	}
	e := &cEmitter{g: g, opts: opts, w: newOutputWriter("    ")}

	e.writeHeader()
	e.writeStepType()
	e.writePrelude()
	e.writeTerminals()
	e.writeNumbersets()
	e.writeNonterminals()
	e.writePublicAPI()

	return e.w.buffer.String(), nil
}

type cEmitter struct {
	g    *compiledGrammar
	opts EmitOptions
	w    *outputWriter
}

func (e *cEmitter) writeHeader() {
	e.w.writeil(fmt.Sprintf("/* generated by chameleon, build %s. do not edit by hand. */", e.opts.BuildID))
	e.w.writeil("#include <stdint.h>")
	e.w.writeil("#include <stddef.h>")
	e.w.writeil("#include <string.h>")
	if e.opts.ThreadSafe {
		e.w.writeil("#define CHAMELEON_THREAD_SAFE 1")
	}
	e.w.writel("")
}

func (e *cEmitter) writeStepType() {
	if e.opts.Baby {
		return
	}
	ctype := map[int]string{8: "uint8_t", 16: "uint16_t", 32: "uint32_t"}[e.g.StepWidth]
	e.w.writeil(fmt.Sprintf("typedef %s chameleon_step_t;", ctype))
	e.w.writel("")
}

func (e *cEmitter) writePrelude() {
	e.w.writel(cRuntimePRNGPrelude)
	if !e.opts.Baby {
		e.w.writel(cRuntimeWalkPrelude)
	}
}

func (e *cEmitter) terminalName(id int) string  { return fmt.Sprintf("%s_term_%d", e.opts.prefix(), id) }
func (e *cEmitter) numbersetName(id int) string { return fmt.Sprintf("%s_numset_%d", e.opts.prefix(), id) }

func (e *cEmitter) ntName(id int) string {
	nt := e.g.Nonterms[id]
	if nt.Name != "" {
		return sanitizeCIdent(nt.Name)
	}
	return fmt.Sprintf("anon_%d", id)
}

func sanitizeCIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func (e *cEmitter) writeTerminals() {
	for _, t := range e.g.Terminals {
		name := e.terminalName(t.id)
		e.w.writei(fmt.Sprintf("static const unsigned char %s[] = {", name))
		for i, b := range t.bytes {
			if i > 0 {
				e.w.write(", ")
			}
			e.w.write(fmt.Sprintf("0x%02x", b))
		}
		e.w.writeil("};")
		e.w.writeil(fmt.Sprintf("static const size_t %s_len = %d;", name, len(t.bytes)))
	}
	e.w.writel("")
}

// writeNumbersets emits, per interned Numberset, its range tables and
// a sampler matching spec.md §4.4: single-range sets sample directly,
// multi-range sets dispatch on CHAMELEON_LINEAR_RANDOM over the ranges
// first. Output is the first width bytes of the sampled integer copied
// with memcpy, i.e. host byte order: little-endian only on little-endian
// hosts, no byte swapping is emitted.
func (e *cEmitter) writeNumbersets() {
	for _, ns := range e.g.Numbersets {
		name := e.numbersetName(ns.id)

		if len(ns.Ranges) > 1 {
			e.w.writei(fmt.Sprintf("static const uint64_t %s_lo[] = {", name))
			for i, r := range ns.Ranges {
				if i > 0 {
					e.w.write(", ")
				}
				e.w.write(fmt.Sprintf("%dULL", r.Lo))
			}
			e.w.writeil("};")
			e.w.writei(fmt.Sprintf("static const uint64_t %s_hi[] = {", name))
			for i, r := range ns.Ranges {
				if i > 0 {
					e.w.write(", ")
				}
				e.w.write(fmt.Sprintf("%dULL", r.Hi))
			}
			e.w.writeil("};")
		}

		e.w.writeil(fmt.Sprintf("static void %s_sample(unsigned char *out) {", name))
		e.w.indent()
		e.w.writeil("uint64_t value;")
		if len(ns.Ranges) == 1 {
			r := ns.Ranges[0]
			e.w.writeil(fmt.Sprintf("value = %dULL + chameleon_rt_random() %% %dULL;", r.Lo, r.Hi-r.Lo))
		} else {
			e.w.writeil(fmt.Sprintf("size_t which = (size_t)CHAMELEON_LINEAR_RANDOM(%d);", len(ns.Ranges)))
			e.w.writeil(fmt.Sprintf("value = %s_lo[which] + chameleon_rt_random() %% (%s_hi[which] - %s_lo[which]);", name, name, name))
		}
		e.w.writeil(fmt.Sprintf("memcpy(out, &value, %d);", ns.Width))
		e.w.unindent()
		e.w.writeil("}")
		e.w.writel("")
	}
}

func (e *cEmitter) fullFnName(id int) string {
	return fmt.Sprintf("%s_mutate_nonterm_%s", e.opts.prefix(), e.ntName(id))
}

func (e *cEmitter) babyFnName(id int) string {
	return fmt.Sprintf("%s_generate_nonterm_%s", e.opts.prefix(), e.ntName(id))
}

func (e *cEmitter) writeNonterminals() {
	for _, nt := range e.g.Nonterms {
		if e.opts.Baby {
			e.writeBabyProc(nt)
		} else {
			e.writeFullProc(nt)
		}
	}
}

// writeFullProc emits the single `_mutate_nonterm_N` procedure spec.md
// §4.4 describes: it serves both generate (called with length==0, so
// every multi-rule choice is freshly drawn) and mutate (called with
// length equal to the prefix of the walk to replay) through the same
// body. step is threaded by pointer so sibling and child calls share
// one monotonically increasing tape cursor.
func (e *cEmitter) writeFullProc(nt *Nonterminal) {
	sig := fmt.Sprintf("static size_t %s(chameleon_walk_layout_t *walk, size_t *step, size_t length, unsigned char *out, size_t out_cap)", e.fullFnName(nt.id))
	e.w.writeil(sig + " {")
	e.w.indent()

	switch {
	case len(nt.Rules) == 0 || (len(nt.Rules) == 1 && nt.HasNoSymbols):
		e.w.writeil("(void)walk; (void)step; (void)length; (void)out; (void)out_cap;")
		e.w.writeil("return 0;")

	case len(nt.Rules) == 1:
		e.emitFullRuleBody(nt.Rules[0])

	default:
		e.w.writeil("if (*step >= walk->capacity) {")
		e.w.indent()
		e.w.writeil("return CHAMELEON_WALK_OVERFLOW; /* bounds unbounded recursion */")
		e.w.unindent()
		e.w.writeil("}")
		e.w.writeil("chameleon_step_t rule;")
		e.w.writeil("if (*step >= length) {")
		e.w.indent()
		if nt.IsTriangular {
			e.w.writeil(fmt.Sprintf("rule = (chameleon_step_t)%s;", triangularDrawExpr(len(nt.Rules))))
		} else {
			e.w.writeil(fmt.Sprintf("rule = (chameleon_step_t)CHAMELEON_LINEAR_RANDOM(%d);", len(nt.Rules)))
		}
		e.w.writeil("walk->steps[*step] = rule;")
		e.w.unindent()
		e.w.writeil("} else {")
		e.w.indent()
		e.w.writeil("rule = walk->steps[*step];")
		e.w.unindent()
		e.w.writeil("}")
		e.w.writeil("(*step)++;")
		e.w.writeil("switch (rule) {")
		e.w.indent()
		for i, rule := range nt.Rules {
			e.w.writeil(fmt.Sprintf("case %d: {", i))
			e.w.indent()
			e.emitFullRuleBody(rule)
			e.w.unindent()
			e.w.writeil("}")
		}
		e.w.writeil("default: return CHAMELEON_WALK_OVERFLOW;")
		e.w.unindent()
		e.w.writeil("}")
	}

	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")
}

// triangularDrawExpr renders an inline cumulative-weight draw over n
// alternatives, equivalent to indexing a precomputed triangular table
// without needing one sized to the grammar's largest rule count. Weights
// come from triangularWeights, which front-loads rule 0.
func triangularDrawExpr(n int) string {
	weights := triangularWeights(n)
	total := weights[len(weights)-1]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("({ uint64_t pick__ = chameleon_rt_random() %% %dULL; ", total))
	for i, w := range weights {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("(pick__ < %dULL) ? %d : ", w, i))
		} else if i == len(weights)-1 {
			sb.WriteString(fmt.Sprintf("%d;", i))
		} else {
			sb.WriteString(fmt.Sprintf("(pick__ < %dULL) ? %d : ", w, i))
		}
	}
	sb.WriteString(" })")
	return sb.String()
}

// emitFullRuleBody emits one rule's straight-line body for the
// full-mode procedure, threading out/out_cap forward after every
// symbol and returning early with the spec-mandated truncation value
// (the remaining capacity) the moment a write would overflow.
func (e *cEmitter) emitFullRuleBody(rule Rule) {
	e.w.writeil("size_t written = 0;")
	for _, sym := range rule {
		switch sym.Kind {
		case symTerminal:
			name := e.terminalName(sym.TerminalID)
			e.w.writeil(fmt.Sprintf("if (out_cap - written < %s_len) { return out_cap; }", name))
			e.w.writeil(fmt.Sprintf("memcpy(out + written, %s, %s_len); written += %s_len;", name, name, name))
		case symNumberset:
			name := e.numbersetName(sym.NumbersetID)
			ns := e.g.Numbersets[sym.NumbersetID]
			e.w.writeil(fmt.Sprintf("if (out_cap - written < %d) { return out_cap; }", ns.Width))
			e.w.writeil(fmt.Sprintf("%s_sample(out + written); written += %d;", name, ns.Width))
		case symNonterminal:
			callee := e.fullFnName(sym.NonterminalID)
			e.w.writeil(fmt.Sprintf("size_t sub = %s(walk, step, length, out + written, out_cap - written);", callee))
			e.w.writeil("if (sub == CHAMELEON_WALK_OVERFLOW) { return CHAMELEON_WALK_OVERFLOW; }")
			e.w.writeil("written += sub;")
		}
	}
	e.w.writeil("return written;")
}

// writeBabyProc emits `_generate_nonterm_N` for baby mode: no walk, no
// step tape, just an in-place random rule pick per call.
func (e *cEmitter) writeBabyProc(nt *Nonterminal) {
	e.w.writeil(fmt.Sprintf("static size_t %s(unsigned char *out, size_t out_cap) {", e.babyFnName(nt.id)))
	e.w.indent()

	switch {
	case len(nt.Rules) == 0 || (len(nt.Rules) == 1 && nt.HasNoSymbols):
		e.w.writeil("(void)out; (void)out_cap;")
		e.w.writeil("return 0;")

	case len(nt.Rules) == 1:
		e.emitBabyRuleBody(nt.Rules[0])

	default:
		if nt.IsTriangular {
			e.w.writeil(fmt.Sprintf("int rule = (int)%s;", triangularDrawExpr(len(nt.Rules))))
		} else {
			e.w.writeil(fmt.Sprintf("int rule = (int)CHAMELEON_LINEAR_RANDOM(%d);", len(nt.Rules)))
		}
		e.w.writeil("switch (rule) {")
		e.w.indent()
		for i, rule := range nt.Rules {
			e.w.writeil(fmt.Sprintf("case %d: {", i))
			e.w.indent()
			e.emitBabyRuleBody(rule)
			e.w.unindent()
			e.w.writeil("}")
		}
		e.w.writeil("default: return 0;")
		e.w.unindent()
		e.w.writeil("}")
	}

	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")
}

func (e *cEmitter) emitBabyRuleBody(rule Rule) {
	e.w.writeil("size_t written = 0;")
	for _, sym := range rule {
		switch sym.Kind {
		case symTerminal:
			name := e.terminalName(sym.TerminalID)
			e.w.writeil(fmt.Sprintf("if (out_cap - written < %s_len) { return out_cap; }", name))
			e.w.writeil(fmt.Sprintf("memcpy(out + written, %s, %s_len); written += %s_len;", name, name, name))
		case symNumberset:
			name := e.numbersetName(sym.NumbersetID)
			ns := e.g.Numbersets[sym.NumbersetID]
			e.w.writeil(fmt.Sprintf("if (out_cap - written < %d) { return out_cap; }", ns.Width))
			e.w.writeil(fmt.Sprintf("%s_sample(out + written); written += %d;", name, ns.Width))
		case symNonterminal:
			callee := e.babyFnName(sym.NonterminalID)
			e.w.writeil(fmt.Sprintf("size_t sub = %s(out + written, out_cap - written);", callee))
			e.w.writeil("written += sub;")
		}
	}
	e.w.writeil("return written;")
}

// writePublicAPI emits the runtime entry points of spec.md §4.4:
// seed/init/destroy/generate/mutate in full mode, seed/generate only
// in baby mode.
func (e *cEmitter) writePublicAPI() {
	prefix := e.opts.prefix()
	entry := e.g.EntrypointID

	e.w.writeil(fmt.Sprintf("void %s_seed(uint64_t seed) {", prefix))
	e.w.indent()
	e.w.writeil("chameleon_rt_seed(seed);")
	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")

	if e.opts.Baby {
		e.w.writeil(fmt.Sprintf("size_t %s_generate(unsigned char *out, size_t out_cap) {", prefix))
		e.w.indent()
		e.w.writeil(fmt.Sprintf("return %s(out, out_cap);", e.babyFnName(entry)))
		e.w.unindent()
		e.w.writeil("}")
		return
	}

	e.w.writeil(fmt.Sprintf("void %s_init(ChameleonWalk walk, size_t capacity) {", prefix))
	e.w.indent()
	e.w.writeil("chameleon_rt_walk_init(CHAMELEON_WALK(walk), capacity);")
	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")

	e.w.writeil(fmt.Sprintf("void %s_destroy(ChameleonWalk walk) {", prefix))
	e.w.indent()
	e.w.writeil("chameleon_rt_walk_destroy(CHAMELEON_WALK(walk));")
	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")

	e.w.writeil(fmt.Sprintf("size_t %s_generate(ChameleonWalk walk, unsigned char *out, size_t out_cap) {", prefix))
	e.w.indent()
	e.w.writeil("chameleon_walk_layout_t *w = CHAMELEON_WALK(walk);")
	e.w.writeil("w->length = 0;")
	e.w.writeil("size_t step = 0;")
	e.w.writeil(fmt.Sprintf("size_t written = %s(w, &step, 0, out, out_cap);", e.fullFnName(entry)))
	e.w.writeil("w->length = step;")
	e.w.writeil("return written == CHAMELEON_WALK_OVERFLOW ? 0 : written;")
	e.w.unindent()
	e.w.writeil("}")
	e.w.writel("")

	e.w.writeil(fmt.Sprintf("size_t %s_mutate(ChameleonWalk walk, unsigned char *out, size_t out_cap) {", prefix))
	e.w.indent()
	e.w.writeil("chameleon_walk_layout_t *w = CHAMELEON_WALK(walk);")
	e.w.writeil("size_t length = w->length > 0 ? (size_t)(chameleon_rt_random() % w->length) : 0;")
	e.w.writeil("w->length = 0;")
	e.w.writeil("size_t step = 0;")
	e.w.writeil(fmt.Sprintf("size_t written = %s(w, &step, length, out, out_cap);", e.fullFnName(entry)))
	e.w.writeil("w->length = step;")
	e.w.writeil("return written == CHAMELEON_WALK_OVERFLOW ? 0 : written;")
	e.w.unindent()
	e.w.writeil("}")
}
