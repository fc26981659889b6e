package chameleon

import (
	"github.com/sirupsen/logrus"
)

// Source is one .chm file handed to Translate: Name is used only for
// diagnostics (CompileError.File) and does not appear in the emitted
// C; Bytes is the file's raw content. Translate never touches a
// filesystem itself; callers (cmd/chameleon) own all I/O.
type Source struct {
	Name  string
	Bytes []byte
}

// TranslateOptions configures one compile, gathering the CLI/config
// surface of SPEC_FULL.md §4.5 into one value.
type TranslateOptions struct {
	Entrypoint string // overrides the grammar's own `entrypoint` decl when non-empty
	Emit       EmitOptions
	Log        *logrus.Logger // defaults to logrus.StandardLogger() when nil
}

// ImportPaths parses src far enough to report the files it imports
// (SPEC_FULL.md §4.1's `import "path.chm";`), without running desugar or
// validate. Translate itself never touches a filesystem, so resolving
// and reading imported files is left to callers that do (cmd/chameleon's
// readSources); this is the hook they use to discover what else to read.
func ImportPaths(src *Source) ([]string, error) {
	gf, err := parseGrammarFile(src.Name, src.Bytes)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(gf.imports))
	for i, imp := range gf.imports {
		paths[i] = imp.path
	}
	return paths, nil
}

// Translate runs the full pipeline: parse every source, desugar into
// one Grammar, validate it, and emit C. It stops and returns the first
// *CompileError any stage produces (spec.md §4.1's first-error-wins
// rule extended to the whole pipeline, not just parsing).
func Translate(sources []*Source, opts TranslateOptions) (string, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	files := make([]*grammarFile, 0, len(sources))
	for _, src := range sources {
		log.WithField("file", src.Name).Debug("parsing grammar source")
		gf, err := parseGrammarFile(src.Name, src.Bytes)
		if err != nil {
			return "", err
		}
		files = append(files, gf)
	}

	log.WithField("files", len(files)).Debug("desugaring into intermediate representation")
	g, err := desugar(files)
	if err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"nonterminals": len(g.Nonterms),
		"terminals":    len(g.Terminals),
		"numbersets":   len(g.Numbersets),
	}).Debug("validating grammar")
	cg, err := validate(g, opts.Entrypoint)
	if err != nil {
		return "", err
	}

	log.WithField("step_width", cg.StepWidth).Debug("emitting C source")
	out, err := EmitC(cg, opts.Emit)
	if err != nil {
		return "", err
	}

	log.WithField("bytes", len(out)).Info("translation complete")
	return out, nil
}
