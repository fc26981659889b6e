package chameleon

import "fmt"

// ErrorKind identifies one of the diagnostic categories in spec.md §7.
type ErrorKind int

const (
	ErrIo ErrorKind = iota
	ErrLex
	ErrParse
	ErrUnknownReference
	ErrDuplicateNonterminal
	ErrEntrypointNotFound
	ErrUnreachableNonterminal
	ErrBadNumberset
	ErrTemplate
	ErrWrite
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIo:
		return "IoError"
	case ErrLex:
		return "LexError"
	case ErrParse:
		return "ParseError"
	case ErrUnknownReference:
		return "UnknownReference"
	case ErrDuplicateNonterminal:
		return "DuplicateNonterminal"
	case ErrEntrypointNotFound:
		return "EntrypointNotFound"
	case ErrUnreachableNonterminal:
		return "UnreachableNonterminal"
	case ErrBadNumberset:
		return "BadNumberset"
	case ErrTemplate:
		return "TemplateError"
	case ErrWrite:
		return "WriteError"
	default:
		return "UnknownError"
	}
}

// CompileError is the single error type every stage of the pipeline
// returns. A compile aborts on the first one produced.
type CompileError struct {
	Kind ErrorKind

	// Message is the human-readable description.
	Message string

	// Name is the offending identifier, when the kind carries one
	// (UnknownReference, DuplicateNonterminal, EntrypointNotFound,
	// UnreachableNonterminal).
	Name string

	// Suggestion, when non-empty, is a "did you mean" hint computed
	// by suggest.go against the set of known nonterminal names.
	Suggestion string

	// Span is the offending source location, when known. Lexer and
	// parser errors always carry one; later stages (validation) may
	// not have precise source spans once lowered to IR.
	Span   Span
	HasPos bool

	// File is the grammar file the error was raised against, when
	// known.
	File string
}

func (e *CompileError) Error() string {
	loc := ""
	if e.HasPos {
		loc = fmt.Sprintf(" @ %s", e.Span)
	}
	if e.File != "" {
		loc = fmt.Sprintf(" @ %s%s", e.File, loc)
	}
	msg := fmt.Sprintf("%s: %s%s", e.Kind, e.Message, loc)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean `%s`?)", e.Suggestion)
	}
	return msg
}

func newLexError(file string, span Span, msg string) *CompileError {
	return &CompileError{Kind: ErrLex, Message: msg, Span: span, HasPos: true, File: file}
}

func newParseError(file string, span Span, msg string) *CompileError {
	return &CompileError{Kind: ErrParse, Message: msg, Span: span, HasPos: true, File: file}
}

func newUnknownReference(file, name string, span Span) *CompileError {
	return &CompileError{
		Kind: ErrUnknownReference, Name: name, Span: span, HasPos: true, File: file,
		Message: fmt.Sprintf("nonterminal `%s` is not defined", name),
	}
}

func newDuplicateNonterminal(file, name string, span Span) *CompileError {
	return &CompileError{
		Kind: ErrDuplicateNonterminal, Name: name, Span: span, HasPos: true, File: file,
		Message: fmt.Sprintf("nonterminal `%s` is already defined", name),
	}
}

func newEntrypointNotFound(name string) *CompileError {
	return &CompileError{
		Kind: ErrEntrypointNotFound, Name: name,
		Message: fmt.Sprintf("entrypoint `%s` is not defined", name),
	}
}

func newUnreachableNonterminal(name string) *CompileError {
	return &CompileError{
		Kind: ErrUnreachableNonterminal, Name: name,
		Message: fmt.Sprintf("nonterminal `%s` is unreachable from the entrypoint", name),
	}
}

func newBadNumberset(file string, span Span, msg string) *CompileError {
	return &CompileError{Kind: ErrBadNumberset, Message: msg, Span: span, HasPos: true, File: file}
}

func newTemplateError(msg string) *CompileError {
	return &CompileError{Kind: ErrTemplate, Message: msg}
}

func newWriteError(msg string) *CompileError {
	return &CompileError{Kind: ErrWrite, Message: msg}
}

func newIoError(path string, err error) *CompileError {
	return &CompileError{Kind: ErrIo, Message: err.Error(), File: path}
}
