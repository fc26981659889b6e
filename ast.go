package chameleon

// The surface AST mirrors the dialect in spec.md §4.1 plus the
// SPEC_FULL.md §4.1 additions (import, entrypoint, num). It is built
// once by parser.go and consumed exactly once by desugar.go, so unlike
// the teacher's grammar_ast.go there is no separate visitor interface:
// desugar.go switches directly on which fieldBody field is set.

// charItem is one entry of a char/num literal-list: either a single
// value or a half-open range.
type charItem struct {
	lo, hi int64 // hi == lo+1 for a single value; [lo, hi) for a range
	span   Span
}

// fieldBody is the right-hand side of a struct field. Exactly one of
// the pointer fields is non-nil.
type fieldBody struct {
	span Span

	Ref *string // `name: OtherStruct;`

	CharSet  *charSetBody  // `name: char = ...;`
	NumSet   *numSetBody   // `name: num(W) = ...;`
	StrLit   *string       // `name: string = "literal";`
	Optional *fieldBody    // `name: optional <body>;`
	Repeats  *repeatsBody  // `name: repeats N..M <body>;`
	Struct   *structBody   // `name: struct { ... };`
	OneOf    *oneOfBody    // `name: oneof { ... }`
}

type charSetBody struct {
	items []charItem
	span  Span
}

type numSetBody struct {
	width int // 1, 2, 4, or 8
	items []charItem
	span  Span
}

type repeatsBody struct {
	lo, hi int // [lo, hi), hi inclusive-exclusive per spec.md §4.2
	body   *fieldBody
	span   Span
}

type structBody struct {
	fields []*field
	span   Span
}

type oneOfBody struct {
	branches []*field
	span     Span
}

// field is one named entry of a struct or oneof body. Name "_" and
// duplicate names are both legal (spec.md §4.1).
type field struct {
	name string
	body *fieldBody
	span Span
}

// structDecl is a top-level named struct.
type structDecl struct {
	name   string
	fields []*field
	span   Span
}

// importDecl is a top-level `import "path.chm";` (SPEC_FULL.md §4.1).
type importDecl struct {
	path string
	span Span
}

// entrypointDecl is a top-level `entrypoint Name;` (SPEC_FULL.md §4.1).
type entrypointDecl struct {
	name string
	span Span
}

// grammarFile is the parse result of one .chm file.
type grammarFile struct {
	file        string
	imports     []*importDecl
	entrypoints []*entrypointDecl
	structs     []*structDecl
}
