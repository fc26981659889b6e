package chameleon

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokChar

	// punctuation
	tokLBrace // {
	tokRBrace // }
	tokSemi   // ;
	tokColon  // :
	tokComma  // ,
	tokEquals // =
	tokLParen // (
	tokRParen // )
	tokRange  // ..

	// keywords
	tokKwStruct
	tokKwOneof
	tokKwOptional
	tokKwRepeats
	tokKwChar
	tokKwString
	tokKwNum
	tokKwImport
	tokKwEntrypoint
)

var keywords = map[string]tokenKind{
	"struct":     tokKwStruct,
	"oneof":      tokKwOneof,
	"optional":   tokKwOptional,
	"repeats":    tokKwRepeats,
	"char":       tokKwChar,
	"string":     tokKwString,
	"num":        tokKwNum,
	"import":     tokKwImport,
	"entrypoint": tokKwEntrypoint,
}

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokString:
		return "string literal"
	case tokChar:
		return "character literal"
	case tokLBrace:
		return "`{`"
	case tokRBrace:
		return "`}`"
	case tokSemi:
		return "`;`"
	case tokColon:
		return "`:`"
	case tokComma:
		return "`,`"
	case tokEquals:
		return "`=`"
	case tokLParen:
		return "`(`"
	case tokRParen:
		return "`)`"
	case tokRange:
		return "`..`"
	default:
		return "keyword"
	}
}

// token is one lexical unit of a .chm source file.
type token struct {
	kind tokenKind
	text string // raw identifier/keyword text, or decoded string/char value
	ival int64  // decoded integer value, valid when kind == tokInt
	span Span
}
