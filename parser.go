package chameleon

import "fmt"

// parser is a hand-written recursive-descent parser over the token
// stream produced by lexer.go. Styled after the teacher's BaseParser
// (rune cursor, Location-carrying errors) but without backtracking
// combinators: the surface dialect (spec.md §4.1) has no ambiguity
// that needs a PEG-style choice operator, so one token of lookahead
// suffices throughout. Parsing fails on the first error, per spec.md
// §4.1.
type parser struct {
	file string
	lex  *lexer
	tok  token
}

func newParser(file string, src []byte) (*parser, error) {
	p := &parser{file: file, lex: newLexer(file, src)}
	if err := p.bump(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) bump() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind) (token, error) {
	if p.tok.kind != k {
		return token{}, newParseError(p.file, p.tok.span, fmt.Sprintf("expected %s but found %s", k, p.tok.kind))
	}
	t := p.tok
	if err := p.bump(); err != nil {
		return token{}, err
	}
	return t, nil
}

func (p *parser) at(k tokenKind) bool { return p.tok.kind == k }

// parseGrammarFile parses one whole .chm file into a grammarFile.
func parseGrammarFile(file string, src []byte) (*grammarFile, error) {
	p, err := newParser(file, src)
	if err != nil {
		return nil, err
	}
	return p.parseFile()
}

func (p *parser) parseFile() (*grammarFile, error) {
	gf := &grammarFile{file: p.file}
	for !p.at(tokEOF) {
		switch p.tok.kind {
		case tokKwImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			gf.imports = append(gf.imports, imp)
		case tokKwEntrypoint:
			ep, err := p.parseEntrypoint()
			if err != nil {
				return nil, err
			}
			gf.entrypoints = append(gf.entrypoints, ep)
		case tokKwStruct:
			sd, err := p.parseStructDecl()
			if err != nil {
				return nil, err
			}
			gf.structs = append(gf.structs, sd)
		default:
			return nil, newParseError(p.file, p.tok.span,
				fmt.Sprintf("expected `import`, `entrypoint`, or `struct` but found %s", p.tok.kind))
		}
	}
	return gf, nil
}

func (p *parser) parseImport() (*importDecl, error) {
	start := p.tok.span.Start
	if _, err := p.expect(tokKwImport); err != nil {
		return nil, err
	}
	path, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &importDecl{path: path.text, span: Span{start, p.tok.span.End}}, nil
}

func (p *parser) parseEntrypoint() (*entrypointDecl, error) {
	start := p.tok.span.Start
	if _, err := p.expect(tokKwEntrypoint); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &entrypointDecl{name: name.text, span: Span{start, p.tok.span.End}}, nil
}

func (p *parser) parseStructDecl() (*structDecl, error) {
	start := p.tok.span.Start
	if _, err := p.expect(tokKwStruct); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFieldList()
	if err != nil {
		return nil, err
	}
	return &structDecl{name: name.text, fields: fields, span: Span{start, p.tok.span.End}}, nil
}

// parseFieldList parses `{ field* }`.
func (p *parser) parseFieldList() ([]*field, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var fields []*field
	for !p.at(tokRBrace) {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseField parses `name: <body> [;]`. The trailing semicolon is
// required unless <body> ends in a `}` (struct/oneof), matching the
// informal examples in spec.md §4.2.
func (p *parser) parseField() (*field, error) {
	start := p.tok.span.Start
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	body, closesWithBrace, err := p.parseFieldBody()
	if err != nil {
		return nil, err
	}
	if p.at(tokSemi) {
		if err := p.bump(); err != nil {
			return nil, err
		}
	} else if !closesWithBrace {
		return nil, newParseError(p.file, p.tok.span, fmt.Sprintf("expected `;` but found %s", p.tok.kind))
	}
	return &field{name: nameTok.text, body: body, span: Span{start, p.tok.span.End}}, nil
}

// parseFieldBody parses the right-hand side of a field. It returns
// whether the body's last token was a `}`, so the caller can treat the
// following `;` as optional.
func (p *parser) parseFieldBody() (*fieldBody, bool, error) {
	start := p.tok.span.Start
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, Ref: &name}, false, nil

	case tokKwChar:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(tokEquals); err != nil {
			return nil, false, err
		}
		items, err := p.parseCharList()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, CharSet: &charSetBody{items: items, span: Span{start, p.tok.span.Start}}}, false, nil

	case tokKwNum:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(tokLParen); err != nil {
			return nil, false, err
		}
		widthTok, err := p.expect(tokInt)
		if err != nil {
			return nil, false, err
		}
		width := int(widthTok.ival)
		if width != 1 && width != 2 && width != 4 && width != 8 {
			return nil, false, newBadNumberset(p.file, widthTok.span, "num width must be one of 1, 2, 4, 8")
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(tokEquals); err != nil {
			return nil, false, err
		}
		items, err := p.parseCharList()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, NumSet: &numSetBody{width: width, items: items, span: Span{start, p.tok.span.Start}}}, false, nil

	case tokKwString:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(tokEquals); err != nil {
			return nil, false, err
		}
		lit, err := p.expect(tokString)
		if err != nil {
			return nil, false, err
		}
		s := lit.text
		return &fieldBody{span: Span{start, p.tok.span.Start}, StrLit: &s}, false, nil

	case tokKwOptional:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		inner, _, err := p.parseFieldBody()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, Optional: inner}, false, nil

	case tokKwRepeats:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		lo, hi, err := p.parseRepeatsSpec()
		if err != nil {
			return nil, false, err
		}
		inner, _, err := p.parseFieldBody()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, Repeats: &repeatsBody{lo: lo, hi: hi, body: inner, span: Span{start, p.tok.span.Start}}}, false, nil

	case tokKwStruct:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		fields, err := p.parseFieldList()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, Struct: &structBody{fields: fields, span: Span{start, p.tok.span.Start}}}, true, nil

	case tokKwOneof:
		if err := p.bump(); err != nil {
			return nil, false, err
		}
		branches, err := p.parseOneOfBranches()
		if err != nil {
			return nil, false, err
		}
		return &fieldBody{span: Span{start, p.tok.span.Start}, OneOf: &oneOfBody{branches: branches, span: Span{start, p.tok.span.Start}}}, true, nil
	}

	return nil, false, newParseError(p.file, p.tok.span, fmt.Sprintf("unexpected %s in field body", p.tok.kind))
}

func (p *parser) parseOneOfBranches() ([]*field, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var branches []*field
	for !p.at(tokRBrace) {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		branches = append(branches, f)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, newParseError(p.file, p.tok.span, "oneof must have at least one branch")
	}
	return branches, nil
}

// parseRepeatsSpec parses `N..M` or `K`.
func (p *parser) parseRepeatsSpec() (int, int, error) {
	first, err := p.expect(tokInt)
	if err != nil {
		return 0, 0, err
	}
	if p.at(tokRange) {
		if err := p.bump(); err != nil {
			return 0, 0, err
		}
		second, err := p.expect(tokInt)
		if err != nil {
			return 0, 0, err
		}
		if second.ival <= first.ival {
			return 0, 0, newParseError(p.file, second.span, "repeats upper bound must be greater than the lower bound")
		}
		return int(first.ival), int(second.ival), nil
	}
	return int(first.ival), int(first.ival) + 1, nil
}

// parseCharList parses a comma-separated list of chars, strings, or
// numeric half-open ranges.
func (p *parser) parseCharList() ([]charItem, error) {
	var items []charItem
	for {
		item, err := p.parseCharItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item...)
		if !p.at(tokComma) {
			break
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// parseCharItem parses one entry; a string literal expands into one
// charItem per byte so `char = "ab"` behaves like `char = 'a', 'b'`.
func (p *parser) parseCharItem() ([]charItem, error) {
	start := p.tok.span.Start
	switch p.tok.kind {
	case tokChar:
		r := []rune(p.tok.text)[0]
		if err := p.bump(); err != nil {
			return nil, err
		}
		return []charItem{{lo: int64(r), hi: int64(r) + 1, span: Span{start, p.tok.span.Start}}}, nil

	case tokString:
		s := p.tok.text
		if err := p.bump(); err != nil {
			return nil, err
		}
		items := make([]charItem, 0, len(s))
		for _, b := range []byte(s) {
			items = append(items, charItem{lo: int64(b), hi: int64(b) + 1, span: Span{start, p.tok.span.Start}})
		}
		return items, nil

	case tokInt:
		lo := p.tok.ival
		loSpan := p.tok.span
		if err := p.bump(); err != nil {
			return nil, err
		}
		if !p.at(tokRange) {
			return []charItem{{lo: lo, hi: lo + 1, span: loSpan}}, nil
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		hiTok, err := p.expect(tokInt)
		if err != nil {
			return nil, err
		}
		if hiTok.ival <= lo {
			return nil, newBadNumberset(p.file, hiTok.span, "range upper bound must be greater than the lower bound")
		}
		return []charItem{{lo: lo, hi: hiTok.ival, span: Span{loSpan.Start, hiTok.span.End}}}, nil
	}

	return nil, newParseError(p.file, p.tok.span, fmt.Sprintf("expected a character, string, or integer range but found %s", p.tok.kind))
}
