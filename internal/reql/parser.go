package reql

import (
	"fmt"
	"strings"
)

// Parser turns a pre-lexed token stream into a Query AST.
type Parser struct {
	toks []Token
	pos  int
}

// Parse lexes and parses src into a Query, or an error wrapping
// ErrCompile.
func Parse(src string) (*Query, error) {
	lx := NewLexer(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompile, err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	p := &Parser{toks: toks}
	q, err := p.parseQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return q, nil
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) atEOF() bool { return p.cur().Kind == TokEOF }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// isKeyword reports whether the current token is an identifier matching
// word, case-insensitively (REQL keywords are case-insensitive, matching
// the SPARQL-derived grammar the retrieved pack's REQL tests exercise).
func (p *Parser) isKeyword(word string) bool {
	t := p.cur()
	return t.Kind == TokIdent && strings.EqualFold(t.Text, word)
}

func (p *Parser) expectKeyword(word string) error {
	if !p.isKeyword(word) {
		return fmt.Errorf("expected %q at position %d, got %q", word, p.cur().Pos, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKind(kind TokenKind, what string) (Token, error) {
	if p.cur().Kind != kind {
		return Token{}, fmt.Errorf("expected %s at position %d, got %q", what, p.cur().Pos, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) parseQuery() (*Query, error) {
	q := &Query{Limit: -1, Offset: 0}

	switch {
	case p.isKeyword("SELECT"):
		p.advance()
		if p.isKeyword("DISTINCT") {
			p.advance()
			q.Distinct = true
		}
		if p.cur().Kind == TokStar {
			p.advance()
			q.Star = true
		} else {
			for !p.isKeyword("WHERE") {
				term, err := p.parseSelectTerm()
				if err != nil {
					return nil, err
				}
				q.Select = append(q.Select, term)
			}
		}
	case p.isKeyword("ASK"):
		p.advance()
		q.Ask = true
	default:
		return nil, fmt.Errorf("expected SELECT or ASK at position %d, got %q", p.cur().Pos, p.cur().Text)
	}

	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	if _, err := p.expectKind(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	ggp, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	q.Where = ggp
	if _, err := p.expectKind(TokRBrace, "'}'"); err != nil {
		return nil, err
	}

	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, fmt.Errorf("unexpected trailing input at position %d: %q", p.cur().Pos, p.cur().Text)
	}
	return q, nil
}

func (p *Parser) parseSelectTerm() (SelectTerm, error) {
	if p.cur().Kind == TokVar {
		tok := p.advance()
		return SelectTerm{Var: tok.Text}, nil
	}
	if _, err := p.expectKind(TokLParen, "'(' or '?var'"); err != nil {
		return SelectTerm{}, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return SelectTerm{}, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return SelectTerm{}, err
	}
	varTok, err := p.expectKind(TokVar, "'?var'")
	if err != nil {
		return SelectTerm{}, err
	}
	if _, err := p.expectKind(TokRParen, "')'"); err != nil {
		return SelectTerm{}, err
	}
	return SelectTerm{Expr: expr, Alias: varTok.Text}, nil
}

func (p *Parser) parseModifiers(q *Query) error {
	for {
		switch {
		case p.isKeyword("GROUP"):
			p.advance()
			if err := p.expectKeyword("BY"); err != nil {
				return err
			}
			for p.cur().Kind == TokVar {
				q.GroupBy = append(q.GroupBy, p.advance().Text)
			}
		case p.isKeyword("HAVING"):
			p.advance()
			if _, err := p.expectKind(TokLParen, "'('"); err != nil {
				return err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return err
			}
			q.Having = expr
			if _, err := p.expectKind(TokRParen, "')'"); err != nil {
				return err
			}
		case p.isKeyword("ORDER"):
			p.advance()
			if err := p.expectKeyword("BY"); err != nil {
				return err
			}
			for p.cur().Kind == TokVar || p.isKeyword("ASC") || p.isKeyword("DESC") {
				term, err := p.parseOrderTerm()
				if err != nil {
					return err
				}
				q.OrderBy = append(q.OrderBy, term)
			}
		case p.isKeyword("LIMIT"):
			p.advance()
			n, err := p.expectKind(TokNumber, "a number")
			if err != nil {
				return err
			}
			q.Limit = atoiOrZero(n.Text)
		case p.isKeyword("OFFSET"):
			p.advance()
			n, err := p.expectKind(TokNumber, "a number")
			if err != nil {
				return err
			}
			q.Offset = atoiOrZero(n.Text)
		default:
			return nil
		}
	}
}

func (p *Parser) parseOrderTerm() (OrderTerm, error) {
	desc := false
	if p.isKeyword("ASC") || p.isKeyword("DESC") {
		desc = p.isKeyword("DESC")
		p.advance()
		if _, err := p.expectKind(TokLParen, "'('"); err != nil {
			return OrderTerm{}, err
		}
		v, err := p.expectKind(TokVar, "'?var'")
		if err != nil {
			return OrderTerm{}, err
		}
		if _, err := p.expectKind(TokRParen, "')'"); err != nil {
			return OrderTerm{}, err
		}
		return OrderTerm{Var: v.Text, Desc: desc}, nil
	}
	v, err := p.expectKind(TokVar, "'?var'")
	if err != nil {
		return OrderTerm{}, err
	}
	return OrderTerm{Var: v.Text}, nil
}

func (p *Parser) parseGroupGraphPattern() (GroupGraphPattern, error) {
	var ggp GroupGraphPattern
	for p.cur().Kind != TokRBrace && !p.atEOF() {
		switch {
		case p.cur().Kind == TokLBrace:
			elem, err := p.parseBraceOrUnion()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, elem...)
		case p.isKeyword("OPTIONAL"):
			p.advance()
			inner, err := p.parseBracedGGP()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, OptionalElement{Pattern: inner})
		case p.isKeyword("MINUS"):
			p.advance()
			inner, err := p.parseBracedGGP()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, MinusElement{Pattern: inner})
		case p.isKeyword("NOT"):
			p.advance()
			if err := p.expectKeyword("EXISTS"); err != nil {
				return ggp, err
			}
			inner, err := p.parseBracedGGP()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, NotExistsElement{Pattern: inner})
		case p.isKeyword("FILTER"):
			p.advance()
			if _, err := p.expectKind(TokLParen, "'('"); err != nil {
				return ggp, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return ggp, err
			}
			if _, err := p.expectKind(TokRParen, "')'"); err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, FilterElement{Expr: expr})
		case p.isKeyword("VALUES"):
			p.advance()
			varTok, err := p.expectKind(TokVar, "'?var'")
			if err != nil {
				return ggp, err
			}
			if _, err := p.expectKind(TokLBrace, "'{'"); err != nil {
				return ggp, err
			}
			var values []Term
			for p.cur().Kind != TokRBrace {
				term, err := p.parseTerm()
				if err != nil {
					return ggp, err
				}
				values = append(values, term)
			}
			if _, err := p.expectKind(TokRBrace, "'}'"); err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, ValuesElement{Var: varTok.Text, Values: values})
		case p.cur().Kind == TokLParen:
			elem, err := p.parseSubquery()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, elem)
		case p.cur().Kind == TokDot:
			p.advance()
		default:
			triple, err := p.parseTriplePattern()
			if err != nil {
				return ggp, err
			}
			ggp.Elements = append(ggp.Elements, TripleElement{Triple: triple})
		}
	}
	return ggp, nil
}

// parseBracedGGP parses a `{ … }` block, consuming both braces.
func (p *Parser) parseBracedGGP() (GroupGraphPattern, error) {
	if _, err := p.expectKind(TokLBrace, "'{'"); err != nil {
		return GroupGraphPattern{}, err
	}
	ggp, err := p.parseGroupGraphPattern()
	if err != nil {
		return ggp, err
	}
	if _, err := p.expectKind(TokRBrace, "'}'"); err != nil {
		return ggp, err
	}
	return ggp, nil
}

// parseBraceOrUnion parses a standalone `{ … }` block. If followed by one
// or more `UNION { … }` blocks, the whole chain becomes a single
// UnionElement (left-associative); otherwise the block's own elements are
// spliced directly into the parent (a bare brace is just explicit
// grouping, semantically AND, same as omitting it).
func (p *Parser) parseBraceOrUnion() ([]PatternElement, error) {
	first, err := p.parseBracedGGP()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("UNION") {
		return first.Elements, nil
	}

	acc := first
	for p.isKeyword("UNION") {
		p.advance()
		next, err := p.parseBracedGGP()
		if err != nil {
			return nil, err
		}
		acc = GroupGraphPattern{Elements: []PatternElement{UnionElement{Left: acc, Right: next}}}
	}
	return acc.Elements, nil
}

func (p *Parser) parseSubquery() (PatternElement, error) {
	if _, err := p.expectKind(TokLParen, "'('"); err != nil {
		return nil, err
	}
	inner, err := p.parseQueryBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(TokRParen, "')'"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	varTok, err := p.expectKind(TokVar, "'?var'")
	if err != nil {
		return nil, err
	}
	return SubqueryElement{Query: inner, Var: varTok.Text}, nil
}

// parseQueryBody parses a SELECT/ASK query up to (but not including) the
// ')' that closes a subquery's parenthesized form — it shares
// parseQuery's SELECT/WHERE/modifier logic but stops instead of requiring
// EOF.
func (p *Parser) parseQueryBody() (*Query, error) {
	q := &Query{Limit: -1}
	switch {
	case p.isKeyword("SELECT"):
		p.advance()
		if p.isKeyword("DISTINCT") {
			p.advance()
			q.Distinct = true
		}
		if p.cur().Kind == TokStar {
			p.advance()
			q.Star = true
		} else {
			for !p.isKeyword("WHERE") {
				term, err := p.parseSelectTerm()
				if err != nil {
					return nil, err
				}
				q.Select = append(q.Select, term)
			}
		}
	case p.isKeyword("ASK"):
		p.advance()
		q.Ask = true
	default:
		return nil, fmt.Errorf("expected SELECT or ASK at position %d", p.cur().Pos)
	}
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	ggp, err := p.parseBracedGGP()
	if err != nil {
		return nil, err
	}
	q.Where = ggp
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseTriplePattern() (TriplePattern, error) {
	subj, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	pred, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	triple := TriplePattern{Subject: subj, Predicate: pred}
	if p.cur().Kind == TokStar {
		p.advance()
		triple.Path = true
		if p.cur().Kind == TokNumber {
			triple.PathBound = atoiOrZero(p.advance().Text)
		}
	}
	obj, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	triple.Object = obj
	if p.cur().Kind == TokDot {
		p.advance()
	}
	return triple, nil
}

func (p *Parser) parseTerm() (Term, error) {
	switch p.cur().Kind {
	case TokVar:
		return Term{Kind: TermVar, Value: p.advance().Text}, nil
	case TokIdent, TokString, TokNumber:
		return Term{Kind: TermConst, Value: p.advance().Text}, nil
	default:
		return Term{}, fmt.Errorf("expected a term at position %d, got %q", p.cur().Pos, p.cur().Text)
	}
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
