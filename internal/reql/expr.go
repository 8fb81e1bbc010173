package reql

import "fmt"

// parseExpr parses a FILTER/HAVING boolean-or-scalar expression.
// Precedence, loosest to tightest: Or -> And -> Not -> Comparison ->
// Additive -> Multiplicative -> Primary.
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokOp && p.cur().Text == "||" {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokOp && p.cur().Text == "&&" {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (Expr, error) {
	if p.cur().Kind == TokOp && p.cur().Text == "!" {
		p.advance()
		operand, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: "!", Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == TokOp {
		switch p.cur().Text {
		case "=", "!=", "<", "<=", ">", ">=":
			op := p.advance().Text
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return BinaryExpr{Op: op, Left: left, Right: right}, nil
		}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokOp && (p.cur().Text == "+" || p.cur().Text == "-") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseMultiplicative handles '*' and '/', binding tighter than binary
// '+'/'-' but looser than a unary '-' or a parenthesized/primary operand.
// A bare '*' otherwise means SELECT * or a property path, so it only
// reads as multiplication once the left operand has already started an
// expression (e.g. inside a FILTER).
func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for (p.cur().Kind == TokStar) || (p.cur().Kind == TokOp && p.cur().Text == "/") {
		op := "*"
		if p.cur().Kind == TokOp {
			op = "/"
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur().Kind {
	case TokLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokVar:
		return VarExpr{Name: p.advance().Text}, nil
	case TokString, TokNumber:
		return LitExpr{Value: p.advance().Text}, nil
	case TokOp:
		if p.cur().Text == "-" || p.cur().Text == "!" {
			op := p.advance().Text
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return UnaryExpr{Op: op, Operand: operand}, nil
		}
		return nil, fmt.Errorf("unexpected operator %q at position %d", p.cur().Text, p.cur().Pos)
	case TokIdent:
		name := p.advance().Text
		if p.cur().Kind == TokLParen {
			p.advance()
			var args []Expr
			for p.cur().Kind != TokRParen {
				if p.cur().Kind == TokStar {
					// COUNT(*): the only place a bare '*' is a legal
					// call argument rather than a multiplication or a
					// SELECT * marker.
					p.advance()
					args = append(args, LitExpr{Value: "*"})
				} else {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
				}
				if p.cur().Kind == TokComma {
					p.advance()
				}
			}
			if _, err := p.expectKind(TokRParen, "')'"); err != nil {
				return nil, err
			}
			return CallExpr{Func: name, Args: args}, nil
		}
		// A bare identifier outside a call is treated as a literal
		// (e.g. a boolean keyword or an unquoted constant).
		return LitExpr{Value: name}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", p.cur().Text, p.cur().Pos)
	}
}
