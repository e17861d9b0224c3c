package expr

// Parse parses the arithmetic expression src.  Operators bind, from
// loosest to tightest, as + and -, then * and /, then unary minus, then
// the right-associative ^.
func Parse(src string) (Node, error) {
	p := &parser{lexer: lexer{src: []rune(src)}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, p.lexer.errorf(p.tok.pos, "unexpected %q", p.tok.text)
	}
	return n, nil
}

type parser struct {
	lexer lexer
	tok   token
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) isOp(ops ...string) bool {
	if p.tok.kind != tokenOp {
		return false
	}
	for _, op := range ops {
		if p.tok.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		return p.lexer.errorf(p.tok.pos, "expected %q", op)
	}
	return p.advance()
}

func (p *parser) binary(next func() (Node, error), ops ...string) (Node, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for p.isOp(ops...) {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &Binary{Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (p *parser) expr() (Node, error) {
	return p.binary(p.term, "+", "-")
}

func (p *parser) term() (Node, error) {
	return p.binary(p.unary, "*", "/")
}

func (p *parser) unary() (Node, error) {
	if p.isOp("-", "+") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return operand, nil
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: "^", LHS: base, RHS: exp}, nil
}

func (p *parser) primary() (Node, error) {
	tok := p.tok
	switch {
	case tok.kind == tokenNumber:
		return &Number{Value: tok.num}, p.advance()
	case tok.kind == tokenIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isOp("(") {
			return &Ident{Name: tok.text}, nil
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &Call{Name: tok.text, Args: args}, nil
	case p.isOp("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		return n, p.expect(")")
	case tok.kind == tokenEOF:
		return nil, p.lexer.errorf(tok.pos, "unexpected end of expression")
	}
	return nil, p.lexer.errorf(tok.pos, "unexpected %q", tok.text)
}

func (p *parser) args() ([]Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []Node
	if p.isOp(")") {
		return args, p.advance()
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isOp(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return args, p.expect(")")
}
