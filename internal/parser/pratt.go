package parser

import (
	"fmt"

	"osprey/internal/ast"
)

// ParseExpr parses one expression with operators of precedence <= limit,
// Prolog-style (larger precedence binds looser).
func (p *Parser) ParseExpr(limit int) (*ast.Expr, error) {
	left, err := p.parsePrefixExpr(limit)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != SYMOP {
			break
		}
		info, ok := p.infix[tok.Lexeme]
		if !ok || info.prec > limit {
			break
		}
		p.advance()
		argLimit := info.prec - 1
		if info.rightAssoc {
			argLimit = info.prec
		}
		right, err := p.ParseExpr(argLimit)
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Name: tok.Lexeme, Args: []*ast.Expr{left, right}}
	}
	return left, nil
}

func (p *Parser) parsePrefixExpr(limit int) (*ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case SYMOP:
		prec, ok := p.prefix[tok.Lexeme]
		if !ok {
			return nil, fmt.Errorf("%d:%d: %q is not a prefix operator", tok.Position.Line, tok.Position.Column, tok.Lexeme)
		}
		p.advance()
		operand, err := p.parsePrefixExpr(prec)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Name: tok.Lexeme, Args: []*ast.Expr{operand}}, nil

	case LPAREN:
		p.advance()
		e, err := p.ParseExpr(maxPrec)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "", "')'"); err != nil {
			return nil, err
		}
		return e, nil

	case NUMBER:
		p.advance()
		return &ast.Expr{Name: tok.Lexeme}, nil

	case IDENT:
		p.advance()
		if tok.Lexeme == "all" || tok.Lexeme == "exists" {
			if p.check(IDENT, "") {
				v := p.advance()
				body, err := p.ParseExpr(limit)
				if err != nil {
					return nil, err
				}
				return &ast.Expr{Name: tok.Lexeme, Args: []*ast.Expr{{Name: v.Lexeme}, body}}, nil
			}
		}
		if p.match(LPAREN, "") {
			e := &ast.Expr{Name: tok.Lexeme}
			for {
				arg, err := p.ParseExpr(maxPrec)
				if err != nil {
					return nil, err
				}
				e.Args = append(e.Args, arg)
				if !p.match(COMMA, "") {
					break
				}
			}
			if _, err := p.expect(RPAREN, "", "')'"); err != nil {
				return nil, err
			}
			return e, nil
		}
		return &ast.Expr{Name: tok.Lexeme}, nil

	default:
		return nil, fmt.Errorf("%d:%d: unexpected token %q", tok.Position.Line, tok.Position.Column, tok.Lexeme)
	}
}
