package parser

import (
	"fmt"
	"strconv"

	"osprey/internal/ast"
	"osprey/internal/term"
)

// opInfo describes one operator. Precedence is Prolog-style: larger numbers
// bind looser, 999 is the top of the expression scale.
type opInfo struct {
	prec       int
	rightAssoc bool
}

const (
	maxPrec    = 999
	prefixPrec = 350
)

// Parser consumes a token stream. The operator table starts with the
// standard connectives and grows with op() declarations.
type Parser struct {
	tokens  []Token
	current int

	infix  map[string]opInfo
	prefix map[string]int

	PrologVars bool
}

func defaultInfix() map[string]opInfo {
	return map[string]opInfo{
		"<->": {prec: 800, rightAssoc: true},
		"->":  {prec: 790, rightAssoc: true},
		"|":   {prec: 780, rightAssoc: true},
		"&":   {prec: 770, rightAssoc: true},
		"=":   {prec: 700},
		"!=":  {prec: 700},
		"==":  {prec: 700},
		"<":   {prec: 700},
		">":   {prec: 700},
		"<=":  {prec: 700},
		">=":  {prec: 700},
		"+":   {prec: 500},
		"*":   {prec: 460},
		"/":   {prec: 460},
		"^":   {prec: 440},
	}
}

// NewParser builds a parser over source text.
func NewParser(source string) (*Parser, error) {
	sc := NewScanner(source)
	tokens, errs := sc.ScanTokens()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &Parser{
		tokens: tokens,
		infix:  defaultInfix(),
		prefix: map[string]int{"-": prefixPrec},
	}, nil
}

func (p *Parser) peek() Token     { return p.tokens[p.current] }
func (p *Parser) previous() Token { return p.tokens[p.current-1] }

func (p *Parser) advance() Token {
	if p.peek().Type != EOF {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t TokenType, lexeme string) bool {
	tok := p.peek()
	return tok.Type == t && (lexeme == "" || tok.Lexeme == lexeme)
}

func (p *Parser) match(t TokenType, lexeme string) bool {
	if p.check(t, lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType, lexeme, what string) (Token, error) {
	if p.check(t, lexeme) {
		return p.advance(), nil
	}
	tok := p.peek()
	return tok, fmt.Errorf("%d:%d: expected %s, found %q", tok.Position.Line, tok.Position.Column, what, tok.Lexeme)
}

// ParseInput parses a whole input stream.
func (p *Parser) ParseInput() (*ast.Input, error) {
	in := &ast.Input{}
	for !p.check(EOF, "") {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		if d != nil {
			in.Directives = append(in.Directives, d)
		}
	}
	return in, nil
}

func (p *Parser) parseDirective() (ast.Directive, error) {
	tok, err := p.expect(IDENT, "", "directive")
	if err != nil {
		return nil, err
	}
	switch tok.Lexeme {
	case "set", "clear":
		name, err := p.parenIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
			return nil, err
		}
		if tok.Lexeme == "set" {
			return &ast.Set{Flag: name}, nil
		}
		return &ast.Clear{Flag: name}, nil

	case "assign":
		if _, err := p.expect(LPAREN, "", "'('"); err != nil {
			return nil, err
		}
		name, err := p.expect(IDENT, "", "option name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COMMA, "", "','"); err != nil {
			return nil, err
		}
		val := p.advance()
		if val.Type != IDENT && val.Type != NUMBER && !(val.Type == SYMOP && val.Lexeme == "-") {
			return nil, fmt.Errorf("%d:%d: expected option value", val.Position.Line, val.Position.Column)
		}
		lex := val.Lexeme
		if val.Type == SYMOP { // negative number
			num, err := p.expect(NUMBER, "", "number")
			if err != nil {
				return nil, err
			}
			lex = "-" + num.Lexeme
		}
		if _, err := p.expect(RPAREN, "", "')'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name.Lexeme, Value: lex}, nil

	case "op":
		return p.parseOp()

	case "function_order", "predicate_order":
		syms, err := p.parseSymbolList()
		if err != nil {
			return nil, err
		}
		kind := "function"
		if tok.Lexeme == "predicate_order" {
			kind = "predicate"
		}
		return &ast.SymbolOrder{Kind: kind, Symbols: syms}, nil

	case "formulas", "clauses":
		return p.parseList(tok.Lexeme)

	default:
		return nil, fmt.Errorf("%d:%d: unknown directive %q", tok.Position.Line, tok.Position.Column, tok.Lexeme)
	}
}

// parseOp handles op(precedence, fixity, symbol) and registers the operator
// both in the parse table and on the symbol.
func (p *Parser) parseOp() (ast.Directive, error) {
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return nil, err
	}
	precTok, err := p.expect(NUMBER, "", "precedence")
	if err != nil {
		return nil, err
	}
	prec, _ := strconv.Atoi(precTok.Lexeme)
	if _, err := p.expect(COMMA, "", "','"); err != nil {
		return nil, err
	}
	fixTok, err := p.expect(IDENT, "", "fixity")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COMMA, "", "','"); err != nil {
		return nil, err
	}

	var syms []string
	if p.check(LBRACKET, "") {
		syms, err = p.bracketSymbols()
		if err != nil {
			return nil, err
		}
	} else {
		s := p.advance()
		if s.Type != IDENT && s.Type != SYMOP {
			return nil, fmt.Errorf("%d:%d: expected operator symbol", s.Position.Line, s.Position.Column)
		}
		syms = []string{s.Lexeme}
	}
	if _, err := p.expect(RPAREN, "", "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
		return nil, err
	}

	for _, sym := range syms {
		switch fixTok.Lexeme {
		case "infix":
			p.infix[sym] = opInfo{prec: prec}
			p.declareFixity(sym, 2, term.Infix, prec)
		case "infix_left":
			p.infix[sym] = opInfo{prec: prec}
			p.declareFixity(sym, 2, term.InfixLeft, prec)
		case "infix_right":
			p.infix[sym] = opInfo{prec: prec, rightAssoc: true}
			p.declareFixity(sym, 2, term.InfixRight, prec)
		case "prefix", "prefix_paren":
			p.prefix[sym] = prec
			p.declareFixity(sym, 1, term.Prefix, prec)
		case "ordinary":
			delete(p.infix, sym)
			delete(p.prefix, sym)
		default:
			return nil, fmt.Errorf("op: unknown fixity %q", fixTok.Lexeme)
		}
	}
	return &ast.Op{Prec: prec, Fixity: fixTok.Lexeme, Symbols: syms}, nil
}

func (p *Parser) declareFixity(name string, arity int, f term.Fixity, prec int) {
	n := term.Intern(name, arity)
	s := term.Sym(n)
	s.Fixity = f
	s.ParsePrec = prec
}

func (p *Parser) parenIdent() (string, error) {
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return "", err
	}
	tok, err := p.expect(IDENT, "", "name")
	if err != nil {
		return "", err
	}
	if _, err := p.expect(RPAREN, "", "')'"); err != nil {
		return "", err
	}
	return tok.Lexeme, nil
}

func (p *Parser) bracketSymbols() ([]string, error) {
	if _, err := p.expect(LBRACKET, "", "'['"); err != nil {
		return nil, err
	}
	var out []string
	for {
		tok := p.advance()
		if tok.Type != IDENT && tok.Type != SYMOP && tok.Type != NUMBER {
			return nil, fmt.Errorf("%d:%d: expected symbol in list", tok.Position.Line, tok.Position.Column)
		}
		out = append(out, tok.Lexeme)
		if !p.match(COMMA, "") {
			break
		}
	}
	if _, err := p.expect(RBRACKET, "", "']'"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseSymbolList() ([]string, error) {
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return nil, err
	}
	syms, err := p.bracketSymbols()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "", "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
		return nil, err
	}
	return syms, nil
}
