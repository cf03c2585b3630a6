package parser

import (
	"fmt"
	"strconv"
	"strings"

	"osprey/internal/ast"
)

// rawLabels are the list labels whose items are handed to downstream rule
// parsers as raw text instead of being read as formulas.
var rawLabels = map[string]bool{
	"given_selection": true,
	"actions":         true,
}

// parseList reads a named block up to end_of_list.
func (p *Parser) parseList(kind string) (ast.Directive, error) {
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return nil, err
	}
	label, err := p.expect(IDENT, "", "list label")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "", "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
		return nil, err
	}

	switch {
	case rawLabels[label.Lexeme]:
		return p.parseRawList(label.Lexeme)
	case label.Lexeme == "weights" || label.Lexeme == "kbo_weights":
		return p.parseWeights(label.Lexeme)
	case label.Lexeme == "interpretations":
		return p.parseInterps()
	default:
		return p.parseFormulaList(kind, label.Lexeme)
	}
}

func (p *Parser) atEndOfList() bool {
	if p.check(IDENT, "end_of_list") {
		p.advance()
		if _, err := p.expect(PERIOD, "", "'.'"); err == nil {
			return true
		}
		p.current-- // let the caller report the error
		return false
	}
	return false
}

func (p *Parser) parseFormulaList(kind, label string) (ast.Directive, error) {
	list := &ast.List{Kind: kind, Label: label}
	for {
		if p.atEndOfList() {
			return list, nil
		}
		if p.check(EOF, "") {
			return nil, fmt.Errorf("%s(%s): missing end_of_list", kind, label)
		}
		start := p.current
		expr, err := p.ParseExpr(maxPrec)
		if err != nil {
			return nil, err
		}
		item := &ast.Item{Expr: expr}
		for p.match(POUND, "") {
			attr, err := p.parseAttr()
			if err != nil {
				return nil, err
			}
			item.Attrs = append(item.Attrs, attr)
		}
		if _, err := p.expect(PERIOD, "", "'.' after formula"); err != nil {
			return nil, err
		}
		item.Text = p.textBetween(start, p.current-1)
		list.Items = append(list.Items, item)
	}
}

// parseAttr reads name(raw text) after a '#'.
func (p *Parser) parseAttr() (ast.Attr, error) {
	name, err := p.expect(IDENT, "", "attribute name")
	if err != nil {
		return ast.Attr{}, err
	}
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return ast.Attr{}, err
	}
	depth := 1
	start := p.current
	for depth > 0 {
		tok := p.advance()
		switch tok.Type {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
		case EOF:
			return ast.Attr{}, fmt.Errorf("attribute %s: unbalanced parentheses", name.Lexeme)
		}
	}
	return ast.Attr{Name: name.Lexeme, Value: p.textBetween(start, p.current-1)}, nil
}

// parseRawList captures each item's tokens verbatim up to the period.
func (p *Parser) parseRawList(label string) (ast.Directive, error) {
	list := &ast.RawList{Label: label}
	for {
		if p.atEndOfList() {
			return list, nil
		}
		if p.check(EOF, "") {
			return nil, fmt.Errorf("list(%s): missing end_of_list", label)
		}
		start := p.current
		for !p.check(PERIOD, "") && !p.check(EOF, "") {
			p.advance()
		}
		if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, p.textBetween(start, p.current-1))
	}
}

func (p *Parser) parseWeights(kind string) (ast.Directive, error) {
	w := &ast.Weights{Kind: kind}
	for {
		if p.atEndOfList() {
			return w, nil
		}
		expr, err := p.ParseExpr(maxPrec)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
			return nil, err
		}
		// weight(sym, value) or weight(sym/arity, value)
		if !expr.Is("weight", 2) {
			return nil, fmt.Errorf("%s: expected weight(symbol, value), found %s", kind, expr)
		}
		rule := ast.WeightRule{Arity: -1}
		symExpr := expr.Args[0]
		if symExpr.Is("/", 2) {
			rule.Symbol = symExpr.Args[0].Name
			rule.Arity, _ = strconv.Atoi(symExpr.Args[1].Name)
		} else {
			rule.Symbol = symExpr.Name
			rule.Arity = len(symExpr.Args)
		}
		valExpr := expr.Args[1]
		neg := false
		if valExpr.Is("-", 1) {
			neg = true
			valExpr = valExpr.Args[0]
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(valExpr.Name, "+"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad weight value %q", kind, valExpr.Name)
		}
		if neg {
			v = -v
		}
		rule.Value = v
		w.Rules = append(w.Rules, rule)
	}
}

// parseInterps reads interpretation(size, [comments], [tables]) items.
func (p *Parser) parseInterps() (ast.Directive, error) {
	out := &ast.Interps{}
	for {
		if p.atEndOfList() {
			return out, nil
		}
		if _, err := p.expect(IDENT, "interpretation", "interpretation"); err != nil {
			return nil, err
		}
		if _, err := p.expect(LPAREN, "", "'('"); err != nil {
			return nil, err
		}
		sizeTok, err := p.expect(NUMBER, "", "domain size")
		if err != nil {
			return nil, err
		}
		size, _ := strconv.Atoi(sizeTok.Lexeme)
		ip := &ast.Interp{Size: size}
		if _, err := p.expect(COMMA, "", "','"); err != nil {
			return nil, err
		}
		// Skip the annotation list.
		if err := p.skipBracketed(); err != nil {
			return nil, err
		}
		if _, err := p.expect(COMMA, "", "','"); err != nil {
			return nil, err
		}
		if _, err := p.expect(LBRACKET, "", "'['"); err != nil {
			return nil, err
		}
		for {
			entry, err := p.parseInterpEntry()
			if err != nil {
				return nil, err
			}
			ip.Entries = append(ip.Entries, entry)
			if !p.match(COMMA, "") {
				break
			}
		}
		if _, err := p.expect(RBRACKET, "", "']'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "", "')'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(PERIOD, "", "'.'"); err != nil {
			return nil, err
		}
		out.Items = append(out.Items, ip)
	}
}

// parseInterpEntry reads function(f(_,_), [0,1,...]) or relation(p, [...]).
func (p *Parser) parseInterpEntry() (ast.InterpEntry, error) {
	kindTok, err := p.expect(IDENT, "", "function or relation")
	if err != nil {
		return ast.InterpEntry{}, err
	}
	if kindTok.Lexeme != "function" && kindTok.Lexeme != "relation" {
		return ast.InterpEntry{}, fmt.Errorf("interpretation: expected function or relation, found %q", kindTok.Lexeme)
	}
	if _, err := p.expect(LPAREN, "", "'('"); err != nil {
		return ast.InterpEntry{}, err
	}
	nameTok := p.advance()
	if nameTok.Type != IDENT && nameTok.Type != SYMOP && nameTok.Type != NUMBER {
		return ast.InterpEntry{}, fmt.Errorf("interpretation: expected symbol name")
	}
	arity := 0
	if p.match(LPAREN, "") {
		for {
			if _, err := p.expect(IDENT, "_", "'_' placeholder"); err != nil {
				return ast.InterpEntry{}, err
			}
			arity++
			if !p.match(COMMA, "") {
				break
			}
		}
		if _, err := p.expect(RPAREN, "", "')'"); err != nil {
			return ast.InterpEntry{}, err
		}
	}
	if _, err := p.expect(COMMA, "", "','"); err != nil {
		return ast.InterpEntry{}, err
	}
	if _, err := p.expect(LBRACKET, "", "'['"); err != nil {
		return ast.InterpEntry{}, err
	}
	var values []int
	for {
		numTok, err := p.expect(NUMBER, "", "table value")
		if err != nil {
			return ast.InterpEntry{}, err
		}
		v, _ := strconv.Atoi(numTok.Lexeme)
		values = append(values, v)
		if !p.match(COMMA, "") {
			break
		}
	}
	if _, err := p.expect(RBRACKET, "", "']'"); err != nil {
		return ast.InterpEntry{}, err
	}
	if _, err := p.expect(RPAREN, "", "')'"); err != nil {
		return ast.InterpEntry{}, err
	}
	return ast.InterpEntry{
		Kind:   kindTok.Lexeme,
		Name:   nameTok.Lexeme,
		Arity:  arity,
		Values: values,
	}, nil
}

func (p *Parser) skipBracketed() error {
	if _, err := p.expect(LBRACKET, "", "'['"); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		tok := p.advance()
		switch tok.Type {
		case LBRACKET:
			depth++
		case RBRACKET:
			depth--
		case EOF:
			return fmt.Errorf("unbalanced brackets")
		}
	}
	return nil
}

// textBetween reconstructs source text from the token lexemes in [from, to).
func (p *Parser) textBetween(from, to int) string {
	var b strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			b.WriteByte(' ')
		}
		b.WriteString(p.tokens[i].Lexeme)
	}
	return b.String()
}
