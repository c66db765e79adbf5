// Copyright © 2026 The Verst authors

// Package parser reads verst source text into syntax trees.  The grammar is
// an infix expression language with newline-terminated statements; a
// statement of the form "name expr" applies name to the whole expression
// that follows it, so "double_it 10 + 5" calls double_it with 15.
package parser

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/token"
)

// ErrIncomplete marks parse failures caused by truncated input, letting
// interactive callers prompt for a continuation line instead of reporting an
// error.
var ErrIncomplete = errors.New("unexpected end of input")

// IsIncomplete reports whether err indicates truncated input.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Reader parses source streams using a shared intern table.  It satisfies
// the evaluator's Reader interface.
type Reader struct {
	Interner *intern.Table
}

// NewReader returns a Reader interning names in t.
func NewReader(t *intern.Table) *Reader {
	return &Reader{Interner: t}
}

// Read parses the full source stream into top-level nodes.
func (r *Reader) Read(name string, src io.Reader) ([]*ast.Node, error) {
	lex, err := NewLexer(name, src)
	if err != nil {
		return nil, err
	}
	return New(r.Interner, lex).ParseProgram()
}

// Parser consumes a token stream and produces syntax nodes.
type Parser struct {
	lex      token.Source
	interner *intern.Table
	tok      *token.Token
}

// New initializes a Parser over lex.
func New(interner *intern.Table, lex token.Source) *Parser {
	p := &Parser{lex: lex, interner: interner}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.lex.Scan()
	p.tok = p.lex.Token()
}

func (p *Parser) peek() *token.Token {
	return p.lex.Peek()
}

func (p *Parser) errorf(loc *token.Location, format string, v ...interface{}) error {
	return &token.LocationError{Err: fmt.Errorf(format, v...), Source: loc}
}

func (p *Parser) unexpected(context string) error {
	if p.tok.Type == token.ERROR {
		return p.errorf(p.tok.Source, "%s", p.tok.Text)
	}
	if p.tok.Type == token.EOF {
		return &token.LocationError{
			Err:    fmt.Errorf("%w in %s", ErrIncomplete, context),
			Source: p.tok.Source,
		}
	}
	return p.errorf(p.tok.Source, "unexpected %s in %s", p.tok.Type, context)
}

func (p *Parser) expect(typ token.Type, context string) (*token.Token, error) {
	if p.tok.Type != typ {
		return nil, p.unexpected(context)
	}
	t := p.tok
	p.advance()
	return t, nil
}

func (p *Parser) skipTerms() {
	for p.tok.Type == token.TERM {
		p.advance()
	}
}

func (p *Parser) intern(name string) intern.Sym {
	return p.interner.Intern(name)
}

func (p *Parser) identNode(t *token.Token) *ast.Node {
	return &ast.Node{Kind: ast.Ident, Sym: p.intern(t.Text), Text: t.Text, Source: t.Source}
}

// ParseProgram parses statements until EOF.
func (p *Parser) ParseProgram() ([]*ast.Node, error) {
	var nodes []*ast.Node
	for {
		p.skipTerms()
		if p.tok.Type == token.EOF {
			return nodes, nil
		}
		n, err := p.statement()
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
		switch p.tok.Type {
		case token.TERM, token.EOF:
		default:
			return nodes, p.unexpected("statement")
		}
	}
}

// ParseExpression parses a single expression, for REPL fragments.
func (p *Parser) ParseExpression() (*ast.Node, error) {
	return p.expression(1)
}

func (p *Parser) statement() (*ast.Node, error) {
	switch p.tok.Type {
	case token.LET:
		return p.letStatement()
	case token.FN:
		if p.peek().Type == token.IDENT {
			return p.defStatement(ast.FnDef, false)
		}
	case token.MACRO:
		return p.defStatement(ast.MacroDef, false)
	case token.AT:
		return p.attrStatement()
	case token.IDENT:
		switch {
		case p.peek().Type == token.ASSIGN:
			return p.assignStatement()
		case commandStart(p.peek().Type):
			return p.commandStatement()
		}
	}
	return p.expression(1)
}

func (p *Parser) letStatement() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	name, err := p.expect(token.IDENT, "let binding")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "let binding"); err != nil {
		return nil, err
	}
	rhs, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind:   ast.Let,
		Cells:  []*ast.Node{p.identNode(name), rhs},
		Source: loc,
	}, nil
}

func (p *Parser) assignStatement() (*ast.Node, error) {
	name := p.tok
	p.advance() // identifier
	p.advance() // =
	rhs, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind:   ast.Assign,
		Cells:  []*ast.Node{p.identNode(name), rhs},
		Source: name.Source,
	}, nil
}

// commandStatement parses "name expr" as an application of name to the
// entire trailing expression.
func (p *Parser) commandStatement() (*ast.Node, error) {
	name := p.tok
	p.advance()
	arg, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind:   ast.Apply,
		Cells:  []*ast.Node{p.identNode(name), arg},
		Source: name.Source,
	}, nil
}

// commandStart reports whether typ can begin the argument of a command
// statement.  Operators are excluded so "x + 1" stays an expression, and an
// opening paren is excluded so "f(a, b)" parses as an ordinary call.
func commandStart(typ token.Type) bool {
	switch typ {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.SYMBOL, token.TRUE, token.FALSE, token.BRACKET_L,
		token.IF, token.QUOTE, token.FN, token.UNQUOTE:
		return true
	}
	return false
}

func (p *Parser) attrStatement() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	attr, err := p.expect(token.IDENT, "attribute")
	if err != nil {
		return nil, err
	}
	if attr.Text != "unhygienic" {
		return nil, p.errorf(loc, "unknown attribute @%s", attr.Text)
	}
	if p.tok.Type != token.MACRO {
		return nil, p.unexpected("attribute target")
	}
	return p.defStatement(ast.MacroDef, true)
}

func (p *Parser) defStatement(kind ast.Kind, unhygienic bool) (*ast.Node, error) {
	loc := p.tok.Source
	p.advance() // fn or macro
	name, err := p.expect(token.IDENT, "definition")
	if err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "definition"); err != nil {
		return nil, err
	}
	body, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind:   kind,
		Bool:   unhygienic,
		Cells:  []*ast.Node{p.identNode(name), params, body},
		Source: loc,
	}, nil
}

func (p *Parser) params() (*ast.Node, error) {
	loc := p.tok.Source
	if _, err := p.expect(token.PAREN_L, "parameter list"); err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.Params, Source: loc}
	for p.tok.Type != token.PAREN_R {
		name, err := p.expect(token.IDENT, "parameter list")
		if err != nil {
			return nil, err
		}
		node.Cells = append(node.Cells, p.identNode(name))
		if p.tok.Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.PAREN_R, "parameter list"); err != nil {
		return nil, err
	}
	return node, nil
}

// binaryPrec returns the binding power of an infix operator and whether it
// associates to the right.  Zero means typ is not an infix operator.
func binaryPrec(typ token.Type) (int, bool) {
	switch typ {
	case token.OR:
		return 1, false
	case token.AND:
		return 2, false
	case token.EQ, token.NE:
		return 3, false
	case token.LT, token.LE, token.GT, token.GE:
		return 4, false
	case token.PLUS, token.MINUS:
		return 5, false
	case token.STAR, token.SLASH, token.PERCENT:
		return 6, false
	case token.CARET:
		return 7, true
	}
	return 0, false
}

func (p *Parser) expression(minPrec int) (*ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		prec, rightAssoc := binaryPrec(p.tok.Type)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		op := p.tok
		p.advance()
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right, err := p.expression(next)
		if err != nil {
			return nil, err
		}
		left = &ast.Node{
			Kind:   ast.Apply,
			Cells:  []*ast.Node{p.identNode(op), left, right},
			Source: op.Source,
		}
	}
}

func (p *Parser) unary() (*ast.Node, error) {
	switch p.tok.Type {
	case token.MINUS, token.BANG:
		op := p.tok
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{
			Kind:   ast.Apply,
			Cells:  []*ast.Node{p.identNode(op), operand},
			Source: op.Source,
		}, nil
	case token.TYPEOF:
		loc := p.tok.Source
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.TypeOf, Cells: []*ast.Node{operand}, Source: loc}, nil
	case token.QUOTE:
		loc := p.tok.Source
		p.advance()
		template, err := p.expression(1)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Quote, Cells: []*ast.Node{template}, Source: loc}, nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (*ast.Node, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == token.PAREN_L {
		loc := p.tok.Source
		p.advance()
		p.skipTerms()
		cells := []*ast.Node{expr}
		for p.tok.Type != token.PAREN_R {
			arg, err := p.expression(1)
			if err != nil {
				return nil, err
			}
			cells = append(cells, arg)
			p.skipTerms()
			if p.tok.Type != token.COMMA {
				break
			}
			p.advance()
			p.skipTerms()
		}
		if _, err := p.expect(token.PAREN_R, "argument list"); err != nil {
			return nil, err
		}
		expr = &ast.Node{Kind: ast.Apply, Cells: cells, Source: loc}
	}
	return expr, nil
}

func (p *Parser) primary() (*ast.Node, error) {
	t := p.tok
	switch t.Type {
	case token.INT:
		num, ok := new(big.Int).SetString(t.Text, 10)
		if !ok {
			return nil, p.errorf(t.Source, "malformed integer: %s", t.Text)
		}
		p.advance()
		return p.quantity(&ast.Node{Kind: ast.IntLit, Num: num, Source: t.Source})
	case token.FLOAT:
		var f float64
		if _, err := fmt.Sscanf(t.Text, "%g", &f); err != nil {
			return nil, p.errorf(t.Source, "malformed float: %s", t.Text)
		}
		p.advance()
		return p.quantity(&ast.Node{Kind: ast.FloatLit, Float: f, Source: t.Source})
	case token.STRING:
		p.advance()
		return &ast.Node{Kind: ast.StringLit, Text: t.Text, Source: t.Source}, nil
	case token.CHAR:
		p.advance()
		return &ast.Node{Kind: ast.CharLit, Text: t.Text, Source: t.Source}, nil
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.Node{Kind: ast.BoolLit, Bool: t.Type == token.TRUE, Source: t.Source}, nil
	case token.SYMBOL:
		p.advance()
		return &ast.Node{Kind: ast.SymbolLit, Sym: p.intern(t.Text), Text: t.Text, Source: t.Source}, nil
	case token.IDENT:
		p.advance()
		return p.identNode(t), nil
	case token.PAREN_L:
		return p.paren()
	case token.BRACKET_L:
		return p.list()
	case token.BRACE_L:
		return p.braces()
	case token.IF:
		return p.ifExpr()
	case token.FN:
		return p.lambda()
	case token.UNQUOTE:
		return p.unquote()
	}
	return nil, p.unexpected("expression")
}

// quantity attaches a unit name to a numeric literal when one directly
// follows it, as in "5 m" or "2.5 kg".
func (p *Parser) quantity(num *ast.Node) (*ast.Node, error) {
	if p.tok.Type != token.IDENT {
		return num, nil
	}
	unit := p.tok
	p.advance()
	return &ast.Node{
		Kind:   ast.QuantityLit,
		Sym:    p.intern(unit.Text),
		Text:   unit.Text,
		Cells:  []*ast.Node{num},
		Source: num.Source,
	}, nil
}

func (p *Parser) paren() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	p.skipTerms()
	if p.tok.Type == token.PAREN_R {
		p.advance()
		return &ast.Node{Kind: ast.UnitLit, Source: loc}, nil
	}
	first, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	p.skipTerms()
	if p.tok.Type != token.COMMA {
		if _, err := p.expect(token.PAREN_R, "parenthesized expression"); err != nil {
			return nil, err
		}
		return first, nil
	}
	tuple := &ast.Node{Kind: ast.TupleLit, Cells: []*ast.Node{first}, Source: loc}
	for p.tok.Type == token.COMMA {
		p.advance()
		p.skipTerms()
		if p.tok.Type == token.PAREN_R {
			break
		}
		elem, err := p.expression(1)
		if err != nil {
			return nil, err
		}
		tuple.Cells = append(tuple.Cells, elem)
		p.skipTerms()
	}
	if _, err := p.expect(token.PAREN_R, "tuple"); err != nil {
		return nil, err
	}
	return tuple, nil
}

func (p *Parser) list() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	node := &ast.Node{Kind: ast.ListLit, Source: loc}
	p.skipTerms()
	for p.tok.Type != token.BRACKET_R {
		elem, err := p.expression(1)
		if err != nil {
			return nil, err
		}
		node.Cells = append(node.Cells, elem)
		p.skipTerms()
		if p.tok.Type != token.COMMA {
			break
		}
		p.advance()
		p.skipTerms()
	}
	if _, err := p.expect(token.BRACKET_R, "list"); err != nil {
		return nil, err
	}
	return node, nil
}

// braces parses either a record literal or a block, telling them apart by
// the "name:" pattern at the front.
func (p *Parser) braces() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	p.skipTerms()
	if p.tok.Type == token.IDENT && p.peek().Type == token.COLON {
		return p.record(loc)
	}
	node := &ast.Node{Kind: ast.Block, Source: loc}
	for p.tok.Type != token.BRACE_R {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		node.Cells = append(node.Cells, stmt)
		if p.tok.Type != token.TERM && p.tok.Type != token.BRACE_R {
			return nil, p.unexpected("block")
		}
		p.skipTerms()
	}
	p.advance()
	return node, nil
}

func (p *Parser) record(loc *token.Location) (*ast.Node, error) {
	node := &ast.Node{Kind: ast.RecordLit, Source: loc}
	for p.tok.Type != token.BRACE_R {
		name, err := p.expect(token.IDENT, "record literal")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "record literal"); err != nil {
			return nil, err
		}
		val, err := p.expression(1)
		if err != nil {
			return nil, err
		}
		node.Cells = append(node.Cells, &ast.Node{
			Kind:   ast.Field,
			Sym:    p.intern(name.Text),
			Text:   name.Text,
			Cells:  []*ast.Node{val},
			Source: name.Source,
		})
		p.skipTerms()
		if p.tok.Type != token.COMMA {
			break
		}
		p.advance()
		p.skipTerms()
	}
	if _, err := p.expect(token.BRACE_R, "record literal"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) ifExpr() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	cond, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN, "if expression"); err != nil {
		return nil, err
	}
	cons, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "if expression"); err != nil {
		return nil, err
	}
	alt, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.If, Cells: []*ast.Node{cond, cons, alt}, Source: loc}, nil
}

func (p *Parser) lambda() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "lambda"); err != nil {
		return nil, err
	}
	body, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Lambda, Cells: []*ast.Node{params, body}, Source: loc}, nil
}

func (p *Parser) unquote() (*ast.Node, error) {
	loc := p.tok.Source
	p.advance()
	kind := ast.Unquote
	if p.tok.Type == token.ELLIPSIS {
		kind = ast.UnquoteSplice
		p.advance()
	}
	expr, err := p.expression(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BRACE_R, "unquote"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: kind, Cells: []*ast.Node{expr}, Source: loc}, nil
}
