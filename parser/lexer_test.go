// Copyright © 2026 The Verst authors

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verstlang/verst/token"
)

func scanAll(src string) []*token.Token {
	lex := NewLexerString("test", src)
	var toks []*token.Token
	for lex.Scan() {
		toks = append(toks, lex.Token())
	}
	toks = append(toks, lex.Token()) // EOF
	return toks
}

func scanTypes(src string) []token.Type {
	toks := scanAll(src)
	types := make([]token.Type, len(toks))
	for i, t := range toks {
		types[i] = t.Type
	}
	return types
}

func TestLexStatement(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.TERM, token.EOF,
	}, scanTypes("let x = 5\n"))
}

func TestLexOperators(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF,
	}, scanTypes("1 + 2 * 3"))
	assert.Equal(t, []token.Type{
		token.IDENT, token.EQ, token.IDENT, token.NE, token.IDENT, token.EOF,
	}, scanTypes("a == b != c"))
	assert.Equal(t, []token.Type{
		token.IDENT, token.LE, token.IDENT, token.GE, token.IDENT,
		token.LT, token.IDENT, token.GT, token.IDENT, token.EOF,
	}, scanTypes("a <= b >= c < d > e"))
	assert.Equal(t, []token.Type{
		token.IDENT, token.AND, token.BANG, token.IDENT, token.OR, token.IDENT, token.EOF,
	}, scanTypes("a && !b || c"))
}

func TestLexTermCollapsing(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.INT, token.TERM, token.INT, token.EOF,
	}, scanTypes("1\n\n\n2"))
	assert.Equal(t, []token.Type{
		token.INT, token.TERM, token.INT, token.EOF,
	}, scanTypes("1;2"))
	assert.Equal(t, []token.Type{
		token.INT, token.TERM, token.INT, token.EOF,
	}, scanTypes("1 ;\n; 2"))
}

func TestLexComments(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.INT, token.TERM, token.INT, token.EOF,
	}, scanTypes("1 -- a comment\n2"))
	// A lone minus stays an operator.
	assert.Equal(t, []token.Type{
		token.INT, token.MINUS, token.INT, token.EOF,
	}, scanTypes("1 - 2"))
}

func TestLexKeepComments(t *testing.T) {
	lex := NewLexerString("test", "-- note\n1")
	lex.KeepComments = true
	assert.True(t, lex.Scan())
	assert.Equal(t, token.COMMENT, lex.Token().Type)
	assert.Equal(t, "-- note", lex.Token().Text)
}

func TestLexNumbers(t *testing.T) {
	toks := scanAll("42 1.5 2e3 1.5e-2")
	assert.Equal(t, token.INT, toks[0].Type)
	assert.Equal(t, "42", toks[0].Text)
	assert.Equal(t, token.FLOAT, toks[1].Type)
	assert.Equal(t, "1.5", toks[1].Text)
	assert.Equal(t, token.FLOAT, toks[2].Type)
	assert.Equal(t, "2e3", toks[2].Text)
	assert.Equal(t, token.FLOAT, toks[3].Type)
	assert.Equal(t, "1.5e-2", toks[3].Text)

	bad := scanAll("1e")
	assert.Equal(t, token.ERROR, bad[0].Type)
}

func TestLexQuantityTokens(t *testing.T) {
	// A quantity literal is a number directly followed by an identifier; the
	// lexer emits the pair and the parser joins them.
	assert.Equal(t, []token.Type{
		token.INT, token.IDENT, token.EOF,
	}, scanTypes("5 m"))
}

func TestLexStrings(t *testing.T) {
	toks := scanAll(`"hello" "a\nb" "q\"q"`)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hello", toks[0].Text)
	assert.Equal(t, "a\nb", toks[1].Text)
	assert.Equal(t, `q"q`, toks[2].Text)

	bad := scanAll(`"unterminated`)
	assert.Equal(t, token.ERROR, bad[0].Type)
}

func TestLexChars(t *testing.T) {
	toks := scanAll(`'x' '\n'`)
	assert.Equal(t, token.CHAR, toks[0].Type)
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, "\n", toks[1].Text)

	bad := scanAll(`'xy'`)
	assert.Equal(t, token.ERROR, bad[0].Type)
}

func TestLexSymbolVersusColon(t *testing.T) {
	// After an opening bracket or comma a colon starts a symbol literal.
	toks := scanAll("[:a, :b]")
	assert.Equal(t, []token.Type{
		token.BRACKET_L, token.SYMBOL, token.COMMA, token.SYMBOL,
		token.BRACKET_R, token.EOF,
	}, scanTypes("[:a, :b]"))
	assert.Equal(t, "a", toks[1].Text)
	assert.Equal(t, "b", toks[3].Text)

	// After an identifier the colon is a field separator.
	assert.Equal(t, []token.Type{
		token.BRACE_L, token.IDENT, token.COLON, token.INT, token.BRACE_R, token.EOF,
	}, scanTypes("{x: 1}"))
}

func TestLexUnquote(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.UNQUOTE, token.IDENT, token.BRACE_R, token.EOF,
	}, scanTypes("${e}"))
	assert.Equal(t, []token.Type{
		token.UNQUOTE, token.ELLIPSIS, token.IDENT, token.BRACE_R, token.EOF,
	}, scanTypes("${...xs}"))
}

func TestLexAttribute(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.AT, token.IDENT, token.MACRO, token.EOF,
	}, scanTypes("@unhygienic macro"))
}

func TestLexLocations(t *testing.T) {
	lex := NewLexerString("test", "let x\nlet y")
	lex.Scan()
	assert.Equal(t, 1, lex.Token().Source.Line)
	assert.Equal(t, 1, lex.Token().Source.Col)
	lex.Scan()
	assert.Equal(t, 1, lex.Token().Source.Line)
	assert.Equal(t, 5, lex.Token().Source.Col)
	lex.Scan() // TERM
	lex.Scan()
	assert.Equal(t, token.LET, lex.Token().Type)
	assert.Equal(t, 2, lex.Token().Source.Line)
	assert.Equal(t, 1, lex.Token().Source.Col)
}

func TestLexPeek(t *testing.T) {
	lex := NewLexerString("test", "a b")
	lex.Scan()
	assert.Equal(t, "a", lex.Token().Text)
	assert.Equal(t, "b", lex.Peek().Text)
	lex.Scan()
	assert.Equal(t, "b", lex.Token().Text)
	assert.Equal(t, token.EOF, lex.Peek().Type)
}
