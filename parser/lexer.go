// Copyright © 2026 The Verst authors

package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verstlang/verst/token"
)

// Lexer scans verst source text into tokens.  Lexer implements token.Source
// with one token of lookahead for the parser.  Newlines and semicolons are
// emitted as TERM tokens; runs of blank lines collapse into one.
type Lexer struct {
	name string
	src  []byte
	pos  int
	line int
	col  int

	tok  *token.Token
	peek *token.Token

	// prev is the last non-comment token type, used to tell a symbol
	// literal ":name" apart from the field separator in "name: expr".
	prev token.Type

	// KeepComments emits COMMENT tokens instead of dropping them.
	KeepComments bool
}

// NewLexer reads r fully and returns a Lexer over its contents.
func NewLexer(name string, r io.Reader) (*Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewLexerBytes(name, src), nil
}

// NewLexerString returns a Lexer over source text.
func NewLexerString(name, src string) *Lexer {
	return NewLexerBytes(name, []byte(src))
}

// NewLexerBytes returns a Lexer over src.  The Lexer takes ownership of src.
func NewLexerBytes(name string, src []byte) *Lexer {
	return &Lexer{name: name, src: src, line: 1, col: 1}
}

// Token implements token.Source.
func (lex *Lexer) Token() *token.Token {
	return lex.tok
}

// Peek implements token.Source.
func (lex *Lexer) Peek() *token.Token {
	if lex.peek == nil {
		lex.peek = lex.next()
	}
	return lex.peek
}

// Scan implements token.Source.
func (lex *Lexer) Scan() bool {
	if lex.peek != nil {
		lex.tok = lex.peek
		lex.peek = nil
	} else {
		lex.tok = lex.next()
	}
	if lex.tok.Type != token.COMMENT {
		lex.prev = lex.tok.Type
	}
	return lex.tok.Type != token.EOF
}

func (lex *Lexer) location() *token.Location {
	return &token.Location{
		File: lex.name,
		Path: lex.name,
		Pos:  lex.pos,
		Line: lex.line,
		Col:  lex.col,
	}
}

func (lex *Lexer) emit(typ token.Type, text string, loc *token.Location) *token.Token {
	return &token.Token{Type: typ, Text: text, Source: loc}
}

func (lex *Lexer) errorf(loc *token.Location, format string, v ...interface{}) *token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...), loc)
}

func (lex *Lexer) eof() bool {
	return lex.pos >= len(lex.src)
}

func (lex *Lexer) rune() (rune, int) {
	return utf8.DecodeRune(lex.src[lex.pos:])
}

func (lex *Lexer) advance(w int) {
	for i := 0; i < w; i++ {
		if lex.src[lex.pos] == '\n' {
			lex.line++
			lex.col = 1
		} else {
			lex.col++
		}
		lex.pos++
	}
}

func (lex *Lexer) next() *token.Token {
	for {
		t := lex.scanToken()
		if t.Type == token.COMMENT && !lex.KeepComments {
			continue
		}
		return t
	}
}

func (lex *Lexer) scanToken() *token.Token {
	lex.skipSpace()
	loc := lex.location()
	if lex.eof() {
		return lex.emit(token.EOF, "", loc)
	}
	c, w := lex.rune()
	switch {
	case c == '\n' || c == ';':
		lex.advance(w)
		lex.skipTerms()
		return lex.emit(token.TERM, ";", loc)
	case c == '-' && lex.at(1, '-'):
		start := lex.pos
		for !lex.eof() && lex.src[lex.pos] != '\n' {
			lex.advance(1)
		}
		return lex.emit(token.COMMENT, string(lex.src[start:lex.pos]), loc)
	case unicode.IsDigit(c):
		return lex.number(loc)
	case c == '"':
		return lex.str(loc)
	case c == '\'':
		return lex.char(loc)
	case isIdentStart(c):
		return lex.ident(loc)
	case c == ':':
		lex.advance(w)
		if !lex.eof() {
			if r, _ := lex.rune(); isIdentStart(r) && !exprEnd(lex.prev) {
				name := lex.identText()
				return lex.emit(token.SYMBOL, name, loc)
			}
		}
		return lex.emit(token.COLON, ":", loc)
	default:
		return lex.operator(c, w, loc)
	}
}

// skipTerms folds consecutive terminators (and the comments between them)
// into the terminator already being emitted.
func (lex *Lexer) skipTerms() {
	for {
		lex.skipSpace()
		if lex.eof() {
			return
		}
		c, w := lex.rune()
		if c == '\n' || c == ';' {
			lex.advance(w)
			continue
		}
		return
	}
}

func (lex *Lexer) skipSpace() {
	for !lex.eof() {
		c, w := lex.rune()
		if c == ' ' || c == '\t' || c == '\r' {
			lex.advance(w)
			continue
		}
		return
	}
}

func (lex *Lexer) at(off int, c byte) bool {
	return lex.pos+off < len(lex.src) && lex.src[lex.pos+off] == c
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// exprEnd reports whether typ can end an expression, in which case a
// following colon is a field or key separator rather than a symbol literal.
func exprEnd(typ token.Type) bool {
	switch typ {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.SYMBOL, token.TRUE, token.FALSE,
		token.PAREN_R, token.BRACKET_R, token.BRACE_R:
		return true
	}
	return false
}

func (lex *Lexer) identText() string {
	start := lex.pos
	for !lex.eof() {
		c, w := lex.rune()
		if !isIdentRune(c) {
			break
		}
		lex.advance(w)
	}
	return string(lex.src[start:lex.pos])
}

func (lex *Lexer) ident(loc *token.Location) *token.Token {
	word := lex.identText()
	return lex.emit(token.Keyword(word), word, loc)
}

func (lex *Lexer) number(loc *token.Location) *token.Token {
	start := lex.pos
	typ := token.INT
	lex.digits()
	if !lex.eof() && lex.at(0, '.') && lex.pos+1 < len(lex.src) && unicode.IsDigit(rune(lex.src[lex.pos+1])) {
		typ = token.FLOAT
		lex.advance(1)
		lex.digits()
	}
	if !lex.eof() && (lex.at(0, 'e') || lex.at(0, 'E')) {
		mark := lex.pos
		lex.advance(1)
		if !lex.eof() && (lex.at(0, '+') || lex.at(0, '-')) {
			lex.advance(1)
		}
		if lex.eof() || !unicode.IsDigit(rune(lex.src[lex.pos])) {
			return lex.errorf(loc, "malformed number: %s", string(lex.src[start:mark+1]))
		}
		typ = token.FLOAT
		lex.digits()
	}
	return lex.emit(typ, string(lex.src[start:lex.pos]), loc)
}

func (lex *Lexer) digits() {
	for !lex.eof() {
		c, w := lex.rune()
		if !unicode.IsDigit(c) {
			return
		}
		lex.advance(w)
	}
}

func (lex *Lexer) str(loc *token.Location) *token.Token {
	lex.advance(1) // opening quote
	var buf strings.Builder
	for {
		if lex.eof() {
			return lex.errorf(loc, "unterminated string")
		}
		c, w := lex.rune()
		switch c {
		case '"':
			lex.advance(w)
			return lex.emit(token.STRING, buf.String(), loc)
		case '\n':
			return lex.errorf(loc, "unterminated string")
		case '\\':
			lex.advance(w)
			r, ok := lex.escape()
			if !ok {
				return lex.errorf(loc, "invalid escape sequence")
			}
			buf.WriteRune(r)
		default:
			lex.advance(w)
			buf.WriteRune(c)
		}
	}
}

func (lex *Lexer) char(loc *token.Location) *token.Token {
	lex.advance(1) // opening quote
	if lex.eof() {
		return lex.errorf(loc, "unterminated character literal")
	}
	c, w := lex.rune()
	if c == '\\' {
		lex.advance(w)
		r, ok := lex.escape()
		if !ok {
			return lex.errorf(loc, "invalid escape sequence")
		}
		c = r
	} else {
		lex.advance(w)
	}
	if lex.eof() || !lex.at(0, '\'') {
		return lex.errorf(loc, "unterminated character literal")
	}
	lex.advance(1)
	return lex.emit(token.CHAR, string(c), loc)
}

func (lex *Lexer) escape() (rune, bool) {
	if lex.eof() {
		return 0, false
	}
	c, w := lex.rune()
	lex.advance(w)
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '"', '\'':
		return c, true
	}
	return 0, false
}

func (lex *Lexer) operator(c rune, w int, loc *token.Location) *token.Token {
	two := func(next byte, typ token.Type, text string) *token.Token {
		lex.advance(w)
		if lex.at(0, next) {
			lex.advance(1)
			return lex.emit(typ, text, loc)
		}
		return nil
	}
	switch c {
	case '=':
		if t := two('=', token.EQ, "=="); t != nil {
			return t
		}
		return lex.emit(token.ASSIGN, "=", loc)
	case '!':
		if t := two('=', token.NE, "!="); t != nil {
			return t
		}
		return lex.emit(token.BANG, "!", loc)
	case '<':
		if t := two('=', token.LE, "<="); t != nil {
			return t
		}
		return lex.emit(token.LT, "<", loc)
	case '>':
		if t := two('=', token.GE, ">="); t != nil {
			return t
		}
		return lex.emit(token.GT, ">", loc)
	case '&':
		if t := two('&', token.AND, "&&"); t != nil {
			return t
		}
		return lex.errorf(loc, "unexpected character %q", c)
	case '|':
		if t := two('|', token.OR, "||"); t != nil {
			return t
		}
		return lex.errorf(loc, "unexpected character %q", c)
	case '$':
		if t := two('{', token.UNQUOTE, "${"); t != nil {
			return t
		}
		return lex.errorf(loc, "unexpected character %q", c)
	case '.':
		lex.advance(w)
		if lex.at(0, '.') && lex.at(1, '.') {
			lex.advance(2)
			return lex.emit(token.ELLIPSIS, "...", loc)
		}
		return lex.errorf(loc, "unexpected character %q", c)
	case '+':
		lex.advance(w)
		return lex.emit(token.PLUS, "+", loc)
	case '-':
		lex.advance(w)
		return lex.emit(token.MINUS, "-", loc)
	case '*':
		lex.advance(w)
		return lex.emit(token.STAR, "*", loc)
	case '/':
		lex.advance(w)
		return lex.emit(token.SLASH, "/", loc)
	case '%':
		lex.advance(w)
		return lex.emit(token.PERCENT, "%", loc)
	case '^':
		lex.advance(w)
		return lex.emit(token.CARET, "^", loc)
	case ',':
		lex.advance(w)
		return lex.emit(token.COMMA, ",", loc)
	case '@':
		lex.advance(w)
		return lex.emit(token.AT, "@", loc)
	case '(':
		lex.advance(w)
		return lex.emit(token.PAREN_L, "(", loc)
	case ')':
		lex.advance(w)
		return lex.emit(token.PAREN_R, ")", loc)
	case '[':
		lex.advance(w)
		return lex.emit(token.BRACKET_L, "[", loc)
	case ']':
		lex.advance(w)
		return lex.emit(token.BRACKET_R, "]", loc)
	case '{':
		lex.advance(w)
		return lex.emit(token.BRACE_L, "{", loc)
	case '}':
		lex.advance(w)
		return lex.emit(token.BRACE_R, "}", loc)
	}
	lex.advance(w)
	return lex.errorf(loc, "unexpected character %q", c)
}
