// Copyright © 2026 The Verst authors

package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek returns an EOF token.
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

type Type uint

// Type constants used by the verst lexer/parser.
const (
	INVALID Type = iota
	ERROR
	EOF
	TERM // statement terminator (newline or ';')

	// Atomic expressions & literals
	IDENT
	INT
	FLOAT
	STRING
	CHAR
	SYMBOL // :name

	// Keywords
	LET
	FN
	MACRO
	QUOTE
	TYPEOF
	IF
	THEN
	ELSE
	TRUE
	FALSE

	// Operators
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	CARET     // ^
	EQ        // ==
	NE        // !=
	LT        // <
	LE        // <=
	GT        // >
	GE        // >=
	AND       // &&
	OR        // ||
	BANG      // !
	COMMA     // ,
	COLON     // :
	AT        // @
	UNQUOTE   // ${
	ELLIPSIS  // ...
	PAREN_L   // (
	PAREN_R   // )
	BRACKET_L // [
	BRACKET_R // ]
	BRACE_L   // {
	BRACE_R   // }

	COMMENT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		ERROR:     "error",
		EOF:       "EOF",
		TERM:      "terminator",
		IDENT:     "identifier",
		INT:       "int",
		FLOAT:     "float",
		STRING:    "string",
		CHAR:      "char",
		SYMBOL:    "symbol",
		LET:       "let",
		FN:        "fn",
		MACRO:     "macro",
		QUOTE:     "quote",
		TYPEOF:    "typeof",
		IF:        "if",
		THEN:      "then",
		ELSE:      "else",
		TRUE:      "true",
		FALSE:     "false",
		ASSIGN:    "=",
		PLUS:      "+",
		MINUS:     "-",
		STAR:      "*",
		SLASH:     "/",
		PERCENT:   "%",
		CARET:     "^",
		EQ:        "==",
		NE:        "!=",
		LT:        "<",
		LE:        "<=",
		GT:        ">",
		GE:        ">=",
		AND:       "&&",
		OR:        "||",
		BANG:      "!",
		COMMA:     ",",
		COLON:     ":",
		AT:        "@",
		UNQUOTE:   "${",
		ELLIPSIS:  "...",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACKET_L: "[",
		BRACKET_R: "]",
		BRACE_L:   "{",
		BRACE_R:   "}",
		COMMENT:   "--",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keyword returns the token type for an identifier-shaped word, or IDENT if
// the word is not reserved.
func Keyword(word string) Type {
	switch word {
	case "let":
		return LET
	case "fn":
		return FN
	case "macro":
		return MACRO
	case "quote":
		return QUOTE
	case "typeof":
		return TYPEOF
	case "if":
		return IF
	case "then":
		return THEN
	case "else":
		return ELSE
	case "true":
		return TRUE
	case "false":
		return FALSE
	}
	return IDENT
}

type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
