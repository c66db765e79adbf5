// Copyright © 2026 The Verst authors

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
)

func parse(t *testing.T, src string) []*ast.Node {
	t.Helper()
	p := New(intern.NewTable(), NewLexerString("test", src))
	nodes, err := p.ParseProgram()
	require.NoError(t, err, "parse error in %q", src)
	return nodes
}

func parseOne(t *testing.T, src string) *ast.Node {
	t.Helper()
	nodes := parse(t, src)
	require.Len(t, nodes, 1, "expected a single statement in %q", src)
	return nodes[0]
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"1 < 2 == true", "((1 < 2) == true)"},
		{"a && b || c", "((a && b) || c)"},
		{"!a && b", "(!(a) && b)"},
		{"-x + 1", "(-(x) + 1)"},
		{"f(a, b)", "f(a, b)"},
		{"f(a)(b)", "f(a)(b)"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"(1, 2)", "(1, 2)"},
		{"()", "()"},
		{"{x: 1, y: 2}", "{x: 1, y: 2}"},
		{"{ let x = 1; x }", "{ let x = 1; x }"},
		{"if a then 1 else 2", "if a then 1 else 2"},
		{"fn(x) = x + 1", "fn(x) = (x + 1)"},
		{":sym", ":sym"},
		{"'c'", "'c'"},
		{`"text"`, `"text"`},
		{"typeof [1]", "typeof [1]"},
		{"quote x + 1", "quote (x + 1)"},
		{"quote [${a}, ${...b}]", "quote [${a}, ${...b}]"},
		{"5 m", "5 m"},
		{"2.5 kg", "2.5 kg"},
		{"5 m + 3 m", "(5 m + 3 m)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, parseOne(t, test.src).String(), "source %q", test.src)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.Kind
		want string
	}{
		{"let x = 5", ast.Let, "let x = 5"},
		{"x = 5", ast.Assign, "x = 5"},
		{"fn add(a, b) = a + b", ast.FnDef, "fn add(a, b) = (a + b)"},
		{"fn nullary() = 1", ast.FnDef, "fn nullary() = 1"},
		{"macro m(e) = quote ${e}", ast.MacroDef, "macro m(e) = quote ${e}"},
	}
	for _, test := range tests {
		n := parseOne(t, test.src)
		assert.Equal(t, test.kind, n.Kind, "source %q", test.src)
		assert.Equal(t, test.want, n.String(), "source %q", test.src)
	}
}

func TestParseCommandForm(t *testing.T) {
	// "name expr" applies name to the whole trailing expression.
	n := parseOne(t, "double_it 10 + 5")
	require.Equal(t, ast.Apply, n.Kind)
	assert.Equal(t, "double_it((10 + 5))", n.String())

	n = parseOne(t, "show [1, 2]")
	assert.Equal(t, "show([1, 2])", n.String())

	n = parseOne(t, "pick if a then 1 else 2")
	assert.Equal(t, "pick(if a then 1 else 2)", n.String())

	// An opening paren keeps call syntax so "f(a, b)" is a two-argument call.
	n = parseOne(t, "f(a, b)")
	require.Equal(t, ast.Apply, n.Kind)
	assert.Len(t, n.Cells, 3)

	// An operator after the identifier keeps expression parsing.
	n = parseOne(t, "x + 1")
	assert.Equal(t, "(x + 1)", n.String())
}

func TestParseUnhygienicAttribute(t *testing.T) {
	n := parseOne(t, "@unhygienic macro m(e) = quote ${e}")
	require.Equal(t, ast.MacroDef, n.Kind)
	assert.True(t, n.Bool)

	n = parseOne(t, "macro m(e) = quote ${e}")
	require.Equal(t, ast.MacroDef, n.Kind)
	assert.False(t, n.Bool)

	_, err := New(intern.NewTable(), NewLexerString("test", "@wild macro m(e) = 1")).ParseProgram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown attribute")
}

func TestParseRecordVersusBlock(t *testing.T) {
	n := parseOne(t, "{x: 1}")
	assert.Equal(t, ast.RecordLit, n.Kind)

	n = parseOne(t, "{ x }")
	assert.Equal(t, ast.Block, n.Kind)

	n = parseOne(t, "{ x + 1 }")
	assert.Equal(t, ast.Block, n.Kind)

	n = parseOne(t, "{}")
	assert.Equal(t, ast.Block, n.Kind)
	assert.Empty(t, n.Cells)
}

func TestParseQuantityLiteral(t *testing.T) {
	n := parseOne(t, "5 m")
	require.Equal(t, ast.QuantityLit, n.Kind)
	assert.Equal(t, "m", n.Text)
	require.Len(t, n.Cells, 1)
	assert.Equal(t, ast.IntLit, n.Cells[0].Kind)

	// The unit binds only to the literal directly before it.
	n = parseOne(t, "d / 2 s")
	assert.Equal(t, "(d / 2 s)", n.String())
}

func TestParseProgram(t *testing.T) {
	nodes := parse(t, "let x = 1\nlet y = 2\n\nx + y\n")
	require.Len(t, nodes, 3)
	assert.Equal(t, "let x = 1", nodes[0].String())
	assert.Equal(t, "let y = 2", nodes[1].String())
	assert.Equal(t, "(x + y)", nodes[2].String())
}

func TestParseIncomplete(t *testing.T) {
	incomplete := []string{
		"let x =",
		"1 +",
		"(1 + 2",
		"[1, 2",
		"fn add(a,",
		"if a then 1",
		"{ let x = 1;",
		"quote ${",
		"f(",
	}
	for _, src := range incomplete {
		p := New(intern.NewTable(), NewLexerString("test", src))
		_, err := p.ParseProgram()
		require.Error(t, err, "source %q", src)
		assert.True(t, IsIncomplete(err), "expected incomplete for %q: %v", src, err)
	}
}

func TestParseErrorsAreNotIncomplete(t *testing.T) {
	malformed := []string{
		"let 5 = 3",
		")",
		"1 + + 2",
		"{x: }",
	}
	for _, src := range malformed {
		p := New(intern.NewTable(), NewLexerString("test", src))
		_, err := p.ParseProgram()
		require.Error(t, err, "source %q", src)
		assert.False(t, IsIncomplete(err), "unexpected incomplete for %q: %v", src, err)
	}
}

func TestReaderRead(t *testing.T) {
	r := NewReader(intern.NewTable())
	nodes, err := r.Read("test", strings.NewReader("fn square(x) = x * x\nsquare(4)\n"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, ast.FnDef, nodes[0].Kind)
	assert.Equal(t, "square(4)", nodes[1].String())
}

func TestSharedInterner(t *testing.T) {
	tab := intern.NewTable()
	r := NewReader(tab)
	nodes, err := r.Read("a", strings.NewReader("count"))
	require.NoError(t, err)
	more, err := r.Read("b", strings.NewReader("count"))
	require.NoError(t, err)
	assert.Equal(t, nodes[0].Sym, more[0].Sym)
}
