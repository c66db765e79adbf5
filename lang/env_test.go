// Copyright © 2026 The Verst authors

package lang

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/token"
)

func testIdent(env *Env, name string) *ast.Node {
	return ast.NewIdent(env.Intern(name), name)
}

func TestDefineAndGet(t *testing.T) {
	root := NewEnvRuntime(nil)
	x := testIdent(root, "x")

	// Root definitions land in the module globals.
	root.Define(x.Sym, Int(1))
	assert.Equal(t, "1", root.Get(x).String())
	assert.Equal(t, []string{"x"}, root.Runtime.Module.Names())

	// Child definitions shadow without touching the global.
	child := NewEnv(root)
	child.Define(x.Sym, Int(2))
	assert.Equal(t, "2", child.Get(x).String())
	assert.Equal(t, "1", root.Get(x).String())
}

func TestGetUndefined(t *testing.T) {
	root := NewEnvRuntime(nil)
	v := root.Get(testIdent(root, "missing"))
	require.Equal(t, KError, v.Kind)
	assert.Equal(t, CondUndefined, v.Str)
}

func TestUpdate(t *testing.T) {
	root := NewEnvRuntime(nil)
	x := testIdent(root, "x")
	root.Define(x.Sym, Int(1))

	child := NewEnv(root)
	// Update rebinds the nearest existing binding; here, the global.
	require.Equal(t, KUnit, child.Update(x.Sym, Int(5)).Kind)
	assert.Equal(t, "5", root.Get(x).String())

	// A local binding is updated in place without touching the global.
	child.Put(x.Sym, Int(10))
	require.Equal(t, KUnit, child.Update(x.Sym, Int(11)).Kind)
	assert.Equal(t, "11", child.Get(x).String())
	assert.Equal(t, "5", root.Get(x).String())

	v := child.Update(child.Intern("nope"), Int(1))
	require.Equal(t, KError, v.Kind)
	assert.Equal(t, CondUndefined, v.Str)
}

func TestGenSym(t *testing.T) {
	env := NewEnvRuntime(nil)
	a := env.GenSym("tmp")
	b := env.GenSym("tmp")
	assert.NotEqual(t, a.Sym, b.Sym)
	assert.NotEqual(t, a.Text, b.Text)
	assert.Contains(t, a.Text, "tmp#g")
}

func TestRenameExpansionIndependentGensyms(t *testing.T) {
	env := NewEnvRuntime(nil)
	sym := env.Intern("tmp")
	template := func(id uint32) *ast.Node {
		binder := ast.NewIdent(sym, "tmp")
		binder.Scope = id
		ref := ast.NewIdent(sym, "tmp")
		ref.Scope = id
		return &ast.Node{Kind: ast.Block, Cells: []*ast.Node{
			{Kind: ast.Let, Cells: []*ast.Node{binder, ast.NewInt(big.NewInt(1))}},
			ref,
		}}
	}

	out1 := env.renameExpansion(template(1), 1)
	out2 := env.renameExpansion(template(2), 2)

	b1 := out1.Cells[0].Cells[0]
	b2 := out2.Cells[0].Cells[0]
	assert.NotEqual(t, "tmp", b1.Text)
	assert.NotEqual(t, b1.Sym, b2.Sym, "expansions must not share gensyms")
	assert.NotEqual(t, b1.Text, b2.Text)

	// References rename consistently within their own expansion and shed the
	// scope tag.
	assert.Equal(t, b1.Sym, out1.Cells[1].Sym)
	assert.Equal(t, b2.Sym, out2.Cells[1].Sym)
	assert.Zero(t, out1.Cells[1].Scope)

	assert.True(t, env.Runtime.isMacroInternal(sym))
}

func TestModuleOrder(t *testing.T) {
	m := NewModule()
	m.Put("b", Int(1))
	m.Put("a", Int(2))
	m.Put("b", Int(3))
	assert.Equal(t, []string{"b", "a"}, m.Names())
	assert.Equal(t, "3", m.Get("b").String())
	assert.Nil(t, m.Get("z"))

	assert.True(t, m.Update("a", Int(9)))
	assert.False(t, m.Update("z", Int(9)))
}

func TestCallStack(t *testing.T) {
	s := &CallStack{MaxHeight: 2}
	loc := &token.Location{File: "test", Pos: 0, Line: 1, Col: 1}
	require.NoError(t, s.Push(loc, "_fun1", "f", false))
	require.NoError(t, s.Push(loc, "_fun2", "g", true))
	require.Error(t, s.Push(loc, "_fun3", "h", false))

	assert.Equal(t, "g", s.Top().Name)
	assert.Equal(t, "test:1:1: g [macro]", s.Top().String())

	cp := s.Copy()
	s.Pop()
	assert.Len(t, cp.Frames, 2)
	assert.Len(t, s.Frames, 1)
}

func TestDiagnosticList(t *testing.T) {
	l := &DiagnosticList{}
	assert.Equal(t, 0, l.Len())
	l.Record(CondUndefined, "unbound symbol: x", nil)
	require.Equal(t, 1, l.Len())
	d := l.Diagnostics()[0]
	assert.Equal(t, CondUndefined, d.Condition)
	assert.Equal(t, "undefined-variable: unbound symbol: x", d.String())
}

func TestNewSessionConfigError(t *testing.T) {
	_, err := NewSession(WithMaxMacroExpansionDepth(-1))
	require.Error(t, err)

	env, err := NewSession(WithMaxMacroExpansionDepth(7))
	require.NoError(t, err)
	assert.Equal(t, 7, env.Runtime.MaxMacroExpansionDepth)
}

func TestSessionBindsDefaultBuiltins(t *testing.T) {
	env, err := NewSession()
	require.NoError(t, err)
	plus := env.Runtime.Module.Get("+")
	require.NotNil(t, plus)
	assert.Equal(t, KFun, plus.Kind)

	and := env.Runtime.Module.Get("&&")
	require.NotNil(t, and)
	assert.Equal(t, FunSpecial, and.FunKind)
}
