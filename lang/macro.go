// Copyright © 2026 The Verst authors

package lang

import (
	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/token"
)

// macroCall expands one macro application.  The macro body runs with the raw
// argument syntax bound to its parameters and must produce a syntax value;
// the returned node is re-evaluated by the caller in the calling
// environment.  Hygienic macros get a fresh expansion id for the duration of
// the body so template identifiers are tagged, and their binding forms are
// renamed before the expansion is handed back.
func (env *Env) macroCall(callee *Val, n *ast.Node) (*Val, *ast.Node) {
	fd := callee.FunData()
	args := make([]*Val, len(n.Cells)-1)
	for i, a := range n.Cells[1:] {
		args[i] = Syntax(a)
	}

	rt := env.Runtime
	prev := rt.currentExpansion
	var id uint32
	if fd.Unhygienic {
		rt.currentExpansion = 0
	} else {
		id = rt.nextExpansionID(fd.Env)
		rt.currentExpansion = id
	}
	ret := env.funCall(callee, args)
	rt.currentExpansion = prev

	if ret.Kind == KError {
		return ret, nil
	}
	if ret.Kind != KSyntax {
		return env.ErrorConditionf(CondMacroExpansion,
			"macro %s returned %s, not syntax", funDisplayName(fd), ret.Kind), nil
	}
	expansion := ret.Node
	if id != 0 {
		expansion = env.renameExpansion(expansion, id)
	}
	return nil, stampCallSite(expansion, n.Source)
}

// renameExpansion renames macro-introduced bindings to fresh names so they
// cannot capture or be captured by call-site identifiers.  Only identifiers
// tagged with this expansion's id are candidates; call-site syntax grafted
// in through unquote carries tag zero (or an older tag) and is left alone.
// Free tagged identifiers keep their tag and resolve at the macro's
// definition site.
func (env *Env) renameExpansion(root *ast.Node, id uint32) *ast.Node {
	rt := env.Runtime
	renames := make(map[intern.Sym]*ast.Node)
	collect := func(p *ast.Node) {
		if p == nil || p.Kind != ast.Ident || p.Scope != id {
			return
		}
		if _, ok := renames[p.Sym]; ok {
			return
		}
		sym, name := rt.GenSym(p.Text)
		renames[p.Sym] = ast.NewIdent(sym, name)
		rt.noteMacroInternal(p.Sym)
	}
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.Let, ast.FnDef, ast.MacroDef:
			collect(n.Cells[0])
		case ast.Params:
			for _, p := range n.Cells {
				collect(p)
			}
		}
		return true
	})
	if len(renames) == 0 {
		return root
	}
	return ast.Modify(root, func(n *ast.Node) *ast.Node {
		if n.Kind != ast.Ident || n.Scope != id {
			return n
		}
		fresh, ok := renames[n.Sym]
		if !ok {
			return n
		}
		cp := n.Copy()
		cp.Sym = fresh.Sym
		cp.Text = fresh.Text
		cp.Scope = 0
		return cp
	})
}

// stampCallSite attributes the whole expansion to the macro call site so
// failures during its re-evaluation report at user code rather than inside
// the macro definition.  Template nodes are shared between calls and never
// mutated; stamping rebuilds the tree.
func stampCallSite(root *ast.Node, loc *token.Location) *ast.Node {
	if loc == nil {
		return root
	}
	return ast.Modify(root, func(n *ast.Node) *ast.Node {
		if n.Source == loc {
			return n
		}
		cp := &ast.Node{}
		*cp = *n
		cp.Source = loc
		return cp
	})
}
