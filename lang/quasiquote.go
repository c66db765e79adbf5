// Copyright © 2026 The Verst authors

package lang

import (
	"github.com/verstlang/verst/ast"
)

// evalQuote builds syntax from a quote template.  Unquote points evaluate in
// the enclosing environment and their results are grafted into the output;
// splice points contribute their list elements as siblings.  Quote is
// single level: a nested quote inside the template shields its own unquotes
// from the outer constructor.
func (env *Env) evalQuote(n *ast.Node) *Val {
	nodes, lerr := env.expandTemplate(n.Cells[0], 0)
	if lerr != nil {
		return lerr
	}
	if len(nodes) != 1 {
		return env.ErrorConditionf(CondMacroExpansion,
			"splice at template root must produce exactly one form, got %d", len(nodes))
	}
	return Syntax(nodes[0])
}

// expandTemplate walks a template node and returns the node or nodes it
// contributes to its parent.  Only a splice point produces other than one
// node.  depth counts nested quotes between the node and the constructor
// being evaluated.
func (env *Env) expandTemplate(n *ast.Node, depth int) ([]*ast.Node, *Val) {
	switch n.Kind {
	case ast.Quote:
		inner, lerr := env.expandTemplate(n.Cells[0], depth+1)
		if lerr != nil {
			return nil, lerr
		}
		return env.rebuild(n, inner)
	case ast.Unquote:
		if depth == 0 {
			v := env.Eval(n.Cells[0])
			if v.Kind == KError {
				return nil, v
			}
			node, lerr := env.syntaxFromVal(v)
			if lerr != nil {
				return nil, lerr
			}
			return []*ast.Node{node}, nil
		}
		inner, lerr := env.expandTemplate(n.Cells[0], depth-1)
		if lerr != nil {
			return nil, lerr
		}
		return env.rebuild(n, inner)
	case ast.UnquoteSplice:
		if depth == 0 {
			v := env.Eval(n.Cells[0])
			if v.Kind == KError {
				return nil, v
			}
			if v.Kind != KList {
				return nil, env.ErrorConditionf(CondTypeMismatch,
					"splice value is %s, not a list", v.Kind)
			}
			nodes := make([]*ast.Node, 0, len(v.Cells))
			for _, cell := range v.Cells {
				node, lerr := env.syntaxFromVal(cell)
				if lerr != nil {
					return nil, lerr
				}
				nodes = append(nodes, node)
			}
			return nodes, nil
		}
		inner, lerr := env.expandTemplate(n.Cells[0], depth-1)
		if lerr != nil {
			return nil, lerr
		}
		return env.rebuild(n, inner)
	case ast.Ident:
		// Template identifiers are stamped with the live expansion id so the
		// hygiene pass can tell them apart from call-site identifiers, which
		// arrive through unquote already carrying their own tags.
		if id := env.Runtime.currentExpansion; id != 0 && n.Scope == 0 {
			cp := n.Copy()
			cp.Scope = id
			return []*ast.Node{cp}, nil
		}
		return []*ast.Node{n}, nil
	}
	if len(n.Cells) == 0 {
		return []*ast.Node{n}, nil
	}
	cells := make([]*ast.Node, 0, len(n.Cells))
	changed := false
	for _, c := range n.Cells {
		sub, lerr := env.expandTemplate(c, depth)
		if lerr != nil {
			return nil, lerr
		}
		if len(sub) != 1 || sub[0] != c {
			changed = true
		}
		cells = append(cells, sub...)
	}
	if !changed {
		return []*ast.Node{n}, nil
	}
	cp := &ast.Node{}
	*cp = *n
	cp.Cells = cells
	return []*ast.Node{cp}, nil
}

// rebuild reproduces a quote or shielded unquote node around the expanded
// cell.
func (env *Env) rebuild(n *ast.Node, inner []*ast.Node) ([]*ast.Node, *Val) {
	if len(inner) != 1 {
		return nil, env.ErrorConditionf(CondMacroExpansion,
			"splice inside a nested quote must produce exactly one form, got %d", len(inner))
	}
	if inner[0] == n.Cells[0] {
		return []*ast.Node{n}, nil
	}
	cp := &ast.Node{}
	*cp = *n
	cp.Cells = []*ast.Node{inner[0]}
	return []*ast.Node{cp}, nil
}

// syntaxFromVal converts an evaluated value into syntax for grafting into a
// template.  Syntax values contribute their node directly; data values with
// literal spellings are reified as literal nodes.
func (env *Env) syntaxFromVal(v *Val) (*ast.Node, *Val) {
	switch v.Kind {
	case KSyntax:
		return v.Node, nil
	case KUnit:
		return ast.NewUnit(), nil
	case KBool:
		return ast.NewBool(v.Bool), nil
	case KInt:
		return ast.NewInt(v.Int), nil
	case KFloat:
		return ast.NewFloat(v.Float), nil
	case KString:
		return ast.NewString(v.Str), nil
	case KChar:
		return &ast.Node{Kind: ast.CharLit, Text: v.Str, Source: ast.NativeSource()}, nil
	case KSymbol:
		return &ast.Node{Kind: ast.SymbolLit, Sym: v.Sym, Text: v.Str, Source: ast.NativeSource()}, nil
	case KList, KTuple:
		kind := ast.ListLit
		if v.Kind == KTuple {
			kind = ast.TupleLit
		}
		cells := make([]*ast.Node, len(v.Cells))
		for i, c := range v.Cells {
			node, lerr := env.syntaxFromVal(c)
			if lerr != nil {
				return nil, lerr
			}
			cells[i] = node
		}
		return &ast.Node{Kind: kind, Cells: cells, Source: ast.NativeSource()}, nil
	case KRecord:
		cells := make([]*ast.Node, len(v.Keys))
		for i, k := range v.Keys {
			val, lerr := env.syntaxFromVal(v.Cells[i])
			if lerr != nil {
				return nil, lerr
			}
			cells[i] = &ast.Node{
				Kind:   ast.Field,
				Sym:    env.Intern(k),
				Text:   k,
				Cells:  []*ast.Node{val},
				Source: ast.NativeSource(),
			}
		}
		return &ast.Node{Kind: ast.RecordLit, Cells: cells, Source: ast.NativeSource()}, nil
	}
	return nil, env.ErrorConditionf(CondTypeMismatch,
		"%s value has no literal syntax and cannot be unquoted", v.Kind)
}
