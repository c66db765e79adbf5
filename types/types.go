// Copyright © 2026 The Verst authors

// Package types exposes the compile-time type queries consulted by the
// typeof operator.  The evaluator performs no type checking of its own; it
// treats the returned Type as an opaque handle.  Structural is a minimal
// engine good enough for bootstrap-time queries; a Hindley-Milner inferencer
// can be swapped in behind the same Inferrer interface.
package types

import (
	"fmt"

	"github.com/verstlang/verst/ast"
)

// Type is an opaque handle into the type system.
type Type interface {
	Name() string
}

type prim string

func (p prim) Name() string { return string(p) }

// Primitive type handles.
var (
	Unit     Type = prim("Unit")
	Bool     Type = prim("Bool")
	Int      Type = prim("Int")
	Rational Type = prim("Rational")
	Float    Type = prim("Float")
	String   Type = prim("String")
	Char     Type = prim("Char")
	Symbol   Type = prim("Symbol")
	Syntax   Type = prim("Syntax")
	Unknown  Type = prim("?")
)

// List, Tuple, Record, Arrow and Quantity are structural type handles.
type List struct{ Elem Type }

func (t List) Name() string { return fmt.Sprintf("List[%s]", t.Elem.Name()) }

type Tuple struct{ Elems []Type }

func (t Tuple) Name() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.Name()
	}
	return s + ")"
}

type Arrow struct {
	Params []Type
	Result Type
}

func (t Arrow) Name() string {
	s := "fn("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name()
	}
	return s + ") -> " + t.Result.Name()
}

type Quantity struct{ Dim string }

func (t Quantity) Name() string { return "Quantity[" + t.Dim + "]" }

// TypeEnv maps identifier spellings to types for the duration of one query.
type TypeEnv struct {
	parent *TypeEnv
	scope  map[string]Type
}

// NewTypeEnv returns an empty root environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{scope: make(map[string]Type)}
}

// Child returns a nested scope.
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{parent: e, scope: make(map[string]Type)}
}

// Bind associates name with t in the current scope.
func (e *TypeEnv) Bind(name string, t Type) {
	e.scope[name] = t
}

// TypeOf resolves name through the scope chain.
func (e *TypeEnv) TypeOf(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.scope[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Inferrer answers type queries over syntax.
type Inferrer interface {
	Infer(n *ast.Node, env *TypeEnv) (Type, error)
}

// Structural is a shallow, syntax-directed inferrer.  It never unifies;
// anything it cannot determine is Unknown rather than an error, because
// typeof must be total over well-formed syntax.
type Structural struct{}

var _ Inferrer = Structural{}

func (Structural) Infer(n *ast.Node, env *TypeEnv) (Type, error) {
	switch n.Kind {
	case ast.UnitLit:
		return Unit, nil
	case ast.BoolLit:
		return Bool, nil
	case ast.IntLit:
		return Int, nil
	case ast.FloatLit:
		return Float, nil
	case ast.StringLit:
		return String, nil
	case ast.CharLit:
		return Char, nil
	case ast.SymbolLit:
		return Symbol, nil
	case ast.Quote:
		return Syntax, nil
	case ast.QuantityLit:
		return Quantity{Dim: n.Text}, nil
	case ast.Ident:
		if t, ok := env.TypeOf(n.Text); ok {
			return t, nil
		}
		return Unknown, nil
	case ast.ListLit:
		if len(n.Cells) == 0 {
			return List{Elem: Unknown}, nil
		}
		elem, err := Structural{}.Infer(n.Cells[0], env)
		if err != nil {
			return nil, err
		}
		return List{Elem: elem}, nil
	case ast.TupleLit:
		elems := make([]Type, len(n.Cells))
		for i, c := range n.Cells {
			t, err := Structural{}.Infer(c, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple{Elems: elems}, nil
	case ast.Lambda:
		params := make([]Type, len(n.Cells[0].Cells))
		child := env.Child()
		for i, p := range n.Cells[0].Cells {
			params[i] = Unknown
			child.Bind(p.Text, Unknown)
		}
		res, err := Structural{}.Infer(n.Cells[1], child)
		if err != nil {
			return nil, err
		}
		return Arrow{Params: params, Result: res}, nil
	case ast.If:
		return Structural{}.Infer(n.Cells[1], env)
	case ast.Block:
		if len(n.Cells) == 0 {
			return Unit, nil
		}
		return Structural{}.Infer(n.Cells[len(n.Cells)-1], env)
	case ast.Apply:
		return inferApply(n, env)
	case ast.Let, ast.Assign, ast.FnDef, ast.MacroDef:
		return Unit, nil
	}
	return Unknown, nil
}

func inferApply(n *ast.Node, env *TypeEnv) (Type, error) {
	callee := n.Cells[0]
	if callee.Kind == ast.Ident {
		switch callee.Text {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return Bool, nil
		case "+", "-", "*", "/", "%", "^":
			if len(n.Cells) == 3 {
				a, err := Structural{}.Infer(n.Cells[1], env)
				if err != nil {
					return nil, err
				}
				b, err := Structural{}.Infer(n.Cells[2], env)
				if err != nil {
					return nil, err
				}
				return numericJoin(a, b), nil
			}
		}
		if t, ok := env.TypeOf(callee.Text); ok {
			if arrow, ok := t.(Arrow); ok {
				return arrow.Result, nil
			}
		}
	}
	return Unknown, nil
}

func numericJoin(a, b Type) Type {
	if qa, ok := a.(Quantity); ok {
		return qa
	}
	if qb, ok := b.(Quantity); ok {
		return qb
	}
	if a == Float || b == Float {
		return Float
	}
	if a == Rational || b == Rational {
		return Rational
	}
	if a == Int && b == Int {
		return Int
	}
	return Unknown
}
