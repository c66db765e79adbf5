// Copyright © 2026 The Verst authors

// Package ast defines the syntax tree handed to the evaluator by the parser
// and constructed programmatically by macros.  Nodes are treated as
// immutable once built; transformation passes produce fresh nodes via Copy
// and Modify rather than mutating shared trees.
package ast

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"

	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/token"
)

// Kind is the syntactic category of a Node.
type Kind uint

// Possible Kind values.
const (
	// Invalid (0) is not a valid node kind.
	Invalid Kind = iota
	// UnitLit is the literal ().
	UnitLit
	// BoolLit stores its value in Node.Bool.
	BoolLit
	// IntLit stores an arbitrary-precision integer in Node.Num.
	IntLit
	// FloatLit stores a float64 in Node.Float.
	FloatLit
	// StringLit and CharLit store their decoded text in Node.Text.
	StringLit
	CharLit
	// SymbolLit is a :name literal; the name is interned in Node.Sym.
	SymbolLit
	// Ident is an identifier reference or binding occurrence.  The name is
	// interned in Node.Sym and Node.Scope carries the hygiene tag of the
	// macro expansion that introduced the identifier (0 for user code).
	Ident
	// ListLit, TupleLit and RecordLit store element expressions in Cells.
	// RecordLit cells are Field nodes.
	ListLit
	TupleLit
	RecordLit
	// Field is a record field: Node.Sym names the field, Cells[0] is the
	// value expression.
	Field
	// Apply is function/macro application: Cells[0] is the callee and
	// Cells[1:] are argument expressions.
	Apply
	// Let introduces a binding: Cells[0] is an Ident, Cells[1] the
	// right-hand side.  Assign updates the nearest existing binding.
	Let
	Assign
	// FnDef and MacroDef define named values: Cells[0] is the name Ident,
	// Cells[1] a Params node, Cells[2] the body.  MacroDef nodes with
	// Unhygienic set opt out of hygienic renaming.
	FnDef
	MacroDef
	// Lambda is an anonymous function: Cells[0] a Params node, Cells[1]
	// the body expression.
	Lambda
	// Params holds Ident nodes for formal parameters.
	Params
	// If is a conditional: Cells are cond, consequent, alternative.
	If
	// Block is a braced statement sequence evaluating to its last
	// expression (or unit when empty).
	Block
	// Quote wraps a template: Cells[0].  Unquote and UnquoteSplice mark
	// substitution points inside a template and are invalid elsewhere.
	Quote
	Unquote
	UnquoteSplice
	// QuantityLit is a unit-tagged number: Cells[0] is the numeric literal
	// and Node.Sym the unit name.
	QuantityLit
	// TypeOf is the compile-time type query: Cells[0] is the inspected
	// expression.
	TypeOf

	kindMax
)

var kindStrings = []string{
	Invalid:       "invalid",
	UnitLit:       "unit",
	BoolLit:       "bool",
	IntLit:        "int",
	FloatLit:      "float",
	StringLit:     "string",
	CharLit:       "char",
	SymbolLit:     "symbol",
	Ident:         "identifier",
	ListLit:       "list",
	TupleLit:      "tuple",
	RecordLit:     "record",
	Field:         "field",
	Apply:         "application",
	Let:           "let",
	Assign:        "assignment",
	FnDef:         "function-definition",
	MacroDef:      "macro-definition",
	Lambda:        "lambda",
	Params:        "parameters",
	If:            "if",
	Block:         "block",
	Quote:         "quote",
	Unquote:       "unquote",
	UnquoteSplice: "unquote-splice",
	QuantityLit:   "quantity",
	TypeOf:        "typeof",
}

func (k Kind) String() string {
	if k >= kindMax {
		return kindStrings[Invalid]
	}
	return kindStrings[k]
}

// Node is a syntax tree node.  Programs must not modify a Node after it has
// been handed to the evaluator; the Source reference may be shared by many
// nodes.
type Node struct {
	Kind   Kind
	Sym    intern.Sym // identifier/symbol/field/unit name
	Text   string     // string/char payload and the raw spelling of names
	Num    *big.Int   // IntLit payload
	Float  float64    // FloatLit payload
	Bool   bool       // BoolLit payload and MacroDef Unhygienic flag
	Cells  []*Node
	Source *token.Location

	// Scope tags identifiers with the macro-expansion instance that
	// introduced them.  Two identifiers with equal Sym but different Scope
	// are distinct bindings.  Zero means user code.
	Scope uint32
}

var nativeLocation = &token.Location{File: "<syntax>", Pos: -1}

// NativeSource returns the shared location used for programmatically
// constructed nodes.
func NativeSource() *token.Location {
	return nativeLocation
}

// NewIdent returns an identifier node.  The spelling in text must be the
// string that sym was interned from.
func NewIdent(sym intern.Sym, text string) *Node {
	return &Node{Kind: Ident, Sym: sym, Text: text, Source: nativeLocation}
}

// NewInt returns an integer literal node.
func NewInt(x *big.Int) *Node {
	return &Node{Kind: IntLit, Num: x, Source: nativeLocation}
}

// NewFloat returns a float literal node.
func NewFloat(x float64) *Node {
	return &Node{Kind: FloatLit, Float: x, Source: nativeLocation}
}

// NewString returns a string literal node.
func NewString(s string) *Node {
	return &Node{Kind: StringLit, Text: s, Source: nativeLocation}
}

// NewBool returns a boolean literal node.
func NewBool(b bool) *Node {
	return &Node{Kind: BoolLit, Bool: b, Source: nativeLocation}
}

// NewUnit returns a unit literal node.
func NewUnit() *Node {
	return &Node{Kind: UnitLit, Source: nativeLocation}
}

// NewApply returns an application node.
func NewApply(callee *Node, args ...*Node) *Node {
	cells := make([]*Node, 0, len(args)+1)
	cells = append(cells, callee)
	cells = append(cells, args...)
	return &Node{Kind: Apply, Cells: cells, Source: nativeLocation}
}

// NewList returns a list literal node with the given elements.
func NewList(elems ...*Node) *Node {
	return &Node{Kind: ListLit, Cells: elems, Source: nativeLocation}
}

// Copy returns a deep copy of n.  Source locations are shared, cells are
// fresh.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{}
	*cp = *n
	if len(n.Cells) > 0 {
		cp.Cells = make([]*Node, len(n.Cells))
		for i := range n.Cells {
			cp.Cells[i] = n.Cells[i].Copy()
		}
	}
	return cp
}

// Walk calls fn for n and every descendant in depth-first order.  Walk stops
// descending below a node when fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Cells {
		Walk(c, fn)
	}
}

// Modify rewrites a tree bottom-up, replacing each node with fn's return
// value.  The input tree is not changed; unmodified subtrees are shared.
func Modify(n *Node, fn func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	changed := false
	cells := n.Cells
	for i, c := range n.Cells {
		m := Modify(c, fn)
		if m != c {
			if !changed {
				cells = make([]*Node, len(n.Cells))
				copy(cells, n.Cells)
				changed = true
			}
			cells[i] = m
		}
	}
	if changed {
		cp := &Node{}
		*cp = *n
		cp.Cells = cells
		n = cp
	}
	return fn(n)
}

// Equal reports structural equality ignoring source locations and scope
// tags.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Sym != b.Sym || a.Text != b.Text ||
		a.Bool != b.Bool || a.Float != b.Float || len(a.Cells) != len(b.Cells) {
		return false
	}
	if (a.Num == nil) != (b.Num == nil) {
		return false
	}
	if a.Num != nil && a.Num.Cmp(b.Num) != 0 {
		return false
	}
	for i := range a.Cells {
		if !Equal(a.Cells[i], b.Cells[i]) {
			return false
		}
	}
	return true
}

// binaryOps maps identifier spellings rendered infix by String.
var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "^": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

// String renders the node as surface syntax.  The rendering round-trips
// through the parser for expression nodes and is what tests compare
// against.
func (n *Node) String() string {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.String()
}

func (n *Node) write(buf *bytes.Buffer) {
	switch n.Kind {
	case UnitLit:
		buf.WriteString("()")
	case BoolLit:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case IntLit:
		buf.WriteString(n.Num.String())
	case FloatLit:
		buf.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
	case StringLit:
		fmt.Fprintf(buf, "%q", n.Text)
	case CharLit:
		fmt.Fprintf(buf, "%q", []rune(n.Text)[0])
	case SymbolLit:
		buf.WriteString(":")
		buf.WriteString(n.Text)
	case Ident:
		buf.WriteString(n.Text)
	case ListLit:
		buf.WriteString("[")
		n.writeCells(buf, n.Cells, ", ")
		buf.WriteString("]")
	case TupleLit:
		buf.WriteString("(")
		n.writeCells(buf, n.Cells, ", ")
		buf.WriteString(")")
	case RecordLit:
		buf.WriteString("{")
		n.writeCells(buf, n.Cells, ", ")
		buf.WriteString("}")
	case Field:
		buf.WriteString(n.Text)
		buf.WriteString(": ")
		n.Cells[0].write(buf)
	case Apply:
		callee := n.Cells[0]
		if callee.Kind == Ident && binaryOps[callee.Text] && len(n.Cells) == 3 {
			buf.WriteString("(")
			n.Cells[1].write(buf)
			buf.WriteString(" " + callee.Text + " ")
			n.Cells[2].write(buf)
			buf.WriteString(")")
			return
		}
		callee.write(buf)
		buf.WriteString("(")
		n.writeCells(buf, n.Cells[1:], ", ")
		buf.WriteString(")")
	case Let:
		buf.WriteString("let ")
		n.Cells[0].write(buf)
		buf.WriteString(" = ")
		n.Cells[1].write(buf)
	case Assign:
		n.Cells[0].write(buf)
		buf.WriteString(" = ")
		n.Cells[1].write(buf)
	case FnDef, MacroDef:
		if n.Kind == FnDef {
			buf.WriteString("fn ")
		} else {
			buf.WriteString("macro ")
		}
		n.Cells[0].write(buf)
		n.Cells[1].write(buf)
		buf.WriteString(" = ")
		n.Cells[2].write(buf)
	case Lambda:
		buf.WriteString("fn")
		n.Cells[0].write(buf)
		buf.WriteString(" = ")
		n.Cells[1].write(buf)
	case Params:
		buf.WriteString("(")
		n.writeCells(buf, n.Cells, ", ")
		buf.WriteString(")")
	case If:
		buf.WriteString("if ")
		n.Cells[0].write(buf)
		buf.WriteString(" then ")
		n.Cells[1].write(buf)
		buf.WriteString(" else ")
		n.Cells[2].write(buf)
	case Block:
		buf.WriteString("{ ")
		n.writeCells(buf, n.Cells, "; ")
		buf.WriteString(" }")
	case Quote:
		buf.WriteString("quote ")
		n.Cells[0].write(buf)
	case Unquote:
		buf.WriteString("${")
		n.Cells[0].write(buf)
		buf.WriteString("}")
	case UnquoteSplice:
		buf.WriteString("${...")
		n.Cells[0].write(buf)
		buf.WriteString("}")
	case QuantityLit:
		n.Cells[0].write(buf)
		buf.WriteString(" " + n.Text)
	case TypeOf:
		buf.WriteString("typeof ")
		n.Cells[0].write(buf)
	default:
		fmt.Fprintf(buf, "#<%s>", n.Kind)
	}
}

func (n *Node) writeCells(buf *bytes.Buffer, cells []*Node, sep string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(sep)
		}
		c.write(buf)
	}
}
