// Copyright © 2026 The Verst authors

package lang

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/token"
	"github.com/verstlang/verst/types"
	"github.com/verstlang/verst/units"
)

// VKind is the runtime kind of a Val.
type VKind uint

// Possible VKind values.  The set is closed; dispatch on callee kind happens
// by matching these constants at the call site.
const (
	// KInvalid (0) is not a valid kind.
	KInvalid VKind = iota
	// KUnit is the single unit value.
	KUnit
	// KBool values store their payload in Val.Bool.
	KBool
	// KInt values store an arbitrary-precision *big.Int in Val.Int.
	KInt
	// KRat values store a *big.Rat in Val.Rat.
	KRat
	// KFloat values store a float64 in Val.Float.
	KFloat
	// KString and KChar store their text in Val.Str.
	KString
	KChar
	// KSymbol values store interned handles in Val.Sym with the spelling
	// mirrored in Val.Str.
	KSymbol
	// KList and KTuple store elements in Val.Cells.
	KList
	KTuple
	// KRecord stores field names in Val.Keys (insertion order) and values
	// in Val.Cells, index-aligned.
	KRecord
	// KFun covers functions, builtins, macros and special forms.  Val.Native
	// holds a *FunData; Val.FunKind discriminates further.
	KFun
	// KType wraps an opaque types.Type handle in Val.Native.
	KType
	// KSyntax wraps a quoted *ast.Node in Val.Node; syntax is a first-class
	// value.
	KSyntax
	// KCell is a mutable box stored as a *Cell in Val.Native.  Cells are the
	// only sanctioned mechanism for shared mutable state across closures.
	KCell
	// KQuantity wraps a *units.Quantity in Val.Native.
	KQuantity
	// KError values store a condition symbol in Val.Str, message data in
	// Val.Cells, and a *CallStack copy in Val.Native.
	KError

	kindMax
)

var kindStrings = []string{
	KInvalid:  "invalid",
	KUnit:     "unit",
	KBool:     "bool",
	KInt:      "int",
	KRat:      "rational",
	KFloat:    "float",
	KString:   "string",
	KChar:     "char",
	KSymbol:   "symbol",
	KList:     "list",
	KTuple:    "tuple",
	KRecord:   "record",
	KFun:      "function",
	KType:     "type",
	KSyntax:   "syntax",
	KCell:     "cell",
	KQuantity: "quantity",
	KError:    "error",
}

func (k VKind) String() string {
	if k >= kindMax {
		return kindStrings[KInvalid]
	}
	return kindStrings[k]
}

// FunKind classifies KFun values.  Macros and special forms receive
// unevaluated syntax; the result of a macro is re-evaluated while the result
// of a special form is final.
type FunKind uint8

const (
	FunRegular FunKind = iota
	FunMacro
	FunSpecial
)

var funKindStrings = []string{
	FunRegular: "function",
	FunMacro:   "macro",
	FunSpecial: "special form",
}

func (k FunKind) String() string {
	if int(k) >= len(funKindStrings) {
		return "invalid-function-kind"
	}
	return funKindStrings[k]
}

// Builtin is a native Go function.  Regular builtins receive evaluated
// arguments as a KList; special-form builtins receive KSyntax arguments.
type Builtin func(env *Env, args *Val) *Val

// FunData carries the callable payload of a KFun value.
type FunData struct {
	Builtin    Builtin
	Env        *Env // defining environment; nil for builtins
	FID        string
	Name       string       // definition-site name, for rendering and stacks
	Params     []intern.Sym // formal parameter handles
	ParamNames []string     // spellings matching Params
	Body       *ast.Node    // nil for builtins
	Unhygienic bool         // macro opted out of hygienic renaming
}

// Cell is a reference-counted mutable box in the language model; in Go the
// garbage collector supplies the longest-holder lifetime.
type Cell struct {
	v *Val
}

// Val is a verst value.
type Val struct {
	Kind    VKind
	FunKind FunKind
	Bool    bool
	Int     *big.Int
	Rat     *big.Rat
	Float   float64
	Str     string     // string/char text, symbol spelling, error condition
	Sym     intern.Sym // symbol and record-key handle
	Cells   []*Val
	Keys    []string // record field names, insertion ordered
	Node    *ast.Node
	Native  interface{}
	Source  *token.Location
}

var nativeLoc = &token.Location{File: "<native code>", Pos: -1}

func nativeSource() *token.Location { return nativeLoc }

// Singleton unit/bool values.  They are shared and immutable; callers must
// never mutate a Val returned by Unit or Bool.
var (
	singletonUnit  = &Val{Kind: KUnit, Source: nativeLoc}
	singletonTrue  = &Val{Kind: KBool, Bool: true, Source: nativeLoc}
	singletonFalse = &Val{Kind: KBool, Source: nativeLoc}
)

// Unit returns the unit value.
func Unit() *Val { return singletonUnit }

// Bool returns a boolean value with truthiness identical to b.
func Bool(b bool) *Val {
	if b {
		return singletonTrue
	}
	return singletonFalse
}

// Int returns an integer value.
func Int(x int64) *Val {
	return &Val{Kind: KInt, Int: big.NewInt(x), Source: nativeLoc}
}

// BigInt returns an integer value backed by x.  The caller must not mutate x
// afterwards.
func BigInt(x *big.Int) *Val {
	return &Val{Kind: KInt, Int: x, Source: nativeLoc}
}

// Rat returns a rational value backed by x.
func Rat(x *big.Rat) *Val {
	if x.IsInt() {
		return &Val{Kind: KInt, Int: new(big.Int).Set(x.Num()), Source: nativeLoc}
	}
	return &Val{Kind: KRat, Rat: x, Source: nativeLoc}
}

// Float returns a float value.
func Float(x float64) *Val {
	return &Val{Kind: KFloat, Float: x, Source: nativeLoc}
}

// String returns a string value.
func String(s string) *Val {
	return &Val{Kind: KString, Str: s, Source: nativeLoc}
}

// Char returns a character value.
func Char(c rune) *Val {
	return &Val{Kind: KChar, Str: string(c), Source: nativeLoc}
}

// Symbol returns a symbol value for an interned handle and its spelling.
func Symbol(sym intern.Sym, name string) *Val {
	return &Val{Kind: KSymbol, Sym: sym, Str: name, Source: nativeLoc}
}

// List returns a list value.  The provided cells are used as backing storage
// and are not copied.
func List(cells []*Val) *Val {
	return &Val{Kind: KList, Cells: cells, Source: nativeLoc}
}

// Tuple returns a tuple value backed by cells.
func Tuple(cells []*Val) *Val {
	return &Val{Kind: KTuple, Cells: cells, Source: nativeLoc}
}

// Record returns an empty record value.
func Record() *Val {
	return &Val{Kind: KRecord, Source: nativeLoc}
}

// RecordSet sets field name to v, preserving insertion order on first set.
func (v *Val) RecordSet(name string, val *Val) {
	for i, k := range v.Keys {
		if k == name {
			v.Cells[i] = val
			return
		}
	}
	v.Keys = append(v.Keys, name)
	v.Cells = append(v.Cells, val)
}

// RecordGet returns the value of field name, or nil when absent.
func (v *Val) RecordGet(name string) *Val {
	for i, k := range v.Keys {
		if k == name {
			return v.Cells[i]
		}
	}
	return nil
}

// Syntax returns a syntax value wrapping node.
func Syntax(node *ast.Node) *Val {
	return &Val{Kind: KSyntax, Node: node, Source: node.Source}
}

// NewCell returns a cell holding v.
func NewCell(v *Val) *Val {
	return &Val{Kind: KCell, Native: &Cell{v: v}, Source: nativeLoc}
}

// CellGet returns the cell contents.  CellGet panics when v is not a cell.
func (v *Val) CellGet() *Val {
	return v.cell().v
}

// CellSet replaces the cell contents, dropping the previous value.
func (v *Val) CellSet(x *Val) {
	v.cell().v = x
}

func (v *Val) cell() *Cell {
	if v.Kind != KCell {
		panic("not a cell: " + v.Kind.String())
	}
	return v.Native.(*Cell)
}

// Quantity returns a quantity value.
func Quantity(q *units.Quantity) *Val {
	return &Val{Kind: KQuantity, Native: q, Source: nativeLoc}
}

// QuantityData returns the wrapped quantity.  It panics when v is not a
// quantity.
func (v *Val) QuantityData() *units.Quantity {
	if v.Kind != KQuantity {
		panic("not a quantity: " + v.Kind.String())
	}
	return v.Native.(*units.Quantity)
}

// Type returns a type-handle value.
func Type(t types.Type) *Val {
	return &Val{Kind: KType, Native: t, Source: nativeLoc}
}

// TypeData returns the wrapped type handle.  It panics when v is not a type.
func (v *Val) TypeData() types.Type {
	if v.Kind != KType {
		panic("not a type: " + v.Kind.String())
	}
	return v.Native.(types.Type)
}

// Fun returns a builtin function value.
func Fun(fid string, name string, fn Builtin) *Val {
	return &Val{
		Kind:   KFun,
		Native: &FunData{FID: fid, Name: name, Builtin: fn},
		Source: nativeLoc,
	}
}

// Special returns a builtin special form, a callable that receives
// unevaluated syntax and whose result is not re-evaluated.
func Special(fid string, name string, fn Builtin) *Val {
	v := Fun(fid, name, fn)
	v.FunKind = FunSpecial
	return v
}

// FunData returns the callable payload.  It panics when v is not callable.
func (v *Val) FunData() *FunData {
	if v.Kind != KFun {
		panic("not a function: " + v.Kind.String())
	}
	return v.Native.(*FunData)
}

// IsMacro reports whether v is a macro value.  IsMacro only inspects
// v.FunKind.
func (v *Val) IsMacro() bool {
	return v.FunKind == FunMacro
}

// Error returns a KError with the given condition and message.  Errors
// created during evaluation should use the Env methods instead so the call
// stack is captured.
func Errorf(condition string, format string, args ...interface{}) *Val {
	return &Val{
		Kind:   KError,
		Str:    condition,
		Cells:  []*Val{String(fmt.Sprintf(format, args...))},
		Source: nativeLoc,
	}
}

// CallStackData returns the call stack attached to an error, or nil.
func (v *Val) CallStackData() *CallStack {
	if v.Kind != KError {
		panic("not an error: " + v.Kind.String())
	}
	stack, _ := v.Native.(*CallStack)
	return stack
}

// SetCallStack attaches a copy of stack to an error value.
func (v *Val) SetCallStack(stack *CallStack) {
	if v.Kind != KError {
		panic("not an error: " + v.Kind.String())
	}
	v.Native = stack.Copy()
}

// IsNumeric reports whether v is int, rational, or float.
func (v *Val) IsNumeric() bool {
	switch v.Kind {
	case KInt, KRat, KFloat:
		return true
	}
	return false
}

// Len returns the element count for sequence kinds and -1 otherwise.
func (v *Val) Len() int {
	switch v.Kind {
	case KString:
		return len(v.Str)
	case KList, KTuple, KRecord:
		return len(v.Cells)
	}
	return -1
}

// Equal compares v and other under the rules of the == operator.  Values of
// distinct kinds do not compare; Equal returns a type-mismatch error rather
// than silently deciding "not equal".  Numeric kinds compare exactly among
// themselves.
func (v *Val) Equal(other *Val) *Val {
	if v.IsNumeric() && other.IsNumeric() {
		c, ok := numCmp(v, other)
		if !ok {
			return Errorf(CondTypeMismatch, "NaN admits no comparison")
		}
		return Bool(c == 0)
	}
	if v.Kind != other.Kind {
		return Errorf(CondTypeMismatch, "cannot compare %s with %s", v.Kind, other.Kind)
	}
	switch v.Kind {
	case KUnit:
		return Bool(true)
	case KBool:
		return Bool(v.Bool == other.Bool)
	case KString, KChar:
		return Bool(v.Str == other.Str)
	case KSymbol:
		return Bool(v.Sym == other.Sym)
	case KList, KTuple:
		if len(v.Cells) != len(other.Cells) {
			return Bool(false)
		}
		for i := range v.Cells {
			r := v.Cells[i].Equal(other.Cells[i])
			if r.Kind == KError || !r.Bool {
				return r
			}
		}
		return Bool(true)
	case KRecord:
		if len(v.Keys) != len(other.Keys) {
			return Bool(false)
		}
		for i, k := range v.Keys {
			o := other.RecordGet(k)
			if o == nil {
				return Bool(false)
			}
			r := v.Cells[i].Equal(o)
			if r.Kind == KError || !r.Bool {
				return r
			}
		}
		return Bool(true)
	case KSyntax:
		return Bool(ast.Equal(v.Node, other.Node))
	case KQuantity:
		a, b := v.QuantityData(), other.QuantityData()
		if a.Dim != b.Dim {
			return Errorf(CondUnitMismatch, "cannot compare quantities of dimension %s and %s", a.Dim, b.Dim)
		}
		return Bool(a.Mag.Cmp(b.Mag) == 0)
	case KType:
		return Bool(v.TypeData().Name() == other.TypeData().Name())
	case KCell:
		return Bool(v.Native == other.Native)
	}
	return Errorf(CondTypeMismatch, "values of kind %s are not comparable", v.Kind)
}

// numCmp compares two numeric values exactly.  Floats are compared through
// rationals so that 1 == 1.0 holds without rounding surprises; infinities
// order as extremes beyond every finite value.  ok is false when either
// value is NaN, which admits no ordering.
func numCmp(a, b *Val) (c int, ok bool) {
	sa, nana := floatClass(a)
	sb, nanb := floatClass(b)
	if nana || nanb {
		return 0, false
	}
	if sa != 0 || sb != 0 {
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		}
		return 0, true
	}
	return numRat(a).Cmp(numRat(b)), true
}

// floatClass returns the infinity sign of v (-1, 0, +1) and whether v is
// NaN.  Non-float kinds are always finite.
func floatClass(v *Val) (inf int, nan bool) {
	if v.Kind != KFloat {
		return 0, false
	}
	switch {
	case math.IsNaN(v.Float):
		return 0, true
	case math.IsInf(v.Float, 1):
		return 1, false
	case math.IsInf(v.Float, -1):
		return -1, false
	}
	return 0, false
}

// numRat converts a finite numeric value to an exact rational.  Callers must
// reject non-finite floats first; see finiteRat.
func numRat(v *Val) *big.Rat {
	switch v.Kind {
	case KInt:
		return new(big.Rat).SetInt(v.Int)
	case KRat:
		return v.Rat
	case KFloat:
		if r := new(big.Rat).SetFloat64(v.Float); r != nil {
			return r
		}
		panic("not finite: " + strconv.FormatFloat(v.Float, 'g', -1, 64))
	}
	panic("not numeric: " + v.Kind.String())
}

func (v *Val) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *Val) write(buf *bytes.Buffer) {
	switch v.Kind {
	case KUnit:
		buf.WriteString("()")
	case KBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KInt:
		buf.WriteString(v.Int.String())
	case KRat:
		buf.WriteString(v.Rat.RatString())
	case KFloat:
		buf.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KString:
		fmt.Fprintf(buf, "%q", v.Str)
	case KChar:
		fmt.Fprintf(buf, "%q", []rune(v.Str)[0])
	case KSymbol:
		buf.WriteString(":" + v.Str)
	case KList:
		buf.WriteString("[")
		writeCells(buf, v.Cells)
		buf.WriteString("]")
	case KTuple:
		buf.WriteString("(")
		writeCells(buf, v.Cells)
		buf.WriteString(")")
	case KRecord:
		buf.WriteString("{")
		for i, k := range v.Keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(k + ": ")
			v.Cells[i].write(buf)
		}
		buf.WriteString("}")
	case KFun:
		fd := v.FunData()
		if fd.Builtin != nil {
			fmt.Fprintf(buf, "#<builtin %s>", fd.Name)
			return
		}
		fmt.Fprintf(buf, "#<%s %s>", v.FunKind, fd.Name)
	case KType:
		buf.WriteString(v.TypeData().Name())
	case KSyntax:
		buf.WriteString("quote ")
		buf.WriteString(v.Node.String())
	case KCell:
		buf.WriteString("cell(")
		v.CellGet().write(buf)
		buf.WriteString(")")
	case KQuantity:
		buf.WriteString(v.QuantityData().String())
	case KError:
		buf.WriteString((*ErrorVal)(v).Error())
	default:
		fmt.Fprintf(buf, "#<%s %#v>", v.Kind, v)
	}
}

func writeCells(buf *bytes.Buffer, cells []*Val) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(", ")
		}
		c.write(buf)
	}
}
