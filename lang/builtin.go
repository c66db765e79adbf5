// Copyright © 2026 The Verst authors

package lang

import (
	"fmt"
	"math"
	"math/big"
)

// BuiltinDef pairs a global name with its native implementation.
type BuiltinDef struct {
	name string
	fn   Builtin
}

// NewBuiltin constructs a builtin definition for AddBuiltins.
func NewBuiltin(name string, fn Builtin) BuiltinDef {
	return BuiltinDef{name: name, fn: fn}
}

// DefaultBuiltins returns the native functions bound into every session.
func DefaultBuiltins() []BuiltinDef {
	return []BuiltinDef{
		{"+", builtinAdd},
		{"-", builtinSub},
		{"*", builtinMul},
		{"/", builtinDiv},
		{"%", builtinMod},
		{"^", builtinPow},
		{"==", builtinEq},
		{"!=", builtinNE},
		{"<", builtinCmp("<")},
		{"<=", builtinCmp("<=")},
		{">", builtinCmp(">")},
		{">=", builtinCmp(">=")},
		{"!", builtinNot},
		{"len", builtinLen},
		{"nth", builtinNth},
		{"head", builtinHead},
		{"tail", builtinTail},
		{"push", builtinPush},
		{"str", builtinStr},
		{"print", builtinPrint},
		{"eval", builtinEval},
		{"gensym", builtinGensym},
		{"cell", builtinCell},
		{"get", builtinGet},
		{"set", builtinSet},
		{"convert", builtinConvert},
	}
}

// DefaultSpecials returns the native special forms bound into every session.
// Their arguments arrive unevaluated as syntax.
func DefaultSpecials() []BuiltinDef {
	return []BuiltinDef{
		{"&&", builtinAnd},
		{"||", builtinOr},
	}
}

func checkArity(env *Env, name string, args *Val, n int) *Val {
	if len(args.Cells) != n {
		return env.ErrorConditionf(CondArityMismatch,
			"%s expects %d arguments, got %d", name, n, len(args.Cells))
	}
	return nil
}

func arg2(env *Env, name string, args *Val) (*Val, *Val, *Val) {
	if lerr := checkArity(env, name, args, 2); lerr != nil {
		return nil, nil, lerr
	}
	return args.Cells[0], args.Cells[1], nil
}

func builtinAdd(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "+", args)
	if lerr != nil {
		return lerr
	}
	switch {
	case a.Kind == KString && b.Kind == KString:
		return String(a.Str + b.Str)
	case a.Kind == KList && b.Kind == KList:
		cells := make([]*Val, 0, len(a.Cells)+len(b.Cells))
		cells = append(cells, a.Cells...)
		cells = append(cells, b.Cells...)
		return List(cells)
	case a.Kind == KQuantity && b.Kind == KQuantity:
		q, err := env.Runtime.Units.Add(a.QuantityData(), b.QuantityData())
		if err != nil {
			return env.ErrorCondition(CondUnitMismatch, err)
		}
		return Quantity(q)
	}
	return numArith(env, "+", a, b)
}

func builtinSub(env *Env, args *Val) *Val {
	if len(args.Cells) == 1 {
		return numNeg(env, args.Cells[0])
	}
	a, b, lerr := arg2(env, "-", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind == KQuantity && b.Kind == KQuantity {
		q, err := env.Runtime.Units.Sub(a.QuantityData(), b.QuantityData())
		if err != nil {
			return env.ErrorCondition(CondUnitMismatch, err)
		}
		return Quantity(q)
	}
	return numArith(env, "-", a, b)
}

func builtinMul(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "*", args)
	if lerr != nil {
		return lerr
	}
	switch {
	case a.Kind == KQuantity && b.Kind == KQuantity:
		return Quantity(env.Runtime.Units.Mul(a.QuantityData(), b.QuantityData()))
	case a.Kind == KQuantity && b.IsNumeric():
		r, lerr := finiteRat(env, b)
		if lerr != nil {
			return lerr
		}
		return Quantity(env.Runtime.Units.Scale(a.QuantityData(), r))
	case a.IsNumeric() && b.Kind == KQuantity:
		r, lerr := finiteRat(env, a)
		if lerr != nil {
			return lerr
		}
		return Quantity(env.Runtime.Units.Scale(b.QuantityData(), r))
	}
	return numArith(env, "*", a, b)
}

func builtinDiv(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "/", args)
	if lerr != nil {
		return lerr
	}
	switch {
	case a.Kind == KQuantity && b.Kind == KQuantity:
		q, err := env.Runtime.Units.Div(a.QuantityData(), b.QuantityData())
		if err != nil {
			return env.ErrorCondition(CondUnitMismatch, err)
		}
		if q.Dim.Scalar() {
			return Rat(new(big.Rat).Set(q.Mag))
		}
		return Quantity(q)
	case a.Kind == KQuantity && b.IsNumeric():
		r, lerr := finiteRat(env, b)
		if lerr != nil {
			return lerr
		}
		if r.Sign() == 0 {
			return env.Errorf("division by zero")
		}
		return Quantity(env.Runtime.Units.Scale(a.QuantityData(), new(big.Rat).Inv(r)))
	}
	return numArith(env, "/", a, b)
}

func builtinMod(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "%", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind != KInt || b.Kind != KInt {
		return env.ErrorConditionf(CondTypeMismatch,
			"%% requires integers, got %s and %s", a.Kind, b.Kind)
	}
	if b.Int.Sign() == 0 {
		return env.Errorf("division by zero")
	}
	return BigInt(new(big.Int).Rem(a.Int, b.Int))
}

func builtinPow(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "^", args)
	if lerr != nil {
		return lerr
	}
	if b.Kind != KInt || !b.Int.IsInt64() {
		return env.ErrorConditionf(CondTypeMismatch, "exponent must be an integer")
	}
	n := int(b.Int.Int64())
	if a.Kind == KQuantity {
		return Quantity(env.Runtime.Units.Pow(a.QuantityData(), n))
	}
	if !a.IsNumeric() {
		return env.ErrorConditionf(CondTypeMismatch, "cannot exponentiate %s", a.Kind)
	}
	base, lerr := finiteRat(env, a)
	if lerr != nil {
		return lerr
	}
	if n < 0 {
		if base.Sign() == 0 {
			return env.Errorf("division by zero")
		}
		r := new(big.Rat).SetInt64(1)
		inv := new(big.Rat).Inv(base)
		for i := 0; i < -n; i++ {
			r.Mul(r, inv)
		}
		return Rat(r)
	}
	r := new(big.Rat).SetInt64(1)
	for i := 0; i < n; i++ {
		r.Mul(r, base)
	}
	if a.Kind == KFloat {
		f, _ := r.Float64()
		return Float(f)
	}
	return Rat(r)
}

// finiteRat converts a numeric value to an exact rational.  Non-finite
// floats have none and fail with type-mismatch.
func finiteRat(env *Env, v *Val) (*big.Rat, *Val) {
	if v.Kind == KFloat && (math.IsInf(v.Float, 0) || math.IsNaN(v.Float)) {
		return nil, env.ErrorConditionf(CondTypeMismatch, "%g has no exact value", v.Float)
	}
	return numRat(v), nil
}

// numArith performs binary arithmetic on the numeric tower: ints stay exact,
// rationals absorb ints, floats contaminate everything.
func numArith(env *Env, op string, a, b *Val) *Val {
	if !a.IsNumeric() || !b.IsNumeric() {
		return env.ErrorConditionf(CondTypeMismatch,
			"%s is not defined on %s and %s", op, a.Kind, b.Kind)
	}
	if a.Kind == KFloat || b.Kind == KFloat {
		x, y := numFloat(a), numFloat(b)
		switch op {
		case "+":
			return Float(x + y)
		case "-":
			return Float(x - y)
		case "*":
			return Float(x * y)
		case "/":
			if y == 0 {
				return env.Errorf("division by zero")
			}
			return Float(x / y)
		}
	}
	x, y := numRat(a), numRat(b)
	switch op {
	case "+":
		return Rat(new(big.Rat).Add(x, y))
	case "-":
		return Rat(new(big.Rat).Sub(x, y))
	case "*":
		return Rat(new(big.Rat).Mul(x, y))
	case "/":
		if y.Sign() == 0 {
			return env.Errorf("division by zero")
		}
		return Rat(new(big.Rat).Quo(x, y))
	}
	panic("unknown operator: " + op)
}

func numNeg(env *Env, a *Val) *Val {
	switch a.Kind {
	case KInt:
		return BigInt(new(big.Int).Neg(a.Int))
	case KRat:
		return Rat(new(big.Rat).Neg(a.Rat))
	case KFloat:
		return Float(-a.Float)
	case KQuantity:
		return Quantity(env.Runtime.Units.Scale(a.QuantityData(), big.NewRat(-1, 1)))
	}
	return env.ErrorConditionf(CondTypeMismatch, "cannot negate %s", a.Kind)
}

func numFloat(v *Val) float64 {
	switch v.Kind {
	case KInt:
		f, _ := new(big.Float).SetInt(v.Int).Float64()
		return f
	case KRat:
		f, _ := v.Rat.Float64()
		return f
	case KFloat:
		return v.Float
	}
	panic("not numeric: " + v.Kind.String())
}

func builtinEq(env *Env, args *Val) *Val {
	a, b, lerr := arg2(env, "==", args)
	if lerr != nil {
		return lerr
	}
	r := a.Equal(b)
	if r.Kind == KError {
		env.errorAssociate(r)
	}
	return r
}

func builtinNE(env *Env, args *Val) *Val {
	r := builtinEq(env, args)
	if r.Kind == KError {
		return r
	}
	return Bool(!r.Bool)
}

func builtinCmp(op string) Builtin {
	return func(env *Env, args *Val) *Val {
		a, b, lerr := arg2(env, op, args)
		if lerr != nil {
			return lerr
		}
		var c int
		switch {
		case a.IsNumeric() && b.IsNumeric():
			var ok bool
			c, ok = numCmp(a, b)
			if !ok {
				return env.ErrorConditionf(CondTypeMismatch, "NaN admits no comparison")
			}
		case a.Kind == KString && b.Kind == KString:
			switch {
			case a.Str < b.Str:
				c = -1
			case a.Str > b.Str:
				c = 1
			}
		case a.Kind == KQuantity && b.Kind == KQuantity:
			var err error
			c, err = env.Runtime.Units.Cmp(a.QuantityData(), b.QuantityData())
			if err != nil {
				return env.ErrorCondition(CondUnitMismatch, err)
			}
		default:
			return env.ErrorConditionf(CondTypeMismatch,
				"%s is not defined on %s and %s", op, a.Kind, b.Kind)
		}
		switch op {
		case "<":
			return Bool(c < 0)
		case "<=":
			return Bool(c <= 0)
		case ">":
			return Bool(c > 0)
		case ">=":
			return Bool(c >= 0)
		}
		panic("unknown operator: " + op)
	}
}

func builtinNot(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "!", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind != KBool {
		return env.ErrorConditionf(CondTypeMismatch, "! requires bool, got %s", a.Kind)
	}
	return Bool(!a.Bool)
}

func builtinLen(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "len", args, 1); lerr != nil {
		return lerr
	}
	n := args.Cells[0].Len()
	if n < 0 {
		return env.ErrorConditionf(CondTypeMismatch, "len is not defined on %s", args.Cells[0].Kind)
	}
	return Int(int64(n))
}

func builtinNth(env *Env, args *Val) *Val {
	a, i, lerr := arg2(env, "nth", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind != KList && a.Kind != KTuple {
		return env.ErrorConditionf(CondTypeMismatch, "nth is not defined on %s", a.Kind)
	}
	if i.Kind != KInt || !i.Int.IsInt64() {
		return env.ErrorConditionf(CondTypeMismatch, "index must be an integer")
	}
	idx := i.Int.Int64()
	if idx < 0 || idx >= int64(len(a.Cells)) {
		return env.Errorf("index %d out of range [0, %d)", idx, len(a.Cells))
	}
	return a.Cells[idx]
}

func builtinHead(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "head", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind != KList {
		return env.ErrorConditionf(CondTypeMismatch, "head is not defined on %s", a.Kind)
	}
	if len(a.Cells) == 0 {
		return env.Errorf("head of empty list")
	}
	return a.Cells[0]
}

func builtinTail(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "tail", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind != KList {
		return env.ErrorConditionf(CondTypeMismatch, "tail is not defined on %s", a.Kind)
	}
	if len(a.Cells) == 0 {
		return env.Errorf("tail of empty list")
	}
	return List(a.Cells[1:])
}

func builtinPush(env *Env, args *Val) *Val {
	a, v, lerr := arg2(env, "push", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind != KList {
		return env.ErrorConditionf(CondTypeMismatch, "push is not defined on %s", a.Kind)
	}
	cells := make([]*Val, 0, len(a.Cells)+1)
	cells = append(cells, a.Cells...)
	cells = append(cells, v)
	return List(cells)
}

func builtinStr(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "str", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind == KString {
		return a
	}
	if a.Kind == KQuantity {
		return String(env.Runtime.Units.Format(a.QuantityData()))
	}
	return String(a.String())
}

func builtinPrint(env *Env, args *Val) *Val {
	for i, a := range args.Cells {
		if i > 0 {
			fmt.Fprint(env.Runtime.getStderr(), " ")
		}
		if a.Kind == KString {
			fmt.Fprint(env.Runtime.getStderr(), a.Str)
		} else {
			fmt.Fprint(env.Runtime.getStderr(), a.String())
		}
	}
	fmt.Fprintln(env.Runtime.getStderr())
	return Unit()
}

func builtinEval(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "eval", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind != KSyntax {
		return env.ErrorConditionf(CondTypeMismatch, "eval requires syntax, got %s", a.Kind)
	}
	return env.Eval(a.Node)
}

func builtinGensym(env *Env, args *Val) *Val {
	if len(args.Cells) > 1 {
		return env.ErrorConditionf(CondArityMismatch,
			"gensym expects at most 1 argument, got %d", len(args.Cells))
	}
	base := "gen"
	if len(args.Cells) == 1 {
		if args.Cells[0].Kind != KString {
			return env.ErrorConditionf(CondTypeMismatch, "gensym base must be a string")
		}
		base = args.Cells[0].Str
	}
	return Syntax(env.GenSym(base))
}

func builtinCell(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "cell", args, 1); lerr != nil {
		return lerr
	}
	return NewCell(args.Cells[0])
}

func builtinGet(env *Env, args *Val) *Val {
	if lerr := checkArity(env, "get", args, 1); lerr != nil {
		return lerr
	}
	a := args.Cells[0]
	if a.Kind != KCell {
		return env.ErrorConditionf(CondTypeMismatch, "get requires a cell, got %s", a.Kind)
	}
	return a.CellGet()
}

func builtinSet(env *Env, args *Val) *Val {
	a, v, lerr := arg2(env, "set", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind != KCell {
		return env.ErrorConditionf(CondTypeMismatch, "set requires a cell, got %s", a.Kind)
	}
	a.CellSet(v)
	return Unit()
}

func builtinConvert(env *Env, args *Val) *Val {
	a, u, lerr := arg2(env, "convert", args)
	if lerr != nil {
		return lerr
	}
	if a.Kind != KQuantity {
		return env.ErrorConditionf(CondTypeMismatch, "convert requires a quantity, got %s", a.Kind)
	}
	if u.Kind != KString && u.Kind != KSymbol {
		return env.ErrorConditionf(CondTypeMismatch, "convert target must name a unit")
	}
	q, err := env.Runtime.Units.Convert(a.QuantityData(), u.Str)
	if err != nil {
		return env.ErrorCondition(CondUnitMismatch, err)
	}
	return Quantity(q)
}

// builtinAnd and builtinOr are special forms so the right operand only
// evaluates when the left does not decide the result.
func builtinAnd(env *Env, args *Val) *Val {
	return shortCircuit(env, "&&", args, false)
}

func builtinOr(env *Env, args *Val) *Val {
	return shortCircuit(env, "||", args, true)
}

func shortCircuit(env *Env, name string, args *Val, stop bool) *Val {
	if lerr := checkArity(env, name, args, 2); lerr != nil {
		return lerr
	}
	for _, arg := range args.Cells {
		if arg.Kind != KSyntax {
			return env.ErrorConditionf(CondTypeMismatch, "%s requires syntax arguments", name)
		}
		v := env.Eval(arg.Node)
		if v.Kind == KError {
			return v
		}
		if v.Kind != KBool {
			return env.ErrorConditionf(CondTypeMismatch,
				"%s operand is %s, not bool", name, v.Kind)
		}
		if v.Bool == stop {
			return Bool(stop)
		}
	}
	return Bool(!stop)
}
