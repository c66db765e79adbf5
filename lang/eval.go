// Copyright © 2026 The Verst authors

package lang

import (
	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/types"
)

// Eval evaluates a syntax node and returns its value.  Errors are returned
// in band as KError values; they propagate outward unmodified from the point
// of failure.  Conditionals, blocks, and macro expansions re-enter the
// dispatch loop without growing the Go stack.
func (env *Env) Eval(n *ast.Node) *Val {
	expansions := 0
eval:
	if n.Source != nil {
		env.Loc = n.Source
	}
	switch n.Kind {
	case ast.UnitLit:
		return Unit()
	case ast.BoolLit:
		return Bool(n.Bool)
	case ast.IntLit:
		// Node trees are immutable so the big.Int may be shared.
		return BigInt(n.Num)
	case ast.FloatLit:
		return Float(n.Float)
	case ast.StringLit:
		return String(n.Text)
	case ast.CharLit:
		return Char([]rune(n.Text)[0])
	case ast.SymbolLit:
		return Symbol(n.Sym, n.Text)
	case ast.Ident:
		return env.Get(n)
	case ast.ListLit:
		cells, lerr := env.evalCells(n.Cells)
		if lerr != nil {
			return lerr
		}
		return List(cells)
	case ast.TupleLit:
		cells, lerr := env.evalCells(n.Cells)
		if lerr != nil {
			return lerr
		}
		return Tuple(cells)
	case ast.RecordLit:
		rec := Record()
		for _, field := range n.Cells {
			v := env.Eval(field.Cells[0])
			if v.Kind == KError {
				return v
			}
			rec.RecordSet(field.Text, v)
		}
		return rec
	case ast.QuantityLit:
		return env.evalQuantity(n)
	case ast.Quote:
		return env.evalQuote(n)
	case ast.Unquote, ast.UnquoteSplice:
		return env.ErrorConditionf(CondParse, "unquote outside of a quote template")
	case ast.If:
		cond := env.Eval(n.Cells[0])
		if cond.Kind == KError {
			return cond
		}
		if cond.Kind != KBool {
			return env.ErrorConditionf(CondTypeMismatch, "condition is %s, not bool", cond.Kind)
		}
		if cond.Bool {
			n = n.Cells[1]
		} else {
			n = n.Cells[2]
		}
		goto eval
	case ast.Block:
		if len(n.Cells) == 0 {
			return Unit()
		}
		benv := NewEnv(env)
		for _, stmt := range n.Cells[:len(n.Cells)-1] {
			v := benv.Eval(stmt)
			if v.Kind == KError {
				return v
			}
		}
		env = benv
		n = n.Cells[len(n.Cells)-1]
		goto eval
	case ast.Let:
		target := n.Cells[0]
		v := env.Eval(n.Cells[1])
		if v.Kind == KError {
			return v
		}
		env.Define(target.Sym, v)
		return Unit()
	case ast.Assign:
		target := n.Cells[0]
		v := env.Eval(n.Cells[1])
		if v.Kind == KError {
			return v
		}
		return env.Set(target, v)
	case ast.Lambda:
		return env.Lambda("", n.Cells[0], n.Cells[1])
	case ast.FnDef:
		name := n.Cells[0]
		fun := env.Lambda(name.Text, n.Cells[1], n.Cells[2])
		env.Define(name.Sym, fun)
		return Unit()
	case ast.MacroDef:
		name := n.Cells[0]
		mac := env.Lambda(name.Text, n.Cells[1], n.Cells[2])
		mac.FunKind = FunMacro
		mac.FunData().Unhygienic = n.Bool
		env.Define(name.Sym, mac)
		return Unit()
	case ast.TypeOf:
		return env.evalTypeOf(n.Cells[0])
	case ast.Apply:
		v, expansion := env.evalApply(n)
		if expansion == nil {
			return v
		}
		expansions++
		max := env.Runtime.MaxMacroExpansionDepth
		if max > 0 && expansions > max {
			return env.ErrorConditionf(CondMacroExpansion,
				"macro expansion exceeds %d iterations", max)
		}
		n = expansion
		goto eval
	}
	return env.Errorf("cannot evaluate %s node", n.Kind)
}

func (env *Env) evalCells(nodes []*ast.Node) ([]*Val, *Val) {
	cells := make([]*Val, len(nodes))
	for i, c := range nodes {
		v := env.Eval(c)
		if v.Kind == KError {
			return nil, v
		}
		cells[i] = v
	}
	return cells, nil
}

func (env *Env) evalQuantity(n *ast.Node) *Val {
	mag := env.Eval(n.Cells[0])
	if mag.Kind == KError {
		return mag
	}
	if !mag.IsNumeric() {
		return env.ErrorConditionf(CondTypeMismatch, "quantity magnitude is %s, not a number", mag.Kind)
	}
	r, lerr := finiteRat(env, mag)
	if lerr != nil {
		return lerr
	}
	q, err := env.Runtime.Units.Make(r, n.Text)
	if err != nil {
		return env.ErrorCondition(CondUnitMismatch, err)
	}
	return Quantity(q)
}

func (env *Env) evalTypeOf(n *ast.Node) *Val {
	t, err := env.Runtime.Inferrer.Infer(n, types.NewTypeEnv())
	if err != nil {
		return env.ErrorCondition(CondTypeMismatch, err)
	}
	return Type(t)
}

// evalApply evaluates an application node.  When the callee turns out to be
// a macro, evalApply returns the expansion for the caller to re-evaluate in
// the same environment instead of a value.
func (env *Env) evalApply(n *ast.Node) (*Val, *ast.Node) {
	callee := env.Eval(n.Cells[0])
	if callee.Kind == KError {
		return callee, nil
	}
	if callee.Kind != KFun {
		return env.ErrorConditionf(CondNotCallable,
			"cannot call %s value: %s", callee.Kind, callee), nil
	}
	switch callee.FunKind {
	case FunMacro:
		return env.macroCall(callee, n)
	case FunSpecial:
		args := make([]*Val, len(n.Cells)-1)
		for i, a := range n.Cells[1:] {
			args[i] = Syntax(a)
		}
		return env.funCall(callee, args), nil
	default:
		args, lerr := env.evalCells(n.Cells[1:])
		if lerr != nil {
			return lerr, nil
		}
		return env.funCall(callee, args), nil
	}
}

// funCall invokes a callable with already-prepared arguments, maintaining
// the call stack and the profiler.
func (env *Env) funCall(callee *Val, args []*Val) *Val {
	fd := callee.FunData()
	err := env.Runtime.Stack.Push(env.Loc, fd.FID, fd.Name, callee.IsMacro())
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()
	if prof := env.Runtime.Profiler; prof != nil && prof.IsEnabled() {
		defer prof.Start(callee)()
	}
	if fd.Builtin != nil {
		ret := fd.Builtin(env, List(args))
		if ret.Kind == KError {
			env.errorAssociate(ret)
		}
		return ret
	}
	fenv := newEnvN(fd.Env, len(fd.Params))
	if lerr := fenv.bind(fd, args); lerr != nil {
		return lerr
	}
	return fenv.Eval(fd.Body)
}

// bind binds formal parameters in env.  Arity must match exactly.
func (env *Env) bind(fd *FunData, args []*Val) *Val {
	if len(args) != len(fd.Params) {
		return env.ErrorConditionf(CondArityMismatch,
			"%s expects %d arguments, got %d", funDisplayName(fd), len(fd.Params), len(args))
	}
	for i, sym := range fd.Params {
		env.Put(sym, args[i])
	}
	return nil
}

func funDisplayName(fd *FunData) string {
	if fd.Name != "" {
		return fd.Name
	}
	return fd.FID
}
