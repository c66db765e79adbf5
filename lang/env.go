// Copyright © 2026 The Verst authors

package lang

import (
	"fmt"
	"io"
	"strings"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/token"
)

// Env is a verst lexical environment: one scope in a chain.  Shadowing is
// implemented by binding in the innermost scope; existing bindings are only
// mutated through Update.  Closures share the chain alive at their
// definition point.
type Env struct {
	Loc     *token.Location
	Scope   map[intern.Sym]*Val
	Parent  *Env
	Runtime *Runtime
	ID      uint
}

// NewEnvRuntime initializes a root Env over an explicit runtime.  When rt is
// nil a StandardRuntime is created.  Sharing one runtime between envs that
// are not in the same tree has unspecified results.
func NewEnvRuntime(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{
		ID:      rt.GenEnvID(),
		Scope:   make(map[intern.Sym]*Val),
		Runtime: rt,
	}
}

// NewEnv returns a child scope of parent.
func NewEnv(parent *Env) *Env {
	return newEnvN(parent, 0)
}

// newEnvN creates a child Env with its scope pre-sized for n bindings.
func newEnvN(parent *Env, n int) *Env {
	var rt *Runtime
	var loc *token.Location
	if parent != nil {
		rt = parent.Runtime
		loc = parent.Loc
	} else {
		rt = StandardRuntime()
		loc = nativeSource()
	}
	return &Env{
		ID:      rt.GenEnvID(),
		Loc:     loc,
		Scope:   make(map[intern.Sym]*Val, n),
		Parent:  parent,
		Runtime: rt,
	}
}

// NewSession initializes a root environment with the default builtins bound
// and applies the given configuration functions.
func NewSession(config ...Config) (*Env, error) {
	env := NewEnvRuntime(nil)
	env.AddBuiltins(DefaultBuiltins()...)
	env.AddSpecials(DefaultSpecials()...)
	for _, fn := range config {
		if lerr := fn(env); lerr.Kind == KError {
			return nil, GoError(lerr)
		}
	}
	return env, nil
}

func (env *Env) getFID() string {
	return fmt.Sprintf("_fun%d", env.ID)
}

// GenSym returns a fresh identifier node guaranteed not to collide with any
// user spelling.
func (env *Env) GenSym(base string) *ast.Node {
	sym, name := env.Runtime.GenSym(base)
	return ast.NewIdent(sym, name)
}

// Intern is a convenience for the session interner.
func (env *Env) Intern(name string) intern.Sym {
	return env.Runtime.Interner.Intern(name)
}

// SymName returns the spelling of an interned handle.
func (env *Env) SymName(sym intern.Sym) string {
	return env.Runtime.Interner.Name(sym)
}

// Put binds sym in the current scope, shadowing any outer binding.
func (env *Env) Put(sym intern.Sym, v *Val) {
	env.Scope[sym] = v
}

// Define binds sym in the current scope, or in the module globals when env
// is the session root, preserving global definition order for later phases.
func (env *Env) Define(sym intern.Sym, v *Val) {
	if env.Parent == nil {
		env.Runtime.Module.Put(env.SymName(sym), v)
		return
	}
	env.Scope[sym] = v
}

// lookup resolves sym through the scope chain and then the module globals.
func (env *Env) lookup(sym intern.Sym) (*Val, bool) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[sym]; ok {
			return v, true
		}
	}
	name := env.SymName(sym)
	if v := env.Runtime.Module.Get(name); v != nil {
		return v, true
	}
	return nil, false
}

// Get resolves an identifier node, honoring its hygiene scope tag: tagged
// identifiers resolve through the macro's defining environment before the
// use site, so definition-site captures are immune to use-site shadowing.
func (env *Env) Get(n *ast.Node) *Val {
	if n.Kind != ast.Ident {
		return env.Errorf("not an identifier: %v", n.Kind)
	}
	if n.Scope != 0 {
		if defEnv := env.Runtime.expansionEnv(n.Scope); defEnv != nil {
			if v, ok := defEnv.lookup(n.Sym); ok {
				return v
			}
		}
	}
	if v, ok := env.lookup(n.Sym); ok {
		return v
	}
	return env.undefined(n)
}

func (env *Env) undefined(n *ast.Node) *Val {
	if env.Runtime.isMacroInternal(n.Sym) && n.Scope == 0 {
		return env.ErrorConditionf(CondHygiene,
			"unbound symbol: %s (the name is macro-internal; it was renamed by a hygienic expansion)", n.Text)
	}
	return env.ErrorConditionf(CondUndefined, "unbound symbol: %s", n.Text)
}

// Update rebinds the nearest existing binding of sym.  Update fails with
// undefined-variable when sym is not bound anywhere in scope.
func (env *Env) Update(sym intern.Sym, v *Val) *Val {
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[sym]; ok {
			e.Scope[sym] = v
			return Unit()
		}
	}
	name := env.SymName(sym)
	if env.Runtime.Module.Update(name, v) {
		return Unit()
	}
	return env.ErrorConditionf(CondUndefined, "unbound symbol: %s", name)
}

// Set rebinds the binding an identifier node resolves to, honoring its
// hygiene scope tag the way Get does: tagged identifiers update through the
// macro's defining environment before the use site, so a template assignment
// cannot capture a use-site shadow.
func (env *Env) Set(n *ast.Node, v *Val) *Val {
	if n.Kind != ast.Ident {
		return env.Errorf("not an identifier: %v", n.Kind)
	}
	if n.Scope != 0 {
		if defEnv := env.Runtime.expansionEnv(n.Scope); defEnv != nil {
			if lerr := defEnv.Update(n.Sym, v); lerr.Kind != KError {
				return lerr
			}
		}
	}
	return env.Update(n.Sym, v)
}

// Lambda returns a function value closing over env.
func (env *Env) Lambda(name string, params *ast.Node, body *ast.Node) *Val {
	fenv := NewEnv(env)
	syms := make([]intern.Sym, len(params.Cells))
	names := make([]string, len(params.Cells))
	for i, p := range params.Cells {
		syms[i] = p.Sym
		names[i] = p.Text
	}
	return &Val{
		Kind:   KFun,
		Source: env.Loc,
		Native: &FunData{
			FID:        fenv.getFID(),
			Name:       name,
			Env:        fenv,
			Params:     syms,
			ParamNames: names,
			Body:       body,
		},
	}
}

// AddBuiltins binds builtin functions into the module globals.
func (env *Env) AddBuiltins(defs ...BuiltinDef) {
	for _, def := range defs {
		fid := fmt.Sprintf("<builtin ``%s''>", def.name)
		v := Fun(fid, def.name, def.fn)
		env.Runtime.Module.Put(def.name, v)
		env.Intern(def.name)
	}
}

// AddSpecials binds builtin special forms into the module globals.
func (env *Env) AddSpecials(defs ...BuiltinDef) {
	for _, def := range defs {
		fid := fmt.Sprintf("<special ``%s''>", def.name)
		v := Special(fid, def.name, def.fn)
		env.Runtime.Module.Put(def.name, v)
		env.Intern(def.name)
	}
}

// Error returns a KError with the generic condition and a message rendered
// from msg, capturing the current call stack and source location.
func (env *Env) Error(msg ...interface{}) *Val {
	return env.ErrorCondition(CondError, msg...)
}

// ErrorCondition returns a KError with the given condition.  msg may be a
// single Go error or any number of values.
func (env *Env) ErrorCondition(condition string, msg ...interface{}) *Val {
	cells := make([]*Val, 0, len(msg))
	for _, m := range msg {
		switch m := m.(type) {
		case *Val:
			cells = append(cells, m)
		case error:
			if len(msg) > 1 {
				panic("invalid error argument")
			}
			return &Val{
				Kind:   KError,
				Str:    condition,
				Source: env.Loc,
				Native: env.Runtime.Stack.Copy(),
				Cells:  []*Val{{Kind: KString, Native: m, Str: m.Error(), Source: nativeLoc}},
			}
		case string:
			cells = append(cells, String(m))
		default:
			cells = append(cells, String(fmt.Sprint(m)))
		}
	}
	return &Val{
		Kind:   KError,
		Str:    condition,
		Source: env.Loc,
		Native: env.Runtime.Stack.Copy(),
		Cells:  cells,
	}
}

// Errorf returns a KError with the generic condition and a formatted
// message.
func (env *Env) Errorf(format string, v ...interface{}) *Val {
	return env.ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns a KError with the given condition and a formatted
// message, capturing the current call stack and source location.
func (env *Env) ErrorConditionf(condition string, format string, v ...interface{}) *Val {
	return &Val{
		Kind:   KError,
		Str:    condition,
		Source: env.Loc,
		Native: env.Runtime.Stack.Copy(),
		Cells:  []*Val{String(fmt.Sprintf(format, v...))},
	}
}

// errorAssociate fills in the call stack and source location of an error
// created outside evaluation context.
func (env *Env) errorAssociate(lerr *Val) {
	if lerr.Kind != KError {
		panic("not an error: " + lerr.Kind.String())
	}
	if lerr.CallStackData() == nil {
		lerr.SetCallStack(env.Runtime.Stack.Copy())
	}
	if lerr.Source == nil || lerr.Source.Pos < 0 {
		lerr.Source = env.Loc
	}
}

// Load reads source from r and evaluates each top-level form, recording
// failures in the diagnostics sink and continuing with subsequent forms.
// The value of the last form is returned.
func (env *Env) Load(name string, r io.Reader) *Val {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}
	nodes, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		lerr := env.ErrorCondition(CondParse, err)
		env.Runtime.Diag.RecordError(lerr)
		return lerr
	}
	return env.EvalProgram(nodes)
}

// LoadString evaluates source text; see Load.
func (env *Env) LoadString(name, src string) *Val {
	return env.Load(name, strings.NewReader(src))
}

// EvalProgram evaluates top-level forms in order.  The first failure within
// a form aborts that form and is recorded; evaluation of subsequent forms
// continues so every independent error surfaces in one pass.
func (env *Env) EvalProgram(nodes []*ast.Node) *Val {
	ret := Unit()
	for _, n := range nodes {
		ret = env.Eval(n)
		if ret.Kind == KError {
			env.Runtime.Diag.RecordError(ret)
		}
	}
	return ret
}
