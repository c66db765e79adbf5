// Copyright © 2026 The Verst authors

package lang

import (
	"io"

	"github.com/verstlang/verst/types"
	"github.com/verstlang/verst/units"
)

// Config adjusts a session environment during NewSession.  A Config returns
// an error value when it cannot be applied.
type Config func(env *Env) *Val

// WithStderr directs debug printing and trace output to w.
func WithStderr(w io.Writer) Config {
	return func(env *Env) *Val {
		env.Runtime.Stderr = w
		return Unit()
	}
}

// WithReader sets the parser used by Load.
func WithReader(r Reader) Config {
	return func(env *Env) *Val {
		env.Runtime.Reader = r
		return Unit()
	}
}

// WithMaxMacroExpansionDepth bounds successive expansions of one form.  A
// bound of zero disables the check.
func WithMaxMacroExpansionDepth(n int) Config {
	return func(env *Env) *Val {
		if n < 0 {
			return env.Errorf("negative macro expansion depth: %d", n)
		}
		env.Runtime.MaxMacroExpansionDepth = n
		return Unit()
	}
}

// WithMaximumStackHeight bounds the logical call stack.  A bound of zero
// disables the check.
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) *Val {
		if n < 0 {
			return env.Errorf("negative stack height: %d", n)
		}
		env.Runtime.Stack.MaxHeight = n
		return Unit()
	}
}

// WithUnits replaces the unit registry, e.g. to add project-specific units
// on top of the SI seed.
func WithUnits(r *units.Registry) Config {
	return func(env *Env) *Val {
		if r == nil {
			return env.Errorf("nil unit registry")
		}
		env.Runtime.Units = r
		return Unit()
	}
}

// WithDiagnostics replaces the diagnostics sink, e.g. to share one list
// across sessions that load a common prelude.
func WithDiagnostics(l *DiagnosticList) Config {
	return func(env *Env) *Val {
		if l == nil {
			return env.Errorf("nil diagnostic list")
		}
		env.Runtime.Diag = l
		return Unit()
	}
}

// WithTypeInferrer replaces the inferrer backing typeof.
func WithTypeInferrer(inf types.Inferrer) Config {
	return func(env *Env) *Val {
		if inf == nil {
			return env.Errorf("nil type inferrer")
		}
		env.Runtime.Inferrer = inf
		return Unit()
	}
}

// WithProfiler installs a call profiler.  The profiler must be enabled
// separately.
func WithProfiler(p Profiler) Config {
	return func(env *Env) *Val {
		env.Runtime.Profiler = p
		return Unit()
	}
}

// WithBuiltins binds additional native functions into the module globals.
func WithBuiltins(defs ...BuiltinDef) Config {
	return func(env *Env) *Val {
		env.AddBuiltins(defs...)
		return Unit()
	}
}
