// Copyright © 2026 The Verst authors

package lang

import (
	"fmt"
	"io"
	"os"

	"github.com/verstlang/verst/ast"
	"github.com/verstlang/verst/intern"
	"github.com/verstlang/verst/types"
	"github.com/verstlang/verst/units"
)

// DefaultMaxMacroExpansionDepth bounds successive macro expansions of a
// single form.  Zero disables the bound.
const DefaultMaxMacroExpansionDepth = 1000

// Reader parses a source stream into top-level syntax nodes.
type Reader interface {
	Read(name string, r io.Reader) ([]*ast.Node, error)
}

// Runtime is the shared state underlying a tree of Env values: one
// compilation session.  It owns the interner, the accumulated module state,
// the diagnostics sink, and the external collaborators (units registry,
// type inferrer).  Construct with StandardRuntime; never share a Runtime
// between independent sessions.
type Runtime struct {
	Interner *intern.Table
	Module   *Module
	Diag     *DiagnosticList
	Units    *units.Registry
	Inferrer types.Inferrer
	Stack    *CallStack
	Stderr   io.Writer
	Reader   Reader
	Profiler Profiler

	MaxMacroExpansionDepth int

	numenv uint
	numsym uint
	numexp uint32

	// currentExpansion is nonzero while a hygienic macro body runs; the
	// quasiquote constructor stamps it onto template-origin identifiers.
	currentExpansion uint32
	// expansionEnvs maps expansion ids to the macro's defining environment
	// so free tagged references resolve at the definition site.
	expansionEnvs map[uint32]*Env
	// macroInternal records original spellings renamed by the hygiene pass,
	// keyed by interned handle, for actionable undefined-variable notes.
	macroInternal map[intern.Sym]bool
}

// StandardRuntime returns a Runtime with a fresh interner, an empty module,
// a seeded SI unit registry, the structural type inferrer, and Stderr set
// to os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Interner:               intern.NewTable(),
		Module:                 NewModule(),
		Diag:                   &DiagnosticList{},
		Units:                  units.NewRegistry(),
		Inferrer:               types.Structural{},
		Stack:                  &CallStack{},
		Stderr:                 os.Stderr,
		MaxMacroExpansionDepth: DefaultMaxMacroExpansionDepth,
		expansionEnvs:          make(map[uint32]*Env),
		macroInternal:          make(map[intern.Sym]bool),
	}
}

// GenEnvID returns a fresh environment id.
func (r *Runtime) GenEnvID() uint {
	r.numenv++
	return r.numenv
}

// GenSym returns a fresh, globally unique spelling derived from name,
// interned in the session table.
func (r *Runtime) GenSym(name string) (intern.Sym, string) {
	r.numsym++
	s := fmt.Sprintf("%s#g%08d", name, r.numsym)
	return r.Interner.Intern(s), s
}

// nextExpansionID allocates an id for one macro-expansion instance and
// records the macro's defining environment for tagged-reference resolution.
func (r *Runtime) nextExpansionID(defEnv *Env) uint32 {
	r.numexp++
	r.expansionEnvs[r.numexp] = defEnv
	return r.numexp
}

func (r *Runtime) expansionEnv(id uint32) *Env {
	return r.expansionEnvs[id]
}

func (r *Runtime) noteMacroInternal(orig intern.Sym) {
	r.macroInternal[orig] = true
}

func (r *Runtime) isMacroInternal(sym intern.Sym) bool {
	return r.macroInternal[sym]
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// Profiler instruments function and macro calls.  Implementations live in
// lang/x/profiler.
type Profiler interface {
	// IsEnabled reports whether the profiler records calls.
	IsEnabled() bool
	// Enable starts the profiling session.
	Enable() error
	// Complete ends the profiling session and flushes output.
	Complete() error
	// Start marks the start of a call and returns a func marking its end.
	Start(fun *Val) func()
}
