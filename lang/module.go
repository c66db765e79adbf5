// Copyright © 2026 The Verst authors

package lang

import (
	"fmt"

	"github.com/verstlang/verst/token"
)

// Module is the compiled-module state produced by a session: an ordered map
// from identifier to defined value plus the diagnostics accumulated while
// evaluating.  It is handed to later phases only after all macro expansion
// for the unit of compilation has completed.
type Module struct {
	names   []string
	symbols map[string]*Val
}

// NewModule initializes and returns an empty Module.
func NewModule() *Module {
	return &Module{symbols: make(map[string]*Val)}
}

// Names returns defined identifiers in definition order.
func (m *Module) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Get returns the value bound to name, or nil when absent.
func (m *Module) Get(name string) *Val {
	return m.symbols[name]
}

// Put binds name to v, preserving first-definition order.
func (m *Module) Put(name string, v *Val) {
	if _, ok := m.symbols[name]; !ok {
		m.names = append(m.names, name)
	}
	m.symbols[name] = v
}

// Update rebinds an existing name.  It reports whether name was bound.
func (m *Module) Update(name string, v *Val) bool {
	if _, ok := m.symbols[name]; !ok {
		return false
	}
	m.symbols[name] = v
	return true
}

// Diagnostic is one recorded failure with a source span.
type Diagnostic struct {
	Condition string
	Message   string
	Source    *token.Location
}

func (d Diagnostic) String() string {
	if d.Source != nil && d.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s: %s", d.Source, d.Condition, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Condition, d.Message)
}

// DiagnosticList accumulates diagnostics for one session.  A top-level
// form's failure is recorded here and does not prevent evaluation of
// subsequent forms.
type DiagnosticList struct {
	diags []Diagnostic
}

// Record appends a diagnostic.
func (l *DiagnosticList) Record(condition, message string, loc *token.Location) {
	l.diags = append(l.diags, Diagnostic{Condition: condition, Message: message, Source: loc})
}

// RecordError records an error value.
func (l *DiagnosticList) RecordError(v *Val) {
	if v.Kind != KError {
		panic("not an error: " + v.Kind.String())
	}
	l.Record(v.Str, (*ErrorVal)(v).ErrorMessage(), v.Source)
}

// Len returns the number of recorded diagnostics.
func (l *DiagnosticList) Len() int {
	return len(l.diags)
}

// Diagnostics returns the recorded diagnostics in order.
func (l *DiagnosticList) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(l.diags))
	copy(out, l.diags)
	return out
}
