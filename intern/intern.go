// Copyright © 2026 The Verst authors

// Package intern deduplicates identifier and literal text into small,
// cheaply comparable handles.  A Table is scoped to one compilation session
// and must not be shared between independent sessions.
package intern

// Sym is a handle for an interned string.  The zero Sym is invalid and is
// never returned by Intern.
type Sym uint32

// None is the invalid Sym.
const None Sym = 0

// Table maps strings to Syms and back.  The zero value is not usable; call
// NewTable.  A Table is not safe for concurrent use, matching the
// single-threaded evaluator that owns it.
type Table struct {
	syms  map[string]Sym
	names []string
}

// NewTable initializes and returns an empty Table.
func NewTable() *Table {
	return &Table{
		syms: make(map[string]Sym),
		// index 0 reserved so that the zero Sym stays invalid
		names: make([]string, 1),
	}
}

// Intern returns the canonical Sym for name, allocating one on first use.
func (t *Table) Intern(name string) Sym {
	if s, ok := t.syms[name]; ok {
		return s
	}
	s := Sym(len(t.names))
	t.names = append(t.names, name)
	t.syms[name] = s
	return s
}

// Lookup returns the Sym for name without allocating.  It returns None when
// name has never been interned.
func (t *Table) Lookup(name string) Sym {
	return t.syms[name]
}

// Name returns the text for s.  Name returns the empty string for None and
// for handles issued by a different Table.
func (t *Table) Name(s Sym) string {
	if int(s) >= len(t.names) {
		return ""
	}
	return t.names[s]
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return len(t.names) - 1
}
