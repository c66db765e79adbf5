// Copyright © 2026 The Verst authors

// Package diagnostic renders annotated error output for verst CLI commands.
// It is intentionally independent of the lang/ package so that any command
// can use it without creating import cycles.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity  Severity
	Condition string // condition symbol, e.g. "undefined-variable"
	Message   string
	Spans     []Span
	Notes     []string // "= note:" lines (stack trace frames, etc.)
}
