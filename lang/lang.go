// Copyright © 2026 The Verst authors

package lang

// VerstVersion is the language core version.
const VerstVersion = "0.3"

// Error condition symbols reported by the evaluator.  Conditions classify
// failures programmatically; rendering is handled by ErrorVal.
const (
	CondError          = "error"
	CondUndefined      = "undefined-variable"
	CondArityMismatch  = "arity-mismatch"
	CondNotCallable    = "not-callable"
	CondTypeMismatch   = "type-mismatch"
	CondMacroExpansion = "macro-expansion-error"
	CondHygiene        = "hygiene-violation"
	CondParse          = "parse-error"
	CondUnitMismatch   = "unit-mismatch"
	CondStackOverflow  = "stack-overflow"
)
