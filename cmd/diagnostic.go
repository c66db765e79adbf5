// Copyright © 2026 The Verst authors

package cmd

import (
	"github.com/verstlang/verst/diagnostic"
	"github.com/verstlang/verst/lang"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// sessionDiagnostics converts the diagnostics accumulated by a session into
// renderable form.
func sessionDiagnostics(env *lang.Env) []diagnostic.Diagnostic {
	recorded := env.Runtime.Diag.Diagnostics()
	out := make([]diagnostic.Diagnostic, 0, len(recorded))
	for _, d := range recorded {
		rd := diagnostic.Diagnostic{
			Severity:  diagnostic.SeverityError,
			Condition: d.Condition,
			Message:   d.Message,
		}
		if d.Source != nil && d.Source.Pos >= 0 {
			span := diagnostic.Span{
				File: d.Source.File,
				Line: d.Source.Line,
				Col:  d.Source.Col,
			}
			if d.Source.Path != "" {
				span.File = d.Source.Path
			}
			rd.Spans = append(rd.Spans, span)
		}
		out = append(out, rd)
	}
	return out
}
