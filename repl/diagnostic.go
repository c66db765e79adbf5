// Copyright © 2026 The Verst authors

package repl

import (
	"io"

	"github.com/verstlang/verst/diagnostic"
	"github.com/verstlang/verst/lang"
)

// renderError renders an evaluation error using the diagnostic renderer for
// annotated output.  For REPL errors, source snippets may not be available
// (input comes from stdin, not files), but the renderer degrades gracefully
// to show just the location and error message.
func renderError(w io.Writer, lerr *lang.Val) {
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	_ = r.Render(w, ErrorToDiag(lerr))
}

// ErrorToDiag converts an error value to a Diagnostic for display.
func ErrorToDiag(lerr *lang.Val) diagnostic.Diagnostic {
	ev := (*lang.ErrorVal)(lerr)
	d := diagnostic.Diagnostic{
		Severity:  diagnostic.SeverityError,
		Condition: ev.Condition(),
		Message:   ev.ErrorMessage(),
	}

	if lerr.Source != nil && lerr.Source.Pos >= 0 {
		span := diagnostic.Span{
			File: lerr.Source.File,
			Line: lerr.Source.Line,
			Col:  lerr.Source.Col,
		}
		if lerr.Source.Path != "" {
			span.File = lerr.Source.Path
		}
		d.Spans = append(d.Spans, span)
	}

	stack := lerr.CallStackData()
	if stack != nil {
		for i := len(stack.Frames) - 1; i >= 0; i-- {
			frame := &stack.Frames[i]
			name := frame.Name
			if name == "" {
				name = frame.FID
			}
			if name == "" {
				continue
			}
			if frame.Macro {
				name += " [macro]"
			}
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+name+" at "+loc)
		}
	}

	return d
}
