// Copyright © 2026 The Verst authors

package repl

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verstlang/verst/diagnostic"
	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/parser"
)

func evalError(t *testing.T, source string) *lang.Val {
	t.Helper()
	env, err := lang.NewSession(lang.WithStderr(io.Discard))
	require.NoError(t, err)
	env.Runtime.Reader = parser.NewReader(env.Runtime.Interner)
	v := env.LoadString("stdin", source)
	require.Equal(t, lang.KError, v.Kind, "expected an error, got %s", v)
	return v
}

func TestErrorToDiag(t *testing.T) {
	lerr := evalError(t, "fn inner() = missing\ninner()")
	d := ErrorToDiag(lerr)

	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, lang.CondUndefined, d.Condition)
	assert.Contains(t, d.Message, "missing")

	require.NotEmpty(t, d.Spans)
	assert.Equal(t, "stdin", d.Spans[0].File)

	require.NotEmpty(t, d.Notes)
	assert.Contains(t, d.Notes[0], "in inner at ")
}

func TestErrorToDiagMacroFrame(t *testing.T) {
	lerr := evalError(t, "macro broken() = { missing_inside; quote 1 }\nbroken()")
	d := ErrorToDiag(lerr)

	assert.Equal(t, lang.CondUndefined, d.Condition)
	found := false
	for _, note := range d.Notes {
		if strings.Contains(note, " [macro]") {
			found = true
		}
	}
	assert.True(t, found, "expected a [macro] note, got %v", d.Notes)
}

func TestErrorToDiagWithoutStack(t *testing.T) {
	lerr := lang.Errorf(lang.CondTypeMismatch, "bad value")
	d := ErrorToDiag(lerr)
	assert.Equal(t, lang.CondTypeMismatch, d.Condition)
	assert.Equal(t, "bad value", d.Message)
	assert.Empty(t, d.Spans)
	assert.Empty(t, d.Notes)
}

func TestRenderError(t *testing.T) {
	lerr := evalError(t, "missing")
	var buf bytes.Buffer
	renderError(&buf, lerr)
	assert.Contains(t, buf.String(), "error[undefined-variable]")
	assert.Contains(t, buf.String(), "missing")
}
