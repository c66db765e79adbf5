// Copyright © 2026 The Verst authors

package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/versttest"
)

func TestMacroExpansion(t *testing.T) {
	versttest.RunTestSuite(t, versttest.TestSuite{
		{"macros receive unevaluated syntax", versttest.TestSequence{
			{"macro double_it(e) = quote ${e} * 2", "()", ""},
			// The macro receives the whole trailing expression, so the result
			// is (10 + 5) * 2 and not 10 + (5 * 2).
			{"double_it 10 + 5", "30", ""},
			{"double_it(4)", "8", ""},
			// The argument is syntax, not a value: an unbound name inside an
			// ignored argument never evaluates.
			{"macro ignore_it(e) = quote 0", "()", ""},
			{"ignore_it missing_name", "0", ""},
		}},
		{"macro results are re-evaluated", versttest.TestSequence{
			{"macro four() = quote 4", "()", ""},
			{"macro call_four() = quote four()", "()", ""},
			{"call_four()", "4", ""},
		}},
		{"macros can inspect argument syntax", versttest.TestSequence{
			{"macro stringify(e) = quote ${str(e)}", "()", ""},
			{"stringify 1 + 2", `"quote (1 + 2)"`, ""},
		}},
	})
}

func TestMacroHygiene(t *testing.T) {
	versttest.RunTestSuite(t, versttest.TestSuite{
		{"macro-introduced bindings cannot capture call-site names", versttest.TestSequence{
			{"let tmp = 1", "()", ""},
			{"macro add_ten(e) = quote { let tmp = 10; tmp + ${e} }", "()", ""},
			// Hygienic: the template's tmp is renamed, so ${e}'s tmp still
			// refers to the caller's binding.
			{"add_ten tmp", "11", ""},
			{"tmp", "1", ""},
		}},
		{"unhygienic macros capture on purpose", versttest.TestSequence{
			{"let tmp = 1", "()", ""},
			{"@unhygienic macro cap_ten(e) = quote { let tmp = 10; tmp + ${e} }", "()", ""},
			{"cap_ten tmp", "20", ""},
			{"tmp", "1", ""},
		}},
		{"free template names resolve at the definition site", versttest.TestSequence{
			{"let scale = 3", "()", ""},
			{"macro tripled(e) = quote ${e} * scale", "()", ""},
			{"{ let scale = 100; tripled 2 }", "6", ""},
			{"tripled 2", "6", ""},
		}},
		{"unhygienic free names resolve at the use site", versttest.TestSequence{
			{"let scale = 3", "()", ""},
			{"@unhygienic macro scaled(e) = quote ${e} * scale", "()", ""},
			{"{ let scale = 100; scaled 2 }", "200", ""},
		}},
		{"hygienic binders still work within the expansion", versttest.TestSequence{
			{"macro with_sum(a, b) = quote { let total = ${a} + ${b}; total * total }", "()", ""},
			{"with_sum(2, 3)", "25", ""},
		}},
		{"template assignments write the definition site", versttest.TestSequence{
			{"let total = 3", "()", ""},
			{"macro bump() = quote { total = 99; () }", "()", ""},
			// The template's write goes to the definition-site binding; the
			// caller's shadowing let is untouched.
			{"{ let total = 1; bump(); total }", "1", ""},
			{"total", "99", ""},
		}},
		{"unhygienic template assignments write the use site", versttest.TestSequence{
			{"let count = 0", "()", ""},
			{"@unhygienic macro reset(e) = quote { count = ${e}; () }", "()", ""},
			{"{ let count = 5; reset(9); count }", "9", ""},
			{"count", "0", ""},
		}},
		{"expansions do not share renamed bindings", versttest.TestSequence{
			{"macro keep(e) = quote { let held = ${e}; fn() = held }", "()", ""},
			{"let a = keep(1)", "()", ""},
			{"let b = keep(2)", "()", ""},
			{"a()", "1", ""},
			{"b()", "2", ""},
			{"a() + b()", "3", ""},
		}},
	})
}

func TestMacroRepeatedInvocationsLeaveNoBinding(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "macro keep(e) = quote { let held = ${e}; fn() = held }\nlet a = keep(1)\nlet b = keep(2)\na() + b()")
	require.Equal(t, lang.KInt, v.Kind, "got %s", v)
	assert.Equal(t, "3", v.String())

	// Neither expansion leaks its binder under the source spelling.
	v = env.LoadString("test", "held")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondHygiene, v.Str)
	assert.Contains(t, (*lang.ErrorVal)(v).ErrorMessage(), "macro-internal")
}

func TestExpansionErrorsReportCallSite(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("defs", "macro broken() = quote missing_inside")
	require.Equal(t, lang.KUnit, v.Kind, "got %s", v)

	v = env.LoadString("use", "broken()")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondUndefined, v.Str)
	require.NotNil(t, v.Source)
	assert.Equal(t, "use", v.Source.File)
}

func TestMacroExpansionDepthLimit(t *testing.T) {
	env := newSession(t, lang.WithMaxMacroExpansionDepth(16))
	v := env.LoadString("test", "macro loop_it(e) = quote loop_it(${e})\nloop_it(0)")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondMacroExpansion, v.Str)
	assert.Contains(t, (*lang.ErrorVal)(v).ErrorMessage(), "16")
}

func TestMacroMustReturnSyntax(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "macro bad() = 42\nbad()")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondMacroExpansion, v.Str)
	assert.Contains(t, (*lang.ErrorVal)(v).ErrorMessage(), "bad")
}

func TestMacroInternalNameNote(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "macro make_hidden() = quote { let hidden = 1; hidden }\nmake_hidden()")
	require.Equal(t, lang.KInt, v.Kind, "got %s", v)

	// The renamed binder does not leak into the calling scope, and referring
	// to it by its source spelling reports the hygiene rename.
	v = env.LoadString("test", "hidden")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondHygiene, v.Str)
	assert.Contains(t, (*lang.ErrorVal)(v).ErrorMessage(), "macro-internal")
}

func TestSpliceRequiresList(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "quote [${...5}]")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondTypeMismatch, v.Str)
}

func TestSpliceAtTemplateRoot(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "let xs = [quote 1, quote 2]\nquote ${...xs}")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondMacroExpansion, v.Str)

	env = newSession(t)
	v = env.LoadString("test", "let ys = [quote 1]\nquote ${...ys}")
	require.Equal(t, lang.KSyntax, v.Kind)
	assert.Equal(t, "quote 1", v.String())
}

func TestUnquoteValueWithoutLiteralSyntax(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "fn f(x) = x\nquote ${f}")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondTypeMismatch, v.Str)
}

func TestMacroExpansionStackFrame(t *testing.T) {
	env := newSession(t)
	v := env.LoadString("test", "macro broken() = quote missing_inside\nbroken()")
	require.Equal(t, lang.KError, v.Kind)
	assert.Equal(t, lang.CondUndefined, v.Str)
}
