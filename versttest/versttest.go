// Copyright © 2026 The Verst authors

// Package versttest provides helpers for testing verst code embedded in Go
// test suites.
package versttest

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/parser"
)

// NewEnv returns a fresh session wired for testing, with debug output
// directed at t.
func NewEnv(t testing.TB) (*lang.Env, error) {
	logger := NewLogger(t)
	env, err := lang.NewSession(
		lang.WithMaximumStackHeight(50000),
		lang.WithStderr(logger),
	)
	if err != nil {
		return nil, err
	}
	env.Runtime.Reader = parser.NewReader(env.Runtime.Interner)
	return env, nil
}

// TestSequence is a sequence of verst expressions which are evaluated
// sequentially in one session.
type TestSequence []struct {
	Expr   string // a verst statement
	Result string // the evaluated result
	Output string // debug output written to Runtime.Stderr
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated sessions.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		env, err := lang.NewSession(
			lang.WithMaximumStackHeight(50000),
			lang.WithStderr(io.MultiWriter(os.Stderr, &exprBuf)),
		)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		reader := parser.NewReader(env.Runtime.Interner)
		env.Runtime.Reader = reader
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := env.Eval(v[0]).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes statements parsed
// from source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	for i := 0; i < b.N; i++ {
		env, err := lang.NewSession(
			lang.WithMaximumStackHeight(50000),
			lang.WithStderr(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		reader := parser.NewReader(env.Runtime.Interner)
		exprs, err := reader.Read("benchmark", strings.NewReader(source))
		if err != nil {
			b.Fatalf("parse error: %v", err)
		}
		b.StartTimer()
		for j, expr := range exprs {
			lerr := env.Eval(expr)
			if lerr.Kind == lang.KError {
				b.Fatalf("expr %d: %v", j, lerr)
			}
		}
		b.StopTimer()
	}
}

// VerstError reports a verst evaluation error with its captured trace.
func VerstError(t testing.TB, err error) {
	lerr, ok := err.(*lang.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}
