// Copyright © 2026 The Verst authors

package profiler_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/lang/x/profiler"
	"github.com/verstlang/verst/parser"
)

func newProfiledSession(t *testing.T) *lang.Env {
	t.Helper()
	env, err := lang.NewSession(lang.WithStderr(io.Discard))
	require.NoError(t, err)
	env.Runtime.Reader = parser.NewReader(env.Runtime.Interner)
	return env
}

func withTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exporter
}

func spanNames(exporter *tracetest.InMemoryExporter) []string {
	spans := exporter.GetSpans()
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	return names
}

func TestOpenTelemetryAnnotator(t *testing.T) {
	exporter := withTestTracer(t)
	env := newProfiledSession(t)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	require.NoError(t, p.Enable())

	v := env.LoadString("test", "fn square(x) = x * x\nsquare(4)")
	require.Equal(t, lang.KInt, v.Kind, "got %s", v)
	require.NoError(t, p.Complete())

	names := spanNames(exporter)
	assert.Contains(t, names, "square")
	// Builtin calls are labeled by their bound name.
	assert.Contains(t, names, "*")
}

func TestOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	env := newProfiledSession(t)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	require.Error(t, p.Enable())
}

func TestSkipFilter(t *testing.T) {
	exporter := withTestTracer(t)
	env := newProfiledSession(t)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithSkipFilter(func(fun *lang.Val) bool {
			return fun.FunData().Builtin != nil
		}))
	require.NoError(t, p.Enable())

	v := env.LoadString("test", "fn square(x) = x * x\nsquare(4)")
	require.Equal(t, lang.KInt, v.Kind)
	require.NoError(t, p.Complete())

	names := spanNames(exporter)
	assert.Contains(t, names, "square")
	assert.NotContains(t, names, "*")
}

func TestFunLabeler(t *testing.T) {
	exporter := withTestTracer(t)
	env := newProfiledSession(t)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithFunLabeler(func(rt *lang.Runtime, fun *lang.Val) string {
			if fun.FunData().Name == "square" {
				return "verst.square"
			}
			return ""
		}))
	require.NoError(t, p.Enable())

	v := env.LoadString("test", "fn square(x) = x * x\nsquare(4)")
	require.Equal(t, lang.KInt, v.Kind)
	require.NoError(t, p.Complete())

	names := spanNames(exporter)
	assert.Contains(t, names, "verst.square")
	assert.NotContains(t, names, "square")
}

func TestProfilerDisabledByDefault(t *testing.T) {
	exporter := withTestTracer(t)
	env := newProfiledSession(t)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	require.False(t, p.IsEnabled())
	env.Runtime.Profiler = p

	v := env.LoadString("test", "1 + 1")
	require.Equal(t, lang.KInt, v.Kind)
	assert.Empty(t, spanNames(exporter))

	require.NoError(t, p.Enable())
	assert.True(t, p.IsEnabled())
	require.Error(t, p.Enable(), "double enable must fail")
}
