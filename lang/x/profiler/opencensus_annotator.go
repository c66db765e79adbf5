// Copyright © 2026 The Verst authors

package profiler

import (
	"context"
	"errors"

	"go.opencensus.io/trace"

	"github.com/verstlang/verst/lang"
)

var _ lang.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
}

// NewOpenCensusAnnotator returns a profiler emitting one OpenCensus span per
// evaluated call under parentContext.
func NewOpenCensusAnnotator(runtime *lang.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lang.Val) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	p.annotateSource(fun)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}

func (p *ocAnnotator) annotateSource(fun *lang.Val) {
	loc := getSourceLoc(fun)
	if loc == nil {
		return
	}
	p.currentSpan.Annotate([]trace.Attribute{
		trace.StringAttribute("file", loc.File),
		trace.Int64Attribute("line", int64(loc.Line)),
	}, "source")
}
