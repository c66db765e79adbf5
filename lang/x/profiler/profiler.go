// Copyright © 2026 The Verst authors

// Package profiler provides lang.Profiler implementations that annotate
// evaluator call activity onto external tracing systems.
package profiler

import (
	"fmt"
	"regexp"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/token"
)

// SkipFilter decides whether a call should be omitted from traces.
type SkipFilter func(fun *lang.Val) bool

// FunLabeler maps a function value to the label recorded on its span.
type FunLabeler func(rt *lang.Runtime, fun *lang.Val) string

// profiler is the shared state of the concrete annotators.
type profiler struct {
	runtime    *lang.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

// Option configures an annotator.
type Option func(*profiler)

// WithSkipFilter omits calls matching filter from traces.
func WithSkipFilter(filter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = filter
	}
}

// WithFunLabeler overrides span labels.
func WithFunLabeler(labeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = labeler
	}
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// skipTrace decides whether to skip tracing a call.
func (p *profiler) skipTrace(v *lang.Val) bool {
	return !p.enabled || v.Kind != lang.KFun || p.skipFilter != nil && p.skipFilter(v)
}

var builtinRegex = regexp.MustCompile("\\<(?:builtin|special) \\`\\`(.*)\\'\\'\\>")

// funNameFromFID returns a canonical version of a function name suitable for
// human viewing.
func funNameFromFID(in string) string {
	if !builtinRegex.MatchString(in) {
		return in
	}
	return builtinRegex.FindStringSubmatch(in)[1]
}

// defaultFunName constructs a canonical name for a function value.
func defaultFunName(fun *lang.Val) string {
	if fun.Kind != lang.KFun {
		return ""
	}
	fd := fun.FunData()
	if fd == nil {
		return ""
	}
	if fd.Name != "" {
		return fd.Name
	}
	return funNameFromFID(fd.FID)
}

// prettyFunName returns the span label and the original name for a fun.  The
// label falls back to the original name when no labeler applies.
func (p *profiler) prettyFunName(fun *lang.Val) (string, string) {
	origLabel := defaultFunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

func getSourceLoc(fun *lang.Val) *token.Location {
	if fun.Source != nil && fun.Source.Pos >= 0 {
		return fun.Source
	}
	if fun.Kind == lang.KFun {
		if fd := fun.FunData(); fd != nil && fd.Body != nil && fd.Body.Source != nil {
			return fd.Body.Source
		}
	}
	return nil
}
