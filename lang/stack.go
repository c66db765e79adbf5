// Copyright © 2026 The Verst authors

package lang

import (
	"fmt"
	"io"

	"github.com/verstlang/verst/token"
)

// CallStack tracks logical call frames during evaluation so errors can carry
// actionable traces.  Frames for macro calls record the call site, not the
// macro definition site.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is a single entry in a CallStack.
type CallFrame struct {
	Source *token.Location
	FID    string
	Name   string
	Macro  bool
}

func (f CallFrame) String() string {
	name := f.Name
	if name == "" {
		name = f.FID
	}
	if f.Macro {
		name += " [macro]"
	}
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, name)
	}
	return name
}

// Top returns the highest frame on the stack, or nil when empty.
func (s *CallStack) Top() *CallFrame {
	if len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push adds a frame.  Push fails when the stack exceeds its maximum height.
func (s *CallStack) Push(loc *token.Location, fid, name string, macro bool) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return fmt.Errorf("call stack exceeds %d frames", s.MaxHeight)
	}
	s.Frames = append(s.Frames, CallFrame{Source: loc, FID: fid, Name: name, Macro: macro})
	return nil
}

// Pop removes the top frame.
func (s *CallStack) Pop() {
	if len(s.Frames) == 0 {
		panic("pop on empty stack")
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
}

// Copy returns a snapshot of the stack suitable for attaching to an error.
func (s *CallStack) Copy() *CallStack {
	if s == nil {
		return nil
	}
	cp := &CallStack{MaxHeight: s.MaxHeight}
	cp.Frames = make([]CallFrame, len(s.Frames))
	copy(cp.Frames, s.Frames)
	return cp
}

// DebugPrint writes the stack, innermost frame first.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	var n int
	for i := len(s.Frames) - 1; i >= 0; i-- {
		m, err := fmt.Fprintf(w, "  %s\n", s.Frames[i])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
