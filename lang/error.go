// Copyright © 2026 The Verst authors

package lang

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ErrorVal implements the error interface so evaluation failures can be
// first class verst values.  The condition symbol is stored in Str while
// message data lives in Cells and the captured call stack in Native.
type ErrorVal Val

// Error implements the error interface.  The source location and condition
// precede the message when present.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.ErrorMessage()
	if e.Str != CondError {
		return fmt.Sprintf("%s: %s", e.Str, msg)
	}
	return msg
}

// Condition returns the error condition symbol (e.g. "undefined-variable").
func (e *ErrorVal) Condition() string {
	return e.Str
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	if len(e.Cells) > 0 {
		if err, ok := e.Cells[0].Native.(error); ok {
			return err.Error()
		}
	}
	var buf bytes.Buffer
	for i, cell := range e.Cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		if cell.Kind == KString {
			buf.WriteString(cell.Str)
		} else {
			buf.WriteString(cell.String())
		}
	}
	return buf.String()
}

// WriteTrace writes the error and its captured call stack to w.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	n, err := bw.WriteString(e.Error() + "\n")
	if err != nil {
		return n, err
	}
	stack := (*Val)(e).CallStackData()
	if stack != nil {
		m, err := stack.DebugPrint(bw)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// GoError converts v to a Go error.  GoError returns nil when v is not an
// error value.
func GoError(v *Val) error {
	if v == nil || v.Kind != KError {
		return nil
	}
	return (*ErrorVal)(v)
}
