// Package errors defines the two result categories that can cross the
// interpret boundary: compile-time and run-time failures.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies an InterpError the way the VM boundary distinguishes
// compile-time diagnostics from run-time faults.
type Kind string

const (
	CompileError Kind = "CompileError"
	RuntimeError Kind = "RuntimeError"
)

// SourceLocation pins a diagnostic to a place in the source text.
type SourceLocation struct {
	File string
	Line int
}

// StackFrame is one entry of a runtime error's call-stack trace, printed
// top-to-bottom as "[line L] in <name>()".
type StackFrame struct {
	Function string
	Line     int
}

// InterpError is the error type returned by Compile and Interpret. Its
// Kind determines the process exit code the CLI driver selects.
type InterpError struct {
	Kind      Kind
	Message   string
	Location  SourceLocation
	CallStack []StackFrame
}

func (e *InterpError) Error() string {
	var sb strings.Builder
	if e.Location.Line > 0 {
		fmt.Fprintf(&sb, "[line %d] %s", e.Location.Line, e.Message)
	} else {
		sb.WriteString(e.Message)
	}
	for _, frame := range e.CallStack {
		sb.WriteByte('\n')
		if frame.Function == "" {
			fmt.Fprintf(&sb, "[line %d] in script\n", frame.Line)
		} else {
			fmt.Fprintf(&sb, "[line %d] in %s()\n", frame.Line, frame.Function)
		}
	}
	return sb.String()
}

// NewCompileError reports a diagnostic produced while parsing/emitting.
func NewCompileError(line int, message string) *InterpError {
	return &InterpError{
		Kind:     CompileError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// NewRuntimeError reports a fault raised by the running VM.
func NewRuntimeError(line int, message string) *InterpError {
	return &InterpError{
		Kind:     RuntimeError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// WithStack attaches the unwound call stack, top frame first.
func (e *InterpError) WithStack(stack []StackFrame) *InterpError {
	e.CallStack = stack
	return e
}
