package vm

import "github.com/sentra-lang/nox/internal/object"

// frame is one active call's execution record: the closure it is
// executing, its instruction pointer into that closure's function
// Chunk, and the base index of its slots in the shared value stack.
type frame struct {
	closure *object.Closure
	ip      int
	slots   int
}
