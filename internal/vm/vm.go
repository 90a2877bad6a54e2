// Package vm implements the stack-based bytecode interpreter: a value
// stack, a call-frame stack, a linked list of open upvalues, and the
// single dispatch loop that executes a compiled Chunk.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/sentra-lang/nox/internal/compiler"
	"github.com/sentra-lang/nox/internal/errors"
	"github.com/sentra-lang/nox/internal/object"
	"github.com/sentra-lang/nox/internal/table"
	"github.com/sentra-lang/nox/internal/value"
)

const (
	FramesMax = 64
	// UINT8_COUNT in the distilled spec's terms: one call frame's slots
	// are addressed by a one-byte operand, so 256 per frame.
	slotsPerFrame = 256
	StackMax      = FramesMax * slotsPerFrame
)

// VM owns everything a compile/run session needs: the value and frame
// stacks, the globals table, the string-interning pool, the
// open-upvalue list, and the writer that print sends its output to.
type VM struct {
	stack    []value.Value
	stackTop int

	frames     []frame
	frameCount int

	globals      *table.Table
	interner     *table.Interner
	openUpvalues *object.Upvalue

	stdout io.Writer
}

// New constructs a VM with empty globals around the given string pool.
// It installs no native functions; callers do that with
// natives.Install. framesMax overrides the default FramesMax (see
// internal/config), and the value stack is sized framesMax × 256;
// passing zero keeps the hard-coded defaults.
func New(interner *table.Interner, framesMax int) *VM {
	if framesMax <= 0 {
		framesMax = FramesMax
	}
	vm := &VM{
		stack:    make([]value.Value, framesMax*slotsPerFrame),
		frames:   make([]frame, framesMax),
		globals:  table.New(),
		interner: interner,
		stdout:   os.Stdout,
	}
	return vm
}

// SetOutput redirects `print` output away from os.Stdout — mainly for
// tests that need to capture program output.
func (vm *VM) SetOutput(w io.Writer) { vm.stdout = w }

// Globals exposes the globals table, mainly so the native registry can
// install builtins into it before a script runs.
func (vm *VM) Globals() *table.Table { return vm.globals }

// Interner exposes the shared string pool, for native functions that
// need to produce interned strings (e.g. input()).
func (vm *VM) Interner() *table.Interner { return vm.interner }

// Reset clears the stacks and open-upvalue list between REPL
// iterations, without discarding globals or the string pool.
func (vm *VM) Reset() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// Interpret compiles and runs one program. Globals and the string pool
// persist across calls on the same VM (that's what lets a REPL build
// up state line by line); the stacks are reset each call.
func (vm *VM) Interpret(source string) *errors.InterpError {
	vm.Reset()

	fn, cerr := compiler.Compile(source, vm.interner)
	if cerr != nil {
		return cerr
	}

	closure := object.NewClosure(fn)
	vm.push(value.FromObject(closure))
	if err := vm.callValue(value.FromObject(closure), 0); err != nil {
		return err
	}
	return vm.run()
}

// --- stack primitives ----------------------------------------------------

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) currentFrame() *frame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) readByte() byte {
	f := vm.currentFrame()
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort() int {
	hi := vm.readByte()
	lo := vm.readByte()
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant() value.Value {
	idx := vm.readByte()
	return vm.currentFrame().closure.Function.Chunk.Constants[idx]
}

func (vm *VM) readString() *value.String {
	return vm.readConstant().AsString()
}

// --- call protocol --------------------------------------------------------

func (vm *VM) callValue(callee value.Value, argCount int) *errors.InterpError {
	if callee.IsObject() {
		switch fn := callee.AsObject().(type) {
		case *object.Closure:
			return vm.call(fn, argCount)
		case *object.Native:
			args := vm.stack[vm.stackTop-argCount : vm.stackTop]
			result := fn.Fn(args)
			vm.stackTop -= argCount + 1
			vm.push(result)
			return nil
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

func (vm *VM) call(closure *object.Closure, argCount int) *errors.InterpError {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == len(vm.frames) {
		return vm.runtimeError("Stack overflow.")
	}
	f := &vm.frames[vm.frameCount]
	f.closure = closure
	f.ip = 0
	f.slots = vm.stackTop - argCount - 1
	vm.frameCount++
	return nil
}

// --- upvalues --------------------------------------------------------------

// captureUpvalue returns the open Upvalue for stack slot index,
// creating one if none exists yet. The open list stays sorted by
// descending slot so two closures capturing the same local always
// share one Upvalue (and therefore see each other's writes).
func (vm *VM) captureUpvalue(slot int) *object.Upvalue {
	var prev *object.Upvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}

	created := object.NewUpvalue(&vm.stack[slot], slot)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above fromSlot —
// called both for an OP_CLOSE_UPVALUE (scope exit) and, with the
// returning frame's base, on OP_RETURN.
func (vm *VM) closeUpvalues(fromSlot int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= fromSlot {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}

// --- runtime errors ---------------------------------------------------------

func (vm *VM) runtimeError(format string, args ...interface{}) *errors.InterpError {
	msg := fmt.Sprintf(format, args...)
	line := 0
	if vm.frameCount > 0 {
		f := vm.currentFrame()
		line = f.closure.Function.Chunk.Lines[f.ip-1]
	}

	trace := make([]errors.StackFrame, 0, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		fnLine := f.closure.Function.Chunk.Lines[maxInt(f.ip-1, 0)]
		name := ""
		if f.closure.Function.Name != nil {
			name = f.closure.Function.Name.Chars
		}
		trace = append(trace, errors.StackFrame{Function: name, Line: fnLine})
	}

	vm.Reset()
	return errors.NewRuntimeError(line, msg).WithStack(trace)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
