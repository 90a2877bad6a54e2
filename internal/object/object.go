// Package object holds the heap-object variants that depend on both the
// value and bytecode packages: compiled functions, native functions,
// closures, and upvalues. (String lives in package value itself, since
// bytecode.Chunk's constant pool needs to hold one without importing
// this package.)
package object

import (
	"fmt"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/value"
)

// Function is the compiler's output for one function body (or the
// implicit top-level script). It owns its Chunk and knows how many
// upvalues its closures must allocate.
type Function struct {
	Name         *value.String // nil for the top-level script
	Arity        int
	UpvalueCount int
	Chunk        *bytecode.Chunk
}

func NewFunction() *Function {
	return &Function{Chunk: bytecode.NewChunk()}
}

func (f *Function) ObjType() value.ObjType { return value.ObjTypeFunction }

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is the native-ABI signature: given the pushed arguments, it
// returns the Value the VM installs in place of the call.
type NativeFn func(args []value.Value) value.Value

// Native wraps a host-provided builtin (clock, input, num, ...).
type Native struct {
	Name string
	Fn   NativeFn
}

func NewNative(name string, fn NativeFn) *Native {
	return &Native{Name: name, Fn: fn}
}

func (n *Native) ObjType() value.ObjType { return value.ObjTypeNative }
func (n *Native) String() string         { return fmt.Sprintf("<native fn %s>", n.Name) }

// Closure pairs a Function with the concrete Upvalues captured at the
// moment of its creation. Every callable the VM executes is a Closure,
// even a function that captures nothing.
type Closure struct {
	Function *Function
	Upvalues []*Upvalue
}

func NewClosure(fn *Function) *Closure {
	return &Closure{Function: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
}

func (c *Closure) ObjType() value.ObjType { return value.ObjTypeClosure }
func (c *Closure) String() string         { return c.Function.String() }

// Upvalue is a heap cell that aliases a live VM stack slot while the
// defining function is still on the call stack ("open"), and holds the
// copied value once that frame returns ("closed"). Location is a Go
// pointer directly into the VM's value stack; the VM preallocates that
// stack to its full fixed capacity once so the pointer never dangles
// across a later push.
type Upvalue struct {
	Location *value.Value
	Closed   value.Value
	Next     *Upvalue // link in the VM's open-upvalue list
	// Slot is the stack index Location points at while open. Go has no
	// ordered comparison on pointers, so the VM tracks this alongside
	// Location purely to maintain the open-upvalue list's "descending
	// stack address" ordering invariant (§3) and to detect when two
	// captures alias the same slot.
	Slot int
}

func NewUpvalue(slot *value.Value, index int) *Upvalue {
	return &Upvalue{Location: slot, Slot: index}
}

func (u *Upvalue) ObjType() value.ObjType { return value.ObjTypeUpvalue }
func (u *Upvalue) String() string         { return "<upvalue>" }

// IsOpen reports whether this upvalue still aliases a live stack slot.
func (u *Upvalue) IsOpen() bool { return u.Location != nil }

// Get reads the current value, whether open or closed.
func (u *Upvalue) Get() value.Value {
	if u.Location != nil {
		return *u.Location
	}
	return u.Closed
}

// Set writes through to the stack slot if open, or to the closed cell.
func (u *Upvalue) Set(v value.Value) {
	if u.Location != nil {
		*u.Location = v
		return
	}
	u.Closed = v
}

// Close copies the aliased slot into Closed and severs the Location
// pointer, turning this upvalue into a heap-resident standalone cell.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = nil
}
