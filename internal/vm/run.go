package vm

import (
	"fmt"
	"math"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/errors"
	"github.com/sentra-lang/nox/internal/object"
	"github.com/sentra-lang/nox/internal/value"
)

// run is the dispatch loop: decode one opcode from the current frame's
// Chunk, execute it against the value stack, repeat. It returns on
// OP_RETURN from the outermost frame, or on the first runtime error.
func (vm *VM) run() *errors.InterpError {
	for {
		op := bytecode.OpCode(vm.readByte())

		switch op {
		case bytecode.OpConstant:
			vm.push(vm.readConstant())

		case bytecode.OpNil:
			vm.push(value.Nil())
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := int(vm.readByte())
			vm.push(vm.stack[vm.currentFrame().slots+slot])
		case bytecode.OpSetLocal:
			slot := int(vm.readByte())
			vm.stack[vm.currentFrame().slots+slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case bytecode.OpDefineGlobal:
			name := vm.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case bytecode.OpSetGlobal:
			name := vm.readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OpGetUpvalue:
			slot := vm.readByte()
			vm.push(vm.currentFrame().closure.Upvalues[slot].Get())
		case bytecode.OpSetUpvalue:
			slot := vm.readByte()
			vm.currentFrame().closure.Upvalues[slot].Set(vm.peek(0))

		case bytecode.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OpGreater:
			if err := vm.binaryCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case bytecode.OpLess:
			if err := vm.binaryCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpSubtract:
			if err := vm.binaryNumber(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case bytecode.OpMultiply:
			if err := vm.binaryNumber(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case bytecode.OpDivide:
			if err := vm.binaryNumber(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}
		case bytecode.OpIntDivide:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return vm.runtimeError("Operands must be numbers.")
			}
			if int64(vm.peek(0).AsNumber()) == 0 {
				return vm.runtimeError("Division by zero.")
			}
			if err := vm.binaryNumber(func(a, b float64) float64 { return float64(int64(a) / int64(b)) }); err != nil {
				return err
			}
		case bytecode.OpModulus:
			if err := vm.binaryNumber(math.Mod); err != nil {
				return err
			}

		case bytecode.OpNot:
			vm.push(value.Bool(value.IsFalsey(vm.pop())))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case bytecode.OpJump:
			offset := vm.readShort()
			vm.currentFrame().ip += offset
		case bytecode.OpJumpIfFalse:
			offset := vm.readShort()
			if value.IsFalsey(vm.peek(0)) {
				vm.currentFrame().ip += offset
			}
		case bytecode.OpLoop:
			offset := vm.readShort()
			vm.currentFrame().ip -= offset

		case bytecode.OpCall:
			argCount := int(vm.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case bytecode.OpClosure:
			fn := vm.readConstant().AsObject().(*object.Function)
			closure := object.NewClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte()
				index := int(vm.readByte())
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(vm.currentFrame().slots + index)
				} else {
					closure.Upvalues[i] = vm.currentFrame().closure.Upvalues[index]
				}
			}
			vm.push(value.FromObject(closure))

		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			f := vm.currentFrame()
			vm.closeUpvalues(f.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the implicit top-level script closure
				return nil
			}
			vm.stackTop = f.slots
			vm.push(result)
		}
	}
}

func (vm *VM) binaryNumber(fn func(a, b float64) float64) *errors.InterpError {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
	vm.push(value.Number(fn(a, b)))
	return nil
}

func (vm *VM) binaryCompare(fn func(a, b float64) bool) *errors.InterpError {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
	vm.push(value.Bool(fn(a, b)))
	return nil
}

// add implements OP_ADD's dual dispatch: numeric addition if both
// operands are numbers, string concatenation (producing a freshly
// interned result) if both are strings, a type error otherwise.
func (vm *VM) add() *errors.InterpError {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.Number(a.AsNumber() + b.AsNumber()))
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		s := vm.interner.Intern(a.AsString().Chars + b.AsString().Chars)
		vm.push(value.FromObject(s))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
	return nil
}
