// Package debug provides the bytecode disassembler and a structural
// dump of a compiled chunk, for the CLI's --trace flag and dump
// subcommand.
package debug

import (
	"fmt"
	"io"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/object"
)

// DisassembleChunk writes a human-readable listing of every
// instruction in chunk to w, labelled name.
func DisassembleChunk(w io.Writer, chunk *bytecode.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = disassembleInstruction(w, chunk, offset)
	}
}

func disassembleInstruction(w io.Writer, chunk *bytecode.Chunk, offset int) int {
	line := chunk.Lines[offset]
	if offset > 0 && chunk.Lines[offset-1] == line {
		fmt.Fprintf(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := bytecode.OpCode(chunk.Code[offset])
	switch op {
	case bytecode.OpConstant:
		return constantInstruction(w, op, chunk, offset)
	case bytecode.OpGetLocal, bytecode.OpSetLocal,
		bytecode.OpGetUpvalue, bytecode.OpSetUpvalue,
		bytecode.OpCall:
		return byteInstruction(w, op, chunk, offset)
	case bytecode.OpGetGlobal, bytecode.OpDefineGlobal, bytecode.OpSetGlobal:
		return constantInstruction(w, op, chunk, offset)
	case bytecode.OpJump, bytecode.OpJumpIfFalse, bytecode.OpLoop:
		return jumpInstruction(w, op, chunk, offset)
	case bytecode.OpClosure:
		return closureInstruction(w, chunk, offset)
	default:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	}
}

func constantInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, chunk.Constants[idx].String())
	return offset + 2
}

func byteInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	sign := 1
	if op == bytecode.OpLoop {
		sign = -1
	}
	fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(w io.Writer, chunk *bytecode.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	constant := chunk.Constants[idx]
	fmt.Fprintf(w, "%-18s %4d '%s'\n", bytecode.OpClosure, idx, constant.String())
	offset += 2

	fn, ok := constant.AsObject().(*object.Function)
	if !ok {
		return offset
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		index := chunk.Code[offset+1]
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "      |                     %s %d\n", kind, index)
		offset += 2
	}
	return offset
}
