package bytecode

import (
	"testing"

	"github.com/sentra-lang/nox/internal/value"
)

func TestWriteTracksLinesInLockstep(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 1)
	c.Write(0xAB, 2)
	if len(c.Code) != len(c.Lines) {
		t.Fatalf("Code and Lines diverged: %d vs %d", len(c.Code), len(c.Lines))
	}
	if c.Lines[0] != 1 || c.Lines[1] != 2 {
		t.Errorf("got lines %v, want [1 2]", c.Lines)
	}
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := NewChunk()
	i0 := c.AddConstant(value.Number(1))
	i1 := c.AddConstant(value.Number(2))
	if i0 != 0 || i1 != 1 {
		t.Errorf("got indices (%d, %d), want (0, 1)", i0, i1)
	}
}

func TestOpCodeString(t *testing.T) {
	if OpAdd.String() != "OP_ADD" {
		t.Errorf("got %q, want OP_ADD", OpAdd.String())
	}
	if OpCode(250).String() != "OP_UNKNOWN" {
		t.Errorf("expected unknown opcode to stringify as OP_UNKNOWN")
	}
}
