package compiler

import (
	"testing"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/table"
)

func compile(t *testing.T, source string) *bytecode.Chunk {
	t.Helper()
	fn, err := Compile(source, table.NewInterner())
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return fn.Chunk
}

func TestLeftAssociativity(t *testing.T) {
	// a - b - c must compile as (a - b) - c: the first OP_SUBTRACT is
	// emitted before c is loaded, so c's two-byte OP_GET_GLOBAL sits
	// between the two OP_SUBTRACTs. a - (b - c) would emit them back to
	// back.
	chunk := compile(t, `var a = 3; var b = 2; var c = 1; print a - b - c;`)
	var subs []int
	for i, b := range chunk.Code {
		if bytecode.OpCode(b) == bytecode.OpSubtract {
			subs = append(subs, i)
		}
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 OP_SUBTRACT instructions, got %d", len(subs))
	}
	if subs[1]-subs[0] != 3 || bytecode.OpCode(chunk.Code[subs[0]+1]) != bytecode.OpGetGlobal {
		t.Errorf("expected c to be loaded between the two OP_SUBTRACTs, got code %v", chunk.Code)
	}
}

func TestCompileErrorsReported(t *testing.T) {
	tests := []string{
		`print;`,
		`var;`,
		`fun() {}`,
		`{ print 1;`,
	}
	for _, src := range tests {
		if _, err := Compile(src, table.NewInterner()); err == nil {
			t.Errorf("expected compile error for %q", src)
		}
	}
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	if _, err := Compile(`return 1;`, table.NewInterner()); err == nil {
		t.Error("expected error returning from top-level code")
	}
}

func TestStringLiteralsInterned(t *testing.T) {
	interner := table.NewInterner()
	_, err := Compile(`var a = "shared"; var b = "shared";`, interner)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !interner.Has("shared") {
		t.Error("expected literal to be interned")
	}
}
