package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/compiler"
	"github.com/sentra-lang/nox/internal/table"
)

func TestDisassembleChunkListsConstantAndReturn(t *testing.T) {
	interner := table.NewInterner()
	fn, err := compiler.Compile(`print 1 + 2;`, interner)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var buf bytes.Buffer
	DisassembleChunk(&buf, fn.Chunk, "test")

	out := buf.String()
	if !strings.Contains(out, "== test ==") {
		t.Errorf("missing header, got %q", out)
	}
	if !strings.Contains(out, bytecode.OpConstant.String()) {
		t.Errorf("expected an OP_CONSTANT line, got %q", out)
	}
	if !strings.Contains(out, bytecode.OpReturn.String()) {
		t.Errorf("expected a trailing OP_RETURN line, got %q", out)
	}
}

func TestDumpFunctionRecursesIntoNestedFunctions(t *testing.T) {
	interner := table.NewInterner()
	fn, err := compiler.Compile(`fun outer() { fun inner() { return 1; } return inner; }`, interner)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	dump := DumpFunction(fn)
	if dump.Name != "<script>" {
		t.Errorf("got top-level name %q, want <script>", dump.Name)
	}
	if len(dump.Functions) != 1 || dump.Functions[0].Name != "outer" {
		t.Fatalf("expected nested dump for outer, got %+v", dump.Functions)
	}
	nestedOfOuter := dump.Functions[0].Functions
	if len(nestedOfOuter) != 1 || nestedOfOuter[0].Name != "inner" {
		t.Fatalf("expected outer to nest inner, got %+v", nestedOfOuter)
	}
}

func TestMarshalProducesMsgpackPayload(t *testing.T) {
	interner := table.NewInterner()
	fn, err := compiler.Compile(`print "hi";`, interner)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	encoded, marshalErr := Marshal(DumpFunction(fn))
	if marshalErr != nil {
		t.Fatalf("marshal: %v", marshalErr)
	}
	if len(encoded) == 0 {
		t.Error("expected non-empty msgpack payload")
	}
}
