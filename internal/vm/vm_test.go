package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sentra-lang/nox/internal/table"
)

func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	interner := table.NewInterner()
	machine := New(interner, 0)
	var out bytes.Buffer
	machine.SetOutput(&out)
	if err := machine.Interpret(source); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func TestEndToEndPrograms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic precedence", `print 1 + 2 * 3;`, "7\n"},
		{"string concat", `var a = "foo"; var b = "bar"; print a + b;`, "foobar\n"},
		{"block scoping", `var x = 1; { var x = 2; print x; } print x;`, "2\n1\n"},
		{"for loop", `for (var i = 0; i < 3; i = i + 1) print i;`, "0\n1\n2\n"},
		{"uninitialized global", `var a; print a;`, "nil\n"},
		{"closure counter", `fun mk() { var i = 0; fun inc() { i = i + 1; return i; } return inc; } var c = mk(); print c(); print c(); print c();`, "1\n2\n3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runSource(t, tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"undefined variable", `print undefined;`, "Undefined variable 'undefined'."},
		{"mixed add", `print "a" + 1;`, "Operands must be two numbers or two strings."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSource(t, tt.source)
			if err == nil {
				t.Fatal("expected a runtime error, got none")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestClosureSharing(t *testing.T) {
	source := `
fun pair() {
  var shared = 0;
  fun get() { return shared; }
  fun set(v) { shared = v; }
  set(5);
  print get();
  return get;
}
var getAfter = pair();
print getAfter();
`
	got, err := runSource(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5\n5\n" {
		t.Errorf("got %q, want %q", got, "5\n5\n")
	}
}

func TestShortCircuit(t *testing.T) {
	source := `
fun sideEffect() { print "called"; return true; }
if (false and sideEffect()) { }
if (true or sideEffect()) { }
print "done";
`
	got, err := runSource(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done\n" {
		t.Errorf("side-effect expression should not have run, got %q", got)
	}
}

func TestArityMismatch(t *testing.T) {
	_, err := runSource(t, `fun f(a, b) { return a + b; } f(1);`)
	if err == nil {
		t.Fatal("expected an arity error")
	}
	if !strings.Contains(err.Error(), "Expected 2 arguments but got 1.") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStackOverflow(t *testing.T) {
	_, err := runSource(t, `fun recurse() { return recurse(); } recurse();`)
	if err == nil {
		t.Fatal("expected a stack overflow error")
	}
	if !strings.Contains(err.Error(), "Stack overflow.") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInterning(t *testing.T) {
	interner := table.NewInterner()
	a := interner.Intern("hello")
	b := interner.Intern("hello")
	if a != b {
		t.Error("two interns of the same content should return the identical handle")
	}
}
