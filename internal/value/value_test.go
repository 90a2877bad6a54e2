package value

import "testing"

func TestTruthiness(t *testing.T) {
	falsey := []Value{Nil(), Bool(false)}
	truthy := []Value{Bool(true), Number(0), Number(1), FromObject(NewString(""))}

	for _, v := range falsey {
		if !IsFalsey(v) {
			t.Errorf("expected %v to be falsey", v)
		}
	}
	for _, v := range truthy {
		if IsFalsey(v) {
			t.Errorf("expected %v to be truthy", v)
		}
	}
}

func TestEqualNeverPanics(t *testing.T) {
	values := []Value{Nil(), Bool(true), Bool(false), Number(0), Number(1), FromObject(NewString("a"))}
	for _, a := range values {
		for _, b := range values {
			_ = Equal(a, b) // must not panic for any operand pair
		}
	}
}

func TestEqualByKind(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Error("equal numbers should compare equal")
	}
	if Equal(Number(1), Bool(true)) {
		t.Error("values of different kinds should never compare equal")
	}
	if Equal(Nil(), Bool(false)) {
		t.Error("nil and false are distinct values")
	}
}

func TestStringRendering(t *testing.T) {
	cases := map[Value]string{
		Nil():                "nil",
		Bool(true):           "true",
		Bool(false):          "false",
		Number(3):            "3",
		Number(3.5):          "3.5",
		FromObject(NewString("hi")): "hi",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
