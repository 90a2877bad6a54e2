package table

import (
	"fmt"
	"testing"

	"github.com/sentra-lang/nox/internal/value"
)

func TestSetGetDelete(t *testing.T) {
	tbl := New()
	key := &value.String{Chars: "x", Hash: value.HashString("x")}

	if _, ok := tbl.Get(key); ok {
		t.Fatal("expected miss on empty table")
	}

	isNew := tbl.Set(key, value.Number(1))
	if !isNew {
		t.Error("expected first Set to report a new key")
	}
	if v, ok := tbl.Get(key); !ok || v.AsNumber() != 1 {
		t.Errorf("got (%v, %v), want (1, true)", v, ok)
	}

	if tbl.Set(key, value.Number(2)) {
		t.Error("expected second Set on same key to report not-new")
	}

	if !tbl.Delete(key) {
		t.Error("expected Delete to succeed on a present key")
	}
	if _, ok := tbl.Get(key); ok {
		t.Error("expected miss after delete")
	}
}

func TestGrowthPreservesEntries(t *testing.T) {
	tbl := New()
	keys := make([]*value.String, 0, 50)
	for i := 0; i < 50; i++ {
		chars := fmt.Sprintf("key%d", i)
		k := &value.String{Chars: chars, Hash: value.HashString(chars)}
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		if !ok {
			t.Fatalf("key %d (%q) missing after growth", i, k.Chars)
		}
		if v.AsNumber() != float64(i) {
			t.Errorf("key %d (%q): got %v, want %d", i, k.Chars, v.AsNumber(), i)
		}
	}
}

func TestInternerReturnsSharedHandle(t *testing.T) {
	in := NewInterner()
	a := in.Intern("same")
	b := in.Intern("same")
	if a != b {
		t.Error("expected identical String handle for repeated content")
	}
	if in.Intern("same").Chars != "same" {
		t.Error("unexpected content on interned string")
	}
	if in.Has("different") {
		t.Error("did not expect 'different' to be interned yet")
	}
}
