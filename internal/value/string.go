package value

import "hash/fnv"

// String is the interpreter's immutable, interned string object. The
// interning pool (package table) guarantees at most one String exists
// per distinct byte sequence, which is what lets Equal compare strings
// by handle identity.
type String struct {
	Chars string
	Hash  uint32
}

// HashString computes the 32-bit FNV-1a hash used both to place a
// string in the interning/globals tables and to label the String
// object itself.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// NewString wraps raw bytes as a String object. Callers outside the
// interning pool should not call this directly — use Interner.Intern
// in package table so
// the uniqueness invariant holds.
func NewString(chars string) *String {
	return &String{Chars: chars, Hash: HashString(chars)}
}

func (s *String) ObjType() ObjType { return ObjTypeString }
func (s *String) String() string   { return s.Chars }
