package table

import "github.com/sentra-lang/nox/internal/value"

// Interner is the strings table: a Table whose values are unused and
// whose keys are the set of currently-live interned strings. Intern is
// the sole path by which a *value.String should ever be created —
// holding to that is what makes Equal's handle-identity comparison
// correct for strings.
type Interner struct {
	table Table
}

func NewInterner() *Interner {
	return &Interner{}
}

// Intern returns the unique String for chars, allocating one only if
// no String with this content exists yet.
func (in *Interner) Intern(chars string) *value.String {
	hash := value.HashString(chars)
	if s := in.table.FindString(chars, hash); s != nil {
		return s
	}
	s := &value.String{Chars: chars, Hash: hash}
	in.table.Set(s, value.Nil())
	return s
}

// Has reports whether chars is currently interned, for tests.
func (in *Interner) Has(chars string) bool {
	return in.table.FindString(chars, value.HashString(chars)) != nil
}
