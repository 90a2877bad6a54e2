package debug

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sentra-lang/nox/internal/object"
	"github.com/sentra-lang/nox/internal/value"
)

// ChunkDump is the msgpack-serializable structural dump of one compiled
// function, for the CLI's dump subcommand. It is a debugging export
// format, not a bytecode format the VM can load back in — nothing
// about it is designed for round-tripping.
type ChunkDump struct {
	Name      string      `msgpack:"name"`
	Arity     int         `msgpack:"arity"`
	Upvalues  int         `msgpack:"upvalues"`
	Code      []byte      `msgpack:"code"`
	Lines     []int       `msgpack:"lines"`
	Constants []string    `msgpack:"constants"`
	Functions []ChunkDump `msgpack:"functions,omitempty"`
}

// DumpFunction walks fn's chunk (and every nested function reachable
// through its constant pool) into a ChunkDump tree.
func DumpFunction(fn *object.Function) ChunkDump {
	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.Chars
	}

	d := ChunkDump{
		Name:     name,
		Arity:    fn.Arity,
		Upvalues: fn.UpvalueCount,
		Code:     append([]byte(nil), fn.Chunk.Code...),
		Lines:    append([]int(nil), fn.Chunk.Lines...),
	}
	for _, c := range fn.Chunk.Constants {
		d.Constants = append(d.Constants, c.String())
		if nested, ok := constantFunction(c); ok {
			d.Functions = append(d.Functions, DumpFunction(nested))
		}
	}
	return d
}

func constantFunction(v value.Value) (*object.Function, bool) {
	if !v.IsObject() {
		return nil, false
	}
	fn, ok := v.AsObject().(*object.Function)
	return fn, ok
}

// Marshal encodes a ChunkDump tree as msgpack, which the dump
// subcommand writes to stdout.
func Marshal(d ChunkDump) ([]byte, error) {
	return msgpack.Marshal(d)
}
