package value

// ObjType tags the concrete heap-object variant behind an Object handle.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeFunction:
		return "function"
	case ObjTypeNative:
		return "native_function"
	case ObjTypeClosure:
		return "function"
	case ObjTypeUpvalue:
		return "upvalue"
	default:
		return "object"
	}
}

// Object is implemented by every heap-resident value (String, Function,
// Native, Closure, Upvalue). Equality for any non-string Object is
// Go's own pointer identity, which is exactly the handle-identity rule
// §3 specifies; the original C VM's intrusive "next" list threading
// every live object for a manual bulk free has no counterpart here —
// the session's objects become unreachable together when the VM
// itself is dropped, and Go's garbage collector performs the "free
// all at session end" sweep the spec calls for without any bookkeeping
// on our part.
type Object interface {
	ObjType() ObjType
	String() string
}
