// Package natives implements the interpreter's native-function ABI:
// host-provided builtins installed into a VM's globals table before a
// script runs, callable from Nox code exactly like any other function.
package natives

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sentra-lang/nox/internal/object"
	"github.com/sentra-lang/nox/internal/table"
	"github.com/sentra-lang/nox/internal/value"
)

// Host is the minimal surface a native needs from the VM: a globals
// table to install into and an interner for producing interned
// strings (the line input returns).
type Host interface {
	Globals() *table.Table
	Interner() *table.Interner
}

var processStart = time.Now()

// Install registers every native function into host's globals table.
// Call it once per VM before running any user script; natives persist
// across REPL iterations the same way user-defined globals do.
func Install(host Host) {
	reader := bufio.NewReader(os.Stdin)
	define(host, "clock", clock)
	define(host, "input", input(host, reader))
	define(host, "num", num)
}

func define(host Host, name string, fn object.NativeFn) {
	key := host.Interner().Intern(name)
	host.Globals().Set(key, value.FromObject(object.NewNative(name, fn)))
}

// clock returns wall-clock seconds elapsed since the process started.
// Go has no portable cheap CPU-time read outside syscall.Getrusage, so
// this stands in for the "CPU time since start" a native clock() in a
// single-threaded interpreter is really measuring anyway.
func clock(_ []value.Value) value.Value {
	return value.Number(time.Since(processStart).Seconds())
}

// inputBufSize bounds one input() read, matching the host buffer the
// native ABI documents.
const inputBufSize = 2048

// input prints its single string argument as a prompt, reads one line
// from stdin (trailing newline retained, truncated to inputBufSize),
// and returns it as an interned string.
func input(host Host, reader *bufio.Reader) object.NativeFn {
	return func(args []value.Value) value.Value {
		if len(args) == 1 && args[0].IsString() {
			fmt.Print(args[0].AsString().Chars)
		}
		line, _ := reader.ReadString('\n')
		if len(line) > inputBufSize {
			line = line[:inputBufSize]
		}
		return value.FromObject(host.Interner().Intern(line))
	}
}

// num best-effort parses its string argument as a float by reading the
// longest leading numeric prefix; a non-numeric prefix yields 0.
func num(args []value.Value) value.Value {
	if len(args) != 1 || !args[0].IsString() {
		return value.Number(0)
	}
	return value.Number(numericPrefix(args[0].AsString().Chars))
}

func numericPrefix(s string) float64 {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < n && isDigit(s[i]) {
		i++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	if i == start || (i == start+1 && s[start] == '.') {
		return 0
	}
	end := i
	if end < n && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < n && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
