// Package compiler implements the single-pass Pratt/recursive-descent
// compiler: it consumes tokens straight from the scanner and emits
// bytecode directly, with no intermediate AST. One Compiler exists per
// nested function currently being compiled; it links to its enclosing
// Compiler so locals/upvalues can be resolved across function
// boundaries during the single pass.
package compiler

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/errors"
	"github.com/sentra-lang/nox/internal/lexer"
	"github.com/sentra-lang/nox/internal/object"
	"github.com/sentra-lang/nox/internal/table"
	"github.com/sentra-lang/nox/internal/value"
)

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxConstPoolIndex = 255
)

type funcKind int

const (
	kindScript funcKind = iota
	kindFunction
)

type local struct {
	name       string
	depth      int // -1 means "declared but not yet initialized"
	isCaptured bool
}

type upvalueDesc struct {
	index   byte
	isLocal bool
}

// parser is the module-wide state for one compile(): the current and
// previous tokens, and the sticky error-recovery flags.
type parser struct {
	scanner   *lexer.Scanner
	current   lexer.Token
	previous  lexer.Token
	hadError  bool
	panicMode bool
	interner  *table.Interner
	out       io.Writer
	firstErr  *errors.InterpError
}

// Compiler holds the state for one function currently being compiled:
// its target Function, its locals/upvalues, and its current lexical
// scope depth. It is linked to the Compiler for its lexically
// enclosing function (nil at the top level).
type Compiler struct {
	p          *parser
	enclosing  *Compiler
	fn         *object.Function
	kind       funcKind
	locals     []local
	upvalues   []upvalueDesc
	scopeDepth int
}

// Compile compiles source into a top-level Function, or returns the
// first diagnostic produced while doing so. interner is the shared
// string pool the whole interpreter session uses; identifiers and
// string literals are interned through it so the interning invariant
// holds across repeated REPL compiles.
func Compile(source string, interner *table.Interner) (*object.Function, *errors.InterpError) {
	p := &parser{
		scanner:  lexer.New(source),
		interner: interner,
		out:      os.Stderr,
	}
	c := newCompiler(p, nil, kindScript, "")

	c.advance()
	for !c.check(lexer.EOF) {
		c.declaration()
	}
	c.consume(lexer.EOF, "Expect end of expression.")
	fn := c.endCompiler()

	if p.hadError {
		return nil, p.firstErr
	}
	return fn, nil
}

func newCompiler(p *parser, enclosing *Compiler, kind funcKind, name string) *Compiler {
	fn := object.NewFunction()
	if name != "" {
		fn.Name = p.interner.Intern(name)
	}
	c := &Compiler{p: p, enclosing: enclosing, fn: fn, kind: kind}
	// Slot 0 of every frame is reserved for the Closure being executed.
	c.locals = append(c.locals, local{name: "", depth: 0})
	return c
}

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.p.previous = c.p.current
	for {
		tok := c.p.scanner.NextToken()
		c.p.current = tok
		if tok.Type != lexer.Error {
			break
		}
		c.errorAtCurrent(tok.Lexeme)
	}
}

func (c *Compiler) check(t lexer.TokenType) bool { return c.p.current.Type == t }

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t lexer.TokenType, msg string) {
	if c.p.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// --- error reporting ---------------------------------------------------

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.p.current, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.p.previous, msg) }

func (c *Compiler) errorAt(tok lexer.Token, msg string) {
	if c.p.panicMode {
		return
	}
	c.p.panicMode = true
	c.p.hadError = true

	where := ""
	switch {
	case tok.Type == lexer.EOF:
		where = " at end"
	case tok.Type == lexer.Error:
		// lexeme already is the message
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.p.out, "[line %d] Error%s: %s\n", tok.Line, where, msg)

	if c.p.firstErr == nil {
		c.p.firstErr = errors.NewCompileError(tok.Line, msg)
	}
}

func (c *Compiler) synchronize() {
	c.p.panicMode = false
	for c.p.current.Type != lexer.EOF {
		if c.p.previous.Type == lexer.Semicolon {
			return
		}
		switch c.p.current.Type {
		case lexer.Fun, lexer.Var, lexer.For, lexer.If, lexer.While, lexer.Print, lexer.Return:
			return
		}
		c.advance()
	}
}

// --- emission -----------------------------------------------------------

func (c *Compiler) currentChunk() *bytecode.Chunk { return c.fn.Chunk }

func (c *Compiler) emitByte(b byte) {
	c.currentChunk().Write(b, c.p.previous.Line)
}

func (c *Compiler) emitOp(op bytecode.OpCode) { c.emitByte(byte(op)) }

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *Compiler) emitOpByte(op bytecode.OpCode, b byte) {
	c.emitByte(byte(op))
	c.emitByte(b)
}

// emitConstant adds v to the constant pool and emits OP_CONSTANT for
// it, erroring if the one-byte operand would overflow.
func (c *Compiler) emitConstant(v value.Value) {
	idx := c.makeConstant(v)
	c.emitOpByte(bytecode.OpConstant, idx)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx := c.currentChunk().AddConstant(v)
	if idx > maxConstPoolIndex {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// emitJump writes a jump opcode with a two-byte placeholder operand
// and returns the offset of the placeholder's first byte.
func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.currentChunk().Code) - 2
}

// patchJump back-patches the placeholder at offset with the distance
// from just after it to the current end of the chunk.
func (c *Compiler) patchJump(offset int) {
	jump := len(c.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
		return
	}
	c.currentChunk().Code[offset] = byte((jump >> 8) & 0xff)
	c.currentChunk().Code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits OP_LOOP with the backward offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.OpLoop)
	offset := len(c.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte((offset >> 8) & 0xff))
	c.emitByte(byte(offset & 0xff))
}

func (c *Compiler) emitReturn() {
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)
}

func (c *Compiler) endCompiler() *object.Function {
	c.emitReturn()
	return c.fn
}

// --- scopes, locals, upvalues -------------------------------------------

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		top := c.locals[len(c.locals)-1]
		if top.isCaptured {
			c.emitOp(bytecode.OpCloseUpvalue)
		} else {
			c.emitOp(bytecode.OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) addLocal(name string) {
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	c.addLocal(c.p.previous.Lexeme)
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// parseVariable consumes an identifier and, for a local, declares it;
// for a global, returns the name's constant-pool index.
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(lexer.Identifier, errMsg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.p.previous.Lexeme)
}

func (c *Compiler) identifierConstant(name string) byte {
	s := c.p.interner.Intern(name)
	return c.makeConstant(value.FromObject(s))
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(bytecode.OpDefineGlobal, global)
}

// resolveLocal scans this compiler's locals from the top, matching by
// name. A match on a local whose depth marker is still -1 (mid own
// initializer) is reported as an error.
func resolveLocal(c *Compiler, name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name != name {
			continue
		}
		if c.locals[i].depth == -1 {
			c.error("Can't read local variable in its own initializer.")
		}
		return i
	}
	return -1
}

// resolveUpvalue finds name in an enclosing function, capturing it as
// an upvalue of every Compiler between here and there.
func resolveUpvalue(c *Compiler, name string) int {
	if c.enclosing == nil {
		return -1
	}
	if local := resolveLocal(c.enclosing, name); local != -1 {
		c.enclosing.locals[local].isCaptured = true
		return addUpvalue(c, byte(local), true)
	}
	if up := resolveUpvalue(c.enclosing, name); up != -1 {
		return addUpvalue(c, byte(up), false)
	}
	return -1
}

func addUpvalue(c *Compiler, index byte, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		c.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	c.fn.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

func numberValue(lexeme string) value.Value {
	n, _ := strconv.ParseFloat(lexeme, 64)
	return value.Number(n)
}
