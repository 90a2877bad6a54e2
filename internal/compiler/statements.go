package compiler

import (
	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/lexer"
	"github.com/sentra-lang/nox/internal/value"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(lexer.Fun):
		c.funDeclaration()
	case c.match(lexer.Var):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.p.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(lexer.Equal) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(lexer.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function(kindFunction, c.p.previous.Lexeme)
	c.defineVariable(global)
}

// function compiles one function's parameter list and body under a
// fresh nested Compiler, then emits OP_CLOSURE (plus one (isLocal,
// index) pair per captured upvalue) in the *enclosing* compiler.
func (c *Compiler) function(kind funcKind, name string) {
	fc := newCompiler(c.p, c, kind, name)
	fc.beginScope()

	fc.consume(lexer.LeftParen, "Expect '(' after function name.")
	if !fc.check(lexer.RightParen) {
		for {
			fc.fn.Arity++
			if fc.fn.Arity > 255 {
				fc.errorAtCurrent("Can't have more than 255 parameters.")
			}
			fc.consume(lexer.Identifier, "Expect parameter name.")
			fc.declareVariable()
			fc.markInitialized()
			if !fc.match(lexer.Comma) {
				break
			}
		}
	}
	fc.consume(lexer.RightParen, "Expect ')' after parameters.")
	fc.consume(lexer.LeftBrace, "Expect '{' before function body.")
	fc.block()

	fn := fc.endCompiler()

	idx := c.makeConstant(value.FromObject(fn))
	c.emitOpByte(bytecode.OpClosure, idx)
	for _, uv := range fc.upvalues {
		if uv.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(uv.index)
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(lexer.Print):
		c.printStatement()
	case c.match(lexer.If):
		c.ifStatement()
	case c.match(lexer.While):
		c.whileStatement()
	case c.match(lexer.For):
		c.forStatement()
	case c.match(lexer.Return):
		c.returnStatement()
	case c.match(lexer.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(lexer.RightBrace) && !c.check(lexer.EOF) {
		c.declaration()
	}
	c.consume(lexer.RightBrace, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after value.")
	c.emitOp(bytecode.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) ifStatement() {
	c.consume(lexer.LeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)

	if c.match(lexer.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.currentChunk().Code)
	c.consume(lexer.LeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(lexer.LeftParen, "Expect '(' after 'for'.")

	switch {
	case c.match(lexer.Semicolon):
		// no initializer
	case c.match(lexer.Var):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.currentChunk().Code)
	exitJump := -1
	if !c.match(lexer.Semicolon) {
		c.expression()
		c.consume(lexer.Semicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.check(lexer.RightParen) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := len(c.currentChunk().Code)
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(lexer.RightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	} else {
		c.consume(lexer.RightParen, "Expect ')' after for clauses.")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.kind == kindScript {
		c.error("Can't return from top-level code.")
	}
	if c.match(lexer.Semicolon) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after return value.")
	c.emitOp(bytecode.OpReturn)
}
