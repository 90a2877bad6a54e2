package compiler

import (
	"github.com/sentra-lang/nox/internal/bytecode"
	"github.com/sentra-lang/nox/internal/lexer"
	"github.com/sentra-lang/nox/internal/value"
)

// Precedence is the Pratt table's climbing ladder, lowest first.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.LeftParen:    {prefix: grouping, infix: call, precedence: PrecCall},
		lexer.Minus:        {prefix: unary, infix: binary, precedence: PrecTerm},
		lexer.Plus:         {infix: binary, precedence: PrecTerm},
		lexer.Slash:        {infix: binary, precedence: PrecFactor},
		lexer.SlashSlash:   {infix: binary, precedence: PrecFactor},
		lexer.Star:         {infix: binary, precedence: PrecFactor},
		lexer.Percent:      {infix: binary, precedence: PrecFactor},
		lexer.Bang:         {prefix: unary},
		lexer.BangEqual:    {infix: binary, precedence: PrecEquality},
		lexer.EqualEqual:   {infix: binary, precedence: PrecEquality},
		lexer.Greater:      {infix: binary, precedence: PrecComparison},
		lexer.GreaterEqual: {infix: binary, precedence: PrecComparison},
		lexer.Less:         {infix: binary, precedence: PrecComparison},
		lexer.LessEqual:    {infix: binary, precedence: PrecComparison},
		lexer.Identifier:   {prefix: variable},
		lexer.String:       {prefix: stringLiteral},
		lexer.Number:       {prefix: number},
		lexer.And:          {infix: and_, precedence: PrecAnd},
		lexer.Or:           {infix: or_, precedence: PrecOr},
		lexer.False:        {prefix: literal},
		lexer.Nil:          {prefix: literal},
		lexer.True:         {prefix: literal},
	}
}

func getRule(t lexer.TokenType) parseRule {
	return rules[t]
}

// expression compiles one expression at the lowest (assignment)
// precedence — the entry point for every expression context.
func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefixRule := getRule(c.p.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.p.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.p.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(lexer.Equal) {
		c.error("Invalid assignment target.")
	}
}

func number(c *Compiler, _ bool) {
	c.emitConstant(numberValue(c.p.previous.Lexeme))
}

func stringLiteral(c *Compiler, _ bool) {
	lexeme := c.p.previous.Lexeme
	chars := lexeme[1 : len(lexeme)-1] // strip the surrounding quotes
	s := c.p.interner.Intern(chars)
	c.emitConstant(value.FromObject(s))
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	opType := c.p.previous.Type
	c.parsePrecedence(PrecUnary)
	switch opType {
	case lexer.Minus:
		c.emitOp(bytecode.OpNegate)
	case lexer.Bang:
		c.emitOp(bytecode.OpNot)
	}
}

func binary(c *Compiler, _ bool) {
	opType := c.p.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)
	switch opType {
	case lexer.Plus:
		c.emitOp(bytecode.OpAdd)
	case lexer.Minus:
		c.emitOp(bytecode.OpSubtract)
	case lexer.Star:
		c.emitOp(bytecode.OpMultiply)
	case lexer.Slash:
		c.emitOp(bytecode.OpDivide)
	case lexer.SlashSlash:
		c.emitOp(bytecode.OpIntDivide)
	case lexer.Percent:
		c.emitOp(bytecode.OpModulus)
	case lexer.EqualEqual:
		c.emitOp(bytecode.OpEqual)
	case lexer.BangEqual:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case lexer.Less:
		c.emitOp(bytecode.OpLess)
	case lexer.LessEqual:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	case lexer.Greater:
		c.emitOp(bytecode.OpGreater)
	case lexer.GreaterEqual:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	}
}

func literal(c *Compiler, _ bool) {
	switch c.p.previous.Type {
	case lexer.False:
		c.emitOp(bytecode.OpFalse)
	case lexer.Nil:
		c.emitOp(bytecode.OpNil)
	case lexer.True:
		c.emitOp(bytecode.OpTrue)
	}
}

func and_(c *Compiler, _ bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func or_(c *Compiler, _ bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.p.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	arg := resolveLocal(c, name)
	if arg != -1 {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else if arg = resolveUpvalue(c, name); arg != -1 {
		getOp, setOp = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && c.match(lexer.Equal) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}

func call(c *Compiler, _ bool) {
	argCount := c.argumentList()
	c.emitOpByte(bytecode.OpCall, argCount)
}

func (c *Compiler) argumentList() byte {
	count := 0
	if !c.check(lexer.RightParen) {
		for {
			c.expression()
			if count == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(lexer.Comma) {
				break
			}
		}
	}
	c.consume(lexer.RightParen, "Expect ')' after arguments.")
	return byte(count)
}
