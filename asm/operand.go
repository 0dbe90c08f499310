package asm

import (
	"github.com/lookbusy1344/z80asm/lexer"
)

// OperandKind is the syntactic shape of a single instruction operand.
type OperandKind int

const (
	OperandRegister  OperandKind = iota // a bare register name: A, BC, IX, ...
	OperandIndirect                     // (HL), (BC), (DE), (nn), (IX+d), (IY+d), (C)
	OperandImmediate                    // a constant-or-symbolic expression
	OperandCondition                    // Z, NZ, C, NC, PE, PO, P, M used as a jump/call/ret condition
)

// Operand is one parsed instruction operand. Register is
// normalized to upper case; Disp is only meaningful for the (IX+d)/(IY+d)
// indirect forms.
type Operand struct {
	Kind     OperandKind
	Register string
	Disp     Expr
	Expr     Expr
	Pos      lexer.Position
}

// conditionMnemonics is the set of mnemonics whose operand grammar never
// accepts a bare 8-bit register C/NC in operand position: for these, the
// lexer's Register token "C" (it has no separate Flag token, since its
// spelling is shared with the register) means the carry condition instead.
var conditionMnemonics = map[string]bool{
	"JP": true, "JR": true, "CALL": true, "RET": true,
}

// ParseOperand reads one operand and advances past it. inCondition is true
// when this operand is parsed for a mnemonic (jp/jr/call/ret) whose
// grammar never takes a bare register C here, so that spelling resolves
// to the carry flag condition rather than register C.
func (p *Parser) ParseOperand(inCondition bool) (Operand, error) {
	t := p.peek()
	switch {
	case inCondition && t.Type == lexer.TokenRegister && t.Literal == "C":
		p.next()
		return Operand{Kind: OperandCondition, Register: t.Literal, Pos: t.Pos}, nil
	case t.Type == lexer.TokenRegister:
		p.next()
		return Operand{Kind: OperandRegister, Register: t.Literal, Pos: t.Pos}, nil
	case t.Type == lexer.TokenFlag:
		p.next()
		return Operand{Kind: OperandCondition, Register: t.Literal, Pos: t.Pos}, nil
	case t.Type == lexer.TokenSymbol && t.Literal == "(":
		return p.parseIndirectOperand()
	default:
		expr, err := p.ParseExpr()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandImmediate, Expr: expr, Pos: t.Pos}, nil
	}
}

func (p *Parser) parseIndirectOperand() (Operand, error) {
	open := p.next() // consume '('
	inner := p.peek()

	if inner.Type == lexer.TokenRegister && (inner.Literal == "IX" || inner.Literal == "IY") {
		p.next()
		op := Operand{Kind: OperandIndirect, Register: inner.Literal, Pos: open.Pos}
		if t := p.peek(); t.Type == lexer.TokenSymbol && (t.Literal == "+" || t.Literal == "-") {
			disp, err := p.ParseExpr()
			if err != nil {
				return Operand{}, err
			}
			op.Disp = disp
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return Operand{}, err
		}
		return op, nil
	}

	if inner.Type == lexer.TokenRegister {
		p.next()
		if _, err := p.expectSymbol(")"); err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandIndirect, Register: inner.Literal, Pos: open.Pos}, nil
	}

	expr, err := p.ParseExpr()
	if err != nil {
		return Operand{}, err
	}
	if _, err := p.expectSymbol(")"); err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandIndirect, Expr: expr, Pos: open.Pos}, nil
}
