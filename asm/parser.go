package asm

import (
	"fmt"

	"github.com/lookbusy1344/z80asm/lexer"
)

// Parser walks the flat token stream the lexer produced for one source
// file; for @include, the Assembler pushes a new Parser for the included
// file onto its stack. It exposes the small peek/next/expect surface the rest of this
// package's recursive-descent routines are built on.
type Parser struct {
	toks    []lexer.Token
	pos     int
	strs    *lexer.Interner
	qualify func(name string) string
	touch   func(name string, pos lexer.Position)
}

func NewParser(toks []lexer.Token, strs *lexer.Interner) *Parser {
	return &Parser{toks: toks, strs: strs}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.toks)
}

// peek returns the current token without consuming it. Its Type is
// lexer.TokenEOF past the end of the stream.
func (p *Parser) peek() lexer.Token {
	if p.atEnd() {
		if len(p.toks) == 0 {
			return lexer.Token{Type: lexer.TokenEOF}
		}
		return lexer.Token{Type: lexer.TokenEOF, Pos: p.toks[len(p.toks)-1].Pos}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() lexer.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

// skipNewlines consumes any run of TokenNewLine, used between statements.
func (p *Parser) skipNewlines() {
	for p.peek().Type == lexer.TokenNewLine {
		p.next()
	}
}

func (p *Parser) expectSymbol(lit string) (lexer.Token, error) {
	t := p.peek()
	if t.Type != lexer.TokenSymbol || t.Literal != lit {
		return t, p.errSyntaxf(t, "expected %q, got %s", lit, t)
	}
	return p.next(), nil
}

func (p *Parser) errSyntaxf(t lexer.Token, format string, args ...any) *Error {
	return &Error{Pos: t.Pos, Kind: ErrSyntax, Msg: fmt.Sprintf(format, args...)}
}
