package asm

import (
	"strconv"

	"github.com/lookbusy1344/z80asm/lexer"
)

// Macro is a named, fixed-arity token template. Expansion is purely
// positional substitution of argument tokens for parameter placeholders;
// there is no hygiene, so a macro body that defines a label will collide
// with another expansion's label of the same name unless the caller gives
// each expansion distinct labels.
type Macro struct {
	Name   string
	Pos    lexer.Position
	Params []string
	Body   []lexer.Token
}

// MacroTable holds every @macro defined so far. Like SymbolTable, it is
// write-once: redefining a macro name is a fatal error.
type MacroTable struct {
	macros map[string]*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

func (mt *MacroTable) Define(m *Macro) error {
	if existing, ok := mt.macros[m.Name]; ok {
		return &Error{Pos: m.Pos, Kind: ErrSyntax, Msg: "macro " + m.Name + " already defined at " + existing.Pos.String()}
	}
	mt.macros[m.Name] = m
	return nil
}

func (mt *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := mt.macros[name]
	return m, ok
}

// MacroExpander expands a macro invocation into a flat token slice,
// substituting each parameter's token run for its argument tokens
// wherever it appears in the body. It guards against runaway recursion
// (a macro whose body invokes itself, directly or through another macro)
// with a call-stack depth limit, since this syntax has no other way to
// prevent an infinite expansion.
type MacroExpander struct {
	table    *MacroTable
	maxDepth int
	stack    []string
}

func NewMacroExpander(table *MacroTable) *MacroExpander {
	return &MacroExpander{table: table, maxDepth: 64}
}

// Expand substitutes args (one token run per parameter, in declaration
// order) into m's body and returns the resulting flat token slice. args
// must have the same length as m.Params; a mismatch is returned as
// ErrMacroArity.
func (me *MacroExpander) Expand(m *Macro, args [][]lexer.Token, at lexer.Position) ([]lexer.Token, error) {
	if len(me.stack) >= me.maxDepth {
		return nil, &Error{Pos: at, Kind: ErrMacroRecursion, Msg: "macro expansion too deep (possible recursive macro)"}
	}
	if len(args) != len(m.Params) {
		return nil, &Error{Pos: at, Kind: ErrMacroArity, Msg: "macro " + m.Name + " expects " + strconv.Itoa(len(m.Params)) + " arguments, got " + strconv.Itoa(len(args))}
	}
	argByName := make(map[string][]lexer.Token, len(m.Params))
	for i, p := range m.Params {
		argByName[p] = args[i]
	}

	me.stack = append(me.stack, m.Name)
	defer func() { me.stack = me.stack[:len(me.stack)-1] }()

	var out []lexer.Token
	for _, tok := range m.Body {
		if tok.Type == lexer.TokenLabel {
			if sub, ok := argByName[tok.Literal]; ok {
				out = append(out, sub...)
				continue
			}
		}
		out = append(out, tok)
	}
	return out, nil
}
