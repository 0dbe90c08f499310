package asm

import (
	"github.com/lookbusy1344/z80asm/lexer"
)

// LinkKind is the patch shape a deferred Link writes into the output
// buffer once its expression can be resolved.
type LinkKind int

const (
	LinkByte       LinkKind = iota // one unsigned byte, 0..255
	LinkSignedByte                 // one signed byte, -128..127 (relative jump targets)
	LinkWord                       // two bytes, little-endian
	LinkSpace                      // @ds fill: Offset..Offset+len-1 all written with the low byte of the value
	LinkAssert                     // not written at all; only checked for truthiness
)

// Link is a deferred patch: an expression that couldn't be fully resolved
// at the point it was emitted (typically a forward reference to a label
// defined later in the file), recorded so the linker can patch the output
// buffer once every symbol is known.
type Link struct {
	Pos    lexer.Position
	Kind   LinkKind
	Offset int    // byte offset into the output buffer
	Len    int    // only meaningful for LinkSpace
	Expr   Expr
	Msg    string // only meaningful for LinkAssert, the @assert message
}

// Linker accumulates Links during assembly and patches them against a
// final SymbolTable in one pass at the end. Exactly one Link ever targets
// a given byte range: the assembler core records one Link for every
// expression-valued slot, even when the expression already resolves where
// it is emitted, and the Link writes the slot's final value.
type Linker struct {
	links []Link
}

func (lk *Linker) Add(l Link) {
	lk.links = append(lk.links, l)
}

// Resolve patches every Link into buf using st for symbol lookups. here is
// evaluated per-Link from the Link's own recorded offset, since @here/$
// inside a deferred expression means "the address the link was emitted
// at", not the address at link-resolution time.
func (lk *Linker) Resolve(buf []byte, st *SymbolTable, base int32, diags *Diagnostics) {
	for _, l := range lk.links {
		here := base + int32(l.Offset)
		resolve := st.Resolver(here)
		v, err := Evaluate(l.Expr, resolve, here)
		if err != nil {
			if ae, ok := err.(*Error); ok {
				diags.AddError(ae)
			} else {
				diags.AddError(&Error{Pos: l.Pos, Kind: ErrSyntax, Msg: err.Error()})
			}
			continue
		}
		if err := lk.patch(buf, l, v, diags); err != nil {
			diags.AddError(err)
		}
	}
}

func (lk *Linker) patch(buf []byte, l Link, v int32, diags *Diagnostics) *Error {
	switch l.Kind {
	case LinkByte:
		if v < 0 || v > 0xFF {
			return &Error{Pos: l.Pos, Kind: ErrRangeOverflow, Msg: "byte value out of range"}
		}
		buf[l.Offset] = byte(v)
	case LinkSignedByte:
		if v < -128 || v > 127 {
			return &Error{Pos: l.Pos, Kind: ErrRangeOverflow, Msg: "relative offset out of range"}
		}
		buf[l.Offset] = byte(int8(v))
	case LinkWord:
		if v < -32768 || v > 0xFFFF {
			return &Error{Pos: l.Pos, Kind: ErrRangeOverflow, Msg: "word value out of range"}
		}
		buf[l.Offset] = byte(uint16(v))
		buf[l.Offset+1] = byte(uint16(v) >> 8)
	case LinkSpace:
		b := byte(v)
		for i := 0; i < l.Len; i++ {
			buf[l.Offset+i] = b
		}
	case LinkAssert:
		if v == 0 {
			msg := l.Msg
			if msg == "" {
				msg = "assertion failed"
			}
			diags.AddError(&Error{Pos: l.Pos, Kind: ErrUserAssert, Msg: msg})
		}
	}
	return nil
}
