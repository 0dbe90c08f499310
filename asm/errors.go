package asm

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/z80asm/lexer"
)

// ErrorKind categorizes an assembler-level failure.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrUndefinedSymbol
	ErrRedefinedSymbol
	ErrBadOperand
	ErrRangeOverflow
	ErrCircularInclude
	ErrIncludeNotFound
	ErrMacroArity
	ErrMacroRecursion
	ErrUserAssert
	ErrUserDie
	ErrDivideByZero
	ErrAddressOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrUndefinedSymbol:
		return "undefined symbol"
	case ErrRedefinedSymbol:
		return "symbol redefined"
	case ErrBadOperand:
		return "bad operand"
	case ErrRangeOverflow:
		return "value out of range"
	case ErrCircularInclude:
		return "circular include"
	case ErrIncludeNotFound:
		return "include not found"
	case ErrMacroArity:
		return "macro argument count mismatch"
	case ErrMacroRecursion:
		return "macro recursion too deep"
	case ErrUserAssert:
		return "assertion failed"
	case ErrUserDie:
		return "die directive"
	case ErrDivideByZero:
		return "division by zero"
	case ErrAddressOverflow:
		return "address overflow"
	default:
		return "assembler error"
	}
}

// Error is a fatal assembler failure carrying its location and a
// human-readable message. IncludeTrace, when set, lists @include sites
// that Error() prints as "included from" lines; Assembler leaves it empty.
type Error struct {
	Pos          lexer.Position
	Kind         ErrorKind
	Msg          string
	IncludeTrace []lexer.Position
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", e.Pos, e.Kind, e.Msg)
	for i := len(e.IncludeTrace) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "\n\tincluded from %s", e.IncludeTrace[i])
	}
	return sb.String()
}

// Warning is a non-fatal diagnostic. Assembler records each @echo message
// as one; unused-symbol and unreachable-code findings come from tools.Lint
// instead.
type Warning struct {
	Pos lexer.Position
	Msg string
}

// Diagnostics collects errors and warnings across an assembly run. The
// first error wins for purposes of aborting the run, but every warning
// collected before that point is preserved for reporting.
type Diagnostics struct {
	Errors   []*Error
	Warnings []Warning
}

func (d *Diagnostics) AddError(e *Error) {
	d.Errors = append(d.Errors, e)
}

func (d *Diagnostics) AddWarning(w Warning) {
	d.Warnings = append(d.Warnings, w)
}

func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

func (d *Diagnostics) Error() string {
	var sb strings.Builder
	for i, e := range d.Errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}
