package asm

import (
	"github.com/lookbusy1344/z80asm/lexer"
)

// Symbol is a named value: either a plain constant (a label's address, a
// @struct field offset or size, or an @enum member) or a deferred
// expression (every @symbol binding) evaluated lazily against the rest of
// the table. Exactly one
// of Value/Expr is meaningful, selected by HasExpr.
type Symbol struct {
	Name       string
	Pos        lexer.Position
	Value      int32
	Expr       Expr
	HasExpr    bool
	References []lexer.Position
}

// SymbolTable is write-once: a name can be Define'd exactly once. Multiple
// Reference calls against an undefined name are fine; they accumulate
// touch sites so an end-of-assembly "undefined symbol" report can point at
// every use, not just the first.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Define inserts a new symbol. Redefining an existing name is a fatal
// ErrRedefinedSymbol: this assembler has no notion of mutable variables.
func (st *SymbolTable) Define(name string, pos lexer.Position, value int32) error {
	existing, ok := st.symbols[name]
	if ok && definedMarker(existing) {
		return &Error{Pos: pos, Kind: ErrRedefinedSymbol, Msg: "symbol " + name + " already defined at " + existing.Pos.String()}
	}
	var refs []lexer.Position
	if ok {
		refs = existing.References
	}
	st.symbols[name] = &Symbol{Name: name, Pos: pos, Value: value, References: refs}
	return nil
}

// DefineExpr inserts a symbol whose value is computed lazily, for @symbol
// bindings that reference other symbols (possibly still undefined) or the
// here-counter.
func (st *SymbolTable) DefineExpr(name string, pos lexer.Position, expr Expr) error {
	existing, ok := st.symbols[name]
	if ok && definedMarker(existing) {
		return &Error{Pos: pos, Kind: ErrRedefinedSymbol, Msg: "symbol " + name + " already defined at " + existing.Pos.String()}
	}
	var refs []lexer.Position
	if ok {
		refs = existing.References
	}
	st.symbols[name] = &Symbol{Name: name, Pos: pos, Expr: expr, HasExpr: true, References: refs}
	return nil
}

// Reference records a use site of name, for later unused/undefined
// reporting, regardless of whether name is currently defined.
func (st *SymbolTable) Reference(name string, pos lexer.Position) {
	if sym, ok := st.symbols[name]; ok {
		sym.References = append(sym.References, pos)
		return
	}
	st.symbols[name] = &Symbol{Name: name, References: []lexer.Position{pos}}
}

// Lookup reports whether name has been defined (value or expr), without
// evaluating a deferred expression.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	if !ok {
		return nil, false
	}
	return sym, definedMarker(sym)
}

// definedMarker reports whether sym carries an actual definition (as
// opposed to a placeholder created by Reference for an as-yet-undefined
// name). A symbol is defined once its Pos is non-zero: Define/DefineExpr
// always stamp Pos, while the Reference placeholder never does.
func definedMarker(sym *Symbol) bool {
	return sym != nil && sym.Pos != (lexer.Position{})
}

// Resolver returns a Resolver closed over st, suitable for passing to
// Evaluate. Resolving a symbol that itself holds a deferred expression
// evaluates that expression in turn; a cycle between two deferred symbols
// is caught by an in-progress marker rather than recursing forever, and
// reported the same way an undefined symbol is (the caller can't tell the
// difference, which matches the spec's "yields None" treatment of both).
func (st *SymbolTable) Resolver(here int32) Resolver {
	inProgress := make(map[string]bool)
	var resolve func(name string) (int32, bool)
	resolve = func(name string) (int32, bool) {
		sym, ok := st.symbols[name]
		if !ok || !definedMarker(sym) {
			return 0, false
		}
		if !sym.HasExpr {
			return sym.Value, true
		}
		if inProgress[name] {
			return 0, false
		}
		inProgress[name] = true
		defer delete(inProgress, name)
		v, err := Evaluate(sym.Expr, resolve, here)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return resolve
}

// UndefinedSymbols returns every name that was referenced but never
// defined. The order is not defined: it follows map iteration.
func (st *SymbolTable) UndefinedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range st.symbols {
		if !definedMarker(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// UnusedSymbols returns every defined symbol with no recorded reference.
func (st *SymbolTable) UnusedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range st.symbols {
		if definedMarker(sym) && len(sym.References) == 0 {
			out = append(out, sym)
		}
	}
	return out
}

func (st *SymbolTable) All() map[string]*Symbol {
	return st.symbols
}

// DefinedAddresses returns the set of plain-constant symbol values (labels,
// @struct field offsets and sizes, @enum members), for the linter's
// jump-target check. A DefineExpr symbol's Value field isn't meaningful
// until evaluated, so those (every @symbol binding) are left out; in
// practice every label goes through Define with its address as the value,
// never DefineExpr.
func (st *SymbolTable) DefinedAddresses() map[int32]bool {
	out := make(map[int32]bool)
	for _, sym := range st.symbols {
		if definedMarker(sym) && !sym.HasExpr {
			out[sym.Value] = true
		}
	}
	return out
}
