package tools

import (
	"sort"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/lexer"
)

// XrefEntry is one symbol's full cross-reference: where it was defined
// and every site that referenced it, in source order.
type XrefEntry struct {
	Name       string
	Defined    lexer.Position
	IsDefined  bool
	References []lexer.Position
}

// Xref builds a cross-reference table from a finished symbol table,
// sorted by name for stable, diffable output.
func Xref(st *asm.SymbolTable) []XrefEntry {
	all := st.All()
	entries := make([]XrefEntry, 0, len(all))
	for name, sym := range all {
		e := XrefEntry{Name: name, References: sym.References}
		if sym.Pos != (lexer.Position{}) {
			e.Defined = sym.Pos
			e.IsDefined = true
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
