package lexer

import "fmt"

// FileHandle names a source file via a path interner. Kept as a distinct
// type from Handle so a Position can't accidentally be built from a string
// handle instead of a file handle.
type FileHandle Handle

// Position is a location in a source file: a file handle plus 1-based line
// and column. It is a small value type, stamped on every token and every
// link record.
type Position struct {
	File   FileHandle
	Line   uint32
	Column uint32
}

// Format renders a position as "path:line:column". paths resolves the
// FileHandle back to a path string; passing nil renders the raw handle
// index instead, which is useful in tests that don't carry a real file
// manager around.
func (p Position) Format(paths *Interner) string {
	if paths == nil {
		return fmt.Sprintf("<file %d>:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", paths.Lookup(Handle(p.File)), p.Line, p.Column)
}

func (p Position) String() string {
	return p.Format(nil)
}
