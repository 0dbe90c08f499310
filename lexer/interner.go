package lexer

// Handle is a small, cheap-to-copy, cheap-to-compare reference into an
// Interner. Handles count up from zero in interning order, so the zero
// Handle refers to the first string interned.
type Handle int

// Interner assigns stable integer handles to strings. It is an append-only
// arena: once a string is interned its handle never changes or dangles.
// Callers thread an *Interner explicitly through the lexer/parser rather
// than sharing it through a reference-counted cell, per the single-owner
// discipline the rest of this package follows.
type Interner struct {
	strs  []string
	index map[string]Handle
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[string]Handle)}
}

// Intern returns the handle for s, assigning a new one if s hasn't been
// seen before.
func (in *Interner) Intern(s string) Handle {
	if h, ok := in.index[s]; ok {
		return h
	}
	h := Handle(len(in.strs))
	in.strs = append(in.strs, s)
	in.index[s] = h
	return h
}

// Lookup returns the string for a handle previously returned by Intern.
// It panics if h is beyond the handles this interner has issued; a handle
// from another interner that falls in range returns this interner's string.
func (in *Interner) Lookup(h Handle) string {
	return in.strs[int(h)]
}

// Len returns the number of distinct strings interned so far.
func (in *Interner) Len() int {
	return len(in.strs)
}
