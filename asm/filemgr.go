package asm

import (
	"os"
	"path/filepath"

	"github.com/lookbusy1344/z80asm/lexer"
)

// FileManager resolves @include paths against a search-path list and the
// including file's own directory, and tracks the include stack so
// circular includes are caught instead of recursing forever. It also owns
// the path Interner every Position's FileHandle is resolved against.
type FileManager struct {
	Paths   *lexer.Interner
	search  []string
	active  []lexer.FileHandle // files currently being read, innermost last
	visited map[string]bool    // absolute paths currently on the active stack, for the membership test
}

func NewFileManager(searchPaths []string) *FileManager {
	return &FileManager{
		Paths:   lexer.NewInterner(),
		search:  searchPaths,
		visited: make(map[string]bool),
	}
}

// Resolve finds the file named by include (as written in an @include
// directive) relative to fromDir (the directory of the including file),
// falling back to each configured search path in order.
func (fm *FileManager) Resolve(include, fromDir string) (string, error) {
	candidates := []string{filepath.Join(fromDir, include)}
	for _, dir := range fm.search {
		candidates = append(candidates, filepath.Join(dir, include))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", &Error{Kind: ErrIncludeNotFound, Msg: "include not found: " + include}
}

// Push registers path as now-active (being read) and returns its
// FileHandle. It fails with ErrCircularInclude if path is already active,
// i.e. somewhere up the current include stack.
func (fm *FileManager) Push(path string, at lexer.Position) (lexer.FileHandle, error) {
	if fm.visited[path] {
		return 0, &Error{Pos: at, Kind: ErrCircularInclude, Msg: "circular include of " + path}
	}
	fm.visited[path] = true
	h := lexer.FileHandle(fm.Paths.Intern(path))
	fm.active = append(fm.active, h)
	return h, nil
}

// Pop retires the innermost active file, allowing it to be included again
// from a sibling branch of the include tree.
func (fm *FileManager) Pop() {
	n := len(fm.active)
	if n == 0 {
		return
	}
	h := fm.active[n-1]
	fm.active = fm.active[:n-1]
	delete(fm.visited, fm.Paths.Lookup(lexer.Handle(h)))
}

// Depth returns how many files are currently open, innermost included
// first-to-last.
func (fm *FileManager) Depth() int {
	return len(fm.active)
}
