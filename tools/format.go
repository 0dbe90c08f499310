package tools

import (
	"fmt"
	"io"
	"strings"

	"github.com/lookbusy1344/z80asm/lexer"
	"github.com/mattn/go-runewidth"
)

// FormatOptions controls Format's output layout.
type FormatOptions struct {
	IndentWidth int
	ColumnWidth int // column a trailing comment is aligned to
}

// Format re-renders a token stream as canonical source text: one
// statement per line, directives/labels at column 0, instructions
// indented, and trailing comments aligned to a fixed column using
// display-width (not byte-length) padding so a stray wide rune doesn't
// throw off alignment.
func Format(w io.Writer, toks []lexer.Token, strs *lexer.Interner, opts FormatOptions) error {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 4
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = 40
	}
	indent := strings.Repeat(" ", opts.IndentWidth)

	var line strings.Builder
	var trailingComment string
	flush := func() error {
		text := line.String()
		if text == "" && trailingComment == "" {
			return nil
		}
		if trailingComment != "" {
			pad := opts.ColumnWidth - runewidth.StringWidth(text)
			if pad < 1 {
				pad = 1
			}
			text += strings.Repeat(" ", pad) + ";" + trailingComment
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
		line.Reset()
		trailingComment = ""
		return nil
	}

	atLineStart := true
	for _, t := range toks {
		switch t.Type {
		case lexer.TokenNewLine:
			if err := flush(); err != nil {
				return err
			}
			atLineStart = true
			continue
		case lexer.TokenComment:
			trailingComment = t.Literal
			continue
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		} else if !atLineStart || needsIndent(t) {
			line.WriteString(indent)
		}
		line.WriteString(renderToken(t, strs))
		atLineStart = false
	}
	return flush()
}

func needsIndent(t lexer.Token) bool {
	return t.Type == lexer.TokenOperation
}

func renderToken(t lexer.Token, strs *lexer.Interner) string {
	switch t.Type {
	case lexer.TokenString:
		return fmt.Sprintf("%q", strs.Lookup(t.Str))
	case lexer.TokenDirective:
		return "@" + strings.ToLower(t.Literal)
	default:
		return t.Literal
	}
}
