package lexer

import (
	"io"
	"strings"
)

// Lexer turns a character stream into a token stream. It owns no file-system
// state of its own: the caller supplies an io.Reader and a FileHandle (from
// a path Interner it also owns), and the Lexer stamps every token and error
// with that file's positions.
type Lexer struct {
	rd     *reader
	strs   *Interner // string-literal interner, supplied by the caller
	peeked *rune
}

// New creates a Lexer reading from r, whose positions are reported against
// file (a handle into the caller's path interner). strs is the interner
// used for string-literal contents; callers typically share one Interner
// across every Lexer in an include stack.
func New(r io.Reader, file FileHandle, strs *Interner) *Lexer {
	return &Lexer{rd: newReader(r, file), strs: strs}
}

func (l *Lexer) Pos() Position {
	return l.rd.pos()
}

func (l *Lexer) errf(kind Kind, pos Position, value string) *Error {
	return &Error{Pos: pos, Kind: kind, Value: value}
}

// isIdentStart reports whether c can start a label, mnemonic, directive,
// register, or flag identifier.
func isIdentStart(c rune) bool {
	return c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinDigit(c rune) bool {
	return c == '0' || c == '1'
}

// Next returns the next token, or (nil, nil) at end of input. A non-nil
// error is always fatal: the lexer does not attempt to resynchronize.
func (l *Lexer) Next() (*Token, error) {
	c, ok := l.rd.next()
	if !ok {
		return nil, nil
	}

	switch {
	case c == '\n':
		return &Token{Type: TokenNewLine, Pos: l.rd.pos(), Literal: "\n"}, nil
	case c == ' ' || c == '\t' || c == '\r':
		return l.Next()
	case c == ';':
		return l.lexComment()
	case c == '"':
		return l.lexString()
	case c == '@':
		return l.lexDirective()
	case c == '\'':
		return l.lexCharLiteral()
	case c == '$' && l.peekIsHex():
		return l.lexHexNumber()
	case c == '%' && l.peekIsBin():
		return l.lexBinNumber()
	case isDigit(c):
		return l.lexDecNumber(c)
	case isIdentStart(c):
		return l.lexIdent(c)
	default:
		return l.lexSymbol(c)
	}
}

// TokenizeAll drains the lexer into a slice, stopping at the first error.
func (l *Lexer) TokenizeAll() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, *tok)
	}
}

func (l *Lexer) peekIsHex() bool {
	c, ok := l.rd.next()
	if !ok {
		return false
	}
	l.rd.unread(c)
	return isHexDigit(c)
}

func (l *Lexer) peekIsBin() bool {
	c, ok := l.rd.next()
	if !ok {
		return false
	}
	l.rd.unread(c)
	return isBinDigit(c)
}

func (l *Lexer) lexComment() (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	for {
		c, ok := l.rd.next()
		if !ok || c == '\n' {
			if c == '\n' {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	return &Token{Type: TokenComment, Pos: start, Literal: sb.String()}, nil
}

func (l *Lexer) lexString() (*Token, error) {
	start := l.rd.pos()
	var raw strings.Builder
	for {
		c, ok := l.rd.next()
		if !ok {
			return nil, l.errf(KindUnterminatedString, start, raw.String())
		}
		if c == '"' {
			break
		}
		raw.WriteRune(c)
		if c == '\\' {
			esc, ok := l.rd.next()
			if !ok {
				return nil, l.errf(KindUnterminatedString, start, raw.String())
			}
			raw.WriteRune(esc)
			if esc == '$' {
				for k := 0; k < 2; k++ {
					hc, ok := l.rd.next()
					if !ok {
						return nil, l.errf(KindUnterminatedString, start, raw.String())
					}
					raw.WriteRune(hc)
				}
			}
		}
	}
	value, err := unescape(raw.String())
	if err != nil {
		return nil, l.errf(KindBadEscape, start, raw.String())
	}
	h := l.strs.Intern(value)
	return &Token{Type: TokenString, Pos: start, Literal: value, Str: h}, nil
}

// lexCharLiteral handles a single-quoted character constant 'c', producing
// a Number token holding its byte value. It does not support escapes.
func (l *Lexer) lexCharLiteral() (*Token, error) {
	start := l.rd.pos()
	c, ok := l.rd.next()
	if !ok {
		return nil, l.errf(KindBadNumber, start, "")
	}
	closing, ok := l.rd.next()
	if !ok || closing != '\'' {
		return nil, l.errf(KindBadNumber, start, string(c))
	}
	return &Token{Type: TokenNumber, Pos: start, Literal: string(c), Number: uint32(byte(c))}, nil
}

func (l *Lexer) lexHexNumber() (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	for {
		c, ok := l.rd.next()
		if !ok || !isHexDigit(c) {
			if ok {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	v, err := parseUintBase(sb.String(), 16)
	if err != nil {
		return nil, l.errf(KindBadNumber, start, sb.String())
	}
	return &Token{Type: TokenNumber, Pos: start, Literal: "$" + sb.String(), Number: v}, nil
}

func (l *Lexer) lexBinNumber() (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	for {
		c, ok := l.rd.next()
		if !ok || !isBinDigit(c) {
			if ok {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	v, err := parseUintBase(sb.String(), 2)
	if err != nil {
		return nil, l.errf(KindBadNumber, start, sb.String())
	}
	return &Token{Type: TokenNumber, Pos: start, Literal: "%" + sb.String(), Number: v}, nil
}

func (l *Lexer) lexDecNumber(first rune) (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, ok := l.rd.next()
		if !ok || !isDigit(c) {
			if ok {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	v, err := parseUintBase(sb.String(), 10)
	if err != nil {
		return nil, l.errf(KindBadNumber, start, sb.String())
	}
	return &Token{Type: TokenNumber, Pos: start, Literal: sb.String(), Number: v}, nil
}

func parseUintBase(s string, base int) (uint32, error) {
	var v uint64
	for _, c := range s {
		d, err := digitVal(c)
		if err != nil {
			return 0, err
		}
		v = v*uint64(base) + uint64(d)
	}
	return uint32(v), nil
}

func digitVal(c rune) (int, error) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), nil
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, nil
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, nil
	}
	return 0, &Error{Kind: KindBadNumber, Value: string(c)}
}

func (l *Lexer) lexIdent(first rune) (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, ok := l.rd.next()
		if !ok || !isIdentCont(c) {
			if ok {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}

	// Shadow register AF' is the one identifier allowed a trailing quote.
	if sb.String() == "AF" || sb.String() == "af" {
		c, ok := l.rd.next()
		if ok && c == '\'' {
			return &Token{Type: TokenRegister, Pos: start, Literal: "AF'"}, nil
		}
		if ok {
			l.rd.unread(c)
		}
	}

	name := sb.String()
	upper := strings.ToUpper(name)

	switch {
	case strings.Contains(name, "."):
		return l.classifyLabel(start, name)
	case mnemonics[upper]:
		return &Token{Type: TokenOperation, Pos: start, Literal: upper}, nil
	case registers[upper]:
		return &Token{Type: TokenRegister, Pos: start, Literal: upper}, nil
	case flags[upper]:
		return &Token{Type: TokenFlag, Pos: start, Literal: upper}, nil
	default:
		return &Token{Type: TokenLabel, Pos: start, Literal: name, LabelKind: LabelGlobal}, nil
	}
}

// classifyLabel distinguishes Local labels (".loop", a single leading dot
// and nothing else) from Direct labels ("struct.field", one interior dot).
// A label with a leading dot AND an interior dot, or more than one dot, is
// a lexical error: the dot forms do not compose.
func (l *Lexer) classifyLabel(pos Position, name string) (*Token, error) {
	dots := strings.Count(name, ".")
	switch {
	case dots != 1:
		return nil, l.errf(KindBadLabel, pos, name)
	case strings.HasPrefix(name, "."):
		return &Token{Type: TokenLabel, Pos: pos, Literal: name, LabelKind: LabelLocal}, nil
	default:
		return &Token{Type: TokenLabel, Pos: pos, Literal: name, LabelKind: LabelDirect}, nil
	}
}

// lexDirective consumes the @name following an '@' sigil and classifies it
// against the directive table.
func (l *Lexer) lexDirective() (*Token, error) {
	start := l.rd.pos()
	var sb strings.Builder
	for {
		c, ok := l.rd.next()
		if !ok || !isIdentCont(c) {
			if ok {
				l.rd.unread(c)
			}
			break
		}
		sb.WriteRune(c)
	}
	upper := strings.ToUpper(sb.String())
	if !directives[upper] {
		return nil, l.errf(KindUnrecognized, start, "@"+sb.String())
	}
	return &Token{Type: TokenDirective, Pos: start, Literal: upper}, nil
}

// lexSymbol matches punctuation greedily: try a 3-char match, then 2-char,
// then fall back to a single character.
func (l *Lexer) lexSymbol(first rune) (*Token, error) {
	start := l.rd.pos()

	second, hasSecond := l.rd.next()
	if hasSecond {
		if third, hasThird := l.rd.next(); hasThird {
			three := string(first) + string(second) + string(third)
			if symbol3[three] {
				return &Token{Type: TokenSymbol, Pos: start, Literal: three}, nil
			}
			l.rd.unread(third)
		}
		two := string(first) + string(second)
		if symbol2[two] {
			return &Token{Type: TokenSymbol, Pos: start, Literal: two}, nil
		}
		l.rd.unread(second)
	}

	if first < 128 && symbol1[byte(first)] {
		return &Token{Type: TokenSymbol, Pos: start, Literal: string(first)}, nil
	}
	return nil, l.errf(KindUnrecognized, start, string(first))
}
