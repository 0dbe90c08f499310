package lexer

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	strs := NewInterner()
	l := New(strings.NewReader(src), FileHandle(0), strs)
	toks, err := l.TokenizeAll()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func TestLexerNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want uint32
	}{
		{"42", 42},
		{"$FF", 0xFF},
		{"$ff", 0xff},
		{"%1010", 0b1010},
		{"0", 0},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks := tokenize(t, c.src)
			if len(toks) != 1 || toks[0].Type != TokenNumber {
				t.Fatalf("got %v", toks)
			}
			if toks[0].Number != c.want {
				t.Fatalf("got %d want %d", toks[0].Number, c.want)
			}
		})
	}
}

func TestLexerMnemonicVsLabel(t *testing.T) {
	toks := tokenize(t, "LD A, start")
	wantTypes := []TokenType{TokenOperation, TokenRegister, TokenSymbol, TokenLabel}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantTypes), toks)
	}
	for i, want := range wantTypes {
		if toks[i].Type != want {
			t.Errorf("token %d: got %s want %s", i, toks[i].Type, want)
		}
	}
}

func TestLexerLabelKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind LabelKind
	}{
		{"start", LabelGlobal},
		{".loop", LabelLocal},
		{"point.x", LabelDirect},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks := tokenize(t, c.src)
			if len(toks) != 1 || toks[0].Type != TokenLabel {
				t.Fatalf("got %v", toks)
			}
			if toks[0].LabelKind != c.kind {
				t.Fatalf("got kind %d want %d", toks[0].LabelKind, c.kind)
			}
		})
	}
}

func TestLexerSymbolGreedyMatch(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"<<<", []string{"<<<"}},
		{"<<", []string{"<<"}},
		{"<", []string{"<"}},
		{"<=", []string{"<="}},
		{"&&", []string{"&&"}},
		{"&", []string{"&"}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks := tokenize(t, c.src)
			if len(toks) != len(c.want) {
				t.Fatalf("got %v", toks)
			}
			for i, w := range c.want {
				if toks[i].Literal != w {
					t.Errorf("got %q want %q", toks[i].Literal, w)
				}
			}
		})
	}
}

func TestLexerString(t *testing.T) {
	strs := NewInterner()
	l := New(strings.NewReader(`"hi\nthere"`), FileHandle(0), strs)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenString {
		t.Fatalf("got %v", tok)
	}
	if got := strs.Lookup(tok.Str); got != "hi\nthere" {
		t.Fatalf("got %q", got)
	}
}

func TestLexerDirectiveAndShadowRegister(t *testing.T) {
	toks := tokenize(t, "@org EX AF, AF'")
	want := []struct {
		typ TokenType
		lit string
	}{
		{TokenDirective, "ORG"},
		{TokenOperation, "EX"},
		{TokenRegister, "AF"},
		{TokenSymbol, ","},
		{TokenRegister, "AF'"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens: %v", len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Literal != w.lit {
			t.Errorf("token %d: got %s(%q) want %s(%q)", i, toks[i].Type, toks[i].Literal, w.typ, w.lit)
		}
	}
}

func TestLexerBadLabelTwoDots(t *testing.T) {
	strs := NewInterner()
	l := New(strings.NewReader("a.b.c"), FileHandle(0), strs)
	_, err := l.TokenizeAll()
	if err == nil {
		t.Fatal("expected error for label with two dots")
	}
}
