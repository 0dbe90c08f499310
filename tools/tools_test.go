package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/lexer"
)

func TestFormatBasicLayout(t *testing.T) {
	strs := lexer.NewInterner()
	l := lexer.New(strings.NewReader("start:\n\tld a, 5 ; load five\n"), lexer.FileHandle(0), strs)
	toks, err := l.TokenizeAll()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var buf bytes.Buffer
	if err := Format(&buf, toks, strs, FormatOptions{}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "LD A") {
		t.Errorf("expected formatted instruction in output, got %q", out)
	}
	if !strings.Contains(out, ";") {
		t.Errorf("expected the trailing comment to survive formatting, got %q", out)
	}
}

func TestLintFindsUnusedSymbol(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("unused", lexer.Position{Line: 1}, 0x100); err != nil {
		t.Fatal(err)
	}
	if err := st.Define("used", lexer.Position{Line: 2}, 0x200); err != nil {
		t.Fatal(err)
	}
	st.Reference("used", lexer.Position{Line: 3})

	findings := Lint(&asm.Module{Symbols: st}, true)
	if len(findings) != 1 || findings[0].Symbol != "unused" {
		t.Fatalf("got %v", findings)
	}
}

func TestLintDisabledReportsNothing(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("unused", lexer.Position{Line: 1}, 0x100); err != nil {
		t.Fatal(err)
	}
	if findings := Lint(&asm.Module{Symbols: st}, false); len(findings) != 0 {
		t.Fatalf("got %v, want no findings when disabled", findings)
	}
}

func TestLintFlagsUnreachableAfterUnconditionalJump(t *testing.T) {
	st := asm.NewSymbolTable()
	mod := &asm.Module{
		Symbols: st,
		Instructions: []asm.InstrInfo{
			{Addr: 0, Len: 3, Mnemonic: "JP", Unconditional: true, Pos: lexer.Position{Line: 1}},
			{Addr: 3, Len: 1, Mnemonic: "NOP", Unconditional: false, Pos: lexer.Position{Line: 2}},
		},
	}
	findings := Lint(mod, false)
	if len(findings) != 1 || !strings.Contains(findings[0].Message, "unreachable") {
		t.Fatalf("got %v, want one unreachable-code finding", findings)
	}
}

func TestLintNoUnreachableWhenNextAddrIsJumpTarget(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("loop", lexer.Position{Line: 2}, 3); err != nil {
		t.Fatal(err)
	}
	mod := &asm.Module{
		Symbols: st,
		Instructions: []asm.InstrInfo{
			{Addr: 0, Len: 3, Mnemonic: "JP", Unconditional: true, Pos: lexer.Position{Line: 1}},
			{Addr: 3, Len: 1, Mnemonic: "NOP", Unconditional: false, Pos: lexer.Position{Line: 2}},
		},
	}
	if findings := Lint(mod, false); len(findings) != 0 {
		t.Fatalf("got %v, want no findings since addr 3 is a jump target", findings)
	}
}

func TestXrefSortedAndComplete(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("zeta", lexer.Position{Line: 5}, 1); err != nil {
		t.Fatal(err)
	}
	if err := st.Define("alpha", lexer.Position{Line: 1}, 2); err != nil {
		t.Fatal(err)
	}
	st.Reference("alpha", lexer.Position{Line: 10})
	st.Reference("alpha", lexer.Position{Line: 11})
	st.Reference("missing", lexer.Position{Line: 12})

	entries := Xref(st)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Name != "alpha" || entries[1].Name != "missing" || entries[2].Name != "zeta" {
		t.Fatalf("entries not sorted by name: %v", entries)
	}
	for _, e := range entries {
		if e.Name == "alpha" {
			if !e.IsDefined || len(e.References) != 2 {
				t.Errorf("alpha: got defined=%v refs=%d", e.IsDefined, len(e.References))
			}
		}
		if e.Name == "missing" {
			if e.IsDefined {
				t.Error("missing should not be marked defined")
			}
		}
	}
}
