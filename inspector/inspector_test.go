package inspector

import (
	"strings"
	"testing"

	"github.com/rivo/tview"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/lexer"
	"github.com/lookbusy1344/z80asm/vdc"
)

func newTestInspector(t *testing.T, module *asm.Module, video *vdc.Vdc) *Inspector {
	t.Helper()
	ins := New(module, video)
	ins.symbolList = tview.NewList().ShowSecondaryText(true)
	ins.detail = tview.NewTextView().SetDynamicColors(true)
	return ins
}

func TestPopulateSymbolsListsEveryName(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("start", lexer.Position{Line: 1}, 0x100); err != nil {
		t.Fatal(err)
	}
	st.Reference("missing", lexer.Position{Line: 2})

	ins := newTestInspector(t, &asm.Module{Symbols: st}, nil)
	ins.populateSymbols()

	if got := ins.symbolList.GetItemCount(); got != 2 {
		t.Fatalf("got %d items, want 2 (one defined, one undefined reference)", got)
	}
}

func TestShowSymbolRendersDefinedSymbol(t *testing.T) {
	st := asm.NewSymbolTable()
	if err := st.Define("start", lexer.Position{Line: 7}, 0x1234); err != nil {
		t.Fatal(err)
	}
	st.Reference("start", lexer.Position{Line: 8})

	ins := newTestInspector(t, &asm.Module{Symbols: st}, nil)
	ins.showSymbol("start")

	out := ins.detail.GetText(true)
	if !strings.Contains(out, "0x1234") {
		t.Errorf("expected value in output, got %q", out)
	}
	if !strings.Contains(out, "references: 1") {
		t.Errorf("expected reference count in output, got %q", out)
	}
}

func TestShowSymbolUndefinedReportsUndefined(t *testing.T) {
	st := asm.NewSymbolTable()
	st.Reference("ghost", lexer.Position{Line: 1})

	ins := newTestInspector(t, &asm.Module{Symbols: st}, nil)
	ins.showSymbol("ghost")

	out := ins.detail.GetText(true)
	if !strings.Contains(out, "undefined") {
		t.Errorf("expected undefined notice, got %q", out)
	}
}

func TestPopulatePaletteSamplesFramebuffer(t *testing.T) {
	video := vdc.New()
	video.Write(0, vdc.RegHTotal)
	video.Write(1, 9)
	video.Write(0, vdc.RegHDisplayed)
	video.Write(1, 8)
	video.Write(0, vdc.RegVTotal)
	video.Write(1, 9)
	video.Write(0, vdc.RegVDisplayed)
	video.Write(1, 8)
	video.Write(0, vdc.RegCharTotalVert)
	video.Write(1, 7)
	video.Write(0, vdc.RegCharDispVert)
	video.Write(1, 8)
	video.Write(0, vdc.RegCharTotalDisp)
	video.Write(1, 0x78)

	st := asm.NewSymbolTable()
	ins := newTestInspector(t, &asm.Module{Symbols: st}, video)
	ins.palette = tview.NewTextView().SetDynamicColors(true)
	ins.populatePalette()

	out := ins.palette.GetText(true)
	if !strings.Contains(out, "nearest palette index") {
		t.Errorf("expected palette header, got %q", out)
	}
	if !strings.Contains(out, "center") {
		t.Errorf("expected a center sample row, got %q", out)
	}
}
