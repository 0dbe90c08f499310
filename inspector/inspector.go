package inspector

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/vdc"
)

// Inspector is a read-only terminal browser over a finished assembly
// Module and an optional live Vdc: a symbol list, a detail view for the
// selected symbol, and (with a Vdc) a palette panel, laid out the way the teacher's debugger TUI
// panels a running CPU's state — except there is no CPU here to step, so
// everything this shows is a static snapshot taken once at launch.
type Inspector struct {
	app    *tview.Application
	module *asm.Module
	video  *vdc.Vdc

	symbolList *tview.List
	detail     *tview.TextView
	palette    *tview.TextView
}

// New builds an Inspector over module (required) and video (optional; may
// be nil if the run being inspected never touched the VDC).
func New(module *asm.Module, video *vdc.Vdc) *Inspector {
	return &Inspector{app: tview.NewApplication(), module: module, video: video}
}

// Run starts the terminal UI and blocks until the user quits (q or
// Ctrl-C).
func (ins *Inspector) Run() error {
	ins.symbolList = tview.NewList().ShowSecondaryText(true)
	ins.detail = tview.NewTextView().SetDynamicColors(true)
	ins.detail.SetBorder(true).SetTitle("detail")
	ins.symbolList.SetBorder(true).SetTitle("symbols")

	ins.populateSymbols()

	root := tview.NewFlex().
		AddItem(ins.symbolList, 0, 1, true).
		AddItem(ins.detail, 0, 2, false)

	if ins.video != nil {
		ins.palette = tview.NewTextView().SetDynamicColors(true)
		ins.palette.SetBorder(true).SetTitle("palette")
		ins.populatePalette()
		root.AddItem(ins.palette, 0, 1, false)
	}

	ins.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Rune() == 'q' {
			ins.app.Stop()
			return nil
		}
		return ev
	})

	return ins.app.SetRoot(root, true).SetFocus(ins.symbolList).Run()
}

func (ins *Inspector) populateSymbols() {
	all := ins.module.Symbols.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := all[name]
		secondary := "undefined"
		if sym.Pos.Line != 0 {
			secondary = fmt.Sprintf("defined line %d, %d references", sym.Pos.Line, len(sym.References))
		}
		n := name
		ins.symbolList.AddItem(n, secondary, 0, func() {
			ins.showSymbol(n)
		})
	}
}

// populatePalette samples a handful of framebuffer pixels and reports
// which of the 16 RGBI register-file colors each one nearest-matches, a
// cheap way to sanity-check that a captured frame's colors actually land
// on palette entries rather than some interpolated drift.
func (ins *Inspector) populatePalette() {
	fb := ins.video.Framebuffer()
	w, h := fb.Width(), fb.Height()
	samples := []struct {
		label string
		x, y  int
	}{
		{"top-left", 0, 0},
		{"top-right", w - 1, 0},
		{"bottom-left", 0, h - 1},
		{"bottom-right", w - 1, h - 1},
		{"center", w / 2, h / 2},
	}
	fmt.Fprintf(ins.palette, "[yellow]sampled pixels -> nearest palette index[-]\n")
	for _, s := range samples {
		var c colorful.Color
		if w > 0 && h > 0 {
			c = fb.ColorfulAt(s.x, s.y)
		}
		idx := vdc.NearestPaletteColor(c)
		fmt.Fprintf(ins.palette, "%-12s (%3d,%3d) -> %X\n", s.label, s.x, s.y, idx)
	}
}

func (ins *Inspector) showSymbol(name string) {
	sym, ok := ins.module.Symbols.Lookup(name)
	if !ok {
		fmt.Fprintf(ins.detail, "%s: undefined\n", name)
		return
	}
	ins.detail.Clear()
	fmt.Fprintf(ins.detail, "[yellow]%s[-]\n", sym.Name)
	fmt.Fprintf(ins.detail, "value: 0x%04X\n", uint16(sym.Value))
	fmt.Fprintf(ins.detail, "defined at: %s\n", sym.Pos)
	fmt.Fprintf(ins.detail, "references: %d\n", len(sym.References))
	for _, r := range sym.References {
		fmt.Fprintf(ins.detail, "  %s\n", r)
	}
}
