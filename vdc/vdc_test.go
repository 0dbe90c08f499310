package vdc

import "testing"

// program80x25 writes a minimal but realistic set of layout registers for
// an 80-column, 25-row, 8x8-cell text mode, the shape scenario 8 exercises.
func program80x25(v *Vdc) {
	regs := map[byte]byte{
		RegHTotal:        99,        // 100 char times total
		RegHDisplayed:    80,
		RegHSyncPos:      82,
		RegSyncWidth:     0x09,       // 9-wide hsync, default vsync width
		RegVTotal:        32,         // 33 char rows total
		RegVTotalAdjust:  0,
		RegVDisplayed:    25,
		RegVSyncPos:      29,
		RegCharTotalVert: 7,          // 8 scanlines/cell
		RegCharDispVert:  7,          // all 8 rows visible (inclusive of row 7)
		RegCharTotalDisp: 0x78,       // total width 8 (nibble 7+1), visible 8
		RegCursorStart:   0,
		RegCursorEnd:     7,
	}
	for reg, val := range regs {
		v.Write(0, reg)
		v.Write(1, val)
	}
}

func TestVdcPortPairSelectsAndWritesRegister(t *testing.T) {
	v := New()
	v.Write(0, RegHDisplayed)
	v.Write(1, 80)
	if v.regs[RegHDisplayed] != 80 {
		t.Fatalf("got %d, want 80", v.regs[RegHDisplayed])
	}
	v.Write(0, RegHDisplayed)
	if got := v.Read(1); got != 80 {
		t.Fatalf("read back %d, want 80", got)
	}
}

func TestVdcStatusAlwaysHighBitSet(t *testing.T) {
	v := New()
	if v.Read(0)&statusAlwaysSet == 0 {
		t.Fatal("status register must always read with bit 7 set")
	}
}

func TestVdcVRAMWindowAutoIncrements(t *testing.T) {
	v := New()
	v.Write(0, RegVRAMAddrHi)
	v.Write(1, 0x00)
	v.Write(0, RegVRAMAddrLo)
	v.Write(1, 0x10)

	v.Write(0, RegVRAMData)
	v.Write(1, 'A')
	v.Write(1, 'B')

	if v.vram[0x10] != 'A' || v.vram[0x11] != 'B' {
		t.Fatalf("got %q %q", v.vram[0x10], v.vram[0x11])
	}

	v.Write(0, RegVRAMAddrHi)
	v.Write(1, 0x00)
	v.Write(0, RegVRAMAddrLo)
	v.Write(1, 0x10)
	v.Write(0, RegVRAMData)
	if got := v.Read(1); got != 'A' {
		t.Fatalf("got %q want 'A'", got)
	}
	if got := v.Read(1); got != 'B' {
		t.Fatalf("second read got %q want 'B', auto-increment did not advance", got)
	}
}

func TestVdcLayoutRegisterMarksDirty(t *testing.T) {
	v := New()
	v.dirty = false
	v.Write(0, RegHTotal)
	v.Write(1, 99)
	if !v.dirty {
		t.Fatal("writing a layout register must mark the VDC dirty")
	}
}

func TestVdc80x25LayoutDerivesGeometry(t *testing.T) {
	v := New()
	program80x25(v)
	v.recomputeParameters()

	if v.cellWidth != 8 {
		t.Errorf("cellWidth = %d, want 8", v.cellWidth)
	}
	if v.cellVisibleWidth != 8 {
		t.Errorf("cellVisibleWidth = %d, want 8", v.cellVisibleWidth)
	}
	if v.cellHeight != 8 {
		t.Errorf("cellHeight = %d, want 8", v.cellHeight)
	}
	if v.cellVisibleHeight != 7 {
		t.Errorf("cellVisibleHeight = %d, want 7 (register value, not cell height)", v.cellVisibleHeight)
	}
	if v.visibleWidth != 80*8 {
		t.Errorf("visibleWidth = %d, want %d", v.visibleWidth, 80*8)
	}
	if v.visibleHeight != 25*8 {
		t.Errorf("visibleHeight = %d, want %d", v.visibleHeight, 25*8)
	}
	if v.signalWidth != 100*8 {
		t.Errorf("signalWidth = %d, want %d", v.signalWidth, 100*8)
	}
}

func TestVdcFrameReadyAfterFullRaster(t *testing.T) {
	v := New()
	program80x25(v)
	v.recomputeParameters()

	total := v.signalWidth * v.signalHeight
	sawFrame := false
	for i := 0; i < total+v.signalWidth; i++ {
		v.Tick()
		if v.FrameReady() {
			sawFrame = true
			break
		}
	}
	if !sawFrame {
		t.Fatal("expected a completed frame within one full raster scan")
	}
}

func TestVdcFrameReadyClearsOnRead(t *testing.T) {
	v := New()
	program80x25(v)
	v.recomputeParameters()
	for i := 0; i < v.signalWidth*v.signalHeight+v.signalWidth; i++ {
		v.Tick()
		if v.frameReady {
			break
		}
	}
	if !v.FrameReady() {
		t.Fatal("expected frame ready flag to be set")
	}
	if v.FrameReady() {
		t.Fatal("FrameReady must clear the flag after reporting it once")
	}
}

func TestVdcGlyphRenderedIntoFramebuffer(t *testing.T) {
	v := New()
	program80x25(v)
	v.Write(0, RegColor)
	v.Write(1, 0xF0) // foreground 0xF, background 0x0 so the two are distinguishable
	v.Write(0, RegCursorPosLo)
	v.Write(1, 0xFF) // keep the cursor off cell (0,0) under test

	// Character 'A' (0x41) at cell (0,0); glyph data at char base + 0x41*16.
	v.vram[0] = 0x41
	glyphBase := 0x41 * 16
	v.vram[glyphBase] = 0xFF // top scanline of the glyph, all 8 pixels set

	v.recomputeParameters()
	v.drawCell(0, 0, 0, 0, 0)

	for x := 0; x < 8; x++ {
		if v.fb.pixels[x] == colorLookup(0) {
			t.Fatalf("pixel %d not drawn as foreground", x)
		}
	}
}

func TestVdcGlyphRendersLastVisibleScanline(t *testing.T) {
	v := New()
	program80x25(v) // RegCharTotalVert=7 (cellHeight 8), RegCharDispVert=7 (inclusive last row)
	v.Write(0, RegColor)
	v.Write(1, 0xF0)
	v.Write(0, RegCursorPosLo)
	v.Write(1, 0xFF) // keep the cursor off cell (0,0) under test

	v.vram[0] = 0x41
	glyphBase := 0x41 * 16
	v.vram[glyphBase+7] = 0xFF // bottom scanline of the glyph, all 8 pixels set

	v.recomputeParameters()
	v.drawCell(0, 0, 7, 0, 0)

	for x := 0; x < 8; x++ {
		if v.fb.pixels[x] == colorLookup(0) {
			t.Fatalf("pixel %d on the last visible scanline (cellYOffset==cellVisibleHeight) was left blank", x)
		}
	}
}

func TestVdcUnderlineSwapsColorsWithoutTouchingGlyphBits(t *testing.T) {
	v := New()
	v.cellWidth = 8
	v.cellVisibleWidth = 8
	v.cellVisibleHeight = 7
	v.fb = NewFramebuffer(8, 1)
	v.regs[RegColor] = 0xF0        // foreground 0xF, background 0x0 when attrs are off
	v.regs[RegCharBaseAddr] = 0x20 // glyph base 0x2000
	v.regs[RegVScroll] = vscrollAttrEnable
	v.regs[RegAttrStartAddrHi] = 0x10 // attr RAM at 0x1000, distinct from char codes/glyphs
	v.regs[RegUnderlineLine] = 3
	v.regs[RegCursorPosLo] = 0xFF // keep the cursor off cell (0,0) under test

	v.vram[0] = 0x00                // char code 0 at cell (0,0)
	v.vram[0x1000] = attrUnderline | 0x0F // underline set, attribute foreground 0xF
	v.vram[0x2000+3] = 0xF0         // glyph row at the underline scanline: left nibble set

	v.drawCell(0, 0, 3, 0, 0)

	origFg := colorLookup(0xF)
	origBg := colorLookup(0x00)
	for x := 0; x < 4; x++ {
		if v.fb.pixels[x] != origBg {
			t.Errorf("pixel %d: got %06X, want %06X (bg/fg swapped on the underline scanline)", x, v.fb.pixels[x], origBg)
		}
	}
	for x := 4; x < 8; x++ {
		if v.fb.pixels[x] != origFg {
			t.Errorf("pixel %d: got %06X, want %06X (bg/fg swapped on the underline scanline)", x, v.fb.pixels[x], origFg)
		}
	}
}

func TestVdcBlankBeyondVisibleCellRow(t *testing.T) {
	v := New()
	v.cellWidth = 8
	v.cellVisibleWidth = 4 // only half the cell is visible
	v.cellVisibleHeight = 1
	v.fb = NewFramebuffer(8, 1)
	v.regs[RegColor] = 0xF0     // foreground 0xF, background 0x0
	v.regs[RegCharBaseAddr] = 0x20 // char bitmap base 0x2000, distinct from char-code storage at 0
	v.regs[RegCursorPosLo] = 0xFF  // keep the cursor off cell (0,0) under test
	v.vram[0] = 0x00            // char code 0 at cell (0,0)
	v.vram[0x2000] = 0xFF       // glyph 0's top row, all bits set
	v.drawCell(0, 0, 0, 0, 0)

	fg := colorLookup(0xF)
	for x := 0; x < 4; x++ {
		if v.fb.pixels[x] != fg {
			t.Fatalf("pixel %d within visible width should be foreground", x)
		}
	}
	for x := 4; x < 8; x++ {
		if v.fb.pixels[x] != colorLookup(0) {
			t.Fatalf("pixel %d beyond visible width should be blanked", x)
		}
	}
}

func TestFramebufferResizeDiscardsOldContents(t *testing.T) {
	f := NewFramebuffer(2, 2)
	f.Set(0, 0, 0xFFFFFF)
	f.Resize(4, 4)
	if f.Width() != 4 || f.Height() != 4 {
		t.Fatalf("got %dx%d", f.Width(), f.Height())
	}
	if f.pixels[0] != 0 {
		t.Fatal("resize must not preserve stale pixel data at the old layout")
	}
}

func TestColorLookupIntensityBrightensChannel(t *testing.T) {
	dim := colorLookup(0x08)  // red bit set, no intensity
	bright := colorLookup(0x09) // red bit + intensity
	if bright <= dim {
		t.Fatalf("intensity bit should brighten the channel: dim=%06X bright=%06X", dim, bright)
	}
}
