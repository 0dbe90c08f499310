package vdc

// recomputeParameters derives every layout field from the current
// register file. It runs lazily, once per dirty write batch, right
// before the raster state machine needs up-to-date geometry.
func (v *Vdc) recomputeParameters() {
	v.dirty = false

	hTotal := int(v.regs[RegHTotal]) + 1
	hDisplayed := int(v.regs[RegHDisplayed])
	vTotal := int(v.regs[RegVTotal]) + 1
	vDisplayed := int(v.regs[RegVDisplayed])

	v.cellWidth = int(v.regs[RegCharTotalDisp]>>4) + 1
	v.cellVisibleWidth = int(v.regs[RegCharTotalDisp] & 0x0F)
	if v.cellVisibleWidth == 0 || v.cellVisibleWidth > v.cellWidth {
		v.cellVisibleWidth = v.cellWidth
	}
	v.cellHeight = int(v.regs[RegCharTotalVert]&0x1F) + 1
	v.cellVisibleHeight = int(v.regs[RegCharDispVert] & 0x1F)
	if v.cellVisibleHeight == 0 || v.cellVisibleHeight > v.cellHeight {
		v.cellVisibleHeight = v.cellHeight
	}

	v.signalWidth = hTotal * v.cellWidth
	v.signalHeight = vTotal*v.cellHeight + int(v.regs[RegVTotalAdjust]&0x1F)

	v.visibleWidth = hDisplayed * v.cellWidth
	v.visibleHeight = vDisplayed * v.cellHeight

	v.hsyncStart = int(v.regs[RegHSyncPos]) * v.cellWidth
	hw := int(v.regs[RegSyncWidth] & 0x0F)
	if hw == 0 {
		hw = 16
	}
	v.hsyncWidth = hw

	v.vsyncStart = int(v.regs[RegVSyncPos]) * v.cellHeight

	v.leftBorder = (v.signalWidth - v.visibleWidth) / 2
	if v.leftBorder < 0 {
		v.leftBorder = 0
	}
	v.rightBorder = v.leftBorder
	v.topBorder = (v.signalHeight - v.visibleHeight) / 2
	if v.topBorder < 0 {
		v.topBorder = 0
	}
	v.bottomBorder = v.topBorder

	v.cursorStartLine = int(v.regs[RegCursorStart] & 0x1F)
	v.cursorEndLine = int(v.regs[RegCursorEnd] & 0x1F)

	if v.signalWidth > 0 && v.signalHeight > 0 {
		v.fb.Resize(v.signalWidth, v.signalHeight)
	}
}

// Tick advances the raster position by one pixel clock. When raster_x
// reaches the horizontal sync point the just-completed scanline is drawn
// in one shot (matching the original's per-scanline render granularity
// rather than a true per-pixel-clock video DAC simulation); when
// raster_y wraps it either enters vblank (at vsync_start, marking a
// completed frame ready for a consumer to copy) or leaves it (wrapping
// back to row 0).
func (v *Vdc) Tick() {
	if v.dirty {
		v.recomputeParameters()
	}
	if v.signalWidth == 0 || v.signalHeight == 0 {
		return
	}

	v.rasterX++
	if v.rasterX == v.hsyncStart {
		v.drawScanline(v.rasterY)
	}
	if v.rasterX >= v.signalWidth {
		v.rasterX = 0
		v.rasterY++
		if v.rasterY >= v.signalHeight {
			v.rasterY = 0
			v.status &^= statusVBlank
		}
		if v.rasterY == v.vsyncStart {
			v.status |= statusVBlank
			v.frameReady = true
		}
	}
}

// drawScanline renders one full horizontal line of the framebuffer: top
// or bottom border, left/right border either side of the active cell
// row, and the cell row itself when y falls in the visible region.
func (v *Vdc) drawScanline(y int) {
	if y < v.topBorder || y >= v.topBorder+v.visibleHeight {
		v.fillRow(y, 0)
		return
	}
	cellRow := (y - v.topBorder) / v.cellHeight
	cellYOffset := (y - v.topBorder) % v.cellHeight

	for x := 0; x < v.leftBorder; x++ {
		v.fb.Set(x, y, colorLookup(0))
	}
	for x := v.leftBorder + v.visibleWidth; x < v.signalWidth; x++ {
		v.fb.Set(x, y, colorLookup(0))
	}

	hDisplayed := v.visibleWidth / v.cellWidth
	for col := 0; col < hDisplayed; col++ {
		v.drawCell(cellRow, col, cellYOffset, v.leftBorder+col*v.cellWidth, y)
	}
}

func (v *Vdc) fillRow(y int, rgb uint32) {
	for x := 0; x < v.signalWidth; x++ {
		v.fb.Set(x, y, rgb)
	}
}
