package vdc

// drawCell renders one character cell: row cellRow (0-based from the top
// of the visible area), column col, at screen pixel origin (x0, y), for
// the cellYOffset-th pixel row within that cell.
func (v *Vdc) drawCell(cellRow, col, cellYOffset, x0, y int) {
	rowStride := v.visibleWidth / v.cellWidth
	cellIndex := cellRow*rowStride + col

	charAddr := (v.dispStartAddr() + cellIndex) % vramSize
	charCode := v.vram[charAddr]

	var attr byte
	if v.attrEnabled() {
		attrAddr := (v.attrStartAddr() + cellIndex) % vramSize
		attr = v.vram[attrAddr]
	}

	fg := v.regs[RegColor] >> 4
	bg := v.regs[RegColor] & 0x0F
	if v.attrEnabled() {
		fg = attr & 0x0F
	}

	reverse := attr&attrReverse != 0
	underline := attr&attrUnderline != 0
	altCharset := attr&attrAltCharset != 0

	cursorAddr := int(v.regs[RegCursorPosHi])<<8 | int(v.regs[RegCursorPosLo])
	isCursorCell := cursorAddr == cellIndex &&
		cellYOffset >= v.cursorStartLine && cellYOffset <= v.cursorEndLine

	setOffset := 0
	if altCharset {
		setOffset = 256
	}
	var glyphRow byte
	if cellYOffset <= v.cellVisibleHeight {
		glyphAddr := (v.charBaseAddr() + (setOffset+int(charCode))*16 + cellYOffset) % vramSize
		glyphRow = v.vram[glyphAddr]
	}

	underlineHere := underline && cellYOffset == int(v.regs[RegUnderlineLine]&0x0F)

	fgColor := colorLookup(fg)
	bgColor := colorLookup(bg)
	if reverse != v.globalReverse() {
		fgColor, bgColor = bgColor, fgColor
	}
	if underlineHere {
		fgColor, bgColor = bgColor, fgColor
	}
	if isCursorCell {
		fgColor, bgColor = bgColor, fgColor
	}

	for bit := 0; bit < v.cellVisibleWidth; bit++ {
		set := glyphRow&(0x80>>uint(bit)) != 0
		if set {
			v.fb.Set(x0+bit, y, fgColor)
		} else {
			v.fb.Set(x0+bit, y, bgColor)
		}
	}
	for bit := v.cellVisibleWidth; bit < v.cellWidth; bit++ {
		v.fb.Set(x0+bit, y, colorLookup(0))
	}
}
