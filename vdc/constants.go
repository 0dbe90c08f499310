package vdc

// Register indices into Vdc.regs, named per the MOS 8563 register map.
const (
	RegHTotal          = 0
	RegHDisplayed      = 1
	RegHSyncPos        = 2
	RegSyncWidth       = 3 // vsync width (high nibble) / hsync width (low nibble)
	RegVTotal          = 4
	RegVTotalAdjust    = 5
	RegVDisplayed      = 6
	RegVSyncPos        = 7
	RegInterlaceMode   = 8
	RegCharTotalVert   = 9 // character height - 1
	RegCursorStart     = 10
	RegCursorEnd       = 11
	RegDispStartAddrHi = 12
	RegDispStartAddrLo = 13
	RegCursorPosHi     = 14
	RegCursorPosLo     = 15
	RegLightPenHi      = 16
	RegLightPenLo      = 17
	RegVRAMAddrHi      = 18
	RegVRAMAddrLo      = 19
	RegVRAMData        = 31
	RegAttrStartAddrHi = 20
	RegAttrStartAddrLo = 21
	RegCharTotalDisp   = 22 // horizontal total (high nibble) / displayed (low nibble)
	RegCharDispVert    = 23 // vertical char displayed, low 5 bits
	RegVScroll         = 24 // vertical scroll + control bits (RVS, copy, etc)
	RegHScroll         = 25 // horizontal scroll + control bits
	RegColor           = 26 // foreground/background color nibbles
	RegRowAddrIncr     = 27
	RegCharBaseAddr    = 28
	RegUnderlineLine   = 29
	RegWordCountB      = 30
	RegBlockCopySrcHi  = 32
	RegBlockCopySrcLo  = 33
	RegDispEnableBegin = 34
	RegDispEnableEnd   = 35
	RegDRAMRefresh     = 36

	numRegisters = 37
)

// registerNames maps the config file's human-readable register names to
// their index, for VDCConfig.InitialRegisters and any other place a
// register needs naming instead of a bare number.
var registerNames = map[string]byte{
	"h_total": RegHTotal, "h_displayed": RegHDisplayed, "h_sync_pos": RegHSyncPos,
	"sync_width": RegSyncWidth, "v_total": RegVTotal, "v_total_adjust": RegVTotalAdjust,
	"v_displayed": RegVDisplayed, "v_sync_pos": RegVSyncPos,
	"interlace_mode": RegInterlaceMode, "char_total_vert": RegCharTotalVert,
	"cursor_start": RegCursorStart, "cursor_end": RegCursorEnd,
	"disp_start_addr_hi": RegDispStartAddrHi, "disp_start_addr_lo": RegDispStartAddrLo,
	"cursor_pos_hi": RegCursorPosHi, "cursor_pos_lo": RegCursorPosLo,
	"attr_start_addr_hi": RegAttrStartAddrHi, "attr_start_addr_lo": RegAttrStartAddrLo,
	"char_disp_vert": RegCharDispVert, "char_total_disp": RegCharTotalDisp,
	"vscroll": RegVScroll, "hscroll": RegHScroll, "color": RegColor,
	"row_addr_incr": RegRowAddrIncr, "char_base_addr": RegCharBaseAddr,
	"underline_line": RegUnderlineLine,
}

// RegisterByName looks up a register index by its config-file name,
// reporting ok=false for an unrecognized name rather than silently
// ignoring it.
func RegisterByName(name string) (byte, bool) {
	reg, ok := registerNames[name]
	return reg, ok
}

// Attribute bit layout for an attribute-RAM byte.
const (
	attrBlink     = 1 << 7
	attrUnderline = 1 << 6
	attrAltCharset = 1 << 5
	attrReverse   = 1 << 4
	// low nibble: foreground color index
)

// Vscroll/control bits (register 24).
const (
	vscrollRVS        = 1 << 6 // global reverse-video
	vscrollCopyMode   = 1 << 7
	vscrollAttrEnable = 1 << 5
)

// Status register bits (port 0 read).
const (
	statusVBlank     = 1 << 5
	statusLightPen   = 1 << 6
	statusAlwaysSet  = 1 << 7 // 8563 ties this high
)

// colorLookup maps a 4-bit RGBI color index to a packed 0xRRGGBB value.
// Per the register map, bit 0 is intensity, bit 1 is blue, bit 2 is
// green, and bit 3 is red; each channel is 0xAA when its bit is set plus
// 0x55 more when the intensity bit is set, the classic RGBI ramp.
func colorLookup(bits byte) uint32 {
	bits &= 0x0F
	intensity := bits&0x01 != 0
	channel := func(set bool) uint32 {
		var v uint32
		if set {
			v += 0xAA
		}
		if intensity {
			v += 0x55
		}
		if v > 0xFF {
			v = 0xFF
		}
		return v
	}
	r := channel(bits&0x08 != 0)
	g := channel(bits&0x04 != 0)
	b := channel(bits&0x02 != 0)
	return r<<16 | g<<8 | b
}
