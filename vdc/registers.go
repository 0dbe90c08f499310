package vdc

import "fmt"

// vramSize is the 8563's addressable VRAM window: 16 bits of address.
const vramSize = 1 << 16

// Vdc models the MOS 8563 CRTC register file, its VRAM, and the derived
// raster geometry recomputed lazily whenever a layout-affecting register
// changes.
type Vdc struct {
	regs    [numRegisters]byte
	addrReg byte // currently selected register, set by a port-0 write
	vram    [vramSize]byte

	dirty bool

	cellWidth, cellHeight           int
	cellVisibleWidth, cellVisibleHeight int
	signalWidth, signalHeight       int
	visibleWidth, visibleHeight     int
	hsyncStart, hsyncWidth          int
	vsyncStart                      int
	topBorder, bottomBorder         int
	leftBorder, rightBorder         int
	cursorStartLine, cursorEndLine  int

	rasterX, rasterY int
	status           byte
	frameReady       bool

	fb *Framebuffer
}

// New creates a Vdc with every register zeroed, matching the chip's
// power-on state; the first register write a real boot ROM performs sets
// up the actual display geometry.
func New() *Vdc {
	v := &Vdc{dirty: true, fb: NewFramebuffer(1, 1)}
	return v
}

// Read implements a port-pair read: port&1==0 reads the status register,
// and any odd port reads the currently selected register's data (with
// register 31, the VRAM data window, auto-incrementing the VRAM address
// pointer held in registers 18/19 on every access).
func (v *Vdc) Read(port int) byte {
	if port&1 == 0 {
		return v.status | statusAlwaysSet
	}
	switch v.addrReg {
	case RegVRAMData:
		addr := v.vramAddr()
		val := v.vram[addr%vramSize]
		v.setVRAMAddr(addr + 1)
		return val
	case RegLightPenHi, RegLightPenLo, RegCursorPosHi, RegCursorPosLo,
		RegVRAMAddrHi, RegVRAMAddrLo:
		return v.regs[v.addrReg]
	default:
		if int(v.addrReg) >= numRegisters {
			return 0xFF
		}
		return v.regs[v.addrReg]
	}
}

// Write implements the matching port-pair write: an even port selects a
// register (masked to the 5 address bits the chip decodes), an odd port
// writes the selected register's data, again auto-incrementing the VRAM
// pointer for register 31.
func (v *Vdc) Write(port int, data byte) {
	if port&1 == 0 {
		v.addrReg = data & 0x1F
		return
	}
	switch v.addrReg {
	case RegVRAMData:
		addr := v.vramAddr()
		v.vram[addr%vramSize] = data
		v.setVRAMAddr(addr + 1)
		return
	}
	if int(v.addrReg) < numRegisters {
		v.regs[v.addrReg] = data
	}
	if isLayoutRegister(v.addrReg) {
		v.dirty = true
	}
}

// LoadRegisters applies a name->value register map (as loaded from
// VDCConfig.InitialRegisters) through the normal port-pair write path, so
// an unrecognized name reports an error instead of being silently
// dropped the way a direct regs[] write would.
func (v *Vdc) LoadRegisters(initial map[string]int) error {
	for name, val := range initial {
		reg, ok := RegisterByName(name)
		if !ok {
			return fmt.Errorf("vdc: unknown initial register %q", name)
		}
		v.Write(0, reg)
		v.Write(1, byte(val))
	}
	return nil
}

func isLayoutRegister(reg byte) bool {
	switch reg {
	case RegHTotal, RegHDisplayed, RegHSyncPos, RegSyncWidth,
		RegVTotal, RegVTotalAdjust, RegVDisplayed, RegVSyncPos,
		RegCharTotalVert, RegCharDispVert, RegCharTotalDisp,
		RegCursorStart, RegCursorEnd:
		return true
	}
	return false
}

func (v *Vdc) vramAddr() int {
	return int(v.regs[RegVRAMAddrHi])<<8 | int(v.regs[RegVRAMAddrLo])
}

func (v *Vdc) setVRAMAddr(addr int) {
	addr &= 0xFFFF
	v.regs[RegVRAMAddrHi] = byte(addr >> 8)
	v.regs[RegVRAMAddrLo] = byte(addr)
}

func (v *Vdc) dispStartAddr() int {
	return int(v.regs[RegDispStartAddrHi])<<8 | int(v.regs[RegDispStartAddrLo])
}

func (v *Vdc) attrStartAddr() int {
	return int(v.regs[RegAttrStartAddrHi])<<8 | int(v.regs[RegAttrStartAddrLo])
}

func (v *Vdc) charBaseAddr() int {
	return int(v.regs[RegCharBaseAddr]&0xE0) << 8
}

func (v *Vdc) attrEnabled() bool {
	return v.regs[RegVScroll]&vscrollAttrEnable != 0
}

func (v *Vdc) globalReverse() bool {
	return v.regs[RegVScroll]&vscrollRVS != 0
}

// FrameReady reports whether a new frame has completed since the last
// call, clearing the flag.
func (v *Vdc) FrameReady() bool {
	r := v.frameReady
	v.frameReady = false
	return r
}

// Framebuffer returns the VDC's current rendered frame.
func (v *Vdc) Framebuffer() *Framebuffer {
	return v.fb
}
