package vdc

import (
	"image"
	"image/color"
	"io"

	"github.com/jsummers/gobmp"
)

// Framebuffer is a packed RGB pixel buffer the raster state machine draws
// into one pixel at a time.
type Framebuffer struct {
	pixels        []uint32
	width, height int
}

func NewFramebuffer(w, h int) *Framebuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Framebuffer{pixels: make([]uint32, w*h), width: w, height: h}
}

// Resize reallocates the buffer if its dimensions changed, discarding the
// previous contents (matching the chip blanking the screen while its
// layout registers are being reprogrammed).
func (f *Framebuffer) Resize(w, h int) {
	if w == f.width && h == f.height {
		return
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	f.width, f.height = w, h
	f.pixels = make([]uint32, w*h)
}

func (f *Framebuffer) Set(x, y int, rgb uint32) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = rgb
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// Image renders the framebuffer as a standard library image.Image, for
// handing to any Go imaging code (including gobmp.Encode below).
func (f *Framebuffer) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			rgb := f.pixels[y*f.width+x]
			img.Set(x, y, color.RGBA{
				R: byte(rgb >> 16),
				G: byte(rgb >> 8),
				B: byte(rgb),
				A: 0xFF,
			})
		}
	}
	return img
}

// SaveBMP writes the current frame to w as a Windows bitmap, for
// inspecting a captured frame outside of this process (the debugger and
// any offline test tooling share this one encode path).
func (f *Framebuffer) SaveBMP(w io.Writer) error {
	return gobmp.Encode(w, f.Image())
}
