package vdc

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// NearestPaletteColor reports which of the 16 RGBI register-file colors c
// is closest to, by perceptual (CIE Lab) distance rather than naive RGB
// Euclidean distance. Used by the palette inspector panel to show which
// nibble a sampled framebuffer pixel corresponds to, since a pixel read
// back off a captured frame carries no record of which index produced it.
func NearestPaletteColor(c colorful.Color) byte {
	var best byte
	bestDist := -1.0
	for i := 0; i < 16; i++ {
		rgb := colorLookup(byte(i))
		entry := colorful.Color{
			R: float64(uint8(rgb>>16)) / 255,
			G: float64(uint8(rgb>>8)) / 255,
			B: float64(uint8(rgb)) / 255,
		}
		d := c.DistanceLab(entry)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = byte(i)
		}
	}
	return best
}

// ColorfulAt samples the framebuffer pixel at (x, y) as a colorful.Color,
// for handing straight to NearestPaletteColor.
func (f *Framebuffer) ColorfulAt(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return colorful.Color{}
	}
	rgb := f.pixels[y*f.width+x]
	c := color.RGBA{R: byte(rgb >> 16), G: byte(rgb >> 8), B: byte(rgb), A: 0xFF}
	cf, _ := colorful.MakeColor(c)
	return cf
}
