// Package raster is the in-process drawing engine behind every image driver.
//
// A *Canvas is an owned truecolor bitmap with GD-style state: an alpha
// blending flag, a save-alpha flag and an optional transparent colour key.
// Colours cross the API as packed Pixel values whose alpha runs from 0
// (opaque) to 127 (fully transparent).
package raster

import (
	"fmt"
	"image/color"
)

// AlphaMax is the fully transparent engine alpha.
const AlphaMax = 127

// Pixel is a packed truecolor value: alpha<<24 | red<<16 | green<<8 | blue.
type Pixel uint32

// TrueColorAlpha packs channels without validation. Use Canvas.ColorAllocateAlpha
// when the inputs come from callers.
func TrueColorAlpha(r, g, b, a int) Pixel {
	return Pixel(uint32(a&0x7F)<<24 | uint32(r&0xFF)<<16 | uint32(g&0xFF)<<8 | uint32(b&0xFF))
}

// Components unpacks p.
func (p Pixel) Components() (r, g, b, a int) {
	return int(p>>16) & 0xFF, int(p>>8) & 0xFF, int(p) & 0xFF, int(p>>24) & 0x7F
}

func (p Pixel) String() string {
	r, g, b, a := p.Components()
	return fmt.Sprintf("pixel(%d,%d,%d,a%d)", r, g, b, a)
}

// nrgba widens the 7-bit engine alpha the way libgd's PNG writer does.
func (p Pixel) nrgba() color.NRGBA {
	r, g, b, a := p.Components()
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(255 - ((a << 1) + (a >> 6)))}
}

// pixelOf narrows an 8-bit alpha; it inverts nrgba exactly for every 7-bit value.
func pixelOf(c color.NRGBA) Pixel {
	return TrueColorAlpha(int(c.R), int(c.G), int(c.B), int(255-c.A)>>1)
}
