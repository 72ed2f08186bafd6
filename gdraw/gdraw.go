// Package gdraw reads and writes the libgd 2.x native ".gd" raster format.
//
// The layout is big-endian: a uint16 signature (0xFFFE truecolor, 0xFFFF
// palette), uint16 width and height, a truecolor flag byte, then the colour
// table and pixels. Truecolor pixels are packed int32 values whose alpha runs
// from 0 (opaque) to 127 (transparent).
package gdraw

import (
	"image"
)

const (
	sigTrueColor uint16 = 0xFFFE
	sigPalette   uint16 = 0xFFFF

	maxColors = 256
	alphaMax  = 127

	// Same ceiling as the raster engine.
	maxPixels = 400_000_000

	noTransparent int32 = -1
)

func init() {
	image.RegisterFormat("gd", "\xff\xfe", Decode, DecodeConfig)
	image.RegisterFormat("gd", "\xff\xff", Decode, DecodeConfig)
}

// to8 widens a 7-bit gd alpha to 8-bit opacity.
func to8(a uint8) uint8 {
	return 255 - ((a << 1) + (a >> 6))
}

// to7 narrows 8-bit opacity to a 7-bit gd alpha.
func to7(a uint8) uint8 {
	return (255 - a) >> 1
}
