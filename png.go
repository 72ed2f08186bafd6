package gdimage

import (
	"github.com/Skryldev/gdimage/core"
	"github.com/Skryldev/gdimage/raster"
)

// pngDriver keeps full alpha. A blank PNG is transparent-aware: the
// background becomes the transparent key, drawing replaces pixels instead of
// blending, and alpha is saved.
type pngDriver struct{ truecolor }

func (pngDriver) format() core.Format { return core.FormatPNG }

func (pngDriver) blank(c *raster.Canvas, bg raster.Pixel) error {
	c.SetTransparent(bg)
	c.SetAlphaBlending(false)
	c.SetSaveAlpha(true)
	return c.FilledRectangle(0, 0, c.Width()-1, c.Height()-1, bg)
}

func (pngDriver) adopt(c *raster.Canvas) { c.SetSaveAlpha(true) }

// encodeOptions maps quality 0-100 onto compression level 9-0.
func (pngDriver) encodeOptions(quality int) core.EncodeOptions {
	if quality <= 0 {
		quality = core.DefaultQuality
	}
	quality = min(quality, 100)
	return core.EncodeOptions{CompressionLevel: (100 - quality) / 10}
}

func (pngDriver) composites() bool { return true }
