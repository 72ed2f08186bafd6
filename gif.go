package gdimage

import (
	"github.com/Skryldev/gdimage/core"
	"github.com/Skryldev/gdimage/raster"
)

// gifClear is the pixel a decoded GIF uses for its transparent index.
var gifClear = raster.TrueColorAlpha(0, 0, 0, raster.AlphaMax)

// gifDriver keeps only the transparent colour key. Quality is ignored.
type gifDriver struct{ truecolor }

func (gifDriver) format() core.Format { return core.FormatGIF }

func (d gifDriver) blank(c *raster.Canvas, bg raster.Pixel) error {
	d.adopt(c)
	return d.truecolor.blank(c, bg)
}

func (gifDriver) adopt(c *raster.Canvas) { c.SetTransparent(gifClear) }

func (gifDriver) encodeOptions(int) core.EncodeOptions {
	return core.EncodeOptions{CompressionLevel: -1}
}
