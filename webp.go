package gdimage

import (
	"github.com/Skryldev/gdimage/core"
	"github.com/Skryldev/gdimage/raster"
)

// webpDriver passes quality through and always saves alpha.
type webpDriver struct{ truecolor }

func (webpDriver) format() core.Format { return core.FormatWebP }

func (d webpDriver) blank(c *raster.Canvas, bg raster.Pixel) error {
	d.adopt(c)
	return d.truecolor.blank(c, bg)
}

func (webpDriver) adopt(c *raster.Canvas) { c.SetSaveAlpha(true) }
