package gdimage

import (
	"image"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/raster"
)

// gdDriver stores the canvas as-is in libgd's raw format, 7-bit alpha included.
// Quality is ignored.
type gdDriver struct{ truecolor }

func (gdDriver) format() core.Format { return core.FormatGD }

func (gdDriver) encodeOptions(int) core.EncodeOptions {
	return core.EncodeOptions{CompressionLevel: -1}
}

func (gdDriver) export(c *raster.Canvas) (image.Image, error) {
	img := c.Image()
	if img == nil {
		return nil, apperrors.Engine("gd.export", raster.ErrReleased)
	}
	return img, nil
}
