package gdimage

import (
	"fmt"
	"image"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/raster"
)

// driver holds the per-format quirks layered over the shared raster engine.
type driver interface {
	format() core.Format

	// blank fills a freshly allocated canvas with bg and sets the flags a
	// new image of this format starts with.
	blank(c *raster.Canvas, bg raster.Pixel) error

	// adopt sets flags on a canvas the driver did not create through blank,
	// such as a decoded or rotated one.
	adopt(c *raster.Canvas)

	encodeOptions(quality int) core.EncodeOptions

	// export returns the pixels handed to the encoder.
	export(c *raster.Canvas) (image.Image, error)

	// composites reports whether a paste from this format blends through a
	// scratch canvas at the requested opacity.
	composites() bool
}

func driverFor(f core.Format) (driver, error) {
	switch f {
	case core.FormatJPEG:
		return jpegDriver{}, nil
	case core.FormatPNG:
		return pngDriver{}, nil
	case core.FormatGIF:
		return gifDriver{}, nil
	case core.FormatWebP:
		return webpDriver{}, nil
	case core.FormatGD:
		return gdDriver{}, nil
	}
	return nil, apperrors.New(apperrors.CategoryInput, "driver",
		fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, f))
}

// truecolor is the behaviour every driver starts from: an opaque fill, the
// caller's quality passed straight through and a flattened export.
type truecolor struct{}

func (truecolor) blank(c *raster.Canvas, bg raster.Pixel) error {
	return c.FilledRectangle(0, 0, c.Width()-1, c.Height()-1, bg)
}

func (truecolor) adopt(*raster.Canvas) {}

func (truecolor) encodeOptions(quality int) core.EncodeOptions {
	return core.EncodeOptions{Quality: quality, CompressionLevel: -1}
}

func (truecolor) export(c *raster.Canvas) (image.Image, error) { return c.Export() }

func (truecolor) composites() bool { return false }
