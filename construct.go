package gdimage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/raster"
	"github.com/Skryldev/gdimage/utils"
)

// New builds an image of format from param, which is one of:
//
//   - core.File: decode the file and bind it to the image.
//   - core.Image: duplicate the pixels of another image.
//   - int: a blank canvas of that width; WithHeight and WithBackground are required.
//
// Anything else fails with ErrInvalidArgument.
func New(ctx context.Context, format core.Format, param any, opts ...Option) (*Image, error) {
	switch p := param.(type) {
	case core.File:
		return Open(ctx, format, p, opts...)
	case core.Image:
		return FromImage(format, p, opts...)
	case int:
		s, err := newSettings(opts)
		if err != nil {
			return nil, err
		}
		if s.height == nil {
			return nil, apperrors.New(apperrors.CategoryInput, "image.new",
				fmt.Errorf("%w: height is required with a width", apperrors.ErrInvalidArgument))
		}
		if s.bg == nil {
			return nil, apperrors.New(apperrors.CategoryInput, "image.new",
				fmt.Errorf("%w: background is required with a width", apperrors.ErrInvalidArgument))
		}
		drv, err := driverFor(format)
		if err != nil {
			return nil, err
		}
		return blank(drv, s, p, *s.height, *s.bg)
	}
	return nil, apperrors.New(apperrors.CategoryInput, "image.new",
		fmt.Errorf("%w: cannot build an image from %T", apperrors.ErrInvalidArgument, param))
}

// Blank creates a width x height image of format filled with bg.
func Blank(format core.Format, width, height int, bg core.Color, opts ...Option) (*Image, error) {
	drv, err := driverFor(format)
	if err != nil {
		return nil, err
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return blank(drv, s, width, height, bg)
}

func blank(drv driver, s *settings, width, height int, bg core.Color) (*Image, error) {
	c, err := raster.New(width, height)
	if err != nil {
		return nil, err
	}
	r, g, b, a := bg.RGBA()
	p, err := c.ColorAllocateAlpha(r, g, b, core.AlphaToEngine(a))
	if err == nil {
		err = drv.blank(c, p)
	}
	if err != nil {
		c.Release()
		return nil, err
	}
	return newImage(drv, s, c, nil), nil
}

// FromImage creates an image of format holding the pixels of other. An *Image
// of the same format is duplicated directly; anything else is copied pixel by
// pixel onto a transparent canvas. The result is not bound to a file.
func FromImage(format core.Format, other core.Image, opts ...Option) (*Image, error) {
	drv, err := driverFor(format)
	if err != nil {
		return nil, err
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	if o, ok := other.(*Image); other == nil || (ok && o == nil) {
		return nil, apperrors.New(apperrors.CategoryInput, "image.from_image", apperrors.ErrEmptyInput)
	}

	if o, ok := other.(*Image); ok && o.drv.format() == drv.format() {
		c, err := o.canvas.Clone()
		if err != nil {
			return nil, err
		}
		return newImage(drv, s, c, nil), nil
	}

	dst, err := blank(drv, s, other.Width(), other.Height(), core.Transparent)
	if err != nil {
		return nil, err
	}
	if err := core.CopyPixels(other, dst); err != nil {
		dst.Close()
		return nil, err
	}
	return dst, nil
}

// Open decodes file as format and binds the file to the result. A missing
// file fails with ErrNotFound; undecodable bytes fail with an
// *apperrors.InvalidImageFileError naming file.
func Open(ctx context.Context, format core.Format, file core.File, opts ...Option) (*Image, error) {
	drv, err := driverFor(format)
	if err != nil {
		return nil, err
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	local, err := materialise(ctx, file)
	if err != nil {
		return nil, err
	}
	defer local.Close()
	return openLocal(ctx, drv, s, file, local.Path())
}

// materialise checks file exists and returns a local copy of it.
func materialise(ctx context.Context, file core.File) (core.LocalFile, error) {
	if file == nil {
		return nil, apperrors.New(apperrors.CategoryInput, "image.open", apperrors.ErrEmptyInput)
	}
	ok, err := file.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.CategoryInput, "image.open",
			fmt.Errorf("%w: %s", apperrors.ErrNotFound, file.Path()))
	}
	return file.Local(ctx)
}

// openLocal decodes the local copy at path and binds file, the original.
func openLocal(ctx context.Context, drv driver, s *settings, file core.File, path string) (img *Image, err error) {
	s.before(ctx, "decode", nil)
	start := time.Now()
	defer func() {
		var out core.Image
		if img != nil {
			out = img
		}
		s.after(ctx, "decode", out, time.Since(start), err)
	}()

	dec, ok := s.registry.DecoderFor(drv.format())
	if !ok {
		return nil, apperrors.New(apperrors.CategoryDecode, "image.decode",
			fmt.Errorf("%w: no decoder for %s", apperrors.ErrUnsupportedFormat, drv.format()))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "image.open", err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.maxBytes > 0 {
		r = &utils.LimitedReader{R: f, Max: s.maxBytes}
	}
	decoded, err := dec.Decode(ctx, r)
	if err != nil {
		return nil, apperrors.InvalidImageFile(file, err)
	}
	c, err := raster.FromImage(decoded)
	if err != nil {
		return nil, apperrors.InvalidImageFile(file, err)
	}
	drv.adopt(c)
	s.logger.Debug("image.decoded", "format", drv.format(), "path", file.Path(),
		"width", c.Width(), "height", c.Height())
	return newImage(drv, s, c, file), nil
}

func (s *settings) before(ctx context.Context, step string, img core.Image) {
	for _, h := range s.hooks {
		h.BeforeStep(ctx, step, img)
	}
}

func (s *settings) after(ctx context.Context, step string, img core.Image, d time.Duration, err error) {
	for _, h := range s.hooks {
		h.AfterStep(ctx, step, img, d, err)
	}
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(step, d)
		if err != nil {
			s.metrics.RecordError(step, string(apperrors.CategoryOf(err)))
		}
	}
}
