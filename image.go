// Package gdimage loads, edits and saves JPEG, PNG, GIF, WEBP and raw GD
// images through one Image type backed by an in-process raster engine.
//
// Every Image owns exactly one *raster.Canvas; Close releases it. Operations
// that produce a new image (Resize, Copy, Rotate and the construction
// helpers) return a new owner, and the caller closes both.
package gdimage

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/raster"
	"github.com/Skryldev/gdimage/utils"
)

// Image is a raster image of one format, optionally bound to the file it was
// loaded from.
type Image struct {
	drv    driver
	file   core.File
	canvas *raster.Canvas
	s      *settings
}

var _ core.Image = (*Image)(nil)

func newImage(drv driver, s *settings, c *raster.Canvas, file core.File) *Image {
	img := &Image{drv: drv, file: file, canvas: c, s: s}
	runtime.SetFinalizer(img, func(i *Image) { i.canvas.Release() })
	return img
}

// File returns the bound file, or nil.
func (i *Image) File() core.File { return i.file }

func (i *Image) Format() core.Format { return i.drv.format() }

// Extension is the extension written for this format, without the dot.
func (i *Image) Extension() string { return i.drv.format().Extension() }

func (i *Image) Width() int { return i.canvas.Width() }

func (i *Image) Height() int { return i.canvas.Height() }

// Canvas exposes the underlying canvas. It stays owned by i.
func (i *Image) Canvas() *raster.Canvas { return i.canvas }

// Close releases the canvas. Further calls are no-ops.
func (i *Image) Close() error {
	i.canvas.Release()
	runtime.SetFinalizer(i, nil)
	return nil
}

// ColorAt returns the colour at (x, y). The engine's 0-127 alpha is mapped
// back to 0-1 and rounded, so only fully opaque reads as 1.
func (i *Image) ColorAt(x, y int) (core.Color, error) {
	p, err := i.canvas.ColorAt(x, y)
	if err != nil {
		return core.Color{}, err
	}
	r, g, b, a := p.Components()
	return core.FromRGBA(r, g, b, core.AlphaFromEngine(a))
}

// SetColorAt draws c at (x, y) following the canvas blending flag. Points
// outside the image are ignored.
func (i *Image) SetColorAt(x, y int, c core.Color) error {
	p, err := i.allocate(c)
	if err != nil {
		return err
	}
	return i.canvas.SetPixel(x, y, p)
}

func (i *Image) allocate(c core.Color) (raster.Pixel, error) {
	r, g, b, a := c.RGBA()
	return i.canvas.ColorAllocateAlpha(r, g, b, core.AlphaToEngine(a))
}

// Resize resamples the whole image to width x height into a new image of the
// same format.
func (i *Image) Resize(width, height int) (core.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "image.resize",
			fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, width, height))
	}
	dst, err := i.blank(width, height)
	if err != nil {
		return nil, err
	}
	err = raster.CopyResampled(dst.canvas, i.canvas, 0, 0, 0, 0, width, height, i.Width(), i.Height(), i.s.resampler)
	if err != nil {
		dst.Close()
		return nil, err
	}
	return dst, nil
}

func (i *Image) ResizeToHeight(height int) (core.Image, error) { return core.ResizeToHeight(i, height) }

func (i *Image) ResizeToWidth(width int) (core.Image, error) { return core.ResizeToWidth(i, width) }

func (i *Image) Scale(percent int) (core.Image, error) { return core.Scale(i, percent) }

// Copy returns the width x height region at (x, y) as a new image of the same
// format. Parts of the region outside the image keep the blank fill.
func (i *Image) Copy(x, y, width, height int) (core.Image, error) {
	dst, err := i.blank(width, height)
	if err != nil {
		return nil, err
	}
	if err := raster.Copy(dst.canvas, i.canvas, 0, 0, x, y, width, height); err != nil {
		dst.Close()
		return nil, err
	}
	return dst, nil
}

// Rotate returns the image turned angle degrees anticlockwise, on a canvas
// grown to fit, with uncovered area filled with bg.
func (i *Image) Rotate(angle float64, bg core.Color) (core.Image, error) {
	p, err := i.allocate(bg)
	if err != nil {
		return nil, err
	}
	c, err := i.canvas.Rotate(angle, p)
	if err != nil {
		return nil, err
	}
	i.drv.adopt(c)
	return newImage(i.drv, i.s, c, nil), nil
}

// Paste draws src onto the image with its top-left corner at (x, y).
func (i *Image) Paste(src core.Image, x, y int) error {
	return i.PasteWithOpacity(src, x, y, 100)
}

// PasteWithOpacity draws src at (x, y). Only formats with an alpha channel
// (PNG) honour opacity; other sources are copied opaquely. src must be an
// *Image: other implementations share no engine with this one and fail with
// ErrUnsupportedFormat.
func (i *Image) PasteWithOpacity(src core.Image, x, y, opacity int) error {
	if opacity < 0 || opacity > 100 {
		return apperrors.New(apperrors.CategoryInput, "image.paste",
			fmt.Errorf("%w: opacity %d", apperrors.ErrInvalidArgument, opacity))
	}
	other, ok := src.(*Image)
	if !ok {
		return apperrors.New(apperrors.CategoryInput, "image.paste",
			fmt.Errorf("%w: %T does not share the raster engine", apperrors.ErrUnsupportedFormat, src))
	}

	w, h := other.Width(), other.Height()
	if !other.drv.composites() {
		return raster.Copy(i.canvas, other.canvas, x, y, 0, 0, w, h)
	}

	// Blend src over a snapshot of the destination region, then merge the
	// snapshot back at the requested opacity.
	scratch, err := raster.New(w, h)
	if err != nil {
		return err
	}
	defer scratch.Release()
	if err := raster.Copy(scratch, i.canvas, 0, 0, x, y, w, h); err != nil {
		return err
	}
	if err := raster.Copy(scratch, other.canvas, 0, 0, 0, 0, w, h); err != nil {
		return err
	}
	return raster.CopyMerge(i.canvas, scratch, x, y, 0, 0, w, h, opacity)
}

// Save writes the image back to its bound file. Quality runs 0-100 and is
// interpreted per format; 0 picks the default.
func (i *Image) Save(ctx context.Context, quality int) error {
	if i.file == nil {
		return apperrors.New(apperrors.CategoryInput, "image.save", apperrors.ErrNoBoundFile)
	}
	return i.SaveToFile(ctx, i.file, quality)
}

// SaveToFile encodes the image and writes it to file. The image stays bound
// to whatever file it had before.
func (i *Image) SaveToFile(ctx context.Context, file core.File, quality int) error {
	if file == nil {
		return apperrors.New(apperrors.CategoryInput, "image.save", apperrors.ErrNoBoundFile)
	}
	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := i.Encode(ctx, buf, quality); err != nil {
		return err
	}

	data := buf.Bytes()
	err := file.WithLocal(ctx, func(path string) error {
		return os.WriteFile(path, data, 0o644)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "image.save", err)
	}
	i.s.logger.Debug("image.saved", "format", i.Format(), "path", file.Path(), "bytes", len(data))
	return nil
}

// Encode writes the encoded image to w.
func (i *Image) Encode(ctx context.Context, w io.Writer, quality int) (err error) {
	f := i.Format()
	i.s.before(ctx, "encode", i)
	start := time.Now()
	cw := &countingWriter{w: w}
	defer func() {
		i.s.after(ctx, "encode", i, time.Since(start), err)
		if err == nil && i.s.metrics != nil {
			i.s.metrics.RecordThroughput(cw.n)
		}
	}()

	enc, ok := i.s.registry.EncoderFor(f)
	if !ok {
		return apperrors.New(apperrors.CategoryEncode, "image.encode",
			fmt.Errorf("%w: no encoder for %s", apperrors.ErrUnsupportedFormat, f))
	}
	px, err := i.drv.export(i.canvas)
	if err != nil {
		return err
	}
	return enc.Encode(ctx, cw, px, i.drv.encodeOptions(quality))
}

// blank creates a transparent image of the same format and options.
func (i *Image) blank(width, height int) (*Image, error) {
	return blank(i.drv, i.s, width, height, core.Transparent)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
