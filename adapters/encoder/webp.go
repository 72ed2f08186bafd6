package encoder

import (
	"context"
	"image"
	"io"

	"github.com/chai2010/webp"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// WebP encodes images to lossy WebP through libwebp (github.com/chai2010/webp).
type WebP struct {
	DefaultQuality int
	// Lossless switches to VP8L; quality then only trades speed for size.
	Lossless bool
}

func NewWebP(defaultQuality int) *WebP {
	if defaultQuality <= 0 {
		defaultQuality = core.DefaultQuality
	}
	return &WebP{DefaultQuality: defaultQuality}
}

func (e *WebP) CanEncode(format core.Format) bool { return format == core.FormatWebP }

func (e *WebP) Encode(ctx context.Context, w io.Writer, img image.Image, opts core.EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "webp.encode", err)
	}
	if img == nil {
		return apperrors.New(apperrors.CategoryEncode, "webp.encode", apperrors.ErrEmptyInput)
	}

	o := &webp.Options{
		Lossless: e.Lossless,
		Quality:  float32(quality(opts.Quality, e.DefaultQuality)),
	}
	if err := webp.Encode(w, img, o); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "webp.encode", err)
	}
	return nil
}
