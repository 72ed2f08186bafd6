// Package encoder provides format-specific image encoders.
package encoder

import (
	"context"
	"image"
	"image/jpeg"
	"io"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// JPEG encodes images to JPEG format.
type JPEG struct {
	DefaultQuality int // used when EncodeOptions.Quality == 0
}

func NewJPEG(defaultQuality int) *JPEG {
	if defaultQuality <= 0 {
		defaultQuality = core.DefaultQuality
	}
	return &JPEG{DefaultQuality: defaultQuality}
}

func (j *JPEG) CanEncode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Encode(ctx context.Context, w io.Writer, img image.Image, opts core.EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	if img == nil {
		return apperrors.New(apperrors.CategoryEncode, "jpeg.encode", apperrors.ErrEmptyInput)
	}

	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality(opts.Quality, j.DefaultQuality)}); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	return nil
}

// quality resolves a requested quality against a default and clamps it to [1,100].
func quality(q, def int) int {
	if q <= 0 {
		q = def
	}
	return min(max(q, 1), 100)
}
