package encoder

import (
	"context"
	"image"
	"io"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/gdraw"
)

// GD writes libgd's native raw truecolor format. Quality options are ignored.
type GD struct{}

func NewGD() *GD { return &GD{} }

func (g *GD) CanEncode(format core.Format) bool { return format == core.FormatGD }

func (g *GD) Encode(ctx context.Context, w io.Writer, img image.Image, _ core.EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "gd.encode", err)
	}
	if img == nil {
		return apperrors.New(apperrors.CategoryEncode, "gd.encode", apperrors.ErrEmptyInput)
	}

	if err := gdraw.Encode(w, img); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "gd.encode", err)
	}
	return nil
}
