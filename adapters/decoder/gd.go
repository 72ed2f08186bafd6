package decoder

import (
	"context"
	"image"
	"io"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/gdraw"
)

// GD decodes libgd's native raw format.
type GD struct{}

func NewGD() *GD { return &GD{} }

func (g *GD) CanDecode(format core.Format) bool {
	return format == core.FormatGD
}

func (g *GD) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "gd.decode", err)
	}

	img, err := gdraw.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "gd.decode", err)
	}
	return img, nil
}
