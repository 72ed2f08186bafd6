package encoder

import (
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// GIF encodes a single-frame GIF. Quality options are ignored. Pixels with
// zero alpha are written through the transparent index.
type GIF struct{}

func NewGIF() *GIF { return &GIF{} }

func (g *GIF) CanEncode(format core.Format) bool { return format == core.FormatGIF }

func (g *GIF) Encode(ctx context.Context, w io.Writer, img image.Image, _ core.EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "gif.encode", err)
	}
	if img == nil {
		return apperrors.New(apperrors.CategoryEncode, "gif.encode", apperrors.ErrEmptyInput)
	}

	if hasClearPixels(img) {
		img = withTransparentIndex(img)
	}
	if err := gif.Encode(w, img, &gif.Options{NumColors: 256}); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "gif.encode", err)
	}
	return nil
}

func hasClearPixels(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				return true
			}
		}
	}
	return false
}

// withTransparentIndex dithers img onto the web-safe palette plus a last,
// fully transparent entry, which the gif writer picks up as the transparent
// index.
func withTransparentIndex(img image.Image) *image.Paletted {
	opaque := color.Palette(palette.WebSafe)
	pal := append(opaque[:len(opaque):len(opaque)], color.RGBA{})
	clearIndex := uint8(len(pal) - 1)

	b := img.Bounds()
	pm := image.NewPaletted(b, pal)
	xdraw.FloydSteinberg.Draw(pm, b, img, b.Min)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			_, _, _, a := c.RGBA()
			switch {
			case a == 0:
				pm.SetColorIndex(x, y, clearIndex)
			case pm.ColorIndexAt(x, y) == clearIndex:
				pm.SetColorIndex(x, y, uint8(opaque.Index(c)))
			}
		}
	}
	return pm
}
