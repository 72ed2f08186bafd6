package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	apperrors "github.com/Skryldev/gdimage/errors"
)

// ErrReleased is returned by every operation on a canvas after Release.
var ErrReleased = errors.New("canvas already released")

// MaxPixels bounds canvas allocation.
const MaxPixels = 400_000_000

// Canvas is an owned raster handle. Exactly one owner calls Release.
type Canvas struct {
	img *image.NRGBA

	blending       bool
	saveAlpha      bool
	transparent    Pixel
	hasTransparent bool
}

// New allocates a width x height canvas filled with opaque black, alpha
// blending on and save-alpha off.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 || width*height > MaxPixels {
		return nil, apperrors.Engine("raster.new", fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, width, height))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return &Canvas{img: img, blending: true}, nil
}

// FromImage takes a decoded image into a new canvas. The pixels are copied.
func FromImage(src image.Image) (*Canvas, error) {
	b := src.Bounds()
	if b.Empty() || b.Dx()*b.Dy() > MaxPixels {
		return nil, apperrors.Engine("raster.from_image", fmt.Errorf("%w: %v", apperrors.ErrInvalidDimensions, b))
	}
	return &Canvas{img: imaging.Clone(src), blending: true}, nil
}

// Clone duplicates the pixels and flags into a new, independently owned canvas.
func (c *Canvas) Clone() (*Canvas, error) {
	if c.img == nil {
		return nil, apperrors.Engine("raster.clone", ErrReleased)
	}
	dup := *c
	dup.img = &image.NRGBA{
		Pix:    append([]uint8(nil), c.img.Pix...),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
	return &dup, nil
}

// Release frees the pixel buffer. Calls after the first are no-ops.
func (c *Canvas) Release() {
	c.img = nil
}

// Released reports whether Release has been called.
func (c *Canvas) Released() bool { return c.img == nil }

func (c *Canvas) Width() int {
	if c.img == nil {
		return 0
	}
	return c.img.Rect.Dx()
}

func (c *Canvas) Height() int {
	if c.img == nil {
		return 0
	}
	return c.img.Rect.Dy()
}

// SetAlphaBlending selects whether drawing composites over existing pixels
// (true) or replaces them, alpha included (false).
func (c *Canvas) SetAlphaBlending(on bool) { c.blending = on }

func (c *Canvas) AlphaBlending() bool { return c.blending }

// SetSaveAlpha keeps the full alpha channel in Export. When off, every pixel
// is exported opaque except those matching the transparent key.
func (c *Canvas) SetSaveAlpha(on bool) { c.saveAlpha = on }

func (c *Canvas) SaveAlpha() bool { return c.saveAlpha }

// SetTransparent registers p as the transparent colour key.
func (c *Canvas) SetTransparent(p Pixel) {
	c.transparent = p
	c.hasTransparent = true
}

// Transparent returns the transparent colour key, if any.
func (c *Canvas) Transparent() (Pixel, bool) { return c.transparent, c.hasTransparent }

// ColorAllocateAlpha validates and packs a colour for this canvas.
func (c *Canvas) ColorAllocateAlpha(r, g, b, a int) (Pixel, error) {
	if c.img == nil {
		return 0, apperrors.Engine("raster.color_allocate", ErrReleased)
	}
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 || a < 0 || a > AlphaMax {
		return 0, apperrors.Engine("raster.color_allocate", fmt.Errorf("channel out of range: %d,%d,%d,%d", r, g, b, a))
	}
	return TrueColorAlpha(r, g, b, a), nil
}

// ColorAt returns the pixel at (x, y).
func (c *Canvas) ColorAt(x, y int) (Pixel, error) {
	if c.img == nil {
		return 0, apperrors.Engine("raster.color_at", ErrReleased)
	}
	if !image.Pt(x, y).In(c.img.Rect) {
		return 0, apperrors.Engine("raster.color_at", fmt.Errorf("(%d,%d) outside %v", x, y, c.img.Rect))
	}
	return pixelOf(c.img.NRGBAAt(x, y)), nil
}

// SetPixel draws p at (x, y). Points outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int, p Pixel) error {
	if c.img == nil {
		return apperrors.Engine("raster.set_pixel", ErrReleased)
	}
	if !image.Pt(x, y).In(c.img.Rect) {
		return nil
	}
	if !c.blending {
		c.img.SetNRGBA(x, y, p.nrgba())
		return nil
	}
	xdraw.Draw(c.img, image.Rect(x, y, x+1, y+1), image.NewUniform(p.nrgba()), image.Point{}, xdraw.Over)
	return nil
}

// FilledRectangle fills the inclusive rectangle (x1,y1)-(x2,y2) with p.
func (c *Canvas) FilledRectangle(x1, y1, x2, y2 int, p Pixel) error {
	if c.img == nil {
		return apperrors.Engine("raster.filled_rectangle", ErrReleased)
	}
	r := image.Rect(x1, y1, x2+1, y2+1).Intersect(c.img.Rect)
	if c.blending {
		xdraw.Draw(c.img, r, image.NewUniform(p.nrgba()), image.Point{}, xdraw.Over)
		return nil
	}
	n := p.nrgba()
	px := []uint8{n.R, n.G, n.B, n.A}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.img.Pix[c.img.PixOffset(r.Min.X, y):c.img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px)
		}
	}
	return nil
}

// Export returns the pixels an encoder should write, honouring save-alpha and
// the transparent key. The result must not be modified.
func (c *Canvas) Export() (image.Image, error) {
	if c.img == nil {
		return nil, apperrors.Engine("raster.export", ErrReleased)
	}
	if c.saveAlpha {
		return c.img, nil
	}
	out := image.NewNRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		px := color.NRGBA{R: out.Pix[i], G: out.Pix[i+1], B: out.Pix[i+2], A: out.Pix[i+3]}
		if c.hasTransparent && pixelOf(px) == c.transparent {
			out.Pix[i+3] = 0
		} else {
			out.Pix[i+3] = 0xFF
		}
	}
	return out, nil
}

// Image exposes the canvas as a read-only image.Image, or nil once released.
func (c *Canvas) Image() image.Image {
	if c.img == nil {
		return nil
	}
	return c.img
}

// draw puts the part of src at sp onto r following the blending flag.
// Without blending the bytes are copied verbatim, so even fully transparent
// pixels keep their colour.
func (c *Canvas) draw(r image.Rectangle, src *image.NRGBA, sp image.Point) {
	if c.blending {
		xdraw.Draw(c.img, r, src, sp, xdraw.Over)
		return
	}
	delta := sp.Sub(r.Min)
	r = r.Intersect(c.img.Rect).Intersect(src.Rect.Sub(delta))
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := c.img.Pix[c.img.PixOffset(r.Min.X, y):c.img.PixOffset(r.Max.X, y)]
		sx, sy := r.Min.X+delta.X, y+delta.Y
		copy(d, src.Pix[src.PixOffset(sx, sy):])
	}
}
