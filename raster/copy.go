package raster

import (
	"image"

	"github.com/disintegration/imaging"

	apperrors "github.com/Skryldev/gdimage/errors"
)

// Copy draws the w x h region of src at (sx,sy) onto dst at (dx,dy).
// The region is clipped to both canvases. Source pixels matching the source's
// transparent key are skipped; everything else follows dst's blending flag.
func Copy(dst, src *Canvas, dx, dy, sx, sy, w, h int) error {
	if dst.img == nil || src.img == nil {
		return apperrors.Engine("raster.copy", ErrReleased)
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	r := image.Rect(dx, dy, dx+w, dy+h)
	sp := image.Pt(sx, sy)
	if !src.hasTransparent {
		dst.draw(r, src.img, sp)
		return nil
	}

	r = r.Intersect(dst.img.Rect)
	delta := sp.Sub(image.Pt(dx, dy))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := image.Pt(x, y).Add(delta)
			if !s.In(src.img.Rect) {
				continue
			}
			p := pixelOf(src.img.NRGBAAt(s.X, s.Y))
			if p == src.transparent {
				continue
			}
			if err := dst.SetPixel(x, y, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// CopyResampled scales the sw x sh region of src at (sx,sy) to dw x dh and
// draws it onto dst at (dx,dy) using rs.
func CopyResampled(dst, src *Canvas, dx, dy, sx, sy, dw, dh, sw, sh int, rs Resampler) error {
	if dst.img == nil || src.img == nil {
		return apperrors.Engine("raster.copy_resampled", ErrReleased)
	}
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return nil
	}
	if rs == nil {
		rs = BiLinear
	}
	region := src.img.SubImage(image.Rect(sx, sy, sx+sw, sy+sh))
	if region.Bounds().Empty() {
		return nil
	}
	scaled := rs.Resample(region, dw, dh)
	dst.draw(image.Rect(dx, dy, dx+dw, dy+dh), scaled, image.Point{})
	return nil
}

// CopyMerge blends the w x h region of src at (sx,sy) onto dst at (dx,dy)
// with pct percent opacity. pct is clamped to [0,100].
func CopyMerge(dst, src *Canvas, dx, dy, sx, sy, w, h, pct int) error {
	if dst.img == nil || src.img == nil {
		return apperrors.Engine("raster.copy_merge", ErrReleased)
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	pct = min(max(pct, 0), 100)
	region := imaging.Crop(src.img, image.Rect(sx, sy, sx+w, sy+h))
	dst.img = imaging.Overlay(dst.img, region, image.Pt(dx, dy), float64(pct)/100)
	return nil
}

// Rotate returns a new canvas holding c turned angle degrees anticlockwise
// about its centre. Uncovered area is filled with bg; the bounding box grows
// to fit. The new canvas has default flags.
func (c *Canvas) Rotate(angle float64, bg Pixel) (*Canvas, error) {
	if c.img == nil {
		return nil, apperrors.Engine("raster.rotate", ErrReleased)
	}
	rotated := imaging.Rotate(c.img, angle, bg.nrgba())
	if rotated.Rect.Empty() {
		return nil, apperrors.Engine("raster.rotate", apperrors.ErrInvalidDimensions)
	}
	return &Canvas{img: rotated, blending: true}, nil
}
