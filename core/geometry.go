package core

import (
	"fmt"

	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/utils"
)

// ResizeToHeight resizes img to height, deriving the width from the aspect ratio.
func ResizeToHeight(img Resizer, height int) (Image, error) {
	if height <= 0 {
		return nil, invalidDimensions("resize_to_height", img.Width(), height)
	}
	w, h := utils.ScaleDimensions(img.Width(), img.Height(), 0, height)
	return resizeTo(img, "resize_to_height", w, h)
}

// ResizeToWidth resizes img to width, deriving the height from the aspect ratio.
func ResizeToWidth(img Resizer, width int) (Image, error) {
	if width <= 0 {
		return nil, invalidDimensions("resize_to_width", width, img.Height())
	}
	w, h := utils.ScaleDimensions(img.Width(), img.Height(), width, 0)
	return resizeTo(img, "resize_to_width", w, h)
}

// Scale resizes both axes of img by percent. Fractional pixels are truncated.
func Scale(img Resizer, percent int) (Image, error) {
	w := img.Width() * percent / 100
	h := img.Height() * percent / 100
	return resizeTo(img, "scale", w, h)
}

func resizeTo(img Resizer, op string, w, h int) (Image, error) {
	if w <= 0 || h <= 0 {
		return nil, invalidDimensions(op, w, h)
	}
	return img.Resize(w, h)
}

func invalidDimensions(op string, w, h int) error {
	return apperrors.New(apperrors.CategoryInput, op,
		fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, w, h))
}
