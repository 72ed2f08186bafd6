package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/utils"
)

// ResizeStep resizes the image, preserving aspect ratio when one axis is 0.
type ResizeStep struct {
	Width, Height int
}

func (s *ResizeStep) Name() string { return "resize" }

func (s *ResizeStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	switch {
	case s.Width == 0 && s.Height == 0:
		return img, nil
	case s.Width == 0:
		return img.ResizeToHeight(s.Height)
	case s.Height == 0:
		return img.ResizeToWidth(s.Width)
	}
	return img.Resize(s.Width, s.Height)
}

// ScaleStep resizes both axes to Percent of their current size.
type ScaleStep struct {
	Percent int
}

func (s *ScaleStep) Name() string { return "scale" }

func (s *ScaleStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	return img.Scale(s.Percent)
}

// CropStep cuts a rectangle out of the image. The rectangle must lie inside it.
type CropStep struct {
	X, Y, Width, Height int
}

func (s *CropStep) Name() string { return "crop" }

func (s *CropStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if s.X < 0 || s.Y < 0 || s.Width <= 0 || s.Height <= 0 ||
		s.X+s.Width > img.Width() || s.Y+s.Height > img.Height() {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(),
			fmt.Errorf("%w: crop %dx%d+%d+%d exceeds %dx%d", apperrors.ErrInvalidDimensions,
				s.Width, s.Height, s.X, s.Y, img.Width(), img.Height()))
	}
	return img.Copy(s.X, s.Y, s.Width, s.Height)
}

// ThumbnailStep resizes so the shorter side is Size, then centre-crops a square.
type ThumbnailStep struct {
	Size int
}

func (s *ThumbnailStep) Name() string { return "thumbnail" }

func (s *ThumbnailStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if s.Size <= 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrInvalidDimensions)
	}

	rs := &ResizeStep{Height: s.Size}
	if img.Width() < img.Height() {
		rs = &ResizeStep{Width: s.Size}
	}
	resized, err := rs.Execute(ctx, img)
	if err != nil {
		return nil, err
	}
	defer resized.Close()

	ox := (resized.Width() - s.Size) / 2
	oy := (resized.Height() - s.Size) / 2
	return (&CropStep{X: ox, Y: oy, Width: s.Size, Height: s.Size}).Execute(ctx, resized)
}

// RotateStep turns the image Angle degrees anticlockwise.
type RotateStep struct {
	Angle      float64
	Background core.Color
}

func (s *RotateStep) Name() string { return "rotate" }

func (s *RotateStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	return img.Rotate(s.Angle, s.Background)
}

// ConvertFunc re-encodes img into another format's image type.
type ConvertFunc func(format core.Format, img core.Image) (core.Image, error)

// ConvertStep hands the image to Convert when it is not already in Format.
type ConvertStep struct {
	Format  core.Format
	Convert ConvertFunc
}

func (s *ConvertStep) Name() string { return "convert" }

func (s *ConvertStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if img.Format() == s.Format {
		return img, nil
	}
	if s.Convert == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(),
			fmt.Errorf("%w: no converter", apperrors.ErrInvalidArgument))
	}
	return s.Convert(s.Format, img)
}

// GrayscaleStep returns a copy with every pixel replaced by its luma.
// Alpha is kept.
type GrayscaleStep struct{}

func (s *GrayscaleStep) Name() string { return "grayscale" }

func (s *GrayscaleStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	out, err := img.Copy(0, 0, img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	for x := 0; x < out.Width(); x++ {
		for y := 0; y < out.Height(); y++ {
			c, err := img.ColorAt(x, y)
			if err != nil {
				out.Close()
				return nil, err
			}
			r, g, b, a := c.RGBA()
			l := (299*r + 587*g + 114*b + 500) / 1000
			gray, err := core.FromRGBA(l, l, l, a)
			if err == nil {
				err = out.SetColorAt(x, y, gray)
			}
			if err != nil {
				out.Close()
				return nil, err
			}
		}
	}
	return out, nil
}

// WatermarkStep pastes Watermark onto a copy of the image at (OffsetX, OffsetY).
type WatermarkStep struct {
	Watermark core.Image
	OffsetX   int
	OffsetY   int
	Opacity   int // 1-100; 0 means 100
}

func (s *WatermarkStep) Name() string { return "watermark" }

func (s *WatermarkStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if s.Watermark == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrEmptyInput)
	}
	opacity := s.Opacity
	if opacity == 0 {
		opacity = 100
	}

	out, err := img.Copy(0, 0, img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	if err := out.PasteWithOpacity(s.Watermark, s.OffsetX, s.OffsetY, opacity); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// SaveStep writes the image to File, or to its bound file when File is nil.
// The image passes through unchanged.
type SaveStep struct {
	File    core.File
	Quality int
}

func (s *SaveStep) Name() string { return "save" }

func (s *SaveStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	var err error
	if s.File == nil {
		err = img.Save(ctx, s.Quality)
	} else {
		err = img.SaveToFile(ctx, s.File, s.Quality)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// AdaptiveSaveStep lowers quality from MaxQuality in StepSize decrements until
// the encoded size fits TargetSizeBytes or MinQuality is reached, then writes
// the last attempt to File (or the bound file).
type AdaptiveSaveStep struct {
	File            core.File
	TargetSizeBytes int64
	MinQuality      int
	MaxQuality      int
	StepSize        int
}

func (s *AdaptiveSaveStep) Name() string { return "adaptive_save" }

func (s *AdaptiveSaveStep) Execute(ctx context.Context, img core.Image) (core.Image, error) {
	file := s.File
	if file == nil {
		file = img.File()
	}
	if file == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrNoBoundFile)
	}
	if s.TargetSizeBytes <= 0 {
		return (&SaveStep{File: file, Quality: s.MaxQuality}).Execute(ctx, img)
	}

	maxQ, minQ, step := s.MaxQuality, s.MinQuality, s.StepSize
	if maxQ <= 0 {
		maxQ = 95
	}
	if minQ <= 0 || minQ > maxQ {
		minQ = maxQ
	}
	if step <= 0 {
		step = 5
	}

	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	for q := maxQ; ; q -= step {
		q = max(q, minQ)
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
		}
		buf.Reset()
		if err := img.Encode(ctx, buf, q); err != nil {
			return nil, err
		}
		if int64(buf.Len()) <= s.TargetSizeBytes || q == minQ {
			break
		}
	}

	data := buf.Bytes()
	err := file.WithLocal(ctx, func(path string) error {
		return os.WriteFile(path, data, 0o644)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, s.Name(), err)
	}
	return img, nil
}
