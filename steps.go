package gdimage

import (
	"github.com/Skryldev/gdimage/config"
	"github.com/Skryldev/gdimage/core"
	"github.com/Skryldev/gdimage/pipeline"
)

// Re-exported formats.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
	GIF  = core.FormatGIF
	WebP = core.FormatWebP
	GD   = core.FormatGD
)

// DefaultConfig returns config.Default.
func DefaultConfig() config.Config { return config.Default() }

// NewPipeline returns a pipeline over steps with cfg's retry policy.
func NewPipeline(cfg config.Config, steps ...core.Step) *pipeline.Pipeline {
	return pipeline.New().WithRetry(cfg.MaxRetries, cfg.RetryDelay).Use(steps...)
}

// Resize resizes to width x height; 0 on one axis keeps the aspect ratio.
func Resize(width, height int) core.Step {
	return &pipeline.ResizeStep{Width: width, Height: height}
}

func Scale(percent int) core.Step { return &pipeline.ScaleStep{Percent: percent} }

func Crop(x, y, width, height int) core.Step {
	return &pipeline.CropStep{X: x, Y: y, Width: width, Height: height}
}

// Thumbnail produces a size x size centre crop.
func Thumbnail(size int) core.Step { return &pipeline.ThumbnailStep{Size: size} }

func Rotate(angle float64, bg core.Color) core.Step {
	return &pipeline.RotateStep{Angle: angle, Background: bg}
}

func Grayscale() core.Step { return &pipeline.GrayscaleStep{} }

// Watermark pastes wm at (x, y) with opacity percent.
func Watermark(wm core.Image, x, y, opacity int) core.Step {
	return &pipeline.WatermarkStep{Watermark: wm, OffsetX: x, OffsetY: y, Opacity: opacity}
}

// ConvertFormat re-creates the image in format f with FromImage and opts.
func ConvertFormat(f core.Format, opts ...Option) core.Step {
	return &pipeline.ConvertStep{
		Format: f,
		Convert: func(format core.Format, img core.Image) (core.Image, error) {
			return FromImage(format, img, opts...)
		},
	}
}

// Save writes to file, or to the image's bound file when file is nil.
func Save(file core.File, quality int) core.Step {
	return &pipeline.SaveStep{File: file, Quality: quality}
}

// AdaptiveSave writes to file at the highest quality that fits cfg's
// AdaptiveCompression budget.
func AdaptiveSave(file core.File, cfg config.Config) core.Step {
	a := cfg.AdaptiveCompression
	return &pipeline.AdaptiveSaveStep{
		File:            file,
		TargetSizeBytes: a.TargetSizeBytes,
		MinQuality:      a.MinQuality,
		MaxQuality:      a.MaxQuality,
		StepSize:        a.StepSize,
	}
}
