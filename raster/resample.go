package raster

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	apperrors "github.com/Skryldev/gdimage/errors"
)

// Resampler scales an image smoothly to an exact size.
type Resampler interface {
	Name() string
	Resample(src image.Image, width, height int) *image.NRGBA
}

// Built-in resamplers.
var (
	BiLinear   Resampler = xdrawResampler{name: "bilinear", kernel: xdraw.BiLinear}
	CatmullRom Resampler = xdrawResampler{name: "catmullrom", kernel: xdraw.CatmullRom}
	Lanczos    Resampler = imagingResampler{name: "lanczos", filter: imaging.Lanczos}
	Lanczos3   Resampler = nfntResampler{name: "lanczos3", interp: resize.Lanczos3}
)

// ResamplerByName looks up a built-in resampler. An empty name selects BiLinear.
func ResamplerByName(name string) (Resampler, error) {
	switch strings.ToLower(name) {
	case "", "bilinear":
		return BiLinear, nil
	case "catmullrom":
		return CatmullRom, nil
	case "lanczos":
		return Lanczos, nil
	case "lanczos3":
		return Lanczos3, nil
	}
	return nil, apperrors.New(apperrors.CategoryConfig, "raster.resampler",
		fmt.Errorf("%w: unknown resampler %q", apperrors.ErrInvalidArgument, name))
}

type xdrawResampler struct {
	name   string
	kernel xdraw.Interpolator
}

func (r xdrawResampler) Name() string { return r.name }

func (r xdrawResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.kernel.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

type imagingResampler struct {
	name   string
	filter imaging.ResampleFilter
}

func (r imagingResampler) Name() string { return r.name }

func (r imagingResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(src, width, height, r.filter)
}

type nfntResampler struct {
	name   string
	interp resize.InterpolationFunction
}

func (r nfntResampler) Name() string { return r.name }

func (r nfntResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	return imaging.Clone(resize.Resize(uint(width), uint(height), src, r.interp))
}
