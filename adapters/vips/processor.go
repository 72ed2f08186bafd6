// Package vips registers libvips (through govips) as an alternative codec
// backend. Pixels still travel through the raster engine; only decoding and
// encoding move to libvips. Requires cgo and libvips.
package vips

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
	// AutoRotate applies the EXIF orientation while decoding.
	AutoRotate bool
}

// Backend is a libvips-powered Decoder for JPEG, PNG, GIF and WEBP. For
// returns its per-format encoders. Safe for concurrent use.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = core.DefaultQuality
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

func (b *Backend) CanDecode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatGIF, core.FormatWebP:
		return true
	}
	return false
}

// Decode loads r with libvips and hands the pixels over as a lossless PNG.
func (b *Backend) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}

	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.drain", err)
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	defer ref.Close()

	if b.cfg.AutoRotate {
		if err := ref.AutoRotate(); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.rotate", err)
		}
	}

	ep := govips.NewPngExportParams()
	ep.Compression = 0
	out, _, err := ref.ExportPng(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.export", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.png", err)
	}
	return img, nil
}

// CanEncode reports whether For(f) can write f.
func (b *Backend) CanEncode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP:
		return true
	}
	return false
}

func (b *Backend) encode(ctx context.Context, f core.Format, w io.Writer, img image.Image, opts core.EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}
	if img == nil {
		return apperrors.New(apperrors.CategoryEncode, "vips.encode", apperrors.ErrEmptyInput)
	}

	staged := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(staged)
	if err := (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(staged, img); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.stage", err)
	}
	ref, err := govips.NewImageFromBuffer(utils.CloneBytes(staged.Bytes()))
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.load", err)
	}
	defer ref.Close()

	quality := opts.Quality
	if quality <= 0 {
		quality = b.cfg.DefaultQuality
	}

	var out []byte
	switch f {
	case core.FormatJPEG:
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		out, _, err = ref.ExportJpeg(ep)
	case core.FormatPNG:
		ep := govips.NewPngExportParams()
		if opts.CompressionLevel >= 0 {
			ep.Compression = min(opts.CompressionLevel, 9)
		}
		out, _, err = ref.ExportPng(ep)
	case core.FormatWebP:
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		out, _, err = ref.ExportWebp(ep)
	default:
		return apperrors.New(apperrors.CategoryEncode, "vips.encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, f))
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.encode."+string(f), err)
	}
	if _, err := w.Write(out); err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.write", err)
	}
	return nil
}

// For returns an Encoder that writes format f through the backend.
func (b *Backend) For(f core.Format) core.Encoder {
	return formatEncoder{b: b, format: f}
}

type formatEncoder struct {
	b      *Backend
	format core.Format
}

func (e formatEncoder) CanEncode(f core.Format) bool {
	return f == e.format && e.b.CanEncode(f)
}

func (e formatEncoder) Encode(ctx context.Context, w io.Writer, img image.Image, opts core.EncodeOptions) error {
	return e.b.encode(ctx, e.format, w, img, opts)
}

// RegisterVipsBackend routes decoding of JPEG, PNG, GIF and WEBP and encoding
// of JPEG, PNG and WEBP through b. GIF encoding and the raw GD format keep
// their existing codecs.
func RegisterVipsBackend(reg core.Registry, b *Backend) {
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatGIF, core.FormatWebP} {
		reg.RegisterDecoder(f, b)
		if b.CanEncode(f) {
			reg.RegisterEncoder(f, b.For(f))
		}
	}
}

var (
	_ core.Decoder = (*Backend)(nil)
	_ core.Encoder = formatEncoder{}
)
