package core

import (
	"fmt"
	"strings"

	apperrors "github.com/Skryldev/gdimage/errors"
)

// Format identifies an image codec and the driver that owns its quirks.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatGD      Format = "gd" // raw GD 2.x truecolor intermediate
	FormatUnknown Format = "unknown"
)

// DefaultQuality is the quality used by Save and SaveToFile when the caller has no preference.
const DefaultQuality = 75

// Extension returns the file extension written for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG, FormatGIF, FormatWebP, FormatGD:
		return string(f)
	}
	return ""
}

// FormatFromExtension maps a file extension (with or without the dot, any case) to a Format.
// Only the four interchange formats are recognised; everything else is ErrUnsupportedFormat.
func FormatFromExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "webp":
		return FormatWebP, nil
	}
	return FormatUnknown, apperrors.New(apperrors.CategoryInput, "format.extension",
		fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, ext))
}

// EncodeOptions carries format-specific encoding parameters.
type EncodeOptions struct {
	Quality          int // 1-100; 0 = use encoder default
	CompressionLevel int // 0-9 zlib-style level, PNG only; negative = encoder default
}
