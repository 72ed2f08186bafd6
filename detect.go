package gdimage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/webp"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/utils"
)

// FromFormat opens file using the format its extension names: jpeg, jpg, png,
// gif or webp, in any case. Other extensions fail with ErrUnsupportedFormat.
func FromFormat(ctx context.Context, file core.File, opts ...Option) (*Image, error) {
	if file == nil {
		return nil, apperrors.New(apperrors.CategoryInput, "image.from_format", apperrors.ErrEmptyInput)
	}
	f, err := core.FormatFromExtension(file.Extension())
	if err != nil {
		return nil, err
	}
	return Open(ctx, f, file, opts...)
}

// FromContent opens file using the format its leading bytes identify,
// whatever its name. The file is materialised once; the result is bound to
// file itself. Content that is not a JPEG, PNG, GIF or WEBP image, or whose
// header does not parse, fails with ErrUnsupportedFormat.
func FromContent(ctx context.Context, file core.File, opts ...Option) (*Image, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	local, err := materialise(ctx, file)
	if err != nil {
		return nil, err
	}
	defer local.Close()

	format, err := sniff(local.Path())
	if err != nil {
		return nil, err
	}
	drv, err := driverFor(format)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("image.sniffed", "path", file.Path(), "format", format)
	return openLocal(ctx, drv, s, file, local.Path())
}

// sniff identifies the format of the file at path from its signature and
// checks that its header parses.
func sniff(path string) (core.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.FormatUnknown, apperrors.Wrap(apperrors.CategoryStorage, "image.sniff", err)
	}
	defer f.Close()

	head := make([]byte, utils.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return core.FormatUnknown, apperrors.Wrap(apperrors.CategoryStorage, "image.sniff", err)
	}
	format, err := core.DetectFormat(head[:n])
	if err != nil {
		return core.FormatUnknown, err
	}
	if format == core.FormatGD {
		return core.FormatUnknown, apperrors.New(apperrors.CategoryInput, "image.sniff",
			fmt.Errorf("%w: raw gd content must be opened with Open", apperrors.ErrUnsupportedFormat))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return core.FormatUnknown, apperrors.Wrap(apperrors.CategoryStorage, "image.sniff", err)
	}
	if _, _, err := image.DecodeConfig(f); err != nil {
		return core.FormatUnknown, apperrors.New(apperrors.CategoryInput, "image.sniff",
			fmt.Errorf("%w: unreadable %s header: %v", apperrors.ErrUnsupportedFormat, format, err))
	}
	return format, nil
}
