package core_test

import (
	"context"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

func TestFormatFromExtension(t *testing.T) {
	cases := map[string]core.Format{
		"jpg": core.FormatJPEG, "JPEG": core.FormatJPEG, ".png": core.FormatPNG,
		"Gif": core.FormatGIF, "webp": core.FormatWebP,
	}
	for ext, want := range cases {
		got, err := core.FormatFromExtension(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, got, ext)
	}
	for _, ext := range []string{"", "gd", "bmp", "txt"} {
		_, err := core.FormatFromExtension(ext)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat, ext)
	}
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, "jpg", core.FormatJPEG.Extension())
	assert.Equal(t, "png", core.FormatPNG.Extension())
	assert.Equal(t, "gd", core.FormatGD.Extension())
	assert.Equal(t, "", core.FormatUnknown.Extension())
}

func TestDetectFormat(t *testing.T) {
	cases := map[core.Format][]byte{
		core.FormatPNG:  {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
		core.FormatJPEG: {0xFF, 0xD8, 0xFF, 0xE0},
		core.FormatGIF:  []byte("GIF89a.."),
		core.FormatWebP: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "),
		core.FormatGD:   {0xFF, 0xFE, 0x00, 0x01},
	}
	for want, data := range cases {
		got, err := core.DetectFormat(data)
		require.NoError(t, err, want)
		assert.Equal(t, want, got)
	}

	_, err := core.DetectFormat([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

type fakeCodec struct{ format core.Format }

func (f fakeCodec) Decode(context.Context, io.Reader) (image.Image, error) { return nil, nil }
func (f fakeCodec) CanDecode(x core.Format) bool                           { return x == f.format }
func (f fakeCodec) Encode(context.Context, io.Writer, image.Image, core.EncodeOptions) error {
	return nil
}
func (f fakeCodec) CanEncode(x core.Format) bool { return x == f.format }

func TestRegistry(t *testing.T) {
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatPNG, fakeCodec{core.FormatPNG})
	reg.RegisterEncoder(core.FormatPNG, fakeCodec{core.FormatPNG})
	reg.RegisterDecoder(core.FormatGIF, fakeCodec{core.FormatGIF})
	// Registered under a format it does not claim.
	reg.RegisterEncoder(core.FormatJPEG, fakeCodec{core.FormatPNG})

	_, ok := reg.DecoderFor(core.FormatPNG)
	assert.True(t, ok)
	_, ok = reg.EncoderFor(core.FormatJPEG)
	assert.False(t, ok)
	_, ok = reg.EncoderFor(core.FormatWebP)
	assert.False(t, ok)

	assert.Equal(t, []core.Format{core.FormatPNG}, reg.Formats())
}
