package core

import (
	"context"
	"image"
	"io"
	"time"
)

// Decoder converts encoded bytes into an in-memory raster.
// Implementations live in adapters/decoder/.
type Decoder interface {
	// Decode reads from r and returns the decoded pixels.
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
	// CanDecode reports whether this decoder handles the given format.
	CanDecode(format Format) bool
}

// Encoder serialises a raster to w in a target format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, w io.Writer, img image.Image, opts EncodeOptions) error
	CanEncode(format Format) bool
}

// Registry maps formats to their codecs.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}

// LocalFile is a scoped, directly addressable copy of a File.
// Close releases any temporary copy; it never touches the original.
type LocalFile interface {
	Path() string
	Close() error
}

// File is any addressable file an image can be read from or written to.
// Implementations live in adapters/storage/.
type File interface {
	// Path identifies the file for diagnostics.
	Path() string
	// Extension is the file extension without the dot.
	Extension() string
	Exists(ctx context.Context) (bool, error)
	// Local materialises the file on the local filesystem.
	Local(ctx context.Context) (LocalFile, error)
	// WithLocal materialises the file, runs fn against the local path, then
	// pushes the local bytes back to the original. Temporary copies are removed
	// whether or not fn succeeds.
	WithLocal(ctx context.Context, fn func(path string) error) error
}

// PixelSource is the read half of the pixel capability every image offers.
type PixelSource interface {
	Width() int
	Height() int
	ColorAt(x, y int) (Color, error)
}

// PixelSink is the write half of the pixel capability.
type PixelSink interface {
	SetColorAt(x, y int, c Color) error
}

// Resizer is the single primitive the format-agnostic geometry helpers need.
type Resizer interface {
	Width() int
	Height() int
	Resize(width, height int) (Image, error)
}

// Image is the uniform manipulation surface shared by every format.
type Image interface {
	PixelSource
	PixelSink

	// File returns the file the image was loaded from, or nil for in-memory images.
	File() File
	Format() Format
	Extension() string

	// Save overwrites the bound file. Quality runs 0-100; 0 picks the default.
	Save(ctx context.Context, quality int) error
	SaveToFile(ctx context.Context, file File, quality int) error
	// Encode writes the encoded image to w without touching any file.
	Encode(ctx context.Context, w io.Writer, quality int) error

	Resize(width, height int) (Image, error)
	ResizeToHeight(height int) (Image, error)
	ResizeToWidth(width int) (Image, error)
	Scale(percent int) (Image, error)

	// Paste draws src onto the image with its top-left corner at (x, y).
	Paste(src Image, x, y int) error
	// PasteWithOpacity is Paste with an opacity percentage in [0,100].
	PasteWithOpacity(src Image, x, y, opacity int) error
	// Copy returns the width x height region starting at (x, y).
	Copy(x, y, width, height int) (Image, error)
	// Rotate turns the image angle degrees anticlockwise about its centre,
	// filling uncovered area with bg. The result may be larger than the input.
	Rotate(angle float64, bg Color) (Image, error)

	// Close releases the underlying raster. The image is unusable afterwards.
	Close() error
}

// StorageKey uniquely identifies a stored object.
type StorageKey struct {
	Bucket string
	Path   string
}

// StorageAdapter persists encoded images and retrieves them later.
// Implementations live in adapters/storage/.
type StorageAdapter interface {
	Put(ctx context.Context, key StorageKey, r io.Reader, meta map[string]string) error
	Get(ctx context.Context, key StorageKey) (io.ReadCloser, error)
	Delete(ctx context.Context, key StorageKey) error
	Exists(ctx context.Context, key StorageKey) (bool, error)
}

// Step is the pipeline building block.
type Step interface {
	Name() string
	Execute(ctx context.Context, img Image) (Image, error)
}

// Hook is an optional observer invoked around pipeline steps and codec calls.
type Hook interface {
	BeforeStep(ctx context.Context, stepName string, img Image)
	AfterStep(ctx context.Context, stepName string, img Image, d time.Duration, err error)
}

// MetricsCollector receives performance observations.
type MetricsCollector interface {
	RecordProcessingTime(stepName string, d interface{ Seconds() float64 })
	RecordThroughput(bytes int64)
	RecordError(stepName string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
