package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryDecode    Category = "decode"
	CategoryEncode    Category = "encode"
	CategoryEngine    Category = "engine"
	CategoryPipeline  Category = "pipeline"
	CategoryStorage   Category = "storage"
	CategoryConfig    Category = "config"
	CategoryTransient Category = "transient"
	CategoryInput     Category = "input"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category  Category
	Op        string // operation name
	Err       error
	Retryable bool
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a non-retryable ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Transient creates a retryable ProcessingError.
func Transient(op string, err error) *ProcessingError {
	return &ProcessingError{Category: CategoryTransient, Op: op, Err: err, Retryable: true}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// Engine wraps a low-level raster engine failure so that errors.Is(err, ErrEngine) holds.
func Engine(op string, err error) *ProcessingError {
	return New(CategoryEngine, op, fmt.Errorf("%w: %w", ErrEngine, err))
}

// IsRetryable reports whether err represents a transient failure.
func IsRetryable(err error) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// CategoryOf returns the category of the outermost ProcessingError in err's
// chain, or CategoryPipeline when there is none.
func CategoryOf(err error) Category {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryPipeline
}

// Sentinel errors for common failure modes.
var (
	ErrInvalidColorRange  = errors.New("color channel out of range")
	ErrNotFound           = errors.New("file not found")
	ErrInvalidImageFile   = errors.New("invalid image file")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrNoBoundFile        = errors.New("image is not bound to a file")
	ErrEngine             = errors.New("raster engine failure")
	ErrEmptyInput         = errors.New("empty input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FileRef is the part of a file handle an error needs for diagnostics.
type FileRef interface {
	Path() string
}

// InvalidImageFileError reports bytes that do not decode as the claimed format.
// File is the handle the caller passed in, never a temporary local copy.
type InvalidImageFileError struct {
	File FileRef
	Err  error
}

// InvalidImageFile creates an InvalidImageFileError for file caused by err.
func InvalidImageFile(file FileRef, err error) *InvalidImageFileError {
	return &InvalidImageFileError{File: file, Err: err}
}

func (e *InvalidImageFileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s is an invalid image", e.File.Path())
	}
	return fmt.Sprintf("%s is an invalid image: %v", e.File.Path(), e.Err)
}

func (e *InvalidImageFileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidImageFile}
	}
	return []error{ErrInvalidImageFile, e.Err}
}
