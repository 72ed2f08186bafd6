package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects the storage adapter.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

// Config is the top-level configuration struct. Start from Default and
// override only what you need.
type Config struct {
	// Retry for pipeline steps that fail with a transient error.
	MaxRetries int
	RetryDelay time.Duration

	// DefaultQuality is used when Save is called with quality 0.
	DefaultQuality int // 1-100; default 75

	// Resampler names the filter used by Resize: bilinear, catmullrom,
	// lanczos or lanczos3.
	Resampler string

	// TempDir holds local copies of remote files while they are decoded or
	// written. Empty means os.TempDir.
	TempDir string

	// MaxImageBytes caps how many encoded bytes are read per image. 0 = no limit.
	MaxImageBytes int64

	// Storage selects the adapter built by storage.NewAdapter. Empty = none.
	Storage StorageBackend
	Local   LocalConfig
	S3      S3Config

	// Adaptive compression for save steps with a size budget.
	AdaptiveCompression AdaptiveConfig

	LogLevel string // "debug", "info", "warn", "error"
}

// LocalConfig configures the local filesystem storage adapter.
type LocalConfig struct {
	RootDir     string
	Permissions uint32 // default 0644
}

// S3Config configures the S3 storage adapter.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional custom endpoint (MinIO, etc.)
}

// AdaptiveConfig controls the quality search used to hit a size budget.
type AdaptiveConfig struct {
	TargetSizeBytes int64 // 0 disables the search
	MinQuality      int   // default 30
	MaxQuality      int   // default 95
	StepSize        int   // default 5
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		MaxRetries:     3,
		RetryDelay:     200 * time.Millisecond,
		DefaultQuality: 75,
		Resampler:      "bilinear",
		AdaptiveCompression: AdaptiveConfig{
			MinQuality: 30,
			MaxQuality: 95,
			StepSize:   5,
		},
		LogLevel: "info",
	}
}

var resamplers = map[string]bool{"": true, "bilinear": true, "catmullrom": true, "lanczos": true, "lanczos3": true}

var logLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.DefaultQuality < 1 || c.DefaultQuality > 100 {
		return errors.New("config: DefaultQuality must be between 1 and 100")
	}
	if c.MaxRetries < 0 {
		return errors.New("config: MaxRetries must not be negative")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	if !resamplers[strings.ToLower(c.Resampler)] {
		return fmt.Errorf("config: unknown Resampler %q", c.Resampler)
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("config: unknown LogLevel %q", c.LogLevel)
	}
	switch c.Storage {
	case StorageLocal:
		if c.Local.RootDir == "" {
			return errors.New("config: Local.RootDir is required for local storage")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("config: S3.Bucket is required for s3 storage")
		}
	case "":
	default:
		return fmt.Errorf("config: unknown Storage %q", c.Storage)
	}
	if c.AdaptiveCompression.TargetSizeBytes > 0 {
		a := c.AdaptiveCompression
		if a.MinQuality < 1 || a.MaxQuality > 100 || a.MinQuality >= a.MaxQuality {
			return errors.New("config: AdaptiveCompression needs 1 <= MinQuality < MaxQuality <= 100")
		}
		if a.StepSize <= 0 {
			return errors.New("config: AdaptiveCompression.StepSize must be positive")
		}
	}
	return nil
}
