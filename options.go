package gdimage

import (
	"fmt"
	"os"

	"github.com/Skryldev/gdimage/config"
	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/hooks"
	"github.com/Skryldev/gdimage/raster"
)

// Option configures image construction. Images derived from an image (resize,
// copy, rotate) inherit its options.
type Option func(*settings) error

type settings struct {
	registry  core.Registry
	resampler raster.Resampler
	logger    core.Logger
	metrics   core.MetricsCollector
	hooks     []core.Hook
	maxBytes  int64

	// Blank construction through New.
	height *int
	bg     *core.Color
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		resampler: raster.BiLinear,
		logger:    core.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	return s, nil
}

// WithRegistry selects the codecs used to decode and encode.
func WithRegistry(r core.Registry) Option {
	return func(s *settings) error {
		if r == nil {
			return apperrors.New(apperrors.CategoryConfig, "option.registry", apperrors.ErrInvalidArgument)
		}
		s.registry = r
		return nil
	}
}

// WithResampler selects the filter used by Resize.
func WithResampler(r raster.Resampler) Option {
	return func(s *settings) error {
		if r == nil {
			return apperrors.New(apperrors.CategoryConfig, "option.resampler", apperrors.ErrInvalidArgument)
		}
		s.resampler = r
		return nil
	}
}

func WithLogger(l core.Logger) Option {
	return func(s *settings) error {
		if l == nil {
			l = core.NopLogger{}
		}
		s.logger = l
		return nil
	}
}

// WithMetrics reports codec timings and encoded byte counts to m.
func WithMetrics(m core.MetricsCollector) Option {
	return func(s *settings) error {
		s.metrics = m
		return nil
	}
}

// WithHook observes every decode and encode as a step named "decode" or "encode".
func WithHook(h core.Hook) Option {
	return func(s *settings) error {
		s.hooks = append(s.hooks, h)
		return nil
	}
}

// WithMaxImageBytes refuses encoded inputs larger than n bytes. 0 disables the limit.
func WithMaxImageBytes(n int64) Option {
	return func(s *settings) error {
		if n < 0 {
			return apperrors.New(apperrors.CategoryConfig, "option.max_bytes",
				fmt.Errorf("%w: %d", apperrors.ErrInvalidArgument, n))
		}
		s.maxBytes = n
		return nil
	}
}

// WithHeight sets the canvas height when New builds a blank image.
func WithHeight(h int) Option {
	return func(s *settings) error {
		s.height = &h
		return nil
	}
}

// WithBackground sets the fill colour when New builds a blank image.
func WithBackground(c core.Color) Option {
	return func(s *settings) error {
		s.bg = &c
		return nil
	}
}

// OptionsFromConfig validates cfg and turns it into construction options:
// a registry with cfg.DefaultQuality, the named resampler, the input size
// limit and a text logger on stderr at cfg.LogLevel.
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "config.validate", err)
	}
	rs, err := raster.ResamplerByName(cfg.Resampler)
	if err != nil {
		return nil, err
	}
	logger, err := hooks.NewTextLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithRegistry(NewRegistry(cfg.DefaultQuality)),
		WithResampler(rs),
		WithMaxImageBytes(cfg.MaxImageBytes),
		WithLogger(logger),
	}, nil
}
