package gdimage

import (
	"sync"

	"github.com/Skryldev/gdimage/adapters/decoder"
	"github.com/Skryldev/gdimage/adapters/encoder"
	"github.com/Skryldev/gdimage/core"
)

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *core.DefaultRegistry
)

// DefaultRegistry returns the shared registry holding the built-in codecs.
// Images built without WithRegistry use it.
func DefaultRegistry() *core.DefaultRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(core.DefaultQuality)
	})
	return defaultRegistry
}

// NewRegistry returns a fresh registry with the built-in codec for every
// format. defaultQuality applies to JPEG and WEBP when Save gets quality 0.
func NewRegistry(defaultQuality int) *core.DefaultRegistry {
	reg := core.NewRegistry()

	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatGIF, decoder.NewGIF())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterDecoder(core.FormatGD, decoder.NewGD())

	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(defaultQuality))
	reg.RegisterEncoder(core.FormatPNG, encoder.NewPNG())
	reg.RegisterEncoder(core.FormatGIF, encoder.NewGIF())
	reg.RegisterEncoder(core.FormatWebP, encoder.NewWebP(defaultQuality))
	reg.RegisterEncoder(core.FormatGD, encoder.NewGD())
	return reg
}
