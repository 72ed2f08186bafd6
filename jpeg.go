package gdimage

import "github.com/Skryldev/gdimage/core"

// jpegDriver has no alpha channel; everything is exported opaque.
type jpegDriver struct{ truecolor }

func (jpegDriver) format() core.Format { return core.FormatJPEG }
