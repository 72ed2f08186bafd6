package core

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	apperrors "github.com/Skryldev/gdimage/errors"
)

// Color is an immutable RGB colour with a 0-1 alpha channel.
//
// The zero value is fully transparent black.
type Color struct {
	r, g, b int
	a       float64
}

// FromRGB builds an opaque colour. Each channel must be in [0,255].
func FromRGB(r, g, b int) (Color, error) {
	if err := checkChannel("red", r); err != nil {
		return Color{}, err
	}
	if err := checkChannel("green", g); err != nil {
		return Color{}, err
	}
	if err := checkChannel("blue", b); err != nil {
		return Color{}, err
	}
	return Color{r: r, g: g, b: b, a: 1}, nil
}

// FromRGBA builds a colour with alpha a in [0,1], where 1 is opaque.
func FromRGBA(r, g, b int, a float64) (Color, error) {
	if a < 0 || a > 1 || a != a {
		return Color{}, apperrors.New(apperrors.CategoryInput, "color.rgba",
			fmt.Errorf("%w: alpha is %v", apperrors.ErrInvalidColorRange, a))
	}
	c, err := FromRGB(r, g, b)
	if err != nil {
		return Color{}, err
	}
	c.a = a
	return c, nil
}

// MustRGBA is FromRGBA for constants known to be in range. It panics otherwise.
func MustRGBA(r, g, b int, a float64) Color {
	c, err := FromRGBA(r, g, b, a)
	if err != nil {
		panic(err)
	}
	return c
}

// Transparent is fully transparent black, the background of every scratch canvas.
var Transparent = Color{}

// ParseHex parses "#rgb" or "#rrggbb" into an opaque colour.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, apperrors.New(apperrors.CategoryInput, "color.hex",
			fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
	}
	r, g, b := c.RGB255()
	return FromRGB(int(r), int(g), int(b))
}

// RGB returns the colour channels.
func (c Color) RGB() (r, g, b int) { return c.r, c.g, c.b }

// RGBA returns the colour channels and alpha.
func (c Color) RGBA() (r, g, b int, a float64) { return c.r, c.g, c.b, c.a }

// Alpha returns the 0-1 alpha channel.
func (c Color) Alpha() float64 { return c.a }

// Hex formats the colour as "#rrggbb"; alpha is dropped.
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}.Hex()
}

// NRGBA converts the colour to the standard library's non-premultiplied model.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c.r), G: uint8(c.g), B: uint8(c.b), A: uint8(c.a*255 + 0.5)}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.r, c.g, c.b, c.a)
}

func checkChannel(name string, v int) error {
	if v < 0 || v > 255 {
		return apperrors.New(apperrors.CategoryInput, "color.rgb",
			fmt.Errorf("%w: %s is %d", apperrors.ErrInvalidColorRange, name, v))
	}
	return nil
}
