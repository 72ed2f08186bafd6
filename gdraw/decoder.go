package gdraw

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrFormat reports input that is not a gd 2.x image.
var ErrFormat = errors.New("gdraw: not a gd 2.x image")

type header struct {
	trueColor   bool
	width       int
	height      int
	colorsTotal int
	transparent int32
}

type decoder struct {
	h       header
	r       io.Reader
	palette [maxColors]color.NRGBA
	m       *image.NRGBA
	err     error
}

func (d *decoder) decodeHeader() {
	var fixed struct {
		Sig       uint16
		Width     uint16
		Height    uint16
		TrueColor uint8
	}
	if d.readBytes(&fixed); d.err != nil {
		return
	}

	switch {
	case fixed.Sig == sigTrueColor && fixed.TrueColor == 1:
		d.h.trueColor = true
	case fixed.Sig == sigPalette && fixed.TrueColor == 0:
	default:
		d.err = ErrFormat
		return
	}

	d.h.width, d.h.height = int(fixed.Width), int(fixed.Height)
	if d.h.width == 0 || d.h.height == 0 || d.h.width*d.h.height > maxPixels {
		d.err = fmt.Errorf("gdraw: invalid size %dx%d", d.h.width, d.h.height)
		return
	}

	if !d.h.trueColor {
		var total uint16
		if d.readBytes(&total); d.err != nil {
			return
		}
		if int(total) > maxColors {
			d.err = fmt.Errorf("gdraw: %d palette entries", total)
			return
		}
		d.h.colorsTotal = int(total)
	}
	d.readBytes(&d.h.transparent)
}

func (d *decoder) decodePalette() {
	if d.err != nil || d.h.trueColor {
		return
	}
	var entries [maxColors][4]uint8
	if d.readBytes(&entries); d.err != nil {
		return
	}
	for i, e := range entries {
		d.palette[i] = color.NRGBA{R: e[0], G: e[1], B: e[2], A: to8(e[3] & alphaMax)}
	}
	if t := d.h.transparent; t >= 0 && int(t) < maxColors {
		d.palette[t].A = 0
	}
}

func (d *decoder) decode() {
	if d.err != nil {
		return
	}
	w, h := d.h.width, d.h.height
	d.m = image.NewNRGBA(image.Rect(0, 0, w, h))

	stride := w
	if d.h.trueColor {
		stride = 4 * w
	}
	row := make([]byte, stride)
	for y := 0; y < h; y++ {
		if _, d.err = io.ReadFull(d.r, row); d.err != nil {
			if d.err == io.EOF {
				d.err = io.ErrUnexpectedEOF
			}
			return
		}
		for x := 0; x < w; x++ {
			if d.h.trueColor {
				d.m.SetNRGBA(x, y, d.trueColorAt(binary.BigEndian.Uint32(row[4*x:])))
				continue
			}
			idx := int(row[x])
			if idx >= d.h.colorsTotal {
				d.err = fmt.Errorf("gdraw: palette index %d out of range", idx)
				return
			}
			d.m.SetNRGBA(x, y, d.palette[idx])
		}
	}
}

func (d *decoder) trueColorAt(v uint32) color.NRGBA {
	if d.h.transparent >= 0 && v == uint32(d.h.transparent) {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: to8(uint8(v>>24) & alphaMax),
	}
}

func (d *decoder) readBytes(data any) {
	d.err = binary.Read(d.r, binary.BigEndian, data)
	if d.err == io.EOF {
		d.err = io.ErrUnexpectedEOF
	}
}

// DecodeConfig returns the dimensions of a gd image without reading pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d := decoder{r: r}

	d.decodeHeader()
	if d.err != nil {
		return image.Config{}, d.err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.h.width,
		Height:     d.h.height,
	}, nil
}

// Decode reads a gd image. Pixels matching the transparent colour are
// returned fully transparent.
func Decode(r io.Reader) (image.Image, error) {
	d := decoder{r: bufio.NewReader(r)}

	d.decodeHeader()
	d.decodePalette()
	d.decode()

	if d.err != nil {
		return nil, d.err
	}
	return d.m, nil
}
