package gdraw

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"io"
)

// Encode writes m to w as a truecolor gd image with no transparent colour.
// Alpha is narrowed to gd's 7 bits.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || b.Dx() > 0xFFFF || b.Dy() > 0xFFFF {
		return fmt.Errorf("gdraw: cannot encode %dx%d", b.Dx(), b.Dy())
	}

	img, ok := m.(*image.NRGBA)
	if !ok {
		img = image.NewNRGBA(b)
		draw.Draw(img, b, m, b.Min, draw.Src)
	}

	bw := bufio.NewWriter(w)
	hdr := struct {
		Sig         uint16
		Width       uint16
		Height      uint16
		TrueColor   uint8
		Transparent int32
	}{sigTrueColor, uint16(b.Dx()), uint16(b.Dy()), 1, noTransparent}
	if err := binary.Write(bw, binary.BigEndian, hdr); err != nil {
		return err
	}

	row := make([]byte, 4*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			v := uint32(to7(c.A))<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
			binary.BigEndian.PutUint32(row[4*(x-b.Min.X):], v)
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
