package core

// CopyPixels writes every pixel of src into dst at the same coordinates.
//
// It only needs the colour capability, so it works between any two image
// implementations. dst must be at least as large as src.
func CopyPixels(src PixelSource, dst PixelSink) error {
	w, h := src.Width(), src.Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c, err := src.ColorAt(x, y)
			if err != nil {
				return err
			}
			if err := dst.SetColorAt(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}
