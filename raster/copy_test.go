package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, w, h int, p Pixel) *Canvas {
	t.Helper()
	c, err := New(w, h)
	require.NoError(t, err)
	c.SetAlphaBlending(false)
	require.NoError(t, c.FilledRectangle(0, 0, w-1, h-1, p))
	c.SetAlphaBlending(true)
	return c
}

func at(t *testing.T, c *Canvas, x, y int) Pixel {
	t.Helper()
	p, err := c.ColorAt(x, y)
	require.NoError(t, err)
	return p
}

func TestCopy_ClipsToBothCanvases(t *testing.T) {
	red := TrueColorAlpha(255, 0, 0, 0)
	blue := TrueColorAlpha(0, 0, 255, 0)
	dst := fill(t, 4, 4, blue)
	src := fill(t, 3, 3, red)

	require.NoError(t, Copy(dst, src, 2, 2, 0, 0, 3, 3))
	assert.Equal(t, red, at(t, dst, 3, 3))
	assert.Equal(t, red, at(t, dst, 2, 2))
	assert.Equal(t, blue, at(t, dst, 1, 1))
}

func TestCopy_SkipsTransparentKey(t *testing.T) {
	key := TrueColorAlpha(0, 255, 0, 0)
	red := TrueColorAlpha(255, 0, 0, 0)
	blue := TrueColorAlpha(0, 0, 255, 0)

	src := fill(t, 2, 1, key)
	src.SetAlphaBlending(false)
	require.NoError(t, src.SetPixel(1, 0, red))
	src.SetTransparent(key)

	dst := fill(t, 2, 1, blue)
	require.NoError(t, Copy(dst, src, 0, 0, 0, 0, 2, 1))
	assert.Equal(t, blue, at(t, dst, 0, 0))
	assert.Equal(t, red, at(t, dst, 1, 0))
}

func TestCopy_NoBlendingReplacesAlpha(t *testing.T) {
	clear := TrueColorAlpha(0, 0, 0, AlphaMax)
	src := fill(t, 1, 1, TrueColorAlpha(9, 9, 9, 100))
	dst := fill(t, 1, 1, clear)
	dst.SetAlphaBlending(false)

	require.NoError(t, Copy(dst, src, 0, 0, 0, 0, 1, 1))
	assert.Equal(t, TrueColorAlpha(9, 9, 9, 100), at(t, dst, 0, 0))
}

func TestCopyResampled_FillsTarget(t *testing.T) {
	red := TrueColorAlpha(255, 0, 0, 0)
	src := fill(t, 8, 8, red)
	for _, rs := range []Resampler{BiLinear, CatmullRom, Lanczos, Lanczos3} {
		dst, _ := New(4, 2)
		dst.SetAlphaBlending(false)
		require.NoError(t, CopyResampled(dst, src, 0, 0, 0, 0, 4, 2, 8, 8, rs), rs.Name())
		r, g, b, a := at(t, dst, 3, 1).Components()
		assert.InDelta(t, 255, r, 2, rs.Name())
		assert.Equal(t, 0, g+b, rs.Name())
		assert.Equal(t, 0, a, rs.Name())
	}
}

func TestCopyMerge_Opacity(t *testing.T) {
	white := TrueColorAlpha(255, 255, 255, 0)
	black := TrueColorAlpha(0, 0, 0, 0)

	for _, tc := range []struct {
		pct  int
		want int
	}{{0, 0}, {100, 255}, {50, 128}, {150, 255}} {
		dst := fill(t, 2, 2, black)
		src := fill(t, 2, 2, white)
		require.NoError(t, CopyMerge(dst, src, 0, 0, 0, 0, 2, 2, tc.pct))
		r, _, _, a := at(t, dst, 1, 1).Components()
		assert.InDelta(t, tc.want, r, 1, "pct %d", tc.pct)
		assert.Equal(t, 0, a)
	}
}

func TestRotate(t *testing.T) {
	red := TrueColorAlpha(255, 0, 0, 0)
	c := fill(t, 4, 2, red)

	r90, err := c.Rotate(90, TrueColorAlpha(0, 0, 0, AlphaMax))
	require.NoError(t, err)
	assert.Equal(t, 2, r90.Width())
	assert.Equal(t, 4, r90.Height())
	assert.Equal(t, red, at(t, r90, 1, 3))

	r45, err := c.Rotate(45, TrueColorAlpha(0, 0, 0, AlphaMax))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r45.Width(), 4)
	assert.Greater(t, r45.Height(), 2)
	assert.Equal(t, TrueColorAlpha(0, 0, 0, AlphaMax), at(t, r45, 0, 0))
}

func TestResamplerByName(t *testing.T) {
	for _, name := range []string{"", "bilinear", "CatmullRom", "lanczos", "lanczos3"} {
		_, err := ResamplerByName(name)
		assert.NoError(t, err, name)
	}
	_, err := ResamplerByName("box")
	assert.Error(t, err)
}

func TestReleasedCanvasRejectsCopies(t *testing.T) {
	a := fill(t, 1, 1, 0)
	b := fill(t, 1, 1, 0)
	b.Release()
	assert.ErrorIs(t, Copy(a, b, 0, 0, 0, 0, 1, 1), ErrReleased)
	assert.ErrorIs(t, CopyMerge(b, a, 0, 0, 0, 0, 1, 1, 50), ErrReleased)
	_, err := b.Rotate(10, 0)
	assert.ErrorIs(t, err, ErrReleased)
}
