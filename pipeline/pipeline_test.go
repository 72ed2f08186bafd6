package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/gdimage"
	"github.com/Skryldev/gdimage/adapters/storage"
	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
	"github.com/Skryldev/gdimage/hooks"
	"github.com/Skryldev/gdimage/pipeline"
)

func newBlank(t *testing.T, f core.Format, w, h int) *gdimage.Image {
	t.Helper()
	img, err := gdimage.Blank(f, w, h, core.MustRGBA(10, 200, 30, 1))
	require.NoError(t, err)
	t.Cleanup(func() { img.Close() })
	return img
}

// flakyStep fails with a transient error until it has been called failures+1 times.
type flakyStep struct {
	failures int
	calls    int
}

func (f *flakyStep) Name() string { return "flaky" }

func (f *flakyStep) Execute(_ context.Context, img core.Image) (core.Image, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, apperrors.Transient("flaky", errors.New("try again"))
	}
	return img.Copy(0, 0, img.Width(), img.Height())
}

func TestRun_ChainsSteps(t *testing.T) {
	src := newBlank(t, gdimage.JPEG, 200, 100)

	p := pipeline.New().Use(
		&pipeline.ResizeStep{Width: 100},
		&pipeline.RotateStep{Angle: 90, Background: core.Transparent},
		&pipeline.ScaleStep{Percent: 50},
	)
	out, timings, err := p.Run(context.Background(), src)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 25, out.Width())
	assert.Equal(t, 50, out.Height())
	assert.Len(t, timings, 3)
	assert.Equal(t, 200, src.Width(), "input must stay open")
}

func TestRun_ClosesIntermediates(t *testing.T) {
	src := newBlank(t, gdimage.PNG, 10, 10)
	var seen []core.Image
	spy := &spyStep{seen: &seen}

	out, _, err := pipeline.New().Use(
		&pipeline.ResizeStep{Width: 8, Height: 8},
		spy,
		&pipeline.ResizeStep{Width: 4, Height: 4},
	).Run(context.Background(), src)
	require.NoError(t, err)
	defer out.Close()

	require.Len(t, seen, 1)
	assert.Equal(t, 0, seen[0].Width(), "intermediate should be released")
	assert.Equal(t, 4, out.Width())
}

type spyStep struct{ seen *[]core.Image }

func (s *spyStep) Name() string { return "spy" }

func (s *spyStep) Execute(_ context.Context, img core.Image) (core.Image, error) {
	*s.seen = append(*s.seen, img)
	return img, nil
}

func TestRun_RetriesTransientErrors(t *testing.T) {
	src := newBlank(t, gdimage.GIF, 4, 4)
	step := &flakyStep{failures: 2}

	out, _, err := pipeline.New().WithRetry(2, time.Millisecond).Use(step).Run(context.Background(), src)
	require.NoError(t, err)
	out.Close()
	assert.Equal(t, 3, step.calls)

	step = &flakyStep{failures: 5}
	_, _, err = pipeline.New().WithRetry(1, time.Millisecond).Use(step).Run(context.Background(), src)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, 2, step.calls)
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := newBlank(t, gdimage.GIF, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := pipeline.New().Use(&pipeline.ScaleStep{Percent: 50}).Run(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryPipeline))
}

func TestRun_HooksSeeEveryStep(t *testing.T) {
	src := newBlank(t, gdimage.JPEG, 20, 20)
	metrics := hooks.NewInMemoryMetrics()

	p := pipeline.New().
		AddHook(hooks.NewMetricsHook(metrics)).
		Use(&pipeline.ScaleStep{Percent: 50}, &pipeline.CropStep{X: 5, Y: 5, Width: 10, Height: 10})
	_, _, err := p.Run(context.Background(), src)
	require.ErrorIs(t, err, apperrors.ErrInvalidDimensions)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.StepCalls["scale"])
	assert.Equal(t, int64(1), snap.StepErrors["crop"])
	assert.Zero(t, snap.StepErrors["scale"])
}

func TestClone(t *testing.T) {
	base := pipeline.New().Use(&pipeline.ScaleStep{Percent: 50})
	cp := base.Clone().Use(&pipeline.ScaleStep{Percent: 50})

	src := newBlank(t, gdimage.JPEG, 40, 40)
	a, _, err := base.Run(context.Background(), src)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := cp.Run(context.Background(), src)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 20, a.Width())
	assert.Equal(t, 10, b.Width())
}

func TestThumbnailStep(t *testing.T) {
	src := newBlank(t, gdimage.JPEG, 300, 120)
	out, err := (&pipeline.ThumbnailStep{Size: 60}).Execute(context.Background(), src)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 60, out.Width())
	assert.Equal(t, 60, out.Height())

	_, err = (&pipeline.ThumbnailStep{}).Execute(context.Background(), src)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDimensions)
}

func TestGrayscaleStep(t *testing.T) {
	src := newBlank(t, gdimage.PNG, 3, 3)
	require.NoError(t, src.SetColorAt(0, 0, core.MustRGBA(255, 0, 0, 1)))

	out, err := (&pipeline.GrayscaleStep{}).Execute(context.Background(), src)
	require.NoError(t, err)
	defer out.Close()

	c, err := out.ColorAt(0, 0)
	require.NoError(t, err)
	r, g, b := c.RGB()
	assert.Equal(t, 76, r)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)

	orig, _ := src.ColorAt(0, 0)
	assert.Equal(t, core.MustRGBA(255, 0, 0, 1), orig)
}

func TestConvertStep(t *testing.T) {
	src := newBlank(t, gdimage.JPEG, 5, 5)

	same, err := gdimage.ConvertFormat(gdimage.JPEG).Execute(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, src, same)

	png, err := gdimage.ConvertFormat(gdimage.PNG).Execute(context.Background(), src)
	require.NoError(t, err)
	defer png.Close()
	assert.Equal(t, gdimage.PNG, png.Format())

	_, err = (&pipeline.ConvertStep{Format: gdimage.GIF}).Execute(context.Background(), src)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestWatermarkStep(t *testing.T) {
	src := newBlank(t, gdimage.JPEG, 6, 6)
	mark, err := gdimage.Blank(gdimage.GIF, 2, 2, core.MustRGBA(255, 255, 255, 1))
	require.NoError(t, err)
	defer mark.Close()

	out, err := (&pipeline.WatermarkStep{Watermark: mark, OffsetX: 4, OffsetY: 4}).Execute(context.Background(), src)
	require.NoError(t, err)
	defer out.Close()

	c, _ := out.ColorAt(5, 5)
	assert.Equal(t, core.MustRGBA(255, 255, 255, 1), c)
	c, _ = src.ColorAt(5, 5)
	assert.Equal(t, core.MustRGBA(10, 200, 30, 1), c)

	_, err = (&pipeline.WatermarkStep{}).Execute(context.Background(), src)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestSaveSteps(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := newBlank(t, gdimage.JPEG, 64, 64)

	plain := storage.FilePath(filepath.Join(dir, "plain.jpg"))
	out, err := (&pipeline.SaveStep{File: plain, Quality: 90}).Execute(ctx, src)
	require.NoError(t, err)
	assert.Same(t, src, out)
	_, err = os.Stat(plain.Path())
	assert.NoError(t, err)

	_, err = (&pipeline.SaveStep{}).Execute(ctx, src)
	assert.ErrorIs(t, err, apperrors.ErrNoBoundFile)

	cfg := gdimage.DefaultConfig()
	cfg.AdaptiveCompression.TargetSizeBytes = 1
	tiny := storage.FilePath(filepath.Join(dir, "tiny.jpg"))
	_, err = gdimage.AdaptiveSave(tiny, cfg).Execute(ctx, src)
	require.NoError(t, err)

	stTiny, err := os.Stat(tiny.Path())
	require.NoError(t, err)
	stPlain, _ := os.Stat(plain.Path())
	assert.LessOrEqual(t, stTiny.Size(), stPlain.Size())
}
