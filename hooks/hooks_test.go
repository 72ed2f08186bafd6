package hooks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Skryldev/gdimage/errors"
)

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewTextLogger(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "step", "resize")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "step=resize")

	_, err = NewTextLogger(&buf, "loud")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = NewTextLogger(&buf, "")
	assert.NoError(t, err)
}

func TestLoggingHook(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewTextLogger(&buf, "debug")
	h := NewLoggingHook(l)

	h.BeforeStep(context.Background(), "decode", nil)
	h.AfterStep(context.Background(), "decode", nil, time.Millisecond, errors.New("bad header"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "input=nil")
	assert.Contains(t, lines[1], "level=ERROR")
	assert.Contains(t, lines[1], "bad header")
}

func TestMetricsHook(t *testing.T) {
	m := NewInMemoryMetrics()
	h := NewMetricsHook(m)
	ctx := context.Background()

	h.AfterStep(ctx, "resize", nil, 2*time.Millisecond, nil)
	h.AfterStep(ctx, "resize", nil, 3*time.Millisecond, nil)
	h.AfterStep(ctx, "save", nil, time.Millisecond, apperrors.Transient("s3.put", errors.New("timeout")))
	m.RecordThroughput(512)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.StepCalls["resize"])
	assert.Equal(t, int64(5), snap.StepDurationsMs["resize"])
	assert.Equal(t, int64(1), snap.StepErrors["save"])
	assert.Equal(t, int64(512), snap.TotalThroughputB)

	// Snapshots are copies.
	snap.StepCalls["resize"] = 99
	assert.Equal(t, int64(2), m.Snapshot().StepCalls["resize"])
}
