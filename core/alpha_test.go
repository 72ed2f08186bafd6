package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skryldev/gdimage/core"
)

func TestAlphaToEngine(t *testing.T) {
	cases := map[float64]int{1: 0, 0: 127, 0.5: 64, 0.25: 95}
	for in, want := range cases {
		assert.Equal(t, want, core.AlphaToEngine(in), "alpha %v", in)
	}
}

func TestAlphaFromEngine_RoundsToWhole(t *testing.T) {
	assert.Equal(t, 1.0, core.AlphaFromEngine(0))
	assert.Equal(t, 1.0, core.AlphaFromEngine(63))
	assert.Equal(t, 0.0, core.AlphaFromEngine(64))
	assert.Equal(t, 0.0, core.AlphaFromEngine(127))
}

func TestAlpha_HalfDoesNotSurviveRoundTrip(t *testing.T) {
	assert.Equal(t, 0.0, core.AlphaFromEngine(core.AlphaToEngine(0.5)))
}
