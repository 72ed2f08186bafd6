package core

import "math"

// EngineAlphaMax is the raster engine's fully transparent alpha; 0 is opaque.
const EngineAlphaMax = 127

// AlphaToEngine maps a 0-1 alpha (1 opaque) to the engine's 0-127 alpha (0 opaque).
func AlphaToEngine(a float64) int {
	return int(math.Round(EngineAlphaMax - a*EngineAlphaMax))
}

// AlphaFromEngine maps an engine alpha back to the 0-1 range.
//
// The result is rounded to a whole number, so anything more opaque than half
// reads back as 1 and anything less as 0. Callers rely on this rounding.
func AlphaFromEngine(a int) float64 {
	return math.Round(float64(EngineAlphaMax-a) / EngineAlphaMax)
}
