package utils

import (
	"bytes"
	"math"
	"net/http"
)

const (
	formatJPEG    = "jpeg"
	formatPNG     = "png"
	formatGIF     = "gif"
	formatWebP    = "webp"
	formatGD      = "gd"
	formatUnknown = "unknown"
)

// SniffLen is the number of leading bytes DetectFormat looks at.
const SniffLen = 512

var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicGIF7 = []byte("GIF87a")
	magicGIF9 = []byte("GIF89a")
	magicRIFF = []byte("RIFF")
	magicWEBP = []byte("WEBP")
	magicGDTC = []byte{0xFF, 0xFE} // GD 2.x truecolor
	magicGDPL = []byte{0xFF, 0xFF} // GD 2.x palette
)

// DetectFormat sniffs the first SniffLen bytes of data and returns the image format.
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return formatUnknown
	}
	if len(data) > SniffLen {
		data = data[:SniffLen]
	}
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return formatPNG
	case bytes.HasPrefix(data, magicJPEG):
		return formatJPEG
	case bytes.HasPrefix(data, magicGIF7), bytes.HasPrefix(data, magicGIF9):
		return formatGIF
	case len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWEBP):
		return formatWebP
	case bytes.HasPrefix(data, magicGDTC), bytes.HasPrefix(data, magicGDPL):
		return formatGD
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/gif":
		return formatGIF
	case "image/webp":
		return formatWebP
	}
	return formatUnknown
}

// ScaleDimensions computes output (w, h) preserving aspect ratio.
// Pass 0 for either axis to calculate it from the other; the derived axis is rounded.
func ScaleDimensions(srcW, srcH, targetW, targetH int) (int, int) {
	if targetW == 0 && targetH == 0 {
		return srcW, srcH
	}
	if srcW <= 0 || srcH <= 0 {
		return targetW, targetH
	}
	if targetW == 0 {
		return int(math.Round(float64(srcW) * float64(targetH) / float64(srcH))), targetH
	}
	if targetH == 0 {
		return targetW, int(math.Round(float64(srcH) * float64(targetW) / float64(srcW)))
	}
	return targetW, targetH
}

// CloneBytes returns a copy of b (safe for use after the source buffer is released).
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// BytesReader creates an io.Reader backed by b without allocation.
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
