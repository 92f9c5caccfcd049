package osc

import colorful "github.com/lucasb-eyer/go-colorful"

// RgbaColor is the payload of an 'r' argument: four independent
// 8-bit channels, big-endian on the wire. The OSC spec does not
// define how alpha composites, so callers that need that decide it
// themselves.
type RgbaColor struct {
	R, G, B, A byte
}

// Colorful converts c to a github.com/lucasb-eyer/go-colorful Color for
// callers doing further color-space work (blending, gamma correction,
// distance comparisons) rather than reimplementing sRGB conversion
// here. Alpha is dropped since colorful.Color has no alpha channel;
// the second return value carries c.A converted to the [0,1] range
// colorful uses elsewhere, for callers that still need it.
func (c RgbaColor) Colorful() (colorful.Color, float64) {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}, float64(c.A) / 255
}

// RgbaColorFromColorful builds an RgbaColor from a colorful.Color and
// a separate alpha in [0,1], clamping each channel into the byte
// range the wire format expects.
func RgbaColorFromColorful(col colorful.Color, alpha float64) RgbaColor {
	return RgbaColor{
		R: clampChannel(col.R),
		G: clampChannel(col.G),
		B: clampChannel(col.B),
		A: clampChannel(alpha),
	}
}

func clampChannel(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}
