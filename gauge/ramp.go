package gauge

import (
	"image/color"
	"math"

	"github.com/korjavin/asthmabot/models"
)

// Ramp stops from worst to best controlled.
var (
	WorstColor = color.RGBA{0xEF, 0x44, 0x44, 0xFF} // red
	MidColor   = color.RGBA{0xFD, 0xE0, 0x47, 0xFF} // yellow
	BestColor  = color.RGBA{0x3B, 0x82, 0xF6, 0xFF} // blue
)

// ramp is a three-stop linear gradient over [0, 1], left to right.
type ramp [3]color.RGBA

// newRamp orders the stops so the worst end of the range is red.
func newRamp(p models.Polarity) ramp {
	if p == models.LowerIsBetter {
		return ramp{BestColor, MidColor, WorstColor}
	}
	return ramp{WorstColor, MidColor, BestColor}
}

func (r ramp) at(t float64) color.RGBA {
	switch {
	case t <= 0:
		return r[0]
	case t >= 1:
		return r[2]
	case t < 0.5:
		return lerp(r[0], r[1], t*2)
	default:
		return lerp(r[1], r[2], (t-0.5)*2)
	}
}

func lerp(a, b color.RGBA, u float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*u))
	}
	return color.RGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: 0xFF}
}
