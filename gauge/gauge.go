// Package gauge lays out and draws the horizontal score gauge: a continuous
// colour ramp across the score range, thin markers between category bands,
// a heavy marker at the score, band labels and integer ticks.
//
// Build produces a Layout, a plain description of every shape in canvas
// pixels. Everything in it except the score marker depends only on the Spec,
// so two gauges of the same instrument differ in exactly one line.
package gauge

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
	"github.com/korjavin/asthmabot/shaping"
)

// LayoutVersion changes whenever the geometry or colours below change, so
// cached renderings can be told apart.
const LayoutVersion = 1

// Canvas geometry in pixels, a 10x2 inch figure at 100 dpi.
const (
	Width  = 1000
	Height = 200

	marginLeft  = 50.0
	marginRight = 50.0
	axesTop     = 10.0
	axesBottom  = 140.0

	tickLength = 4.0
	tickGap    = 14.0
	titleY     = Height - 18.0
)

// Vertical placement as a fraction of the axes height.
const (
	barLow     = 0.40
	barHigh    = 0.60
	markerLow  = 0.35
	markerHigh = 0.65
	labelAt    = 0.75
)

const (
	// Samples is the number of points the ramp is evaluated on
	Samples = 500

	boundaryWidth = 1.0
	scoreWidth    = 4.0
	rampAlpha     = 0.9

	labelSize = 14.0
	tickSize  = 8.0
	titleSize = 14.0
)

var (
	// ErrLabelCount means the spec does not carry one label per band.
	ErrLabelCount = errors.New("label count does not match bands")
	// ErrInvalidSpec means the scale cannot be drawn.
	ErrInvalidSpec = errors.New("invalid gauge spec")
)

var (
	markerColor = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	textColor   = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

// Spec is everything a gauge depends on besides the score.
// Labels are in band order and logical (unshaped) text order.
type Spec struct {
	Scale     scale.Scale
	Polarity  models.Polarity
	Labels    []string
	Title     string
	Direction models.Direction
}

// Rect is a filled axis-aligned rectangle
type Rect struct {
	X0, Y0, X1, Y1 float64
	Fill           color.RGBA
}

// Line is a stroked segment
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Stroke         color.RGBA
}

// Text is a single line centred on (X, Y), already in visual order.
type Text struct {
	X, Y  float64
	Size  float64
	Value string
	Fill  color.RGBA
}

// Layout is a fully resolved gauge.
type Layout struct {
	Width, Height float64
	Segments      []Rect
	Boundaries    []Line
	Ticks         []Line
	TickLabels    []Text
	BandLabels    []Text
	Title         Text
	Score         Line
}

// Frame returns the layout without the score marker.
func (l *Layout) Frame() Layout {
	f := *l
	f.Score = Line{}
	return f
}

type axis struct {
	min, max float64
}

func (a axis) x(v float64) float64 {
	return marginLeft + (v-a.min)/(a.max-a.min)*(Width-marginLeft-marginRight)
}

func y(frac float64) float64 {
	return axesBottom - frac*(axesBottom-axesTop)
}

// Build lays out the gauge for score.
func Build(score int, spec Spec) (*Layout, error) {
	s := spec.Scale
	if s.Max <= s.Min {
		return nil, fmt.Errorf("%w: range [%d, %d]", ErrInvalidSpec, s.Min, s.Max)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if !s.Contains(score) {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", scale.ErrOutOfRange, score, s.Min, s.Max)
	}
	bands := scale.Bands(s)
	if len(spec.Labels) != len(bands) {
		return nil, fmt.Errorf("%w: %d labels for %d bands", ErrLabelCount, len(spec.Labels), len(bands))
	}

	ax := axis{min: float64(s.Min), max: float64(s.Max)}
	l := &Layout{Width: Width, Height: Height}

	ramp := newRamp(spec.Polarity)
	step := (ax.max - ax.min) / float64(Samples-1)
	l.Segments = make([]Rect, 0, Samples-1)
	for i := 0; i < Samples-1; i++ {
		v0 := ax.min + float64(i)*step
		v1 := ax.min + float64(i+1)*step
		if i == Samples-2 {
			v1 = ax.max
		}
		t := (float64(i) + 0.5) / float64(Samples-1)
		l.Segments = append(l.Segments, Rect{
			X0: ax.x(v0), Y0: y(barHigh),
			X1: ax.x(v1), Y1: y(barLow),
			Fill: overWhite(ramp.at(t), rampAlpha),
		})
	}

	for _, edge := range scale.Boundaries(s) {
		l.Boundaries = append(l.Boundaries, marker(ax.x(edge), boundaryWidth))
	}

	for i, b := range bands {
		l.BandLabels = append(l.BandLabels, Text{
			X: ax.x(b.Mid()), Y: y(labelAt),
			Size:  labelSize,
			Value: shaping.Visual(spec.Labels[i], spec.Direction),
			Fill:  textColor,
		})
	}

	for v := s.Min; v <= s.Max; v++ {
		x := ax.x(float64(v))
		l.Ticks = append(l.Ticks, Line{X0: x, Y0: axesBottom, X1: x, Y1: axesBottom + tickLength, Width: 1, Stroke: textColor})
		l.TickLabels = append(l.TickLabels, Text{
			X: x, Y: axesBottom + tickGap,
			Size: tickSize, Value: fmt.Sprint(v), Fill: textColor,
		})
	}

	l.Title = Text{
		X: (ax.x(ax.min) + ax.x(ax.max)) / 2, Y: titleY,
		Size:  titleSize,
		Value: shaping.Visual(spec.Title, spec.Direction),
		Fill:  textColor,
	}

	l.Score = marker(ax.x(float64(score)), scoreWidth)
	return l, nil
}

func marker(x, width float64) Line {
	return Line{X0: x, Y0: y(markerLow), X1: x, Y1: y(markerHigh), Width: width, Stroke: markerColor}
}

// overWhite flattens c drawn at alpha onto a white background.
func overWhite(c color.RGBA, alpha float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(math.Round(alpha*float64(v) + (1-alpha)*255))
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xFF}
}
