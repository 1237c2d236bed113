package gauge

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// SVGCanvas writes a layout as SVG. Text is already in visual order, so
// the viewer's own bidi algorithm is overridden.
type SVGCanvas struct {
	s *svg.SVG
}

// NewSVGCanvas starts an SVG document on w with a white background.
func NewSVGCanvas(w io.Writer, width, height int) *SVGCanvas {
	s := svg.New(w)
	s.Start(width, height)
	s.Rect(0, 0, width, height, "fill:#ffffff")
	return &SVGCanvas{s: s}
}

func px(v float64) int {
	return int(math.Round(v))
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c *SVGCanvas) FillRect(r Rect) {
	x0, x1 := px(r.X0), px(r.X1)
	y0, y1 := px(r.Y0), px(r.Y1)
	c.s.Rect(x0, y0, x1-x0, y1-y0, "fill:"+hex(r.Fill))
}

func (c *SVGCanvas) StrokeLine(l Line) {
	c.s.Line(px(l.X0), px(l.Y0), px(l.X1), px(l.Y1),
		fmt.Sprintf("stroke:%s;stroke-width:%g", hex(l.Stroke), l.Width))
}

func (c *SVGCanvas) DrawText(t Text) {
	c.s.Text(px(t.X), px(t.Y), t.Value,
		fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%gpx;text-anchor:middle;dominant-baseline:middle;direction:ltr;unicode-bidi:bidi-override",
			hex(t.Fill), t.Size))
}

// End closes the document.
func (c *SVGCanvas) End() {
	c.s.End()
}
