package gauge

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Canvas is the drawing surface a layout is replayed on.
type Canvas interface {
	FillRect(r Rect)
	StrokeLine(l Line)
	DrawText(t Text)
}

// Draw replays the layout in painting order: ramp, boundaries, score
// marker, ticks, labels, title.
func Draw(l *Layout, c Canvas) {
	for _, r := range l.Segments {
		c.FillRect(r)
	}
	for _, b := range l.Boundaries {
		c.StrokeLine(b)
	}
	c.StrokeLine(l.Score)
	for _, t := range l.Ticks {
		c.StrokeLine(t)
	}
	for _, t := range l.TickLabels {
		c.DrawText(t)
	}
	for _, t := range l.BandLabels {
		c.DrawText(t)
	}
	c.DrawText(l.Title)
}

// Format is an output encoding for a gauge
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts "png" or "svg", case-insensitively; empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Encode draws the layout and writes it to w in the given format. Fonts are
// only needed for PNG.
func Encode(w io.Writer, l *Layout, f Format, fonts *Fonts) error {
	switch f {
	case FormatSVG:
		c := NewSVGCanvas(w, int(l.Width), int(l.Height))
		Draw(l, c)
		c.End()
		return nil
	case FormatPNG:
		if fonts == nil {
			return errors.New("png gauge needs fonts")
		}
		c := NewPNGCanvas(int(l.Width), int(l.Height), fonts)
		Draw(l, c)
		return c.EncodePNG(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
