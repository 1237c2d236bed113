package gauge

import (
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts is a parsed TrueType font. Faces made from it are not shared
// between canvases, so one Fonts can serve concurrent renders.
type Fonts struct {
	ttf *truetype.Font
}

// LoadFonts parses the TrueType file at path. An empty path selects Go
// Regular, which has no Arabic glyphs.
func LoadFonts(path string) (*Fonts, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		data = b
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Fonts{ttf: ttf}, nil
}

// NewFace returns a face for a pixel size.
func (f *Fonts) NewFace(size float64) font.Face {
	return truetype.NewFace(f.ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Covers reports whether the font has a glyph for every visible rune of
// the layout's text.
func (f *Fonts) Covers(l *Layout) bool {
	texts := append(append([]Text{l.Title}, l.BandLabels...), l.TickLabels...)
	for _, t := range texts {
		for _, r := range t.Value {
			if unicode.IsSpace(r) || unicode.Is(unicode.Mn, r) {
				continue
			}
			if f.ttf.Index(r) == 0 {
				return false
			}
		}
	}
	return true
}

// PNGCanvas rasterizes a layout.
type PNGCanvas struct {
	dc    *gg.Context
	fonts *Fonts
	faces map[float64]font.Face
}

// NewPNGCanvas returns a white canvas of the given size.
func NewPNGCanvas(width, height int, fonts *Fonts) *PNGCanvas {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &PNGCanvas{dc: dc, fonts: fonts, faces: make(map[float64]font.Face)}
}

func (c *PNGCanvas) FillRect(r Rect) {
	c.dc.SetColor(r.Fill)
	c.dc.DrawRectangle(r.X0, r.Y0, r.X1-r.X0, r.Y1-r.Y0)
	c.dc.Fill()
}

func (c *PNGCanvas) StrokeLine(l Line) {
	c.dc.SetColor(l.Stroke)
	c.dc.SetLineWidth(l.Width)
	c.dc.DrawLine(l.X0, l.Y0, l.X1, l.Y1)
	c.dc.Stroke()
}

func (c *PNGCanvas) DrawText(t Text) {
	face, ok := c.faces[t.Size]
	if !ok {
		face = c.fonts.NewFace(t.Size)
		c.faces[t.Size] = face
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(t.Fill)
	c.dc.DrawStringAnchored(t.Value, t.X, t.Y, 0.5, 0.5)
}

// EncodePNG writes the raster.
func (c *PNGCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
