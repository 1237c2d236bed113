package gauge

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/korjavin/asthmabot/instruments"
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
	"github.com/korjavin/asthmabot/shaping"
)

func specFor(t *testing.T, inst *models.Instrument, l models.Locale) Spec {
	t.Helper()
	s, err := inst.Strings(l)
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, b := range scale.Bands(inst.Scale) {
		labels = append(labels, s.Category(b.Category.Key))
	}
	return Spec{
		Scale:     inst.Scale,
		Polarity:  inst.Polarity,
		Labels:    labels,
		Title:     s.AxisTitle,
		Direction: l.Direction(),
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// --- Build ---

func TestBuild_SegmentsCoverRange(t *testing.T) {
	l, err := Build(18, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(l.Segments) < 100 {
		t.Fatalf("got %d segments, want at least 100", len(l.Segments))
	}
	if !near(l.Segments[0].X0, marginLeft) {
		t.Errorf("first segment starts at %v, want %v", l.Segments[0].X0, marginLeft)
	}
	if last := l.Segments[len(l.Segments)-1]; !near(last.X1, Width-marginRight) {
		t.Errorf("last segment ends at %v, want %v", last.X1, Width-marginRight)
	}
	for i := 1; i < len(l.Segments); i++ {
		if !near(l.Segments[i].X0, l.Segments[i-1].X1) {
			t.Fatalf("gap between segments %d and %d", i-1, i)
		}
	}
}

func TestBuild_ACTRampRedToBlue(t *testing.T) {
	l, err := Build(5, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	first, last := l.Segments[0].Fill, l.Segments[len(l.Segments)-1].Fill
	if int(first.R) < int(first.B)+100 {
		t.Errorf("ACT low end = %v, want red", first)
	}
	if int(last.B) < int(last.R)+100 {
		t.Errorf("ACT high end = %v, want blue", last)
	}
}

func TestBuild_AIRQRampBlueToRed(t *testing.T) {
	l, err := Build(0, specFor(t, instruments.AIRQ(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	first, last := l.Segments[0].Fill, l.Segments[len(l.Segments)-1].Fill
	if int(first.B) < int(first.R)+100 {
		t.Errorf("AIRQ low end = %v, want blue", first)
	}
	if int(last.R) < int(last.B)+100 {
		t.Errorf("AIRQ high end = %v, want red", last)
	}
}

func TestBuild_ACTMarkersAndLabels(t *testing.T) {
	l, err := Build(18, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	// x = 50 + (v-5) * 45
	wantEdges := []float64{522.5, 702.5}
	if len(l.Boundaries) != len(wantEdges) {
		t.Fatalf("got %d boundaries, want %d", len(l.Boundaries), len(wantEdges))
	}
	for i, x := range wantEdges {
		if !near(l.Boundaries[i].X0, x) || l.Boundaries[i].Width != boundaryWidth {
			t.Errorf("boundary %d = %+v, want x=%v width=%v", i, l.Boundaries[i], x, boundaryWidth)
		}
	}
	if !near(l.Score.X0, 635) || l.Score.Width != scoreWidth {
		t.Errorf("score marker = %+v, want x=635 width=%v", l.Score, scoreWidth)
	}
	if l.Score.Width <= l.Boundaries[0].Width {
		t.Error("score marker should be heavier than boundary markers")
	}

	wantLabels := []struct {
		x    float64
		text string
	}{{275, "Poorly controlled"}, {612.5, "Partially controlled"}, {837.5, "Well controlled"}}
	for i, w := range wantLabels {
		got := l.BandLabels[i]
		if !near(got.X, w.x) || got.Value != w.text {
			t.Errorf("label %d = %v %q, want %v %q", i, got.X, got.Value, w.x, w.text)
		}
	}
}

func TestBuild_AIRQLabelMidpoints(t *testing.T) {
	l, err := Build(3, specFor(t, instruments.AIRQ(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	// x = 50 + v * 90
	for i, x := range []float64{95, 320, 725} {
		if !near(l.BandLabels[i].X, x) {
			t.Errorf("label %d at %v, want %v", i, l.BandLabels[i].X, x)
		}
	}
	for i, x := range []float64{185, 455} {
		if !near(l.Boundaries[i].X0, x) {
			t.Errorf("boundary %d at %v, want %v", i, l.Boundaries[i].X0, x)
		}
	}
}

func TestBuild_TicksEveryInteger(t *testing.T) {
	l, err := Build(5, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Ticks) != 21 || len(l.TickLabels) != 21 {
		t.Fatalf("got %d ticks / %d labels, want 21", len(l.Ticks), len(l.TickLabels))
	}
	if l.TickLabels[0].Value != "5" || l.TickLabels[20].Value != "25" {
		t.Errorf("tick labels run %s..%s, want 5..25", l.TickLabels[0].Value, l.TickLabels[20].Value)
	}
	if l.Title.Value != "ACT score (5–25)" {
		t.Errorf("title = %q", l.Title.Value)
	}
}

func TestBuild_ArabicLabelsShaped(t *testing.T) {
	inst := instruments.AIRQ()
	l, err := Build(6, specFor(t, inst, models.Arabic))
	if err != nil {
		t.Fatal(err)
	}
	ar, _ := inst.Strings(models.Arabic)
	want := shaping.Visual(ar.Category(instruments.AIRQVeryPoorly.Key), models.RTL)
	if l.BandLabels[2].Value != want {
		t.Errorf("arabic label = %+q, want %+q", l.BandLabels[2].Value, want)
	}
	if l.BandLabels[2].Value == ar.Category(instruments.AIRQVeryPoorly.Key) {
		t.Error("arabic label was not shaped")
	}
}

// The frame depends only on the spec; the score moves one marker.
func TestBuild_FrameIndependentOfScore(t *testing.T) {
	spec := specFor(t, instruments.ACT(), models.Arabic)
	a, err := Build(5, spec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(24, spec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Frame(), b.Frame()) {
		t.Error("frames differ between scores")
	}
	if a.Score == b.Score {
		t.Error("score markers should differ")
	}
	again, _ := Build(5, spec)
	if !reflect.DeepEqual(a, again) {
		t.Error("identical inputs produced different layouts")
	}
}

func TestBuild_Errors(t *testing.T) {
	spec := specFor(t, instruments.ACT(), models.English)
	for _, score := range []int{4, 26} {
		if _, err := Build(score, spec); !errors.Is(err, scale.ErrOutOfRange) {
			t.Errorf("Build(%d) error = %v, want ErrOutOfRange", score, err)
		}
	}

	short := spec
	short.Labels = spec.Labels[:2]
	if _, err := Build(10, short); !errors.Is(err, ErrLabelCount) {
		t.Errorf("Build(short labels) error = %v, want ErrLabelCount", err)
	}

	flat := spec
	flat.Scale = scale.Scale{Min: 3, Max: 3, Final: instruments.ACTWell}
	if _, err := Build(3, flat); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Build(flat) error = %v, want ErrInvalidSpec", err)
	}
}

// --- ramp ---

func TestRamp_Stops(t *testing.T) {
	r := newRamp(models.HigherIsBetter)
	if r.at(0) != WorstColor || r.at(0.5) != MidColor || r.at(1) != BestColor {
		t.Errorf("ramp stops = %v %v %v", r.at(0), r.at(0.5), r.at(1))
	}
	if newRamp(models.LowerIsBetter).at(0) != BestColor {
		t.Error("lower-is-better ramp should start at the best colour")
	}
}

func TestOverWhite(t *testing.T) {
	got := overWhite(WorstColor, 0.9)
	// 0.9*239+25.5 = 240.6, 0.9*68+25.5 = 86.7
	if got.R != 241 || got.G != 87 || got.B != 87 || got.A != 0xFF {
		t.Errorf("overWhite() = %v", got)
	}
}

// --- Encode ---

func TestEncode_SVG(t *testing.T) {
	l, err := Build(18, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, l, FormatSVG, nil); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatal("output is not an svg document")
	}
	if got := strings.Count(out, "<rect"); got != len(l.Segments)+1 {
		t.Errorf("got %d rects, want %d", got, len(l.Segments)+1)
	}
	if !strings.Contains(out, "stroke-width:4") {
		t.Error("score marker missing")
	}
	if !strings.Contains(out, "Partially controlled") {
		t.Error("band label missing")
	}
}

func TestEncode_PNG(t *testing.T) {
	fonts, err := LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	l, err := Build(18, specFor(t, instruments.ACT(), models.English))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, l, FormatPNG, fonts); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Fatalf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
	}

	midY := int(y(0.5))
	r, g, b, _ := img.At(635, midY).RGBA()
	if r>>8 > 60 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("score marker pixel = %d,%d,%d, want black", r>>8, g>>8, b>>8)
	}
	r, _, b, _ = img.At(int(marginLeft)+2, midY).RGBA()
	if r>>8 < b>>8+100 {
		t.Errorf("low end pixel r=%d b=%d, want red", r>>8, b>>8)
	}
}

func TestFonts_Covers(t *testing.T) {
	fonts, err := LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	for _, inst := range []*models.Instrument{instruments.ACT(), instruments.AIRQ()} {
		en, err := Build(inst.Scale.Min, specFor(t, inst, models.English))
		if err != nil {
			t.Fatal(err)
		}
		if !fonts.Covers(en) {
			t.Errorf("%s: default font should cover english labels", inst.ID)
		}
		ar, err := Build(inst.Scale.Min, specFor(t, inst, models.Arabic))
		if err != nil {
			t.Fatal(err)
		}
		if fonts.Covers(ar) {
			t.Errorf("%s: default font has no arabic glyphs, Covers() = true", inst.ID)
		}
	}
}

func TestEncode_PNGNeedsFonts(t *testing.T) {
	l, _ := Build(18, specFor(t, instruments.ACT(), models.English))
	if err := Encode(&bytes.Buffer{}, l, FormatPNG, nil); err == nil {
		t.Error("Encode(png, nil fonts) should fail")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPNG, "PNG": FormatPNG, "svg": FormatSVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(gif) error = %v", err)
	}
	if FormatSVG.ContentType() != "image/svg+xml" || FormatPNG.ContentType() != "image/png" {
		t.Error("unexpected content types")
	}
}
