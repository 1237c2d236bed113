// Package report turns one response snapshot into everything a shell
// displays: the score line, the category, explanatory text, references and
// the gauge layout. Nothing is kept between calls.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
	"github.com/korjavin/asthmabot/scoring"
)

// Result is the display payload of a complete response.
type Result struct {
	Instrument     string
	Locale         models.Locale
	Score          int
	Category       scale.Category
	CategoryLabel  string
	Headline       string
	Caption        string
	Interpretation string
	RefsHeading    string
	References     []string
	Gauge          *gauge.Layout
}

// scoreWord is the "<name> score" prefix of the headline per locale.
var scoreWord = map[models.Locale]string{
	models.English: "%s Score",
	models.Arabic:  "مجموع نقاط %s",
}

// Build scores resp and lays out its gauge.
func Build(inst *models.Instrument, l models.Locale, resp models.Response) (*Result, error) {
	s, err := inst.Strings(l)
	if err != nil {
		return nil, err
	}
	a, err := scoring.Assess(inst, resp)
	if err != nil {
		return nil, err
	}
	layout, err := Gauge(inst, l, a.Score)
	if err != nil {
		return nil, err
	}

	label := s.Category(a.Category.Key)
	return &Result{
		Instrument:     inst.ID,
		Locale:         l,
		Score:          a.Score,
		Category:       a.Category,
		CategoryLabel:  label,
		Headline:       fmt.Sprintf(scoreWord[l]+": %d — %s", strings.ToUpper(inst.ID), a.Score, label),
		Caption:        s.Caption,
		Interpretation: s.Interpret,
		RefsHeading:    s.RefsHeading,
		References:     inst.References,
		Gauge:          layout,
	}, nil
}

// Spec derives the gauge spec of an instrument in a locale.
func Spec(inst *models.Instrument, l models.Locale) (gauge.Spec, error) {
	s, err := inst.Strings(l)
	if err != nil {
		return gauge.Spec{}, err
	}
	bands := scale.Bands(inst.Scale)
	labels := make([]string, len(bands))
	for i, b := range bands {
		labels[i] = s.Category(b.Category.Key)
	}
	return gauge.Spec{
		Scale:     inst.Scale,
		Polarity:  inst.Polarity,
		Labels:    labels,
		Title:     s.AxisTitle,
		Direction: l.Direction(),
	}, nil
}

// Gauge lays out the gauge of an arbitrary score.
func Gauge(inst *models.Instrument, l models.Locale, score int) (*gauge.Layout, error) {
	spec, err := Spec(inst, l)
	if err != nil {
		return nil, err
	}
	layout, err := gauge.Build(score, spec)
	if err != nil {
		return nil, fmt.Errorf("%s gauge: %w", inst.ID, err)
	}
	return layout, nil
}

// UncoveredLocales lists the locales whose gauge text the font cannot draw.
func UncoveredLocales(inst *models.Instrument, fonts *gauge.Fonts) []models.Locale {
	var out []models.Locale
	for _, l := range inst.Locales() {
		layout, err := Gauge(inst, l, inst.Scale.Min)
		if err != nil || !fonts.Covers(layout) {
			out = append(out, l)
		}
	}
	return out
}

var pendingText = map[models.Locale]string{
	models.English: "Please answer all questions before scoring. Unanswered: %s.",
	models.Arabic:  "يرجى الإجابة على جميع الأسئلة قبل حساب النقاط. الأسئلة المتبقية: %s.",
}

// Pending describes which questions still need an answer, numbered the way
// they are shown to the user.
func Pending(inst *models.Instrument, l models.Locale, resp models.Response) string {
	missing := scoring.Missing(inst, resp)
	if len(missing) == 0 {
		return ""
	}
	nums := make([]string, 0, len(missing))
	for _, id := range missing {
		for i, q := range inst.Questions {
			if q.ID == id {
				nums = append(nums, fmt.Sprint(i+1))
			}
		}
	}
	sep := ", "
	if l == models.Arabic {
		sep = "، "
	}
	tmpl, ok := pendingText[l]
	if !ok {
		tmpl = pendingText[models.English]
	}
	return fmt.Sprintf(tmpl, strings.Join(nums, sep))
}

// Message renders an error for display, keeping IncompleteResponse
// actionable and everything else visible.
func Message(inst *models.Instrument, l models.Locale, resp models.Response, err error) string {
	if errors.Is(err, scoring.ErrIncompleteResponse) {
		return Pending(inst, l, resp)
	}
	return ErrorText(l, err)
}

var errorPrefix = map[models.Locale]string{
	models.English: "Error: ",
	models.Arabic:  "خطأ: ",
}

// ErrorText prefixes err with the locale's word for error.
func ErrorText(l models.Locale, err error) string {
	prefix, ok := errorPrefix[l]
	if !ok {
		prefix = errorPrefix[models.English]
	}
	return prefix + err.Error()
}
