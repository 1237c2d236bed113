package models

import (
	"errors"
	"fmt"

	"github.com/korjavin/asthmabot/scale"
)

// ErrLocaleMismatch is returned when an instrument is asked for, or declares,
// a locale whose label table is missing or incomplete.
var ErrLocaleMismatch = errors.New("locale mismatch")

// ErrInvalidInstrument is returned by Validate for malformed definitions.
var ErrInvalidInstrument = errors.New("invalid instrument")

// Locale identifies a label set
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Direction is the reading direction of a locale's script
type Direction int

const (
	LTR Direction = iota
	RTL
)

// Direction returns the reading direction for the locale.
func (l Locale) Direction() Direction {
	if l == Arabic {
		return RTL
	}
	return LTR
}

// Polarity says which end of an instrument's range is better controlled
type Polarity int

const (
	HigherIsBetter Polarity = iota
	LowerIsBetter
)

// QuestionID identifies a question independently of language
type QuestionID string

// ChoiceID identifies the meaning of an answer independently of language
type ChoiceID string

// Choice is one answer option and the points it carries.
type Choice struct {
	ID     ChoiceID
	Points int
}

// Question is an ordered list of choices. Section groups questions under a
// shared heading ("in the past 2 weeks") and may be empty.
type Question struct {
	ID      QuestionID
	Section string
	Choices []Choice
}

// ChoiceAt returns the i-th choice in semantic order.
func (q Question) ChoiceAt(i int) (Choice, bool) {
	if i < 0 || i >= len(q.Choices) {
		return Choice{}, false
	}
	return q.Choices[i], true
}

// IndexOf returns the semantic position of a choice, or -1.
func (q Question) IndexOf(id ChoiceID) int {
	for i, c := range q.Choices {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Choice looks a choice up by id.
func (q Question) Choice(id ChoiceID) (Choice, bool) {
	if i := q.IndexOf(id); i >= 0 {
		return q.Choices[i], true
	}
	return Choice{}, false
}

// PointRange returns the lowest and highest points any choice carries.
func (q Question) PointRange() (lo, hi int) {
	for i, c := range q.Choices {
		if i == 0 || c.Points < lo {
			lo = c.Points
		}
		if i == 0 || c.Points > hi {
			hi = c.Points
		}
	}
	return lo, hi
}

// Response holds the selected choice per question for one render cycle
type Response map[QuestionID]ChoiceID

// Instrument is a complete questionnaire definition. It is built once at
// startup and never mutated.
type Instrument struct {
	ID         string
	Questions  []Question
	Scale      scale.Scale
	Polarity   Polarity
	Text       map[Locale]*Strings
	References []string
}

// Question returns the question with the given id.
func (inst *Instrument) Question(id QuestionID) (Question, bool) {
	for _, q := range inst.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Locales lists the locales the instrument has label tables for, English first.
func (inst *Instrument) Locales() []Locale {
	var out []Locale
	for _, l := range []Locale{English, Arabic} {
		if _, ok := inst.Text[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Strings returns the label table for a locale.
func (inst *Instrument) Strings(l Locale) (*Strings, error) {
	s, ok := inst.Text[l]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: instrument %s has no %q labels", ErrLocaleMismatch, inst.ID, l)
	}
	return s, nil
}

// Validate checks the structural invariants of the definition and the
// completeness of every label table.
func (inst *Instrument) Validate() error {
	if len(inst.Questions) == 0 {
		return fmt.Errorf("%w: %s has no questions", ErrInvalidInstrument, inst.ID)
	}

	seen := make(map[QuestionID]bool, len(inst.Questions))
	minSum, maxSum := 0, 0
	for _, q := range inst.Questions {
		if seen[q.ID] {
			return fmt.Errorf("%w: %s repeats question %s", ErrInvalidInstrument, inst.ID, q.ID)
		}
		seen[q.ID] = true

		if err := validateChoices(q); err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrInvalidInstrument, inst.ID, q.ID, err)
		}
		lo, hi := q.PointRange()
		minSum += lo
		maxSum += hi
	}

	if inst.Scale.Min != minSum || inst.Scale.Max != maxSum {
		return fmt.Errorf("%w: %s declares range [%d, %d], questions give [%d, %d]",
			ErrInvalidInstrument, inst.ID, inst.Scale.Min, inst.Scale.Max, minSum, maxSum)
	}
	if err := inst.Scale.Validate(); err != nil {
		return fmt.Errorf("%s: %w", inst.ID, err)
	}

	if len(inst.Text) == 0 {
		return fmt.Errorf("%w: %s has no label tables", ErrLocaleMismatch, inst.ID)
	}
	for l, s := range inst.Text {
		if err := s.complete(inst); err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrLocaleMismatch, inst.ID, l, err)
		}
	}
	return nil
}

// validateChoices requires unique ids and points forming a contiguous run
// with no duplicates.
func validateChoices(q Question) error {
	if len(q.Choices) < 2 {
		return errors.New("fewer than two choices")
	}
	ids := make(map[ChoiceID]bool, len(q.Choices))
	points := make(map[int]bool, len(q.Choices))
	for _, c := range q.Choices {
		if ids[c.ID] {
			return fmt.Errorf("duplicate choice %s", c.ID)
		}
		if points[c.Points] {
			return fmt.Errorf("duplicate points %d", c.Points)
		}
		ids[c.ID] = true
		points[c.Points] = true
	}
	lo, hi := q.PointRange()
	if hi-lo+1 != len(q.Choices) {
		return fmt.Errorf("points %d..%d are not contiguous", lo, hi)
	}
	return nil
}
