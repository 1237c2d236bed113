// Package scoring sums questionnaire responses and classifies the total.
package scoring

import (
	"errors"
	"fmt"

	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
)

var (
	// ErrIncompleteResponse means at least one question has no selection.
	ErrIncompleteResponse = errors.New("incomplete response")
	// ErrUnknownChoice means a selection names a question or choice the
	// instrument does not define.
	ErrUnknownChoice = errors.New("unknown choice")
)

// IncompleteError lists the questions still waiting for an answer.
type IncompleteError struct {
	Instrument string
	Missing    []models.QuestionID
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s: %d unanswered %v", ErrIncompleteResponse, e.Instrument, len(e.Missing), e.Missing)
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteResponse }

// Assessment is a score and the category it falls in
type Assessment struct {
	Score    int
	Category scale.Category
}

// Missing returns the unanswered questions in instrument order.
func Missing(inst *models.Instrument, resp models.Response) []models.QuestionID {
	var missing []models.QuestionID
	for _, q := range inst.Questions {
		if _, ok := resp[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Score sums the points of the selected choices. Every question must be
// answered; partial responses are never scored.
func Score(inst *models.Instrument, resp models.Response) (int, error) {
	for id := range resp {
		if _, ok := inst.Question(id); !ok {
			return 0, fmt.Errorf("%w: %s has no question %s", ErrUnknownChoice, inst.ID, id)
		}
	}
	if missing := Missing(inst, resp); len(missing) > 0 {
		return 0, &IncompleteError{Instrument: inst.ID, Missing: missing}
	}

	total := 0
	for _, q := range inst.Questions {
		c, ok := q.Choice(resp[q.ID])
		if !ok {
			return 0, fmt.Errorf("%w: %s/%s has no choice %q", ErrUnknownChoice, inst.ID, q.ID, resp[q.ID])
		}
		total += c.Points
	}

	if !inst.Scale.Contains(total) {
		return 0, fmt.Errorf("%s: %w: %d not in [%d, %d]", inst.ID, scale.ErrOutOfRange, total, inst.Scale.Min, inst.Scale.Max)
	}
	return total, nil
}

// Assess scores a response and classifies the total.
func Assess(inst *models.Instrument, resp models.Response) (Assessment, error) {
	score, err := Score(inst, resp)
	if err != nil {
		return Assessment{}, err
	}
	cat, err := scale.Classify(score, inst.Scale)
	if err != nil {
		return Assessment{}, fmt.Errorf("%s: %w", inst.ID, err)
	}
	return Assessment{Score: score, Category: cat}, nil
}

// Select builds a response from per-question choice positions, in
// semantic order. It is how index-based shells turn taps into a response.
func Select(inst *models.Instrument, positions []int) (models.Response, error) {
	resp := make(models.Response, len(positions))
	for i, p := range positions {
		if i >= len(inst.Questions) {
			return nil, fmt.Errorf("%w: %s has %d questions", ErrUnknownChoice, inst.ID, len(inst.Questions))
		}
		q := inst.Questions[i]
		c, ok := q.ChoiceAt(p)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s has no choice #%d", ErrUnknownChoice, inst.ID, q.ID, p)
		}
		resp[q.ID] = c.ID
	}
	return resp, nil
}
