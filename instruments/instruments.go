// Package instruments defines the ACT and AIRQ questionnaires with their
// English and Arabic label tables.
//
// The definitions are shared, read-only values. Choice order and points are
// fixed once per instrument; the label tables only translate them.
package instruments

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/korjavin/asthmabot/models"
)

// ErrUnknownInstrument is returned by Lookup for ids that are not defined.
var ErrUnknownInstrument = errors.New("unknown instrument")

var (
	act  = newACT()
	airq = newAIRQ()
	all  = []*models.Instrument{act, airq}
)

// ACT returns the 5-item Asthma Control Test (5–25, higher is better).
func ACT() *models.Instrument { return act }

// AIRQ returns the 10-item Asthma Impairment and Risk Questionnaire
// (0–10, lower is better).
func AIRQ() *models.Instrument { return airq }

// All returns every instrument in menu order.
func All() []*models.Instrument {
	out := make([]*models.Instrument, len(all))
	copy(out, all)
	return out
}

// Lookup finds an instrument by id.
func Lookup(id string) (*models.Instrument, error) {
	for _, inst := range all {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
}

// Validate checks every definition. Shells call it once at startup.
func Validate() error {
	for _, inst := range all {
		if err := inst.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func questionID(n int) models.QuestionID {
	return models.QuestionID("q" + strconv.Itoa(n))
}
