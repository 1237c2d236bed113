// Package scale classifies bounded integer scores into ordered severity bands.
package scale

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a score falls outside a scale's bounds.
var ErrOutOfRange = errors.New("score out of range")

// ErrInvalidScale is returned by Validate for thresholds that do not
// partition the range.
var ErrInvalidScale = errors.New("invalid scale")

// Control orders categories from worst to best controlled
type Control int

const (
	ControlPoor Control = iota
	ControlPartial
	ControlWell
)

// Category is one severity band of an instrument.
// Key is locale-independent; display text lives in the label tables.
type Category struct {
	Key     string
	Control Control
}

// Threshold closes a band: every score <= UpTo not claimed by an earlier
// threshold belongs to Category.
type Threshold struct {
	UpTo     int
	Category Category
}

// Scale is a closed integer range split into bands by ascending thresholds.
// Scores above the last threshold belong to Final.
type Scale struct {
	Min        int
	Max        int
	Thresholds []Threshold
	Final      Category
}

// Band is a contiguous inclusive run of scores sharing a category
type Band struct {
	Lo       int
	Hi       int
	Category Category
}

// Mid returns the centre of the band on the score axis.
func (b Band) Mid() float64 {
	return float64(b.Lo+b.Hi) / 2
}

// Contains reports whether score lies within the scale bounds.
func (s Scale) Contains(score int) bool {
	return score >= s.Min && score <= s.Max
}

// Validate checks that the thresholds partition [Min, Max] into non-empty,
// ordered bands.
func (s Scale) Validate() error {
	if s.Min > s.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidScale, s.Min, s.Max)
	}
	lo := s.Min
	for i, t := range s.Thresholds {
		if t.UpTo < lo {
			return fmt.Errorf("%w: threshold %d (%d) leaves an empty band", ErrInvalidScale, i, t.UpTo)
		}
		if t.UpTo >= s.Max {
			return fmt.Errorf("%w: threshold %d (%d) leaves no room for the final band", ErrInvalidScale, i, t.UpTo)
		}
		if t.Category.Key == "" {
			return fmt.Errorf("%w: threshold %d has no category", ErrInvalidScale, i)
		}
		lo = t.UpTo + 1
	}
	if s.Final.Key == "" {
		return fmt.Errorf("%w: final band has no category", ErrInvalidScale)
	}
	return nil
}

// Classify maps a score to its category.
func Classify(score int, s Scale) (Category, error) {
	if !s.Contains(score) {
		return Category{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, score, s.Min, s.Max)
	}
	for _, t := range s.Thresholds {
		if score <= t.UpTo {
			return t.Category, nil
		}
	}
	return s.Final, nil
}

// Bands expands the thresholds into inclusive bands in score order.
func Bands(s Scale) []Band {
	bands := make([]Band, 0, len(s.Thresholds)+1)
	lo := s.Min
	for _, t := range s.Thresholds {
		bands = append(bands, Band{Lo: lo, Hi: t.UpTo, Category: t.Category})
		lo = t.UpTo + 1
	}
	return append(bands, Band{Lo: lo, Hi: s.Max, Category: s.Final})
}

// Boundaries returns the axis positions separating adjacent bands,
// halfway between the last score of one band and the first of the next.
func Boundaries(s Scale) []float64 {
	edges := make([]float64, len(s.Thresholds))
	for i, t := range s.Thresholds {
		edges[i] = float64(t.UpTo) + 0.5
	}
	return edges
}
