package models

import "fmt"

// Strings is the display text of one instrument in one locale.
// Scoring never reads it.
type Strings struct {
	Name        string
	Title       string
	Intro       string
	Caption     string
	Interpret   string
	AxisTitle   string
	RefsHeading string

	Sections   map[string]string
	Prompts    map[QuestionID]string
	Choices    map[QuestionID]map[ChoiceID]string
	Categories map[string]string
}

// Prompt returns the question text numbered by its position.
func (s *Strings) Prompt(n int, id QuestionID) string {
	return fmt.Sprintf("%d) %s", n, s.Prompts[id])
}

// ChoiceLabel returns the label for a choice of a question.
func (s *Strings) ChoiceLabel(q QuestionID, c ChoiceID) string {
	return s.Choices[q][c]
}

// Category returns the label for a category key.
func (s *Strings) Category(key string) string {
	return s.Categories[key]
}

// complete reports the first label the table is missing for inst.
func (s *Strings) complete(inst *Instrument) error {
	if s == nil {
		return fmt.Errorf("nil label table")
	}
	if s.Name == "" || s.AxisTitle == "" {
		return fmt.Errorf("missing name or axis title")
	}
	for _, q := range inst.Questions {
		if s.Prompts[q.ID] == "" {
			return fmt.Errorf("missing prompt for %s", q.ID)
		}
		if q.Section != "" && s.Sections[q.Section] == "" {
			return fmt.Errorf("missing section heading %q", q.Section)
		}
		for _, c := range q.Choices {
			if s.Choices[q.ID][c.ID] == "" {
				return fmt.Errorf("missing label for %s/%s", q.ID, c.ID)
			}
		}
	}
	for _, b := range bandKeys(inst) {
		if s.Categories[b] == "" {
			return fmt.Errorf("missing category label %q", b)
		}
	}
	return nil
}

func bandKeys(inst *Instrument) []string {
	keys := make([]string, 0, len(inst.Scale.Thresholds)+1)
	for _, t := range inst.Scale.Thresholds {
		keys = append(keys, t.Category.Key)
	}
	return append(keys, inst.Scale.Final.Key)
}
