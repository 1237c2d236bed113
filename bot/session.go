package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scoring"
)

const selectedMark = "✅ "

// session is one open questionnaire in a chat. It lives in memory only and
// is dropped on /start, /reset or restart.
type session struct {
	id      string
	inst    *models.Instrument
	locale  models.Locale
	strings *models.Strings
	answers models.Response

	sent     int         // questions sent so far
	messages map[int]int // question index to the message carrying its keyboard
	shown    bool        // result has been sent at least once
}

func newSession(id string, inst *models.Instrument, l models.Locale, strs *models.Strings) *session {
	return &session{
		id:       id,
		inst:     inst,
		locale:   l,
		strings:  strs,
		answers:  make(models.Response, len(inst.Questions)),
		messages: make(map[int]int, len(inst.Questions)),
	}
}

// answer records choice ci for question qi and returns the choice label.
func (s *session) answer(qi, ci int) (string, error) {
	if qi < 0 || qi >= len(s.inst.Questions) {
		return "", fmt.Errorf("%w: question #%d", scoring.ErrUnknownChoice, qi)
	}
	q := s.inst.Questions[qi]
	c, ok := q.ChoiceAt(ci)
	if !ok {
		return "", fmt.Errorf("%w: %s choice #%d", scoring.ErrUnknownChoice, q.ID, ci)
	}
	s.answers[q.ID] = c.ID
	return s.strings.ChoiceLabel(q.ID, c.ID), nil
}

func (s *session) complete() bool {
	return len(scoring.Missing(s.inst, s.answers)) == 0
}

// keyboard lays out the choices of question qi, marking the selected one.
// Two-choice questions share a row.
func (s *session) keyboard(qi int) tgbotapi.InlineKeyboardMarkup {
	q := s.inst.Questions[qi]
	selected, hasSelection := s.answers[q.ID]

	var buttons []tgbotapi.InlineKeyboardButton
	for ci, c := range q.Choices {
		label := s.strings.ChoiceLabel(q.ID, c.ID)
		if hasSelection && selected == c.ID {
			label = selectedMark + label
		}
		data := fmt.Sprintf("%s%s:%d:%d", answerPrefix, s.id, qi, ci)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}

	if len(buttons) == 2 {
		return tgbotapi.NewInlineKeyboardMarkup(buttons)
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, len(buttons))
	for i, btn := range buttons {
		rows[i] = []tgbotapi.InlineKeyboardButton{btn}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
