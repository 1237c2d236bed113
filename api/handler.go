package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/instruments"
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/report"
	"github.com/korjavin/asthmabot/scale"
	"github.com/korjavin/asthmabot/scoring"
)

// Handler holds the route handlers
type Handler struct {
	fonts    *gauge.Fonts
	validate *validator.Validate
}

func NewHandler(fonts *gauge.Fonts) *Handler {
	return &Handler{fonts: fonts, validate: validator.New()}
}

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Missing []models.QuestionID `json:"missing,omitempty"`
}

type InstrumentSummary struct {
	ID        string          `json:"id"`
	Locales   []models.Locale `json:"locales"`
	Questions int             `json:"questions"`
	Min       int             `json:"min"`
	Max       int             `json:"max"`
	Higher    bool            `json:"higher_is_better"`
}

type ChoiceView struct {
	ID     models.ChoiceID `json:"id"`
	Label  string          `json:"label"`
	Points int             `json:"points"`
}

type QuestionView struct {
	ID      models.QuestionID `json:"id"`
	Section string            `json:"section,omitempty"`
	Prompt  string            `json:"prompt"`
	Choices []ChoiceView      `json:"choices"`
}

type InstrumentView struct {
	ID          string         `json:"id"`
	Locale      models.Locale  `json:"locale"`
	Direction   string         `json:"direction"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Intro       string         `json:"intro"`
	Questions   []QuestionView `json:"questions"`
	RefsHeading string         `json:"references_heading"`
	References  []string       `json:"references"`
}

type ScoreRequest struct {
	Locale  models.Locale                        `json:"locale" validate:"required"`
	Answers map[models.QuestionID]models.ChoiceID `json:"answers" validate:"required"`
}

type ScoreResponse struct {
	Instrument     string        `json:"instrument"`
	Locale         models.Locale `json:"locale"`
	Score          int           `json:"score"`
	Category       string        `json:"category"`
	CategoryLabel  string        `json:"category_label"`
	Headline       string        `json:"headline"`
	Caption        string        `json:"caption"`
	Interpretation string        `json:"interpretation"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	var out []InstrumentSummary
	for _, inst := range instruments.All() {
		out = append(out, InstrumentSummary{
			ID:        inst.ID,
			Locales:   inst.Locales(),
			Questions: len(inst.Questions),
			Min:       inst.Scale.Min,
			Max:       inst.Scale.Max,
			Higher:    inst.Polarity == models.HigherIsBetter,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inst, err := instruments.Lookup(vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	locale := models.Locale(vars["locale"])
	s, err := inst.Strings(locale)
	if err != nil {
		writeError(w, err)
		return
	}

	view := InstrumentView{
		ID:          inst.ID,
		Locale:      locale,
		Direction:   "ltr",
		Name:        s.Name,
		Title:       s.Title,
		Intro:       s.Intro,
		RefsHeading: s.RefsHeading,
		References:  inst.References,
	}
	if locale.Direction() == models.RTL {
		view.Direction = "rtl"
	}
	for i, q := range inst.Questions {
		qv := QuestionView{
			ID:      q.ID,
			Section: s.Sections[q.Section],
			Prompt:  s.Prompt(i+1, q.ID),
		}
		for _, c := range q.Choices {
			qv.Choices = append(qv.Choices, ChoiceView{ID: c.ID, Label: s.ChoiceLabel(q.ID, c.ID), Points: c.Points})
		}
		view.Questions = append(view.Questions, qv)
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	inst, err := instruments.Lookup(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	res, err := report.Build(inst, req.Locale, models.Response(req.Answers))
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Scored %s/%s: %d (%s)", inst.ID, req.Locale, res.Score, res.Category.Key)

	writeJSON(w, http.StatusOK, ScoreResponse{
		Instrument:     res.Instrument,
		Locale:         res.Locale,
		Score:          res.Score,
		Category:       res.Category.Key,
		CategoryLabel:  res.CategoryLabel,
		Headline:       res.Headline,
		Caption:        res.Caption,
		Interpretation: res.Interpretation,
	})
}

func (h *Handler) Gauge(w http.ResponseWriter, r *http.Request) {
	inst, err := instruments.Lookup(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	score, err := strconv.Atoi(query.Get("score"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "score must be an integer"})
		return
	}
	locale := models.English
	if l := query.Get("locale"); l != "" {
		locale = models.Locale(l)
	}
	format := gauge.FormatSVG
	if f := query.Get("format"); f != "" {
		if format, err = gauge.ParseFormat(f); err != nil {
			writeError(w, err)
			return
		}
	}

	layout, err := report.Gauge(inst, locale, score)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := gauge.Encode(&buf, layout, format, h.fonts); err != nil {
		log.Printf("Error rendering gauge: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "render_failed", Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// writeError maps domain errors to status codes
func writeError(w http.ResponseWriter, err error) {
	var incomplete *scoring.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "incomplete_response",
			Message: err.Error(),
			Missing: incomplete.Missing,
		})
	case errors.Is(err, instruments.ErrUnknownInstrument):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "unknown_instrument", Message: err.Error()})
	case errors.Is(err, models.ErrLocaleMismatch):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "locale_mismatch", Message: err.Error()})
	case errors.Is(err, scoring.ErrUnknownChoice):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown_choice", Message: err.Error()})
	case errors.Is(err, scale.ErrOutOfRange):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "out_of_range", Message: err.Error()})
	case errors.Is(err, gauge.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown_format", Message: err.Error()})
	default:
		log.Printf("Unhandled error: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
