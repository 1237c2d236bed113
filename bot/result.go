package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/asthmabot/database"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/report"
)

// sendResult recomputes the session's result from scratch and sends it:
// headline, explanation, gauge and, the first time, the references
func (b *Bot) sendResult(ctx context.Context, chatID int64, s *session) {
	res, err := report.Build(s.inst, s.locale, s.answers)
	if err != nil {
		log.Printf("Session %s not scored: %v", s.id, err)
		b.sendText(chatID, report.Message(s.inst, s.locale, s.answers, err))
		return
	}
	log.Printf("Session %s scored %d (%s)", s.id, res.Score, res.Category.Key)

	text := fmt.Sprintf("<b>%s</b>\n%s\n%s",
		html.EscapeString(res.Headline),
		html.EscapeString(res.Caption),
		html.EscapeString(res.Interpretation))
	b.sendHTML(chatID, text)

	b.sendGauge(ctx, chatID, res)

	if !s.shown {
		b.sendHTML(chatID, formatReferences(res))
		s.shown = true
	}
}

// sendGauge sends the gauge photo, by cached file id when this exact gauge
// was uploaded before
func (b *Bot) sendGauge(ctx context.Context, chatID int64, res *report.Result) {
	key := database.GaugeKey(res.Instrument, res.Locale, res.Score)

	fileID, err := b.cache.GetGaugeFileID(ctx, key)
	switch {
	case err == nil:
		log.Printf("Gauge cache hit for %s", key)
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
		photo.Caption = res.Headline
		if _, err := b.api.Send(photo); err == nil {
			return
		}
		log.Printf("Cached gauge %s could not be sent, uploading again: %v", key, err)
	case errors.Is(err, database.ErrCacheMiss):
		log.Printf("Gauge cache miss for %s", key)
	default:
		log.Printf("Error reading gauge cache: %v", err)
	}

	var buf bytes.Buffer
	if err := gauge.Encode(&buf, res.Gauge, gauge.FormatPNG, b.fonts); err != nil {
		log.Printf("Error rendering gauge: %v", err)
		b.sendText(chatID, report.ErrorText(res.Locale, err))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "gauge.png", Bytes: buf.Bytes()})
	photo.Caption = res.Headline
	sent, err := b.api.Send(photo)
	if err != nil {
		log.Printf("Error sending gauge: %v", err)
		return
	}

	if n := len(sent.Photo); n > 0 {
		if err := b.cache.PutGaugeFileID(ctx, key, sent.Photo[n-1].FileID); err != nil {
			log.Printf("Error caching gauge file id: %v", err)
		}
	}
}

func formatReferences(res *report.Result) string {
	var sb strings.Builder
	sb.WriteString("<b>" + html.EscapeString(res.RefsHeading) + "</b>\n")
	for i, ref := range res.References {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, html.EscapeString(ref))
	}
	return strings.TrimRight(sb.String(), "\n")
}
