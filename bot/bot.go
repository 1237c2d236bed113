package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/asthmabot/config"
	"github.com/korjavin/asthmabot/database"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/instruments"
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/report"
	"github.com/oklog/ulid/v2"
)

// sender is the part of tgbotapi.BotAPI the bot talks through
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot represents the Telegram bot
type Bot struct {
	client   *tgbotapi.BotAPI
	api      sender
	cache    database.GaugeCache
	fonts    *gauge.Fonts
	sessions map[int64]*session // Maps chat IDs to their open questionnaire
	newID    func() string
}

const (
	cmdStart = "start"
	cmdScore = "score"
	cmdReset = "reset"
	cmdHelp  = "help"

	toolPrefix   = "tool:"
	answerPrefix = "ans:"
)

// New creates a new bot instance
func New(cfg *config.Config, cache database.GaugeCache, fonts *gauge.Fonts) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = cfg.Debug

	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	b := newBot(botAPI, cache, fonts)
	b.client = botAPI
	return b, nil
}

func newBot(api sender, cache database.GaugeCache, fonts *gauge.Fonts) *Bot {
	return &Bot{
		api:      api,
		cache:    cache,
		fonts:    fonts,
		sessions: make(map[int64]*session),
		newID:    func() string { return ulid.Make().String() },
	}
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) {
	log.Println("Starting bot polling...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			log.Println("Bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	} else if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage processes incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	log.Printf("Received message in chat %d: %s", chatID, message.Text)

	switch {
	case strings.HasPrefix(message.Text, "/"+cmdStart):
		b.handleStartCommand(chatID)
	case strings.HasPrefix(message.Text, "/"+cmdScore):
		b.handleScoreCommand(ctx, chatID)
	case strings.HasPrefix(message.Text, "/"+cmdReset):
		delete(b.sessions, chatID)
		b.sendText(chatID, resetText)
	case strings.HasPrefix(message.Text, "/"+cmdHelp):
		b.sendText(chatID, helpText)
	default:
		b.sendText(chatID, unknownText)
	}
}

// handleStartCommand greets the user and offers the four questionnaires
func (b *Bot) handleStartCommand(chatID int64) {
	delete(b.sessions, chatID)

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, inst := range instruments.All() {
		var row []tgbotapi.InlineKeyboardButton
		for _, l := range inst.Locales() {
			s, err := inst.Strings(l)
			if err != nil {
				continue
			}
			data := toolPrefix + inst.ID + ":" + string(l)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(s.Name, data))
		}
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending welcome message: %v", err)
	}
}

// handleScoreCommand shows the result now, or what is still unanswered
func (b *Bot) handleScoreCommand(ctx context.Context, chatID int64) {
	s, ok := b.sessions[chatID]
	if !ok {
		b.sendText(chatID, noSessionText)
		return
	}
	b.sendResult(ctx, chatID, s)
}

// handleCallback processes callback queries from inline buttons
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		log.Printf("Callback %s has no message", callback.ID)
		return
	}
	chatID := callback.Message.Chat.ID
	log.Printf("Handling callback in chat %d with data: %s", chatID, callback.Data)

	switch {
	case strings.HasPrefix(callback.Data, toolPrefix):
		b.sendCallbackResponse(callback.ID, "")
		b.handleTool(chatID, strings.TrimPrefix(callback.Data, toolPrefix))
	case strings.HasPrefix(callback.Data, answerPrefix):
		b.handleAnswer(ctx, chatID, callback)
	default:
		log.Printf("Invalid callback prefix: %s", callback.Data)
		b.sendCallbackResponse(callback.ID, "")
	}
}

// handleTool opens a questionnaire session for "<instrument>:<locale>"
func (b *Bot) handleTool(chatID int64, data string) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		log.Printf("Invalid tool callback: %s", data)
		return
	}

	locale := models.Locale(parts[1])
	inst, err := instruments.Lookup(parts[0])
	if err != nil {
		b.sendText(chatID, report.ErrorText(locale, err))
		return
	}
	strs, err := inst.Strings(locale)
	if err != nil {
		b.sendText(chatID, report.ErrorText(locale, err))
		return
	}

	s := newSession(b.newID(), inst, locale, strs)
	b.sessions[chatID] = s
	log.Printf("Opened session %s (%s/%s) in chat %d", s.id, inst.ID, locale, chatID)

	b.sendHTML(chatID, "<b>"+html.EscapeString(strs.Title)+"</b>\n\n"+html.EscapeString(strs.Intro))
	b.sendQuestion(chatID, s, 0)
}

// handleAnswer records a tapped choice "ans:<session>:<question>:<choice>"
func (b *Bot) handleAnswer(ctx context.Context, chatID int64, callback *tgbotapi.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(callback.Data, answerPrefix), ":")
	if len(parts) != 3 {
		log.Printf("Invalid answer callback: %s", callback.Data)
		b.sendCallbackResponse(callback.ID, "")
		return
	}
	qi, err1 := strconv.Atoi(parts[1])
	ci, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		log.Printf("Invalid answer indices in callback: %s", callback.Data)
		b.sendCallbackResponse(callback.ID, "")
		return
	}

	s, ok := b.sessions[chatID]
	if !ok || s.id != parts[0] {
		b.sendCallbackResponse(callback.ID, "")
		b.sendText(chatID, expiredText)
		return
	}

	label, err := s.answer(qi, ci)
	if err != nil {
		log.Printf("Rejected answer in session %s: %v", s.id, err)
		b.sendCallbackResponse(callback.ID, "")
		b.sendText(chatID, report.ErrorText(s.locale, err))
		return
	}
	b.sendCallbackResponse(callback.ID, label)

	if msgID, ok := s.messages[qi]; ok {
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, s.keyboard(qi))
		if _, err := b.api.Request(edit); err != nil {
			log.Printf("Error marking answer: %v", err)
		}
	}

	if qi == s.sent-1 && s.sent < len(s.inst.Questions) {
		b.sendQuestion(chatID, s, s.sent)
		return
	}
	if s.complete() {
		b.sendResult(ctx, chatID, s)
	}
}

// sendQuestion sends question i with its choices as an inline keyboard,
// preceded by its section heading when the section changes
func (b *Bot) sendQuestion(chatID int64, s *session, i int) {
	q := s.inst.Questions[i]
	if q.Section != "" && (i == 0 || s.inst.Questions[i-1].Section != q.Section) {
		b.sendHTML(chatID, "<b>"+html.EscapeString(s.strings.Sections[q.Section])+"</b>")
	}

	msg := tgbotapi.NewMessage(chatID, s.strings.Prompt(i+1, q.ID))
	msg.ReplyMarkup = s.keyboard(i)
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending question %s: %v", q.ID, err)
		return
	}
	s.messages[i] = sent.MessageID
	if i+1 > s.sent {
		s.sent = i + 1
	}
}

// sendText sends a plain text message
func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendHTML sends a message with HTML formatting, falling back to plain text
func (b *Bot) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
		log.Printf("HTML rendering failed, falling back to plain text")
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			log.Printf("Plain text fallback also failed: %v", err)
		}
	}
}

// sendCallbackResponse sends a response to a callback query
func (b *Bot) sendCallbackResponse(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error sending callback response: %v", err)
	}
}
