package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/asthmabot/database"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/models"
)

const testChat int64 = 42

// fakeAPI records everything the bot sends
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	msg := tgbotapi.Message{MessageID: f.nextID}
	if _, ok := c.(tgbotapi.PhotoConfig); ok {
		msg.Photo = []tgbotapi.PhotoSize{{FileID: "thumb"}, {FileID: fmt.Sprintf("photo-%d", f.nextID)}}
	}
	return msg, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) photos() []tgbotapi.PhotoConfig {
	var out []tgbotapi.PhotoConfig
	for _, c := range f.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (f *fakeAPI) anyText(sub string) bool {
	for _, t := range f.texts() {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

// memCache is an in-memory GaugeCache
type memCache map[string]string

func (m memCache) GetGaugeFileID(_ context.Context, key string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return "", database.ErrCacheMiss
}

func (m memCache) PutGaugeFileID(_ context.Context, key, id string) error {
	m[key] = id
	return nil
}

func (m memCache) Close() error { return nil }

func newTestBot(t *testing.T) (*Bot, *fakeAPI, memCache) {
	t.Helper()
	fonts, err := gauge.LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	api := &fakeAPI{}
	cache := memCache{}
	b := newBot(api, cache, fonts)
	n := 0
	b.newID = func() string {
		n++
		return fmt.Sprintf("S%d", n)
	}
	return b, api, cache
}

func command(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: testChat},
		From: &tgbotapi.User{ID: testChat},
	}}
}

func tap(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		From:    &tgbotapi.User{ID: testChat},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: testChat}},
	}}
}

func answerAll(b *Bot, session string, positions []int) {
	for qi, ci := range positions {
		b.handleUpdate(context.Background(), tap(fmt.Sprintf("ans:%s:%d:%d", session, qi, ci)))
	}
}

// --- /start ---

func TestStart_OffersFourTools(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), command("/start"))

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("first send is %T, want MessageConfig", api.sent[0])
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup is %T", msg.ReplyMarkup)
	}
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, *btn.CallbackData)
		}
	}
	want := []string{"tool:act:en", "tool:act:ar", "tool:airq:en", "tool:airq:ar"}
	if strings.Join(data, ",") != strings.Join(want, ",") {
		t.Errorf("tool buttons = %v, want %v", data, want)
	}
}

// --- questionnaire flow ---

func TestFlow_ACTAllBest(t *testing.T) {
	b, api, cache := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, command("/start"))
	b.handleUpdate(ctx, tap("tool:act:en"))

	s := b.sessions[testChat]
	if s == nil || s.inst.ID != "act" || s.locale != models.English {
		t.Fatalf("session = %+v", s)
	}
	if s.sent != 1 {
		t.Errorf("sent = %d after opening, want 1", s.sent)
	}

	answerAll(b, "S1", []int{4, 4, 4, 4, 4})

	if !api.anyText("ACT Score: 25 — Well controlled") {
		t.Errorf("result headline missing; texts: %q", api.texts())
	}
	photos := api.photos()
	if len(photos) != 1 {
		t.Fatalf("sent %d photos, want 1", len(photos))
	}
	if _, ok := photos[0].File.(tgbotapi.FileBytes); !ok {
		t.Errorf("first gauge sent as %T, want FileBytes", photos[0].File)
	}
	key := database.GaugeKey("act", models.English, 25)
	if cache[key] == "" {
		t.Errorf("gauge file id not cached under %s", key)
	}
	if !api.anyText("References (ACT)") {
		t.Error("references not sent")
	}
}

func TestFlow_CachedGaugeReused(t *testing.T) {
	b, api, cache := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tap("tool:act:en"))
	answerAll(b, "S1", []int{4, 4, 4, 4, 4})
	b.handleUpdate(ctx, tap("tool:act:en"))
	answerAll(b, "S2", []int{4, 4, 4, 4, 4})

	photos := api.photos()
	if len(photos) != 2 {
		t.Fatalf("sent %d photos, want 2", len(photos))
	}
	id, ok := photos[1].File.(tgbotapi.FileID)
	if !ok {
		t.Fatalf("second gauge sent as %T, want FileID", photos[1].File)
	}
	if string(id) != cache[database.GaugeKey("act", models.English, 25)] {
		t.Errorf("reused file id %q does not match cache", id)
	}
}

func TestFlow_ChangingAnswerRecomputes(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:act:en"))
	answerAll(b, "S1", []int{2, 3, 2, 3, 3})

	if !api.anyText("ACT Score: 18 — Partially controlled") {
		t.Fatalf("expected score 18; texts: %q", api.texts())
	}

	b.handleUpdate(ctx, tap("ans:S1:0:4"))
	b.handleUpdate(ctx, tap("ans:S1:1:4"))
	if !api.anyText("ACT Score: 21 — Well controlled") {
		t.Errorf("expected recomputed score 21; texts: %q", api.texts())
	}

	refs := 0
	for _, text := range api.texts() {
		if strings.Contains(text, "References (ACT)") {
			refs++
		}
	}
	if refs != 1 {
		t.Errorf("references sent %d times, want 1", refs)
	}
}

func TestFlow_MarksSelectedChoice(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:airq:en"))
	b.handleUpdate(ctx, tap("ans:S1:0:1"))

	var edit *tgbotapi.EditMessageReplyMarkupConfig
	for _, r := range api.requests {
		if e, ok := r.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			edit = &e
		}
	}
	if edit == nil {
		t.Fatal("no keyboard edit requested")
	}
	row := edit.ReplyMarkup.InlineKeyboard[0]
	if len(row) != 2 || row[1].Text != "✅ Yes" || row[0].Text != "No" {
		t.Errorf("edited keyboard = %q / %q", row[0].Text, row[1].Text)
	}
}

func TestFlow_AIRQArabicSections(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:airq:ar"))
	answerAll(b, "S1", []int{1, 1, 1, 1, 1, 1, 0, 0, 0, 0})

	if !api.anyText("مجموع نقاط AIRQ: 6 — سيطرة ضعيفة جدًا") {
		t.Errorf("arabic result missing; texts: %q", api.texts())
	}
	sections := 0
	for _, text := range api.texts() {
		if strings.HasPrefix(text, "<b>في") {
			sections++
		}
	}
	if sections != 3 {
		t.Errorf("sent %d section headings, want 3", sections)
	}
}

// --- errors ---

func TestScore_IncompleteIsVisible(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:act:en"))
	answerAll(b, "S1", []int{0, 0})
	b.handleUpdate(ctx, command("/score"))

	if got := api.lastText(); !strings.Contains(got, "Unanswered: 3, 4, 5") {
		t.Errorf("last message = %q", got)
	}
	if len(api.photos()) != 0 {
		t.Error("no gauge should be sent for an incomplete response")
	}
}

func TestScore_NoSession(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), command("/score"))
	if api.lastText() != noSessionText {
		t.Errorf("last message = %q", api.lastText())
	}
}

func TestAnswer_StaleSession(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:act:en"))
	b.handleUpdate(ctx, tap("tool:act:en"))
	b.handleUpdate(ctx, tap("ans:S1:0:0"))

	if api.lastText() != expiredText {
		t.Errorf("last message = %q, want expired notice", api.lastText())
	}
	if len(b.sessions[testChat].answers) != 0 {
		t.Error("stale tap changed the open session")
	}
}

func TestAnswer_OutOfRangeChoice(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:airq:en"))
	b.handleUpdate(ctx, tap("ans:S1:0:7"))

	if !strings.HasPrefix(api.lastText(), "Error:") {
		t.Errorf("last message = %q, want error", api.lastText())
	}
}

func TestAnswer_ArabicErrorPrefix(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:act:ar"))
	b.handleUpdate(ctx, tap("ans:S1:0:9"))

	if !strings.HasPrefix(api.lastText(), "خطأ: ") {
		t.Errorf("last message = %q, want arabic error", api.lastText())
	}
}

func TestTool_UnknownLocale(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), tap("tool:act:fr"))
	if !strings.Contains(api.lastText(), "locale mismatch") {
		t.Errorf("last message = %q", api.lastText())
	}
	if _, ok := b.sessions[testChat]; ok {
		t.Error("session opened for an unknown locale")
	}
}

func TestReset_DropsSession(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, tap("tool:act:en"))
	b.handleUpdate(ctx, command("/reset"))
	if _, ok := b.sessions[testChat]; ok {
		t.Error("session survived /reset")
	}
	if api.lastText() != resetText {
		t.Errorf("last message = %q", api.lastText())
	}
}

func TestUnknownCommand(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), command("hello"))
	if api.lastText() != unknownText {
		t.Errorf("last message = %q", api.lastText())
	}
}
