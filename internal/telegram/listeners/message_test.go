package listeners

import (
	"context"
	"strings"
	"sync"
	"testing"

	"clipfetch/internal/app"
	"clipfetch/internal/config"
	"clipfetch/internal/platform/download"
	"clipfetch/internal/platform/ratelimit"
	"clipfetch/internal/telegram/response"
	"clipfetch/pkg/workqueue"

	"github.com/Data-Corruption/stdx/xlog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) all() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

type fakeDownloader struct {
	md *download.Metadata
}

func (f *fakeDownloader) Download(_ context.Context, _ string, _ download.Format, _ string) (download.Result, error) {
	return download.Result{}, nil
}

func (f *fakeDownloader) FetchMetadata(_ context.Context, _ string) *download.Metadata {
	return f.md
}

func newTestApp(t *testing.T, md *download.Metadata) (*app.App, *fakeBot) {
	t.Helper()
	log, err := xlog.New(t.TempDir(), "none")
	if err != nil {
		t.Fatalf("xlog.New: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })

	bot := &fakeBot{}
	queue := workqueue.New(log, 2)
	t.Cleanup(queue.Close)

	a := &app.App{
		Name:         "clipfetch",
		Cfg:          &config.Config{TempDir: t.TempDir(), Workers: 2},
		Log:          log,
		Bot:          bot,
		Limiter:      ratelimit.New(ratelimit.DefaultWindow, ratelimit.DefaultQuota),
		Queue:        queue,
		Downloader:   &fakeDownloader{md: md},
		EventLimiter: make(chan struct{}, 100),
		WG:           &sync.WaitGroup{},
		Context:      xlog.IntoContext(context.Background(), log),
	}
	return a, bot
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 7},
		Chat:      &tgbotapi.Chat{ID: 99},
		Text:      text,
	}
}

func TestUnsupportedTextGetsGuidanceWithoutUsingQuota(t *testing.T) {
	a, bot := newTestApp(t, nil)

	OnMessage(a, textMessage("hello there"))
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	msg, ok := sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("send is %T, want MessageConfig", sent[0])
	}
	if msg.Text != response.Guidance() {
		t.Errorf("got %q, want the guidance view", msg.Text)
	}
	if a.Limiter.Tracked() != 0 {
		t.Error("guidance replies must not consume a rate limit slot")
	}
}

func TestSupportedLinkOffersFormatButtons(t *testing.T) {
	a, bot := newTestApp(t, &download.Metadata{
		Title:     "A Clip",
		Duration:  93,
		Uploader:  "someone",
		ViewCount: 1200,
	})

	OnMessage(a, textMessage("https://youtu.be/abc"))
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (analyzing, details)", len(sent))
	}

	edit, ok := sent[1].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("second send is %T, want EditMessageTextConfig", sent[1])
	}
	if !strings.Contains(edit.Text, "Video found") {
		t.Errorf("details text = %q, want the video-found view", edit.Text)
	}
	if !strings.Contains(edit.Text, "1m 33s") {
		t.Errorf("details text should contain the formatted duration, got %q", edit.Text)
	}
	if !strings.Contains(edit.Text, "1,200") {
		t.Errorf("details text should contain the grouped view count, got %q", edit.Text)
	}

	if edit.ReplyMarkup == nil {
		t.Fatal("details message should carry the format keyboard")
	}
	rows := edit.ReplyMarkup.InlineKeyboard
	if len(rows) != 3 {
		t.Fatalf("keyboard has %d rows, want 3", len(rows))
	}
	if data := rows[0][0].CallbackData; data == nil || *data != "video|https://youtu.be/abc" {
		t.Errorf("video button payload = %v, want the full URL", data)
	}
	if data := rows[1][0].CallbackData; data == nil || *data != "audio|https://youtu.be/abc" {
		t.Errorf("audio button payload = %v, want the full URL", data)
	}
}

func TestMetadataFailureDegradesGracefully(t *testing.T) {
	a, bot := newTestApp(t, nil)

	OnMessage(a, textMessage("https://youtu.be/abc"))
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	edit, ok := sent[1].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("second send is %T, want EditMessageTextConfig", sent[1])
	}
	if edit.Text != response.DegradedDetails() {
		t.Errorf("got %q, want the degraded-details view", edit.Text)
	}
	if edit.ReplyMarkup == nil || len(edit.ReplyMarkup.InlineKeyboard) != 3 {
		t.Error("degraded path should still offer the format keyboard")
	}
}

func TestRateLimitedLinkReportsWaitTime(t *testing.T) {
	a, bot := newTestApp(t, nil)
	for i := 0; i < ratelimit.DefaultQuota; i++ {
		a.Limiter.CheckAndRecord(7)
	}

	OnMessage(a, textMessage("https://youtu.be/abc"))
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	msg := sent[0].(tgbotapi.MessageConfig)
	if !strings.Contains(msg.Text, "Download limit reached") {
		t.Errorf("got %q, want the rate-limited view", msg.Text)
	}
	if !strings.Contains(msg.Text, "0h 59m") {
		t.Errorf("got %q, want a computed wait time", msg.Text)
	}
}

func TestCallbackRouting(t *testing.T) {
	a, bot := newTestApp(t, nil)

	cq := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Data:    "cancel",
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: 99}},
	}
	OnCallback(a, cq)
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	edit, ok := sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("send is %T, want EditMessageTextConfig", sent[0])
	}
	if edit.Text != response.Cancelled() {
		t.Errorf("got %q, want the cancellation view", edit.Text)
	}
}

func TestUnknownCallbackReportsDataError(t *testing.T) {
	a, bot := newTestApp(t, nil)

	cq := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Data:    "bogus|x",
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: 99}},
	}
	OnCallback(a, cq)
	a.WG.Wait()

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if got := sent[0].(tgbotapi.EditMessageTextConfig).Text; got != response.DataError() {
		t.Errorf("got %q, want the data error view", got)
	}
}
