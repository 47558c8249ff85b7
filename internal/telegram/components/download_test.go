package components

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"clipfetch/internal/app"
	"clipfetch/internal/config"
	"clipfetch/internal/platform/database"
	"clipfetch/internal/platform/download"
	"clipfetch/internal/platform/ratelimit"
	"clipfetch/internal/telegram/response"
	"clipfetch/pkg/workqueue"

	"github.com/Data-Corruption/stdx/xlog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeBot records everything the handlers send.
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

// fakeDownloader returns a canned result or error without touching yt-dlp.
type fakeDownloader struct {
	result download.Result
	err    error
	md     *download.Metadata
}

func (f *fakeDownloader) Download(_ context.Context, _ string, _ download.Format, _ string) (download.Result, error) {
	return f.result, f.err
}

func (f *fakeDownloader) FetchMetadata(_ context.Context, _ string) *download.Metadata {
	return f.md
}

func newTestApp(t *testing.T) (*app.App, *fakeBot) {
	t.Helper()
	log, err := xlog.New(t.TempDir(), "none")
	if err != nil {
		t.Fatalf("xlog.New: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })

	db, err := database.New(t.TempDir(), log)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bot := &fakeBot{}
	queue := workqueue.New(log, 2)
	t.Cleanup(queue.Close)

	a := &app.App{
		Name:         "clipfetch",
		Cfg:          &config.Config{TempDir: t.TempDir(), Workers: 2},
		DB:           db,
		Log:          log,
		Bot:          bot,
		Limiter:      ratelimit.New(ratelimit.DefaultWindow, ratelimit.DefaultQuota),
		Queue:        queue,
		EventLimiter: make(chan struct{}, 100),
		WG:           &sync.WaitGroup{},
		Context:      xlog.IntoContext(context.Background(), log),
	}
	return a, bot
}

func textOf(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.Text
	case tgbotapi.EditMessageTextConfig:
		return v.Text
	case tgbotapi.VideoConfig:
		return v.Caption
	case tgbotapi.AudioConfig:
		return v.Caption
	default:
		t.Fatalf("unexpected chattable type %T", c)
		return ""
	}
}

func testCallback(data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 99}},
	}
}

func TestVideoDeliveryFlow(t *testing.T) {
	a, bot := newTestApp(t)

	path := filepath.Join(t.TempDir(), "A_Clip.mp4")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Downloader = &fakeDownloader{result: download.Result{
		Path:     path,
		Title:    "A_Clip",
		Duration: 93,
		Size:     2048,
	}}

	cq := testCallback("video|https://youtu.be/abc")
	if err := Video.Handler(a, cq, "https://youtu.be/abc"); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if len(sent) != 3 {
		t.Fatalf("sent %d messages, want 3 (status edit, media, delivered)", len(sent))
	}

	if got := textOf(t, sent[0]); !strings.Contains(got, "Downloading video") {
		t.Errorf("first send should be the status edit, got %q", got)
	}

	video, ok := sent[1].(tgbotapi.VideoConfig)
	if !ok {
		t.Fatalf("second send is %T, want VideoConfig", sent[1])
	}
	if !video.SupportsStreaming {
		t.Error("video should support streaming")
	}
	if !strings.Contains(video.Caption, "1m 33s") {
		t.Errorf("caption should contain the formatted duration, got %q", video.Caption)
	}
	if !strings.Contains(video.Caption, "2.0 KB") {
		t.Errorf("caption should contain the formatted size, got %q", video.Caption)
	}
	if video.File != tgbotapi.FilePath(path) {
		t.Errorf("video file = %v, want %v", video.File, path)
	}

	if got := textOf(t, sent[2]); !strings.Contains(got, "Download complete") {
		t.Errorf("last send should confirm delivery, got %q", got)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be deleted after delivery")
	}

	stats, err := database.ViewUserStats(a.DB, 7)
	if err != nil {
		t.Fatalf("ViewUserStats: %v", err)
	}
	if stats.Downloads != 1 || stats.Bytes != 2048 || stats.LastFormat != "video" {
		t.Errorf("unexpected stats after delivery: %+v", stats)
	}
}

func TestAudioDeliveryUsesAudioMessage(t *testing.T) {
	a, bot := newTestApp(t)

	path := filepath.Join(t.TempDir(), "A_Clip.mp3")
	if err := os.WriteFile(path, make([]byte, 512), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Downloader = &fakeDownloader{result: download.Result{Path: path, Title: "A_Clip", Duration: 10, Size: 512}}

	if err := Audio.Handler(a, testCallback("audio|https://youtu.be/abc"), "https://youtu.be/abc"); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if len(sent) != 3 {
		t.Fatalf("sent %d messages, want 3", len(sent))
	}
	audio, ok := sent[1].(tgbotapi.AudioConfig)
	if !ok {
		t.Fatalf("second send is %T, want AudioConfig", sent[1])
	}
	if !strings.Contains(audio.Caption, "MP3 (192kbps)") {
		t.Errorf("caption should name the audio format, got %q", audio.Caption)
	}
}

func TestOversizedFileRendersSizeError(t *testing.T) {
	a, bot := newTestApp(t)
	a.Downloader = &fakeDownloader{err: errors.New("file too large: 60.0MB exceeds the 49MB limit")}

	if err := Video.Handler(a, testCallback("video|https://youtu.be/abc"), "https://youtu.be/abc"); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (status edit, error)", len(sent))
	}

	msg, ok := sent[1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("second send is %T, want MessageConfig", sent[1])
	}
	if !strings.Contains(msg.Text, "File too large") {
		t.Errorf("error text = %q, should name the size condition", msg.Text)
	}

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup is %T, want InlineKeyboardMarkup", msg.ReplyMarkup)
	}
	retry := markup.InlineKeyboard[0][0]
	if retry.CallbackData == nil || *retry.CallbackData != "video|https://youtu.be/abc" {
		t.Errorf("retry button should carry the original payload, got %v", retry.CallbackData)
	}
}

func TestRestrictedErrorRendersRestrictedView(t *testing.T) {
	a, bot := newTestApp(t)
	a.Downloader = &fakeDownloader{err: errors.New("yt-dlp failed: ERROR: Private video. Sign in")}

	if err := Video.Handler(a, testCallback("video|https://youtu.be/abc"), "https://youtu.be/abc"); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if got := textOf(t, sent[len(sent)-1]); !strings.Contains(got, "Private or restricted") {
		t.Errorf("error text = %q, want the restricted-content view", got)
	}
}

func TestEmptyPayloadReportsDataError(t *testing.T) {
	a, bot := newTestApp(t)
	a.Downloader = &fakeDownloader{}

	if err := Video.Handler(a, testCallback("video|"), ""); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if got := textOf(t, sent[0]); got != response.DataError() {
		t.Errorf("got %q, want the data error view", got)
	}
}

func TestCancelEditsInPlace(t *testing.T) {
	a, bot := newTestApp(t)

	if err := Cancel.Handler(a, testCallback("cancel"), ""); err != nil {
		t.Fatalf("handler: %v", err)
	}

	sent := bot.all()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	edit, ok := sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("send is %T, want EditMessageTextConfig", sent[0])
	}
	if !strings.Contains(edit.Text, "cancelled") {
		t.Errorf("edit text = %q, want the cancellation view", edit.Text)
	}
}
