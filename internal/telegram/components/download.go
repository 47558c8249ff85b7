package components

import (
	"fmt"
	"sync"
	"time"

	"clipfetch/internal/app"
	"clipfetch/internal/platform/database"
	"clipfetch/internal/platform/download"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Video = register(BotComponent{
	ID: "video",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, url string) error {
		return runDownload(a, cq, download.FormatVideo, url)
	},
})

var Audio = register(BotComponent{
	ID: "audio",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, url string) error {
		return runDownload(a, cq, download.FormatAudio, url)
	},
})

// runDownload drives one format-chosen request end to end: status edit,
// queued fetch, delivery or classified error, temp file cleanup.
func runDownload(a *app.App, cq *tgbotapi.CallbackQuery, format download.Format, url string) error {
	if url == "" {
		return sendDataError(a, cq)
	}
	chatID := cq.Message.Chat.ID

	edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, response.Downloading(format))
	edit.ParseMode = response.ParseMode
	if _, err := a.Bot.Send(edit); err != nil {
		a.Log.Warnf("Failed to edit status message: %v", err)
	}

	// one in-flight job per (format, url, chat); the id doubles as the dedup key
	jobID := fmt.Sprintf("%s|%s|%d", format, url, chatID)

	var result download.Result
	var dlErr error
	wg := &sync.WaitGroup{}
	wg.Add(1)
	if !a.Queue.Enqueue(jobID, func() error {
		defer wg.Done()
		result, dlErr = a.Downloader.Download(a.Context, url, format, a.Cfg.TempDir)
		return dlErr
	}) {
		wg.Done()
		msg := tgbotapi.NewMessage(chatID, response.InProgress())
		msg.ParseMode = response.ParseMode
		_, err := a.Bot.Send(msg)
		return err
	}
	wg.Wait()

	if dlErr != nil {
		a.Log.Errorf("Download failed for %s (user %d): %v", url, cq.From.ID, dlErr)
		c := download.Classify(dlErr.Error())
		msg := tgbotapi.NewMessage(chatID, response.ErrorView(c))
		msg.ParseMode = response.ParseMode
		msg.ReplyMarkup = response.RetryMarkup(string(format), url)
		_, err := a.Bot.Send(msg)
		return err
	}
	defer download.Remove(a.Context, result.Path)

	caption := response.Caption(result.Title, result.Duration, result.Size, format)
	var media tgbotapi.Chattable
	if format == download.FormatVideo {
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(result.Path))
		video.Caption = caption
		video.ParseMode = response.ParseMode
		video.SupportsStreaming = true
		media = video
	} else {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(result.Path))
		audio.Caption = caption
		audio.ParseMode = response.ParseMode
		media = audio
	}
	if _, err := a.Bot.Send(media); err != nil {
		return fmt.Errorf("failed to send media: %w", err)
	}

	if _, err := database.UpsertUserStats(a.DB, cq.From.ID, func(stats *database.UserStats) error {
		stats.Downloads++
		stats.Bytes += result.Size
		stats.LastFormat = string(format)
		stats.LastAt = time.Now()
		return nil
	}); err != nil {
		a.Log.Errorf("Failed to update stats for user %d: %v", cq.From.ID, err)
	}

	done := tgbotapi.NewMessage(chatID, response.Delivered())
	done.ParseMode = response.ParseMode
	done.ReplyMarkup = response.AnotherMarkup()
	_, err := a.Bot.Send(done)
	return err
}

func sendDataError(a *app.App, cq *tgbotapi.CallbackQuery) error {
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, response.DataError())
	edit.ParseMode = response.ParseMode
	_, err := a.Bot.Send(edit)
	return err
}
