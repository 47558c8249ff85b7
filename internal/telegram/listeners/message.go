// Package listeners bridges the update loop to the command and component
// registries. Each inbound event claims a semaphore slot and runs in its own
// goroutine so a slow download never blocks other users.
package listeners

import (
	"strings"

	"clipfetch/internal/app"
	"clipfetch/internal/platform/download"
	"clipfetch/internal/telegram/commands"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func OnMessage(a *app.App, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	a.WG.Add(1) // track for graceful shutdown

	// acquire semaphore
	select {
	case a.EventLimiter <- struct{}{}:
	default:
		a.WG.Done()
		a.Log.Warn("Event limiter reached, dropping message")
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.Busy())
		if _, err := a.Bot.Send(reply); err != nil {
			a.Log.Errorf("Error sending busy notice: %v", err)
		}
		return
	}

	go func() {
		defer a.WG.Done()
		defer func() { <-a.EventLimiter }()

		if msg.IsCommand() {
			name := msg.Command()
			a.Log.Infof("Command received: /%s", name)
			command, ok := commands.Get(name)
			if !ok {
				a.Log.Warnf("Unknown command: /%s", name)
				return
			}
			if err := command.Handler(a, msg); err != nil {
				a.Log.Errorf("Error handling command /%s: %v", name, err)
			}
			return
		}

		if err := handleLink(a, msg); err != nil {
			a.Log.Errorf("Error handling message from user %d: %v", msg.From.ID, err)
		}
	}()
}

// handleLink is the Idle-state text path: validate, rate-limit, fetch
// details, offer format buttons.
func handleLink(a *app.App, msg *tgbotapi.Message) error {
	url := strings.TrimSpace(msg.Text)

	if !download.IsSupported(url) {
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.Guidance())
		reply.ParseMode = response.ParseMode
		_, err := a.Bot.Send(reply)
		return err
	}

	res := a.Limiter.CheckAndRecord(msg.From.ID)
	if !res.Admitted {
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.RateLimited(int(res.Wait.Seconds())))
		reply.ParseMode = response.ParseMode
		_, err := a.Bot.Send(reply)
		return err
	}

	probe := tgbotapi.NewMessage(msg.Chat.ID, response.Analyzing())
	probe.ParseMode = response.ParseMode
	sent, err := a.Bot.Send(probe)
	if err != nil {
		return err
	}

	md := a.Downloader.FetchMetadata(a.Context, url)

	var text string
	if md != nil {
		text = response.VideoFound(
			download.SanitizeFilename(md.Title),
			md.Uploader,
			response.FormatDuration(md.Duration),
			response.FormatViews(md.ViewCount),
		)
	} else {
		text = response.DegradedDetails()
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(msg.Chat.ID, sent.MessageID, text, response.FormatChoices(url))
	edit.ParseMode = response.ParseMode
	_, err = a.Bot.Send(edit)
	return err
}
