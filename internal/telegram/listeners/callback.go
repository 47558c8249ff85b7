package listeners

import (
	"strings"

	"clipfetch/internal/app"
	"clipfetch/internal/telegram/components"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func OnCallback(a *app.App, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.Message == nil {
		return
	}

	a.WG.Add(1) // track for graceful shutdown

	// acquire semaphore
	select {
	case a.EventLimiter <- struct{}{}:
	default:
		a.WG.Done()
		a.Log.Warn("Event limiter reached, dropping callback")
		if _, err := a.Bot.Request(tgbotapi.NewCallback(cq.ID, response.Busy())); err != nil {
			a.Log.Errorf("Error answering callback: %v", err)
		}
		return
	}

	go func() {
		defer a.WG.Done()
		defer func() { <-a.EventLimiter }()

		// stop the client-side spinner
		if _, err := a.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			a.Log.Warnf("Error answering callback: %v", err)
		}

		// payload is "action" or "action|rest"
		parts := strings.SplitN(cq.Data, "|", 2)
		if len(parts) < 1 || parts[0] == "" {
			a.Log.Warnf("Callback with empty payload from user %d", cq.From.ID)
			reportDataError(a, cq)
			return
		}
		payload := ""
		if len(parts) == 2 {
			payload = parts[1]
		}

		component, found := components.Get(parts[0])
		if !found {
			a.Log.Warnf("Unknown callback action: %s", parts[0])
			reportDataError(a, cq)
			return
		}

		if err := component.Handler(a, cq, payload); err != nil {
			a.Log.Errorf("Error handling callback %q: %v", cq.Data, err)
		}
	}()
}

func reportDataError(a *app.App, cq *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, response.DataError())
	edit.ParseMode = response.ParseMode
	if _, err := a.Bot.Send(edit); err != nil {
		a.Log.Errorf("Error reporting data error: %v", err)
	}
}
