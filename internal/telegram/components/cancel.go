package components

import (
	"clipfetch/internal/app"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Cancel = register(BotComponent{
	ID: "cancel",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, _ string) error {
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, response.Cancelled())
		edit.ParseMode = response.ParseMode
		_, err := a.Bot.Send(edit)
		return err
	},
})
