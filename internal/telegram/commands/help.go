package commands

import (
	"clipfetch/internal/app"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Help = register(BotCommand{
	Name:        "help",
	Description: "📚 Usage guide",
	Handler: func(a *app.App, msg *tgbotapi.Message) error {
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.QuickStart())
		reply.ParseMode = response.ParseMode
		_, err := a.Bot.Send(reply)
		return err
	},
})
