package commands

import (
	"clipfetch/internal/app"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var About = register(BotCommand{
	Name:        "about",
	Description: "ℹ️ About this bot",
	Handler: func(a *app.App, msg *tgbotapi.Message) error {
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.About())
		reply.ParseMode = response.ParseMode
		_, err := a.Bot.Send(reply)
		return err
	},
})
