package commands

import (
	"clipfetch/internal/app"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Start = register(BotCommand{
	Name:        "start",
	Description: "✨ Start the bot and see instructions",
	Handler: func(a *app.App, msg *tgbotapi.Message) error {
		reply := tgbotapi.NewMessage(msg.Chat.ID, response.Welcome())
		reply.ParseMode = response.ParseMode
		reply.ReplyMarkup = response.WelcomeMarkup()
		_, err := a.Bot.Send(reply)
		return err
	},
})
