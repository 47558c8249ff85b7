package commands

import (
	"clipfetch/internal/app"
	"clipfetch/internal/platform/database"
	"clipfetch/internal/telegram/response"

	"github.com/Data-Corruption/lmdb-go/lmdb"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Stats = register(BotCommand{
	Name:        "stats",
	Description: "📊 Your download totals",
	Handler: func(a *app.App, msg *tgbotapi.Message) error {
		var stats database.UserStats
		s, err := database.ViewUserStats(a.DB, msg.From.ID)
		if err != nil && !lmdb.IsNotFound(err) {
			return err
		}
		if s != nil {
			stats = *s
		}

		totalDownloads, _, err := database.Totals(a.DB)
		if err != nil {
			return err
		}

		reply := tgbotapi.NewMessage(msg.Chat.ID, response.StatsView(stats.Downloads, stats.Bytes, stats.LastFormat, totalDownloads))
		reply.ParseMode = response.ParseMode
		_, err = a.Bot.Send(reply)
		return err
	},
})
