package components

import (
	"clipfetch/internal/app"
	"clipfetch/internal/telegram/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// The static info views. They re-render the message in place and carry no
// business logic.

var StartView = register(BotComponent{
	ID: "start",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, _ string) error {
		return editView(a, cq, response.Welcome(), response.WelcomeMarkup())
	},
})

var AboutView = register(BotComponent{
	ID: "about",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, _ string) error {
		return editView(a, cq, response.About(), response.BackToStartMarkup())
	},
})

var TermsView = register(BotComponent{
	ID: "terms",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, _ string) error {
		return editView(a, cq, response.Terms(), response.BackToStartMarkup())
	},
})

var HelpStartView = register(BotComponent{
	ID: "help_start",
	Handler: func(a *app.App, cq *tgbotapi.CallbackQuery, _ string) error {
		return editView(a, cq, response.QuickStart(), response.BackToStartMarkup())
	},
})

func editView(a *app.App, cq *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, markup)
	edit.ParseMode = response.ParseMode
	_, err := a.Bot.Send(edit)
	return err
}
