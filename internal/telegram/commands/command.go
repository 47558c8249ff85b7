package commands

import (
	"clipfetch/internal/app"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command struct for creating slash commands. See start.go for an example.
type BotCommand struct {
	Name        string
	Description string
	// Handler runs inside the dispatch goroutine the listener already started;
	// it must not spawn work that outlives it without adding to a.WG.
	Handler func(a *app.App, msg *tgbotapi.Message) error
}

var Registry []BotCommand

func Get(name string) (BotCommand, bool) {
	for _, cmd := range Registry {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return BotCommand{}, false
}

func register(cmd BotCommand) BotCommand {
	Registry = append(Registry, cmd)
	return cmd
}

// Definitions returns the command list for Telegram's command menu.
func Definitions() []tgbotapi.BotCommand {
	defs := make([]tgbotapi.BotCommand, 0, len(Registry))
	for _, cmd := range Registry {
		defs = append(defs, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	return defs
}
