package components

import (
	"clipfetch/internal/app"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Component struct for button callbacks. See cancel.go for an example.
type BotComponent struct {
	ID string // action token, the part of the payload before '|'
	// Handler receives the payload remainder (empty for plain actions).
	Handler func(a *app.App, cq *tgbotapi.CallbackQuery, payload string) error
}

var Registry []BotComponent

func Get(id string) (BotComponent, bool) {
	for _, component := range Registry {
		if component.ID == id {
			return component, true
		}
	}
	return BotComponent{}, false
}

func register(component BotComponent) BotComponent {
	Registry = append(Registry, component)
	return component
}
