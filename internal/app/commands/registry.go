package commands

import (
	"clipfetch/internal/app"

	"github.com/urfave/cli/v3"
)

type factory func(a *app.App) *cli.Command

var factories []factory

func register(f factory) factory {
	factories = append(factories, f)
	return f
}

// All builds the CLI command tree for the given app. Factories may return nil
// to opt out.
func All(a *app.App) []*cli.Command {
	var cmds []*cli.Command
	for _, f := range factories {
		if cmd := f(a); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
