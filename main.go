package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clipfetch/internal/app"
	"clipfetch/internal/app/commands"

	"github.com/urfave/cli/v3"
)

// version is set at build time via -ldflags "-X main.version=vX.X.X"
var version = "vX.X.X"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app.App{Name: "clipfetch", Version: version}
	defer a.Close()

	cmd := &cli.Command{
		Name:    a.Name,
		Usage:   "Telegram bot that turns video links into MP4/MP3 files",
		Version: a.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "override the log level for this run (e.g. debug)",
			},
		},
		Before:   a.Init,
		Commands: commands.All(a),
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.Close()
		os.Exit(1)
	}
}
