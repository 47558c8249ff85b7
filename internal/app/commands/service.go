package commands

import (
	"context"
	"errors"
	"fmt"

	"clipfetch/internal/app"
	tgcommands "clipfetch/internal/telegram/commands"
	"clipfetch/internal/telegram/listeners"

	"github.com/Data-Corruption/stdx/xnet"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/urfave/cli/v3"
)

var Service = register(func(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "service management commands",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if a.Name == "" || a.StorageDir == "" {
				return fmt.Errorf("app name or storage path not found")
			}
			serviceName := a.Name + ".service"
			envFilePath := fmt.Sprintf("%s/%s.env", a.StorageDir, a.Name)

			// print service management commands
			fmt.Printf("🖧 Service Cheat Sheet\n\n")
			fmt.Printf("    Status:  systemctl --user status %s\n", serviceName)
			fmt.Printf("    Enable:  systemctl --user enable %s\n", serviceName)
			fmt.Printf("    Disable: systemctl --user disable %s\n\n", serviceName)
			fmt.Printf("    Start:   systemctl --user start %s\n", serviceName)
			fmt.Printf("    Stop:    systemctl --user stop %s\n", serviceName)
			fmt.Printf("    Restart: systemctl --user restart %s\n\n", serviceName)
			fmt.Printf("    Reset:   systemctl --user reset-failed %s\n\n", serviceName)
			fmt.Printf("    Env:     edit %s then restart the service\n\n", envFilePath)
			fmt.Printf("    Logs:    journalctl --user -u %s -n 200 --no-pager\n", serviceName)

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:        "run",
				Description: "Runs the bot in the foreground. Typically called by systemd. If you need to run it manually/unmanaged, use this command.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runBot(ctx, a)
				},
			},
		},
	}
})

func runBot(ctx context.Context, a *app.App) error {
	if a.Cfg.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set; refusing to start")
	}

	// wait for network (systemd user mode Wants/After is unreliable)
	if err := xnet.Wait(ctx, 0); err != nil {
		return fmt.Errorf("failed to wait for network: %w", err)
	}

	client, err := tgbotapi.NewBotAPI(a.Cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot client: %w", err)
	}
	client.Debug = a.Cfg.Debug
	a.Client = client
	a.Bot = client
	a.Log.Infof("Authorized as @%s", client.Self.UserName)

	// publish the slash command menu
	if _, err := a.Bot.Request(tgbotapi.NewSetMyCommands(tgcommands.Definitions()...)); err != nil {
		a.Log.Warnf("Failed to set command menu: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := client.GetUpdatesChan(u)

	fmt.Printf("%s is running. Press Ctrl+C to stop.\n", a.Name)
	for {
		select {
		case <-ctx.Done():
			a.Log.Info("Shutting down, waiting for in-flight work")
			client.StopReceivingUpdates()
			a.WG.Wait()
			return nil
		case update := <-updates:
			switch {
			case update.CallbackQuery != nil:
				listeners.OnCallback(a, update.CallbackQuery)
			case update.Message != nil:
				listeners.OnMessage(a, update.Message)
			}
		}
	}
}
