// Package app implements the application, following the dependency injection pattern.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"clipfetch/internal/config"
	"clipfetch/internal/platform/database"
	"clipfetch/internal/platform/download"
	"clipfetch/internal/platform/ratelimit"
	"clipfetch/pkg/workqueue"

	"github.com/Data-Corruption/lmdb-go/lmdb"
	"github.com/Data-Corruption/lmdb-go/wrap"
	"github.com/Data-Corruption/stdx/xlog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/urfave/cli/v3"
)

// Sender is the slice of the Telegram client the handlers need. The concrete
// client satisfies it; tests inject a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MediaService fetches metadata and produces media files from URLs.
type MediaService interface {
	Download(ctx context.Context, rawURL string, format download.Format, outDir string) (download.Result, error)
	FetchMetadata(ctx context.Context, rawURL string) *download.Metadata
}

type CleanupFunc func() error

/*
App represents the application, following the dependency injection pattern.

It provides:
  - build-time variables
  - injected services
  - lifecycle management
*/
type App struct {
	// build-time variables
	Name, Version string

	// injected services, etc.

	Cfg        *config.Config
	DB         *wrap.DB
	Log        *xlog.Logger
	StorageDir string // (e.g., ~/.appName)

	Client     *tgbotapi.BotAPI
	Bot        Sender
	Limiter    *ratelimit.Limiter
	Queue      *workqueue.Queue
	Downloader MediaService

	EventLimiter chan struct{}   // limit concurrent update processing
	WG           *sync.WaitGroup // wait group for in-flight update handlers

	// lifecycle management
	cleanup     []CleanupFunc
	cleanupOnce sync.Once
	// Inside commands, you can use <-a.Context.Done() to check for cancellation.
	Context context.Context
}

func (a *App) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// paths
	var err error
	if a.StorageDir, err = getStoragePath(a.Name); err != nil {
		return ctx, err
	}

	// config
	if a.Cfg, err = config.Load(); err != nil {
		return ctx, fmt.Errorf("failed to load configuration: %w", err)
	}

	// logger
	initLogLevel := a.Cfg.LogLevel
	if cmd.String("log") == "debug" || a.Cfg.Debug {
		initLogLevel = "debug"
	}
	a.Log, err = xlog.New(filepath.Join(a.StorageDir, "logs"), initLogLevel)
	if err != nil {
		return ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.AddCleanup(a.Log.Close)

	a.Log.Debugf("Starting %s, version: %s, storage path: %s", a.Name, a.Version, a.StorageDir)

	// database
	if a.DB, err = database.New(filepath.Join(a.StorageDir, "db"), a.Log); err != nil {
		return ctx, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.AddCleanup(func() error {
		a.DB.Close()
		return nil
	})
	a.Log.Debug("Database initialized")

	// stored settings may override the env log level
	settings, err := database.ViewSettings(a.DB)
	if err != nil && !lmdb.IsNotFound(err) {
		return ctx, fmt.Errorf("failed to view settings: %w", err)
	}
	if settings != nil && settings.LogLevel != "" && initLogLevel != "debug" {
		if err := a.Log.SetLevel(settings.LogLevel); err != nil {
			return ctx, fmt.Errorf("failed to set log level: %w", err)
		}
	}
	// put logger into context
	ctx = xlog.IntoContext(ctx, a.Log)

	// temp dir for downloads in flight
	if err := os.MkdirAll(a.Cfg.TempDir, 0o755); err != nil {
		return ctx, fmt.Errorf("failed to create temp dir: %w", err)
	}

	// limit concurrent update processing
	a.EventLimiter = make(chan struct{}, 100)
	a.WG = &sync.WaitGroup{}

	// services
	a.Limiter = ratelimit.New(ratelimit.DefaultWindow, ratelimit.DefaultQuota)
	a.Queue = workqueue.New(a.Log, a.Cfg.Workers)
	a.AddCleanup(func() error {
		a.Queue.Close()
		return nil
	})
	a.Downloader = download.New(download.Config{
		YtDlpPath:  a.Cfg.YtDlpPath,
		FFmpegPath: a.Cfg.FFmpegPath,
		MaxBytes:   download.MaxFileSize,
	})

	a.Context = ctx
	return ctx, nil
}

func (a *App) Close() {
	a.cleanupOnce.Do(func() {
		// call cleanup funcs in reverse order
		for i := len(a.cleanup) - 1; i >= 0; i-- {
			if err := a.cleanup[i](); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to clean up: %v\n", err)
			}
		}
	})
}

func (a *App) AddCleanup(f func() error) {
	a.cleanup = append(a.cleanup, f)
}

// getStoragePath calculates the storage path for the application (~/.appName).
func getStoragePath(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, "."+appName), nil
}
