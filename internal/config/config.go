// Package config loads the environment-sourced startup configuration.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the bot needs at startup. Values come from the
// environment (optionally seeded from a .env file) and are injected into the
// app container; nothing reads the environment after Load returns.
type Config struct {
	Token      string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TempDir    string `envconfig:"TEMP_DIR" default:"temp_downloads"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	YtDlpPath  string `envconfig:"YT_DLP_PATH" default:"yt-dlp"`
	FFmpegPath string `envconfig:"FFMPEG_PATH"`
	Workers    int    `envconfig:"WORKERS" default:"3"`
	Debug      bool   `envconfig:"DEBUG"`
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; explicit environment variables always win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
