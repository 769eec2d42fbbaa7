package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string
	ChannelID    string

	// Paths
	DataDir  string // calendar files: champions.txt, patch_dates.json, clash_dates.json, clash_info.json
	StateDir string // persisted state: sent_reminders.json, last_patch_url.txt

	// Scraping
	PatchListURL string

	// Time
	Timezone string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_BOT_TOKEN"),
		ChannelID:    os.Getenv("DISCORD_CHANNEL_ID"),
		DataDir:      getEnvOrDefault("DATA_DIR", "./data"),
		StateDir:     getEnvOrDefault("STATE_DIR", "./state"),
		PatchListURL: os.Getenv("PATCH_LIST_URL"),
		Timezone:     getEnvOrDefault("TIMEZONE", "America/Mexico_City"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
