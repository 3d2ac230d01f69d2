package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q", key, raw)
		}
		return v
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		SampleDataCSV: getEnvOr("SAMPLE_DATA_CSV", "sample_data.csv"),
		DefaultBudget: int64(getEnvInt("DEFAULT_BUDGET", 9000000)),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		Relay: RelayConfig{
			ProjectID: getEnvOr("GCP_PROJECT", ""),
			Topic:     getEnvOr("RELAY_TOPIC", "change-notifications"),
		},
		Feed: FeedConfig{
			PollIntervalMS: getEnvInt("FEED_POLL_INTERVAL_MS", 250),
			BackoffBaseMS:  getEnvInt("FEED_BACKOFF_BASE_MS", 500),
			BackoffMaxMS:   getEnvInt("FEED_BACKOFF_MAX_MS", 30000),
		},
	}
	return cfg
}
