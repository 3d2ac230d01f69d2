package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	SampleDataCSV string
	DefaultBudget int64
	Turso         TursoConfig
	Slack         SlackConfig
	Relay         RelayConfig
	Feed          FeedConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// RelayConfig configures the optional Pub/Sub mirror of change notifications.
// An empty ProjectID disables the relay.
type RelayConfig struct {
	ProjectID string
	Topic     string
}

type FeedConfig struct {
	PollIntervalMS int
	BackoffBaseMS  int
	BackoffMaxMS   int
}
