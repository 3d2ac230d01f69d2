package notifier

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Sent when a user's roster reaches the full 11 players.
	SendTeamComplete(username string, totalPoints float64) error
	// Sent when a change feed watcher keeps failing to reconnect.
	SendFeedDisrupted(collection string, attempts int) error
}
