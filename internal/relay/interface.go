package relay

// Client mirrors change notifications to an external broker so consumers
// outside the process (analytics, other regions) can follow the same feed.
type Client interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
