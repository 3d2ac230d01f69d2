package realtime

import "encoding/json"

// Topic names correspond one-to-one with watched collections.
const (
	TopicPlayers = "players"
	TopicUsers   = "users"
)

// Operation is the kind of change a notification describes.
type Operation string

const (
	OpInsert  Operation = "insert"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpReplace Operation = "replace"
)

// Notification is a normalized change event fanned out to observers. Seq is
// the monotonically increasing source sequence token; observers that saw the
// same seq via another path can ignore the duplicate.
type Notification struct {
	Topic    string          `json:"topic" msgpack:"topic"`
	Op       Operation       `json:"operation" msgpack:"operation"`
	RecordID string          `json:"record_id" msgpack:"record_id"`
	Document json.RawMessage `json:"document,omitempty" msgpack:"document,omitempty"`
	Seq      int64           `json:"seq" msgpack:"seq"`
}

// Observer is a connected remote subscriber. Send must not block on slow
// consumers; implementations enqueue to a per-observer outbound queue and
// report failure when the consumer cannot keep up.
type Observer interface {
	ID() string
	Send(n Notification) error
}
