package feed

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

// Execer is the subset of database/sql needed to append a change row, so the
// append can ride inside the caller's transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Append records a change in the outbox and returns its sequence number. It
// must be called inside the same transaction as the data write it describes:
// the row becomes visible to the watchers only when that transaction commits,
// which is what gives the feed its commit-then-notify ordering. The returned
// seq lets the caller publish the same token post-commit so observers can
// deduplicate against the watcher's replay.
func Append(tx Execer, collection string, op realtime.Operation, recordID string, document any) (int64, error) {
	var doc []byte
	if document != nil {
		var err error
		doc, err = json.Marshal(document)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal change document: %w", err)
		}
	}

	res, err := tx.Exec(
		"INSERT INTO changes (collection, op, record_id, document, created_at) VALUES (?, ?, ?, ?, ?)",
		collection, string(op), recordID, nullableString(doc), time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append change row: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read change seq: %w", err)
	}
	return seq, nil
}

func nullableString(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
