package roster

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/feed"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/notifier"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

const (
	maxRetries   = 3
	retryBackoff = 50 * time.Millisecond
)

// NewLedger creates the roster ledger. publish and notif may be nil when the
// realtime or alerting sides are not wired (tests, seeding).
func NewLedger(db *sql.DB, catalogStore catalog.Store, publish PublishFunc, notif notifier.Notifier, metricsSvc metrics.Metrics) Ledger {
	return &ledger{
		db:      db,
		catalog: catalogStore,
		publish: publish,
		notif:   notif,
		metrics: metricsSvc,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockFor serializes mutations per account. Cross-account operations stay
// concurrent.
func (l *ledger) lockFor(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountID] = m
	}
	return m
}

func (l *ledger) CreateUser(username string, budget int64) (*Account, error) {
	account := &Account{
		ID:       uuid.NewString(),
		Username: username,
		Budget:   budget,
		Team:     []Entry{},
	}

	tx, err := l.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO users (id, username, password_hash, budget, team_json, total_points, version) VALUES (?, ?, '', ?, '[]', 0, 0)",
		account.ID, account.Username, account.Budget,
	)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := feed.Append(tx, realtime.TopicUsers, realtime.OpInsert, account.ID, account); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user creation: %w", err)
	}
	return account, nil
}

func (l *ledger) GetAccount(id string) (*Account, error) {
	return l.getAccount("id", id)
}

func (l *ledger) GetAccountByUsername(username string) (*Account, error) {
	return l.getAccount("username", username)
}

func (l *ledger) getAccount(column, key string) (*Account, error) {
	row := l.db.QueryRow(
		"SELECT id, username, budget, team_json, total_points, version FROM users WHERE "+column+" = ?",
		key,
	)
	return scanAccount(row)
}

// AddPlayer acquires a player for the account: the entry's value and points
// are frozen from the catalog record at this moment, and the budget is
// debited atomically with the roster change.
func (l *ledger) AddPlayer(accountID, playerID string) (*Account, error) {
	return l.mutate(accountID, func(account *Account) error {
		player, err := l.catalog.GetPlayer(playerID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		for _, e := range account.Team {
			if e.PlayerID == playerID {
				return ErrDuplicatePlayer
			}
		}
		if len(account.Team) >= TeamSize {
			return ErrTeamFull
		}
		value := player.Value
		if account.Budget < value {
			return ErrInsufficientBudget
		}

		account.Budget -= value
		account.Team = append(account.Team, Entry{
			PlayerID: player.ID,
			Value:    value,
			Points:   player.Points,
		})
		return nil
	}, func(account *Account) {
		if l.metrics != nil {
			l.metrics.IncRosterAdds()
		}
		if account.Complete() && l.notif != nil {
			if err := l.notif.SendTeamComplete(account.Username, account.TotalPoints); err != nil {
				log.Error("Failed to send team complete notification", "username", account.Username, "error", err)
			}
		}
	})
}

// RemovePlayer releases a player and credits back the frozen acquisition
// value, not the player's current catalog valuation.
func (l *ledger) RemovePlayer(accountID, playerID string) (*Account, error) {
	return l.mutate(accountID, func(account *Account) error {
		idx := -1
		for i, e := range account.Team {
			if e.PlayerID == playerID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrPlayerNotInRoster
		}

		account.Budget += account.Team[idx].Value
		account.Team = append(account.Team[:idx], account.Team[idx+1:]...)
		return nil
	}, func(account *Account) {
		if l.metrics != nil {
			l.metrics.IncRosterRemoves()
		}
	})
}

// mutate runs the read-check-write cycle for one account under its lock.
// check mutates the in-memory account or returns a domain error; afterCommit
// runs once the transaction has durably applied. Reads and version conflicts
// retry a bounded number of times; a failed commit is reported as
// indeterminate because the write may have landed.
func (l *ledger) mutate(accountID string, check func(*Account) error, afterCommit func(*Account)) (*Account, error) {
	lock := l.lockFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.ObserveLedgerDuration(time.Since(start).Seconds())
		}
	}()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBackoff << (attempt - 1))
		}

		account, err := l.GetAccount(accountID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return nil, err
			}
			lastErr = err
			continue
		}

		if err := check(account); err != nil {
			if l.metrics != nil && isRejection(err) {
				l.metrics.IncRosterRejections()
			}
			return nil, err
		}

		// Total points exist only for complete teams.
		account.TotalPoints = 0
		if account.Complete() {
			for _, e := range account.Team {
				account.TotalPoints += e.Points
			}
		}

		notification, err := l.write(account)
		if err != nil {
			if errors.Is(err, errVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		account.Version++
		afterCommit(account)
		if l.publish != nil {
			l.publish(*notification)
		}
		return account, nil
	}
	return nil, fmt.Errorf("roster mutation failed after %d attempts: %w", maxRetries, lastErr)
}

var errVersionConflict = errors.New("account version conflict")

// write applies the mutated account with an optimistic version check and
// appends the outbox row in the same transaction.
func (l *ledger) write(account *Account) (*realtime.Notification, error) {
	teamJSON, err := json.Marshal(account.Team)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team: %w", err)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(
		"UPDATE users SET budget = ?, team_json = ?, total_points = ?, version = version + 1 WHERE id = ? AND version = ?",
		account.Budget, string(teamJSON), account.TotalPoints, account.ID, account.Version,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return nil, errVersionConflict
	}

	seq, err := feed.Append(tx, realtime.TopicUsers, realtime.OpUpdate, account.ID, account)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		// The commit may have landed before the error surfaced; the caller
		// must reconcile instead of retrying blind.
		return nil, fmt.Errorf("%w: %v", ErrIndeterminate, err)
	}

	doc, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account document: %w", err)
	}
	return &realtime.Notification{
		Topic:    realtime.TopicUsers,
		Op:       realtime.OpUpdate,
		RecordID: account.ID,
		Document: doc,
		Seq:      seq,
	}, nil
}

func (l *ledger) GetTeam(accountID string) (*TeamView, error) {
	account, err := l.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	view := &TeamView{
		Username:    account.Username,
		Budget:      account.Budget,
		TeamSize:    len(account.Team),
		Complete:    account.Complete(),
		TotalPoints: account.TotalPoints,
		Team:        make([]TeamPlayer, 0, len(account.Team)),
	}
	for _, e := range account.Team {
		tp := TeamPlayer{PlayerID: e.PlayerID, Value: e.Value}
		// A player deleted from the catalog stays in the roster under its
		// frozen value; only the display fields go missing.
		if p, err := l.catalog.GetPlayer(e.PlayerID); err == nil {
			tp.Name = p.Name
			tp.University = p.University
			tp.Category = p.Category
		}
		view.Team = append(view.Team, tp)
	}
	return view, nil
}

func (l *ledger) Leaderboard() ([]LeaderboardRow, error) {
	rows, err := l.db.Query("SELECT username, total_points FROM users ORDER BY total_points DESC, username ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Username, &r.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		board = append(board, r)
	}
	return board, rows.Err()
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var teamJSON string
	err := row.Scan(&a.ID, &a.Username, &a.Budget, &teamJSON, &a.TotalPoints, &a.Version)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	if err := json.Unmarshal([]byte(teamJSON), &a.Team); err != nil {
		return nil, fmt.Errorf("failed to decode team: %w", err)
	}
	if a.Team == nil {
		a.Team = []Entry{}
	}
	return &a, nil
}

func isRejection(err error) bool {
	return errors.Is(err, ErrDuplicatePlayer) ||
		errors.Is(err, ErrInsufficientBudget) ||
		errors.Is(err, ErrTeamFull) ||
		errors.Is(err, ErrPlayerNotInRoster) ||
		errors.Is(err, ErrPlayerNotFound)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
