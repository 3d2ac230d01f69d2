package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/feed"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/scoring"
)

// New creates a new catalog Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const playerColumns = `id, name, university, category, total_runs, balls_faced, innings_played,
	wickets, overs_bowled, runs_conceded, batting_sr, batting_avg, bowling_sr, economy, points, value`

func (s *store) GetPlayer(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	return scanPlayer(row)
}

func (s *store) GetPlayerByName(name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE name = ?", name)
	return scanPlayer(row)
}

func (s *store) ListPlayers(filter Filter) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + playerColumns + " FROM players"
	var args []any
	if filter.Category != "" {
		query += " WHERE category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// CreatePlayer inserts a new catalog record. Derived attributes are always
// recomputed from the raw counters before the write, so a record is never
// visible with stale metrics. An empty ID gets a generated one.
func (s *store) CreatePlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	applyMetrics(p, scoring.Compute(p.Counters()))

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO players (id, name, university, category, total_runs, balls_faced, innings_played,
			wickets, overs_bowled, runs_conceded, batting_sr, batting_avg, bowling_sr, economy, points, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.University, p.Category, p.TotalRuns, p.BallsFaced, p.InningsPlayed,
		p.Wickets, p.OversBowled, p.RunsConceded, p.BattingSR, p.BattingAvg, p.BowlingSR, p.Economy, p.Points, p.Value,
	)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}

	if _, err := feed.Append(tx, realtime.TopicPlayers, realtime.OpInsert, p.ID, p); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// UpdatePlayer replaces a record's mutable attributes. Raw-counter changes are
// paired with a derived-metric recomputation inside the same transaction.
func (s *store) UpdatePlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applyMetrics(p, scoring.Compute(p.Counters()))

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE players SET university = ?, category = ?, total_runs = ?, balls_faced = ?,
			innings_played = ?, wickets = ?, overs_bowled = ?, runs_conceded = ?,
			batting_sr = ?, batting_avg = ?, bowling_sr = ?, economy = ?, points = ?, value = ?
		WHERE id = ?`,
		p.University, p.Category, p.TotalRuns, p.BallsFaced, p.InningsPlayed, p.Wickets,
		p.OversBowled, p.RunsConceded, p.BattingSR, p.BattingAvg, p.BowlingSR, p.Economy, p.Points, p.Value,
		p.ID,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if _, err := feed.Append(tx, realtime.TopicPlayers, realtime.OpUpdate, p.ID, p); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *store) DeletePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM players WHERE id = ?", id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	// Delete notifications carry the key only.
	if _, err := feed.Append(tx, realtime.TopicPlayers, realtime.OpDelete, id, nil); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// UpdateDerivedMetrics overwrites only the derived attributes of a record.
func (s *store) UpdateDerivedMetrics(id string, m scoring.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE players SET batting_sr = ?, batting_avg = ?, bowling_sr = ?, economy = ?, points = ?, value = ?
		WHERE id = ?`,
		m.BattingStrikeRate, m.BattingAverage, m.BowlingStrikeRate, m.Economy, m.Points, m.Value, id,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if _, err := feed.Append(tx, realtime.TopicPlayers, realtime.OpUpdate, id, m); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// BackfillValues recomputes derived attributes for every record whose value
// field is missing. Run once at startup instead of per-request existence
// checks. Returns the number of records repaired.
func (s *store) BackfillValues() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + playerColumns + " FROM players WHERE value IS NULL")
	if err != nil {
		return 0, err
	}

	var stale []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			rows.Close()
			return 0, err
		}
		stale = append(stale, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for i := range stale {
		p := &stale[i]
		m := scoring.Compute(p.Counters())
		_, err := s.db.Exec(`
			UPDATE players SET batting_sr = ?, batting_avg = ?, bowling_sr = ?, economy = ?, points = ?, value = ?
			WHERE id = ?`,
			m.BattingStrikeRate, m.BattingAverage, m.BowlingStrikeRate, m.Economy, m.Points, m.Value, p.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to backfill player %s: %w", p.ID, err)
		}
	}

	if len(stale) > 0 {
		log.Info("Backfilled derived player values", "count", len(stale))
	}
	return len(stale), nil
}

func (s *store) TournamentSummary() (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary Summary
	err := s.db.QueryRow("SELECT COALESCE(SUM(total_runs), 0), COALESCE(SUM(wickets), 0) FROM players").
		Scan(&summary.TotalRuns, &summary.TotalWickets)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT name, university, total_runs FROM players ORDER BY total_runs DESC LIMIT 1").
		Scan(&summary.TopScorer.Name, &summary.TopScorer.University, &summary.TopScorer.Count)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.db.QueryRow("SELECT name, university, wickets FROM players ORDER BY wickets DESC LIMIT 1").
		Scan(&summary.TopWicketTaker.Name, &summary.TopWicketTaker.University, &summary.TopWicketTaker.Count)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return &summary, nil
}

// scanPlayer reads a single player row from a row or rows scanner.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var value sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.Name, &p.University, &p.Category,
		&p.TotalRuns, &p.BallsFaced, &p.InningsPlayed, &p.Wickets, &p.OversBowled, &p.RunsConceded,
		&p.BattingSR, &p.BattingAvg, &p.BowlingSR, &p.Economy, &p.Points, &value,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Value = value.Int64 // NULL until backfilled
	return &p, nil
}

func applyMetrics(p *Player, m scoring.Metrics) {
	p.BattingSR = m.BattingStrikeRate
	p.BattingAvg = m.BattingAverage
	p.BowlingSR = m.BowlingStrikeRate
	p.Economy = m.Economy
	p.Points = m.Points
	p.Value = m.Value
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
