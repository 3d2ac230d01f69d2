package roster

import "errors"

var (
	// ErrAccountNotFound means the account key has no matching record.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPlayerNotFound means the player key has no matching catalog record.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrDuplicatePlayer means the player is already in the account's roster.
	ErrDuplicatePlayer = errors.New("player already in team")
	// ErrInsufficientBudget means the account cannot afford the player's valuation.
	ErrInsufficientBudget = errors.New("insufficient budget")
	// ErrPlayerNotInRoster means the player key is not present in the roster.
	ErrPlayerNotInRoster = errors.New("player not in team")
	// ErrTeamFull means the roster already holds the maximum of 11 players.
	ErrTeamFull = errors.New("team is already full")
	// ErrDuplicateUsername means an account with that display name already exists.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrIndeterminate means the store failed after a write may have been
	// applied; the caller must reconcile rather than assume failure.
	ErrIndeterminate = errors.New("mutation outcome indeterminate")
)

// Ledger is the only writer permitted to mutate an account's
// roster/budget/points triplet. All three fields change together inside one
// atomic transaction.
type Ledger interface {
	CreateUser(username string, budget int64) (*Account, error)
	GetAccount(id string) (*Account, error)
	GetAccountByUsername(username string) (*Account, error)
	AddPlayer(accountID, playerID string) (*Account, error)
	RemovePlayer(accountID, playerID string) (*Account, error)
	GetTeam(accountID string) (*TeamView, error)
	Leaderboard() ([]LeaderboardRow, error)
}
