package scoredb

import (
	"time"

	"github.com/uptrace/bun"
)

// Score is one submission in the scores ledger.
// Username is nil exactly when Pending is true.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID       int64     `bun:"id,pk,autoincrement" json:"id"`
	Score    int64     `bun:"score,notnull" json:"score"`
	Username *string   `bun:"username" json:"username"`
	ScoredAt time.Time `bun:"scored_at,nullzero,notnull,default:current_timestamp" json:"scored_at"`
	Pending  bool      `bun:"pending,notnull,default:false" json:"pending"`
}

// DisplayName returns the username, or an empty string for pending scores.
func (s Score) DisplayName() string {
	if s.Username == nil {
		return ""
	}
	return *s.Username
}
