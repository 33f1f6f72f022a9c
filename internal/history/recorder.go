package history

import (
	"context"
	"time"

	"github.com/lucasmnd/duodle/internal/model"
)

// Match is one resolved duo game: a win for one identity or a draw.
type Match struct {
	PlayerA   model.IdentityID  `json:"playerA"`
	PlayerB   model.IdentityID  `json:"playerB"`
	GameID    string            `json:"gameId"`
	Mode      model.Mode        `json:"mode"`
	Winner    *model.IdentityID `json:"winner,omitempty"`
	AttemptsA int               `json:"attemptsA"`
	AttemptsB int               `json:"attemptsB"`
	EndedAt   time.Time         `json:"endedAt"`
}

// Draw reports whether the match resolved without a winner.
func (m Match) Draw() bool {
	return m.Winner == nil
}

// Recorder persists resolved matches. The directory invokes it exactly
// once per session resolution, before the resolution events go out, so
// the guess/timer race can never double-record.
type Recorder interface {
	RecordMatch(ctx context.Context, match Match) error
}
