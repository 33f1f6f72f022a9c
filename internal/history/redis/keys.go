package redis

import (
	"fmt"

	"github.com/lucasmnd/duodle/internal/model"
)

// Key prefix for all match-history data
const keyPrefix = "duodle"

// matchesKey returns the Redis key for a player's match log
func matchesKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:matches:%s", keyPrefix, id)
}

// statsKey returns the Redis key for a player's win/loss/draw counters
func statsKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// Stats hash fields
const (
	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldDraws  = "draws"
)
