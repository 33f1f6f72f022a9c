package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucasmnd/duodle/internal/history"
	"github.com/lucasmnd/duodle/internal/model"
)

// Recorder is a Redis-backed implementation of the history recorder
type Recorder struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis recorder
func New(cfg Config) (*Recorder, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Recorder{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis recorder with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Recorder {
	return &Recorder{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *Recorder) Close() error {
	return r.client.Close()
}

// Ensure Recorder implements the interface
var _ history.Recorder = (*Recorder)(nil)

// RecordMatch appends the match to both players' logs and bumps their
// win/loss/draw counters in one pipeline.
func (r *Recorder) RecordMatch(ctx context.Context, match history.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()

	for _, id := range []model.IdentityID{match.PlayerA, match.PlayerB} {
		key := matchesKey(id)
		pipe.LPush(ctx, key, data)
		if r.cfg.MaxMatches > 0 {
			pipe.LTrim(ctx, key, 0, int64(r.cfg.MaxMatches)-1)
		}
		pipe.HIncrBy(ctx, statsKey(id), statsField(match, id), 1)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func statsField(match history.Match, id model.IdentityID) string {
	switch {
	case match.Winner == nil:
		return fieldDraws
	case *match.Winner == id:
		return fieldWins
	default:
		return fieldLosses
	}
}

// Stats is a player's aggregate record.
type Stats struct {
	Wins   int64
	Losses int64
	Draws  int64
}

// GetStats reads a player's counters; a player with no recorded matches
// has all-zero stats.
func (r *Recorder) GetStats(ctx context.Context, id model.IdentityID) (Stats, error) {
	values, err := r.client.HGetAll(ctx, statsKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Stats{}, err
	}

	var stats Stats
	for field, raw := range values {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch field {
		case fieldWins:
			stats.Wins = n
		case fieldLosses:
			stats.Losses = n
		case fieldDraws:
			stats.Draws = n
		}
	}
	return stats, nil
}

// GetMatches reads a player's most recent matches, newest first.
func (r *Recorder) GetMatches(ctx context.Context, id model.IdentityID, limit int64) ([]history.Match, error) {
	raw, err := r.client.LRange(ctx, matchesKey(id), 0, limit-1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	matches := make([]history.Match, 0, len(raw))
	for _, item := range raw {
		var m history.Match
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}
