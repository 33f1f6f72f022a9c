package memory

import (
	"context"
	"sync"

	"github.com/lucasmnd/duodle/internal/history"
)

// Recorder is an in-memory implementation of the history recorder
type Recorder struct {
	mu      sync.RWMutex
	matches []history.Match
}

// New creates a new in-memory recorder
func New() *Recorder {
	return &Recorder{}
}

// Ensure Recorder implements the interface
var _ history.Recorder = (*Recorder)(nil)

// RecordMatch appends the match to the in-memory log
func (r *Recorder) RecordMatch(ctx context.Context, match history.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, match)
	return nil
}

// Matches returns a copy of all recorded matches
func (r *Recorder) Matches() []history.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]history.Match, len(r.matches))
	copy(out, r.matches)
	return out
}
