package game

import (
	"log/slog"
	"sort"
	"time"

	"github.com/lucasmnd/duodle/internal/dependencies/clock"
	"github.com/lucasmnd/duodle/internal/dependencies/random"
	"github.com/lucasmnd/duodle/internal/feedback"
	"github.com/lucasmnd/duodle/internal/model"
)

const (
	// DefaultSimultaneousDuration is the simultaneous-mode wall clock
	DefaultSimultaneousDuration = 3 * time.Minute
	// MaxChatMessages bounds a session's chat log; the oldest entry is
	// dropped first
	MaxChatMessages = 50
	// MaxChatLength bounds a single chat message in runes
	MaxChatLength = 200
)

// Participant is one side of a new session.
type Participant struct {
	Conn        model.ConnID
	Identity    *model.Identity
	DisplayName string
}

// Controller runs the per-session state machine: target selection,
// guessing, rematches, timer expiry and chat. It mutates sessions in
// place and leaves registry bookkeeping to the directory.
type Controller struct {
	feedback *feedback.Engine
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	simultaneousDuration time.Duration
}

// Config holds configuration for the game controller
type Config struct {
	// SimultaneousDuration overrides the simultaneous-mode wall clock
	SimultaneousDuration time.Duration
}

// NewController creates a new game Controller
func NewController(
	engine *feedback.Engine,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	duration := cfg.SimultaneousDuration
	if duration == 0 {
		duration = DefaultSimultaneousDuration
	}
	return &Controller{
		feedback:             engine,
		clock:                clk,
		random:               rnd,
		logger:               logger,
		simultaneousDuration: duration,
	}
}

// SimultaneousDuration returns the configured simultaneous-mode clock.
func (c *Controller) SimultaneousDuration() time.Duration {
	return c.simultaneousDuration
}

// NewSession builds a playing session for two participants. The target is
// a uniform-random pick from the candidate pool; the first turn is a coin
// flip in turn-based mode; the wall clock starts immediately in
// simultaneous mode.
func (c *Controller) NewSession(id model.SessionID, mode model.Mode, data model.GameData, first, second Participant) *model.Session {
	now := c.clock.Now()

	session := &model.Session{
		ID:       id,
		Mode:     mode,
		Status:   model.StatusPlaying,
		GameID:   data.GameID,
		Category: data.Category,
		Data:     data,
		Target:   c.pickTarget(data.Candidates),
		Players: map[model.ConnID]*model.PlayerState{
			first.Conn:  {Identity: first.Identity, DisplayName: first.DisplayName},
			second.Conn: {Identity: second.Identity, DisplayName: second.DisplayName},
		},
		Scores: map[model.ConnID]int{
			first.Conn:  0,
			second.Conn: 0,
		},
		CreatedAt: now,
	}

	switch mode {
	case model.ModeTurnBased:
		if c.random.Bool() {
			session.CurrentTurn = first.Conn
		} else {
			session.CurrentTurn = second.Conn
		}
	case model.ModeSimultaneous:
		session.Timer = &model.SessionTimer{
			StartedAt: now,
			Duration:  c.simultaneousDuration,
		}
	}

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("game_id", data.GameID),
		slog.String("category", data.Category),
		slog.String("mode", string(mode)),
	)

	return session
}

// GuessOutcome is the result of an accepted guess.
type GuessOutcome struct {
	Attempt model.Attempt
	Won     bool
	// NextTurn is set for non-winning turn-based guesses.
	NextTurn model.ConnID
}

// Guess scores a candidate for the acting player. Rule violations are
// rejected without consuming a turn or touching attempt history.
func (c *Controller) Guess(s *model.Session, conn model.ConnID, candidate model.Candidate) (GuessOutcome, error) {
	if s.Status != model.StatusPlaying {
		return GuessOutcome{}, model.ErrNotPlaying
	}
	if s.Mode == model.ModeTurnBased && s.CurrentTurn != conn {
		return GuessOutcome{}, model.ErrNotYourTurn
	}

	player := s.Player(conn)
	if player == nil {
		return GuessOutcome{}, model.ErrNotInSession
	}

	// Turn-based knowledge is shared: a candidate either player has tried
	// is spent. Simultaneous play is independent: only the acting player's
	// own attempts count.
	if s.Mode == model.ModeTurnBased {
		for _, state := range s.Players {
			if hasGuessed(state.Attempts, candidate.ID) {
				return GuessOutcome{}, model.ErrAlreadyGuessed
			}
		}
	} else if hasGuessed(player.Attempts, candidate.ID) {
		return GuessOutcome{}, model.ErrAlreadyGuessed
	}

	attempt := model.Attempt{
		Guess:     candidate,
		Feedback:  c.feedback.Evaluate(candidate, s.Target, s.Data.Attributes),
		IsCorrect: candidate.ID == s.Target.ID,
		At:        c.clock.Now(),
	}
	player.Attempts = append(player.Attempts, attempt)

	if attempt.IsCorrect {
		s.Status = model.StatusFinished
		s.Winner = conn
		s.Scores[conn]++
		s.Timer = nil

		c.logger.Info("session won",
			slog.String("session_id", string(s.ID)),
			slog.String("winner", string(conn)),
			slog.Int("attempts", len(player.Attempts)),
		)
		return GuessOutcome{Attempt: attempt, Won: true}, nil
	}

	if s.Mode == model.ModeTurnBased {
		next := s.Opponent(conn)
		s.CurrentTurn = next
		return GuessOutcome{Attempt: attempt, NextTurn: next}, nil
	}

	return GuessOutcome{Attempt: attempt}, nil
}

// ExpireTimer resolves a simultaneous session as a draw. The status
// re-check makes the wall clock and a last-instant winning guess resolve
// to exactly one outcome: whichever handler runs first wins, the other is
// a no-op.
func (c *Controller) ExpireTimer(s *model.Session) bool {
	if s.Status != model.StatusPlaying {
		return false
	}

	s.Status = model.StatusFinished
	s.Winner = ""
	s.Timer = nil

	c.logger.Info("session timer expired",
		slog.String("session_id", string(s.ID)),
	)
	return true
}

// RematchOutcome reports whether a rematch vote restarted the session.
type RematchOutcome struct {
	Restarted bool
}

// Rematch registers a player's vote; once both players have voted the
// session resets in place. Scores and identity bindings survive the
// reset, attempts and votes do not.
func (c *Controller) Rematch(s *model.Session, conn model.ConnID) (RematchOutcome, error) {
	if s.Status != model.StatusFinished {
		return RematchOutcome{}, model.ErrNotFinished
	}

	player := s.Player(conn)
	if player == nil {
		return RematchOutcome{}, model.ErrNotInSession
	}

	player.RematchVote = true

	for _, state := range s.Players {
		if !state.RematchVote {
			return RematchOutcome{}, nil
		}
	}

	c.restart(s)
	return RematchOutcome{Restarted: true}, nil
}

// restart resets a finished session for a new round. Target repeats are
// acceptable: picks stay uniform with no exclusion across rematches.
func (c *Controller) restart(s *model.Session) {
	s.Target = c.pickTarget(s.Data.Candidates)
	s.Status = model.StatusPlaying
	s.Winner = ""

	for _, state := range s.Players {
		state.Attempts = nil
		state.RematchVote = false
	}

	switch s.Mode {
	case model.ModeTurnBased:
		conns := s.Conns()
		sort.Slice(conns, func(i, j int) bool { return conns[i] < conns[j] })
		s.CurrentTurn = conns[c.random.Intn(len(conns))]
	case model.ModeSimultaneous:
		s.Timer = &model.SessionTimer{
			StartedAt: c.clock.Now(),
			Duration:  c.simultaneousDuration,
		}
	}

	c.logger.Info("session restarted",
		slog.String("session_id", string(s.ID)),
		slog.String("mode", string(s.Mode)),
	)
}

// AddMessage appends a chat message, truncating long texts and dropping
// the oldest entry past the cap.
func (c *Controller) AddMessage(s *model.Session, conn model.ConnID, text string) (model.ChatMessage, error) {
	player := s.Player(conn)
	if player == nil {
		return model.ChatMessage{}, model.ErrNotInSession
	}

	if runes := []rune(text); len(runes) > MaxChatLength {
		text = string(runes[:MaxChatLength])
	}

	msg := model.ChatMessage{
		ID:         s.NextMessageID(),
		Sender:     conn,
		SenderName: player.DisplayName,
		Text:       text,
		At:         c.clock.Now(),
	}

	s.Messages = append(s.Messages, msg)
	if len(s.Messages) > MaxChatMessages {
		s.Messages = s.Messages[len(s.Messages)-MaxChatMessages:]
	}

	return msg, nil
}

func (c *Controller) pickTarget(pool []model.Candidate) model.Candidate {
	if len(pool) == 0 {
		return model.Candidate{}
	}
	return pool[c.random.Intn(len(pool))]
}

func hasGuessed(attempts []model.Attempt, candidateID string) bool {
	for _, a := range attempts {
		if a.Guess.ID == candidateID {
			return true
		}
	}
	return false
}
