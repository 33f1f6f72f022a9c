package model

import "time"

// SessionID uniquely identifies a running match.
type SessionID string

// Mode is the match discipline.
type Mode string

const (
	ModeTurnBased    Mode = "turnbased"
	ModeSimultaneous Mode = "simultaneous"
)

// Status is the session state machine's phase. A session holds exactly two
// states; destruction (leave/disconnect) removes it from the directory
// rather than adding a third state.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Attempt is one guess together with its computed per-attribute feedback.
// Attempts are append-only within a session epoch; only a full rematch
// restart clears them.
type Attempt struct {
	Guess     Candidate `json:"guess"`
	Feedback  Feedback  `json:"feedback"`
	IsCorrect bool      `json:"isCorrect"`
	At        time.Time `json:"timestamp"`
}

// PlayerState is one player's side of a session.
type PlayerState struct {
	Identity    *Identity
	DisplayName string
	Attempts    []Attempt
	RematchVote bool
}

// ChatMessage is one entry in a session's bounded chat log.
type ChatMessage struct {
	ID         int64     `json:"id"`
	Sender     ConnID    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	At         time.Time `json:"timestamp"`
}

// SessionTimer is the wall clock for simultaneous mode. It exists only for
// that mode and only while the session is playing.
type SessionTimer struct {
	StartedAt time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

// Session is one active match between exactly two players.
type Session struct {
	ID       SessionID
	Mode     Mode
	Status   Status
	GameID   string
	Category string
	Data     GameData

	// Target is the hidden candidate; revealed only on resolution.
	Target Candidate

	Players map[ConnID]*PlayerState

	// Scores persist across rematches within the same session.
	Scores map[ConnID]int

	Messages      []ChatMessage
	nextMessageID int64

	// CurrentTurn is set only in turn-based mode.
	CurrentTurn ConnID

	// Timer is set only in simultaneous mode while playing.
	Timer *SessionTimer

	// Winner is set when Status is finished; empty on a draw.
	Winner ConnID

	CreatedAt time.Time
}

// Conns returns the two connection handles of the session's players.
func (s *Session) Conns() []ConnID {
	conns := make([]ConnID, 0, len(s.Players))
	for conn := range s.Players {
		conns = append(conns, conn)
	}
	return conns
}

// Opponent returns the other player's connection handle.
func (s *Session) Opponent(conn ConnID) ConnID {
	for other := range s.Players {
		if other != conn {
			return other
		}
	}
	return ""
}

// Player returns the state for a connection, or nil if it is not a member.
func (s *Session) Player(conn ConnID) *PlayerState {
	return s.Players[conn]
}

// NextMessageID hands out monotonically increasing chat message IDs.
func (s *Session) NextMessageID() int64 {
	s.nextMessageID++
	return s.nextMessageID
}
