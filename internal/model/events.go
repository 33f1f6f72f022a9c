package model

// Event is an outbound notification produced by the core and delivered to
// one connection by the transport adapter.
type Event interface {
	// Event returns the wire name of the event.
	Event() string
}

// TimerInfo is the wire form of a simultaneous-mode timer, using unix
// millisecond timestamps like the rest of the protocol.
type TimerInfo struct {
	StartTime int64 `json:"startTime"`
	Duration  int64 `json:"duration"`
}

// NewTimerInfo converts a session timer for the wire; nil-safe.
func NewTimerInfo(t *SessionTimer) *TimerInfo {
	if t == nil {
		return nil
	}
	return &TimerInfo{
		StartTime: t.StartedAt.UnixMilli(),
		Duration:  t.Duration.Milliseconds(),
	}
}

// QueueJoined reports the 1-based waiting position after joining a queue.
type QueueJoined struct {
	Position int `json:"position"`
}

func (QueueJoined) Event() string { return "queue-joined" }

// QueueLeft acknowledges leaving a queue.
type QueueLeft struct{}

func (QueueLeft) Event() string { return "queue-left" }

// PrivateRoomCreated carries the rendezvous code of a new private room.
type PrivateRoomCreated struct {
	Code RoomCode `json:"code"`
}

func (PrivateRoomCreated) Event() string { return "private-room-created" }

// PrivateRoomCancelled acknowledges cancelling a hosted private room.
type PrivateRoomCancelled struct{}

func (PrivateRoomCancelled) Event() string { return "private-room-cancelled" }

// MatchFound tells one player their match has started. Each player
// receives their own view (turn flag, names, scores).
type MatchFound struct {
	SessionID     SessionID  `json:"sessionId"`
	Mode          Mode       `json:"gameMode"`
	IsYourTurn    bool       `json:"isYourTurn"`
	GameID        string     `json:"gameId"`
	Category      string     `json:"category"`
	GameData      GameData   `json:"gameData"`
	MaxAttempts   int        `json:"maxAttempts"`
	PlayerName    string     `json:"playerName"`
	OpponentName  string     `json:"opponentName"`
	MyScore       int        `json:"myScore"`
	OpponentScore int        `json:"opponentScore"`
	Timer         *TimerInfo `json:"timer,omitempty"`
}

func (MatchFound) Event() string { return "match-found" }

// GuessResult returns the acting player's own attempt.
type GuessResult struct {
	Attempt    Attempt `json:"attempt"`
	IsCorrect  bool    `json:"isCorrect"`
	IsYourTurn bool    `json:"isYourTurn"`
}

func (GuessResult) Event() string { return "guess-result" }

// OpponentGuess informs the other player of a non-winning guess.
// Turn-based mode only; simultaneous play is independent.
type OpponentGuess struct {
	Attempt    Attempt `json:"attempt"`
	IsYourTurn bool    `json:"isYourTurn"`
}

func (OpponentGuess) Event() string { return "opponent-guess" }

// GameOver announces a win. The target is revealed here; scores are the
// recipient's view.
type GameOver struct {
	Winner        ConnID    `json:"winner"`
	Target        Candidate `json:"target"`
	Mode          Mode      `json:"gameMode"`
	MyScore       int       `json:"myScore"`
	OpponentScore int       `json:"opponentScore"`
}

func (GameOver) Event() string { return "game-over" }

// TimerExpired announces a simultaneous-mode draw.
type TimerExpired struct {
	Target        Candidate `json:"target"`
	MyScore       int       `json:"myScore"`
	OpponentScore int       `json:"opponentScore"`
}

func (TimerExpired) Event() string { return "timer-expired" }

// RematchRequested tells a player their opponent wants a rematch.
type RematchRequested struct{}

func (RematchRequested) Event() string { return "rematch-requested" }

// RematchVoteRegistered acknowledges the requester's own vote.
type RematchVoteRegistered struct{}

func (RematchVoteRegistered) Event() string { return "rematch-vote-registered" }

// RematchStarting carries each player's view of the reset session.
type RematchStarting struct {
	IsYourTurn    bool       `json:"isYourTurn"`
	MyScore       int        `json:"myScore"`
	OpponentScore int        `json:"opponentScore"`
	Timer         *TimerInfo `json:"timer,omitempty"`
}

func (RematchStarting) Event() string { return "rematch-starting" }

// Chat delivers one chat message to both players.
type Chat struct {
	Message ChatMessage `json:"message"`
}

func (Chat) Event() string { return "chat-message" }

// QueueError reports a rejected matchmaking command to the requester.
type QueueError struct {
	Reason string `json:"reason"`
}

func (QueueError) Event() string { return "queue-error" }

// PrivateRoomError reports a rejected private-room command to the
// requester.
type PrivateRoomError struct {
	Reason string `json:"reason"`
}

func (PrivateRoomError) Event() string { return "private-room-error" }

// GuessError reports a rejected guess to the requester.
type GuessError struct {
	Reason string `json:"reason"`
}

func (GuessError) Event() string { return "guess-error" }

// ErrorEvent reports any other rejected command to the requester.
type ErrorEvent struct {
	Reason string `json:"reason"`
}

func (ErrorEvent) Event() string { return "error" }

// RoomLeft acknowledges the requester's own departure.
type RoomLeft struct{}

func (RoomLeft) Event() string { return "room-left" }

// OpponentLeft tells the peer their opponent left the session.
type OpponentLeft struct{}

func (OpponentLeft) Event() string { return "opponent-left" }

// OpponentDisconnected tells the peer their opponent's connection dropped.
type OpponentDisconnected struct{}

func (OpponentDisconnected) Event() string { return "opponent-disconnected" }
