package model

import "errors"

// Common errors used across the application. All are requester-local:
// none of them mutates state or reaches the opponent.
var (
	// Matchmaking and busy-state conflicts
	ErrAlreadyInQueue = errors.New("already in a matchmaking queue")
	ErrAlreadyInGame  = errors.New("already in an active game")
	ErrAlreadyHosting = errors.New("already hosting a private room")

	// Private lobby errors
	ErrRoomNotFound      = errors.New("private room not found")
	ErrCannotJoinOwnRoom = errors.New("cannot join own private room")
	ErrInvalidRoomCode   = errors.New("malformed private room code")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNotInSession    = errors.New("connection is not in a session")
	ErrNotPlaying      = errors.New("game is not in progress")
	ErrNotFinished     = errors.New("game is not finished")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrAlreadyGuessed  = errors.New("candidate was already guessed")

	// Identity gating
	ErrIdentityRequired   = errors.New("identity required for duo play")
	ErrIdentityUnverified = errors.New("identity is not verified")
)
