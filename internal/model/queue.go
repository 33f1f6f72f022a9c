package model

import "time"

// QueueKey scopes a matchmaking queue to one (category, game) pair.
type QueueKey string

// NewQueueKey builds the queue key for a category and game.
func NewQueueKey(category, gameID string) QueueKey {
	return QueueKey(category + "/" + gameID)
}

// QueueEntry is one waiting player in a matchmaking queue. Ordering within
// a queue is strict FIFO on JoinedAt insertion order.
type QueueEntry struct {
	Conn     ConnID
	Identity *Identity
	Data     GameData
	Mode     Mode
	JoinedAt time.Time
}

// RoomCode is the rendezvous code for a private lobby.
type RoomCode string

// PrivateLobby is a pending private room awaiting a second player. One
// lobby per hosting connection.
type PrivateLobby struct {
	Code      RoomCode
	HostConn  ConnID
	Identity  *Identity
	Data      GameData
	Mode      Mode
	CreatedAt time.Time
}
