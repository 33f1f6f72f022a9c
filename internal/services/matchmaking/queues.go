package matchmaking

import (
	"github.com/lucasmnd/duodle/internal/model"
)

// Queues holds the FIFO matchmaking queues, one per (category, game) key.
// Pairing is strictly first-come-first-served; there is no skill matching.
//
// Queues is not safe for concurrent use on its own: the session directory
// serializes every operation.
type Queues struct {
	queues map[model.QueueKey][]model.QueueEntry
}

// New creates an empty queue registry
func New() *Queues {
	return &Queues{
		queues: make(map[model.QueueKey][]model.QueueEntry),
	}
}

// Position returns the 1-based waiting position of a connection in the
// queue for key, or 0 if it is not queued there.
func (q *Queues) Position(key model.QueueKey, conn model.ConnID) int {
	for i, entry := range q.queues[key] {
		if entry.Conn == conn {
			return i + 1
		}
	}
	return 0
}

// Push appends an entry to the queue for key and returns its 1-based
// position.
func (q *Queues) Push(key model.QueueKey, entry model.QueueEntry) int {
	q.queues[key] = append(q.queues[key], entry)
	return len(q.queues[key])
}

// PopPair dequeues the two oldest entries of the queue for key. It only
// succeeds when at least two entries are waiting.
func (q *Queues) PopPair(key model.QueueKey) (model.QueueEntry, model.QueueEntry, bool) {
	queue := q.queues[key]
	if len(queue) < 2 {
		return model.QueueEntry{}, model.QueueEntry{}, false
	}
	first, second := queue[0], queue[1]
	q.queues[key] = queue[2:]
	return first, second, true
}

// Remove deletes a connection's entry from the queue for key.
func (q *Queues) Remove(key model.QueueKey, conn model.ConnID) (model.QueueEntry, bool) {
	for i, entry := range q.queues[key] {
		if entry.Conn == conn {
			q.queues[key] = append(q.queues[key][:i], q.queues[key][i+1:]...)
			return entry, true
		}
	}
	return model.QueueEntry{}, false
}

// RemoveAll deletes a connection's entries from every queue and returns
// them.
func (q *Queues) RemoveAll(conn model.ConnID) []model.QueueEntry {
	var removed []model.QueueEntry
	for key := range q.queues {
		if entry, ok := q.Remove(key, conn); ok {
			removed = append(removed, entry)
		}
	}
	return removed
}

// HasIdentity reports whether any queue holds an entry for the identity.
func (q *Queues) HasIdentity(id model.IdentityID) bool {
	for _, queue := range q.queues {
		for _, entry := range queue {
			if entry.Identity != nil && entry.Identity.ID == id {
				return true
			}
		}
	}
	return false
}

// HasConn reports whether any queue holds an entry for the connection.
func (q *Queues) HasConn(conn model.ConnID) bool {
	for _, queue := range q.queues {
		for _, entry := range queue {
			if entry.Conn == conn {
				return true
			}
		}
	}
	return false
}
