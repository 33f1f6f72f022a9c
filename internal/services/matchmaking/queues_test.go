package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmnd/duodle/internal/model"
)

func entry(conn string) model.QueueEntry {
	return model.QueueEntry{
		Conn:     model.ConnID(conn),
		Mode:     model.ModeTurnBased,
		JoinedAt: time.Now(),
	}
}

func identifiedEntry(conn, id string) model.QueueEntry {
	e := entry(conn)
	e.Identity = &model.Identity{ID: model.IdentityID(id), Username: id, Verified: true}
	return e
}

func TestPushReturnsPosition(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")

	assert.Equal(t, 1, q.Push(key, entry("c1")))
	assert.Equal(t, 2, q.Push(key, entry("c2")))
}

func TestPopPairIsFIFO(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")

	q.Push(key, entry("c1"))
	q.Push(key, entry("c2"))
	q.Push(key, entry("c3"))

	first, second, ok := q.PopPair(key)
	require.True(t, ok)
	assert.Equal(t, model.ConnID("c1"), first.Conn)
	assert.Equal(t, model.ConnID("c2"), second.Conn)

	// c3 is never considered until a fourth player arrives
	_, _, ok = q.PopPair(key)
	assert.False(t, ok)
	assert.Equal(t, 1, q.Position(key, "c3"))
}

func TestPopPairNeedsTwoEntries(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")

	_, _, ok := q.PopPair(key)
	assert.False(t, ok)

	q.Push(key, entry("c1"))
	_, _, ok = q.PopPair(key)
	assert.False(t, ok)
}

func TestQueuesAreIsolatedByKey(t *testing.T) {
	q := New()
	animeKey := model.NewQueueKey("anime", "onepiece")
	gameKey := model.NewQueueKey("game", "smashdle")

	q.Push(animeKey, entry("c1"))
	q.Push(gameKey, entry("c2"))

	_, _, ok := q.PopPair(animeKey)
	assert.False(t, ok)
	_, _, ok = q.PopPair(gameKey)
	assert.False(t, ok)
}

func TestPositionOfAbsentConnIsZero(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")

	assert.Equal(t, 0, q.Position(key, "ghost"))
}

func TestRemoveDeletesOnlyTargetEntry(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")
	q.Push(key, entry("c1"))
	q.Push(key, entry("c2"))

	removed, ok := q.Remove(key, "c1")
	require.True(t, ok)
	assert.Equal(t, model.ConnID("c1"), removed.Conn)
	assert.Equal(t, 1, q.Position(key, "c2"))

	_, ok = q.Remove(key, "c1")
	assert.False(t, ok)
}

func TestRemoveAllSpansQueues(t *testing.T) {
	q := New()
	q.Push(model.NewQueueKey("anime", "onepiece"), entry("c1"))
	q.Push(model.NewQueueKey("game", "smashdle"), entry("c1"))
	q.Push(model.NewQueueKey("game", "smashdle"), entry("c2"))

	removed := q.RemoveAll("c1")

	assert.Len(t, removed, 2)
	assert.False(t, q.HasConn("c1"))
	assert.True(t, q.HasConn("c2"))
}

func TestHasIdentityFindsWaitingAccount(t *testing.T) {
	q := New()
	key := model.NewQueueKey("anime", "onepiece")
	q.Push(key, identifiedEntry("c1", "user-1"))
	q.Push(key, entry("c2"))

	assert.True(t, q.HasIdentity("user-1"))
	assert.False(t, q.HasIdentity("user-2"))
}
