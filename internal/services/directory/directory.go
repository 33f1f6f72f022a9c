package directory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lucasmnd/duodle/internal/dependencies/clock"
	"github.com/lucasmnd/duodle/internal/history"
	"github.com/lucasmnd/duodle/internal/model"
	"github.com/lucasmnd/duodle/internal/services/game"
	"github.com/lucasmnd/duodle/internal/services/lobby"
	"github.com/lucasmnd/duodle/internal/services/matchmaking"
)

// DefaultMaxAttempts is surfaced in match-found when the game data does
// not carry its own limit. The core never enforces it.
const DefaultMaxAttempts = 26

// Sink delivers outbound events to connections. Implementations must not
// block: Send is called while the directory mutex is held.
type Sink interface {
	Send(conn model.ConnID, event model.Event)
}

// Directory owns every shared registry of the core: matchmaking queues,
// private lobbies, active sessions, per-connection membership, and the
// identity busy index. One mutex serializes all operations, giving the
// run-to-completion semantics the registries rely on; nothing below this
// layer locks.
type Directory struct {
	mu sync.Mutex

	games    *game.Controller
	queues   *matchmaking.Queues
	lobbies  *lobby.Registry
	recorder history.Recorder
	clock    clock.Clock
	sink     Sink
	logger   *slog.Logger

	sessions    map[model.SessionID]*model.Session
	memberships map[model.ConnID]model.SessionID
	identities  map[model.IdentityID]model.ConnID
	timers      map[model.SessionID]clock.Timer
}

// New creates a Directory wired to its collaborators.
func New(
	games *game.Controller,
	queues *matchmaking.Queues,
	lobbies *lobby.Registry,
	recorder history.Recorder,
	clk clock.Clock,
	sink Sink,
	logger *slog.Logger,
) *Directory {
	return &Directory{
		games:       games,
		queues:      queues,
		lobbies:     lobbies,
		recorder:    recorder,
		clock:       clk,
		sink:        sink,
		logger:      logger,
		sessions:    make(map[model.SessionID]*model.Session),
		memberships: make(map[model.ConnID]model.SessionID),
		identities:  make(map[model.IdentityID]model.ConnID),
		timers:      make(map[model.SessionID]clock.Timer),
	}
}

// JoinQueue enqueues a player for public matchmaking. Reaching two
// waiting entries pairs the two oldest immediately and starts a session.
func (d *Directory) JoinQueue(conn model.ConnID, id *model.Identity, category, gameID string, mode model.Mode, data model.GameData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := model.NewQueueKey(category, gameID)

	if _, inGame := d.memberships[conn]; inGame {
		return model.ErrAlreadyInGame
	}
	if d.queues.Position(key, conn) > 0 {
		return model.ErrAlreadyInQueue
	}
	if err := d.checkIdentityBusy(id); err != nil {
		return err
	}

	d.bind(id, conn)

	entry := model.QueueEntry{
		Conn:     conn,
		Identity: id,
		Data:     data,
		Mode:     mode,
		JoinedAt: d.clock.Now(),
	}
	position := d.queues.Push(key, entry)

	if first, second, ok := d.queues.PopPair(key); ok {
		d.startSession(first, second)
		return nil
	}

	d.logger.Info("queue joined",
		slog.String("conn", string(conn)),
		slog.String("queue", string(key)),
		slog.Int("position", position),
	)
	d.sink.Send(conn, model.QueueJoined{Position: position})
	return nil
}

// LeaveQueue removes a connection from one queue and releases its
// identity binding. Idempotent.
func (d *Directory) LeaveQueue(conn model.ConnID, category, gameID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := model.NewQueueKey(category, gameID)
	if entry, ok := d.queues.Remove(key, conn); ok {
		d.release(entry.Identity, conn)
	}
	d.sink.Send(conn, model.QueueLeft{})
}

// CreatePrivateRoom opens a code-based lobby hosted by the connection.
// An existing hosted room is returned idempotently.
func (d *Directory) CreatePrivateRoom(conn model.ConnID, id *model.Identity, mode model.Mode, data model.GameData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if code, hosting := d.lobbies.HostedCode(conn); hosting {
		d.sink.Send(conn, model.PrivateRoomCreated{Code: code})
		return nil
	}
	if err := d.checkBusy(conn, id); err != nil {
		return err
	}

	d.bind(id, conn)

	code := d.lobbies.Create(&model.PrivateLobby{
		HostConn:  conn,
		Identity:  id,
		Data:      data,
		Mode:      mode,
		CreatedAt: d.clock.Now(),
	})

	d.logger.Info("private room created",
		slog.String("conn", string(conn)),
		slog.String("code", string(code)),
	)
	d.sink.Send(conn, model.PrivateRoomCreated{Code: code})
	return nil
}

// JoinPrivateRoom consumes an open lobby and starts a session from the
// host and joiner. The host's payload carries the shared game data.
func (d *Directory) JoinPrivateRoom(conn model.ConnID, id *model.Identity, rawCode string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	code, err := lobby.NormalizeCode(rawCode)
	if err != nil {
		return err
	}

	l, ok := d.lobbies.Get(code)
	if !ok {
		return model.ErrRoomNotFound
	}
	if err := d.checkBusy(conn, id); err != nil {
		return err
	}
	if l.HostConn == conn {
		return model.ErrCannotJoinOwnRoom
	}

	d.bind(id, conn)
	d.lobbies.Take(code)

	host := model.QueueEntry{Conn: l.HostConn, Identity: l.Identity, Data: l.Data, Mode: l.Mode, JoinedAt: l.CreatedAt}
	joiner := model.QueueEntry{Conn: conn, Identity: id, Data: l.Data, Mode: l.Mode, JoinedAt: d.clock.Now()}
	d.startSession(host, joiner)
	return nil
}

// CancelPrivateRoom closes the lobby the connection hosts, if any.
// Idempotent: cancelling nothing is not an error.
func (d *Directory) CancelPrivateRoom(conn model.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if l, ok := d.lobbies.Cancel(conn); ok {
		d.release(l.Identity, conn)
		d.sink.Send(conn, model.PrivateRoomCancelled{})
	}
}

// MakeGuess scores a candidate for the acting player and emits the
// mode-appropriate results.
func (d *Directory) MakeGuess(conn model.ConnID, sessionID model.SessionID, candidate model.Candidate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[sessionID]
	if !ok {
		return model.ErrSessionNotFound
	}

	outcome, err := d.games.Guess(s, conn, candidate)
	if err != nil {
		return err
	}

	opponent := s.Opponent(conn)

	if outcome.Won {
		d.stopTimer(s.ID)
		d.recordResolution(s, conn)

		d.sink.Send(conn, model.GuessResult{Attempt: outcome.Attempt, IsCorrect: true})
		for _, player := range s.Conns() {
			d.sink.Send(player, model.GameOver{
				Winner:        conn,
				Target:        s.Target,
				Mode:          s.Mode,
				MyScore:       s.Scores[player],
				OpponentScore: s.Scores[s.Opponent(player)],
			})
		}
		return nil
	}

	d.sink.Send(conn, model.GuessResult{Attempt: outcome.Attempt})

	// The opponent learns of non-winning guesses only in turn-based mode;
	// simultaneous play stays independent.
	if s.Mode == model.ModeTurnBased {
		d.sink.Send(opponent, model.OpponentGuess{Attempt: outcome.Attempt, IsYourTurn: true})
	}
	return nil
}

// RequestRematch registers a rematch vote; mutual votes restart the
// session in place.
func (d *Directory) RequestRematch(conn model.ConnID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessionFor(conn)
	if !ok {
		return model.ErrNotInSession
	}

	outcome, err := d.games.Rematch(s, conn)
	if err != nil {
		return err
	}

	if !outcome.Restarted {
		d.sink.Send(s.Opponent(conn), model.RematchRequested{})
		d.sink.Send(conn, model.RematchVoteRegistered{})
		return nil
	}

	if s.Mode == model.ModeSimultaneous {
		d.armTimer(s)
	}
	for _, player := range s.Conns() {
		d.sink.Send(player, model.RematchStarting{
			IsYourTurn:    s.CurrentTurn == player,
			MyScore:       s.Scores[player],
			OpponentScore: s.Scores[s.Opponent(player)],
			Timer:         model.NewTimerInfo(s.Timer),
		})
	}
	return nil
}

// SendChat appends a chat message and delivers it to both players.
func (d *Directory) SendChat(conn model.ConnID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessionFor(conn)
	if !ok {
		return model.ErrNotInSession
	}

	msg, err := d.games.AddMessage(s, conn, text)
	if err != nil {
		return err
	}

	for _, player := range s.Conns() {
		d.sink.Send(player, model.Chat{Message: msg})
	}
	return nil
}

// LeaveRoom destroys the connection's session, if any, and notifies the
// peer exactly once. The requester always gets room-left back.
func (d *Directory) LeaveRoom(conn model.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if peer, ok := d.destroySession(conn); ok {
		d.sink.Send(peer, model.OpponentLeft{})
	}
	d.sink.Send(conn, model.RoomLeft{})
}

// Disconnect is the uniform exit path for a dropped connection: queue
// entries, hosted lobby and active session are all cleaned up, and a
// session peer is notified exactly once.
func (d *Directory) Disconnect(conn model.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.leaveAllQueues(conn)
	if l, ok := d.lobbies.Cancel(conn); ok {
		d.release(l.Identity, conn)
	}
	if peer, ok := d.destroySession(conn); ok {
		d.sink.Send(peer, model.OpponentDisconnected{})
	}

	d.logger.Info("connection cleaned up", slog.String("conn", string(conn)))
}

// Session returns a snapshot pointer for a session ID; read-only use.
func (d *Directory) Session(id model.SessionID) (*model.Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[id]
	return s, ok
}

// startSession creates a session from two paired entries, registers
// memberships, arms the simultaneous clock and announces the match. The
// first entry's payload and mode win.
func (d *Directory) startSession(first, second model.QueueEntry) {
	id := model.SessionID(uuid.NewString())

	s := d.games.NewSession(id, first.Mode, first.Data,
		game.Participant{Conn: first.Conn, Identity: first.Identity, DisplayName: displayName(first.Identity, "Player 1")},
		game.Participant{Conn: second.Conn, Identity: second.Identity, DisplayName: displayName(second.Identity, "Player 2")},
	)

	d.sessions[id] = s
	d.memberships[first.Conn] = id
	d.memberships[second.Conn] = id
	d.bind(first.Identity, first.Conn)
	d.bind(second.Identity, second.Conn)

	if s.Mode == model.ModeSimultaneous {
		d.armTimer(s)
	}

	for _, player := range s.Conns() {
		d.sink.Send(player, d.matchFoundFor(s, player))
	}
}

func (d *Directory) matchFoundFor(s *model.Session, conn model.ConnID) model.MatchFound {
	opponent := s.Opponent(conn)
	maxAttempts := s.Data.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return model.MatchFound{
		SessionID:     s.ID,
		Mode:          s.Mode,
		IsYourTurn:    s.CurrentTurn == conn,
		GameID:        s.GameID,
		Category:      s.Category,
		GameData:      s.Data,
		MaxAttempts:   maxAttempts,
		PlayerName:    s.Players[conn].DisplayName,
		OpponentName:  s.Players[opponent].DisplayName,
		MyScore:       s.Scores[conn],
		OpponentScore: s.Scores[opponent],
		Timer:         model.NewTimerInfo(s.Timer),
	}
}

// armTimer schedules the simultaneous-mode expiry callback.
func (d *Directory) armTimer(s *model.Session) {
	d.stopTimer(s.ID)
	id := s.ID
	d.timers[id] = d.clock.AfterFunc(s.Timer.Duration, func() {
		d.handleTimerExpired(id)
	})
}

// handleTimerExpired resolves a simultaneous session as a draw. It runs
// on a timer goroutine and re-checks the session's status under the
// mutex, so a winning guess landing in the same instant makes this a
// no-op rather than a second resolution.
func (d *Directory) handleTimerExpired(id model.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[id]
	if !ok {
		return
	}
	if !d.games.ExpireTimer(s) {
		return
	}

	delete(d.timers, id)
	d.recordResolution(s, "")

	for _, player := range s.Conns() {
		d.sink.Send(player, model.TimerExpired{
			Target:        s.Target,
			MyScore:       s.Scores[player],
			OpponentScore: s.Scores[s.Opponent(player)],
		})
	}
}

// leaveAllQueues removes a connection from every queue, releasing its
// identity binding.
func (d *Directory) leaveAllQueues(conn model.ConnID) {
	for _, entry := range d.queues.RemoveAll(conn) {
		d.release(entry.Identity, conn)
	}
}

// destroySession removes the session a connection belongs to, releasing
// memberships, timers and both identity bindings.
func (d *Directory) destroySession(conn model.ConnID) (model.ConnID, bool) {
	id, ok := d.memberships[conn]
	if !ok {
		return "", false
	}
	s := d.sessions[id]

	d.stopTimer(id)
	delete(d.sessions, id)

	peer := s.Opponent(conn)
	for player, state := range s.Players {
		delete(d.memberships, player)
		d.release(state.Identity, player)
	}

	d.logger.Info("session destroyed",
		slog.String("session_id", string(id)),
		slog.String("left_by", string(conn)),
	)
	return peer, true
}

func (d *Directory) stopTimer(id model.SessionID) {
	if timer, ok := d.timers[id]; ok {
		timer.Stop()
		delete(d.timers, id)
	}
}

// recordResolution invokes the match-history recorder exactly once per
// session resolution, before the resolution events go out. Only matches
// between two identified players are recorded. Recorder failures are
// logged and never block the game.
func (d *Directory) recordResolution(s *model.Session, winner model.ConnID) {
	conns := s.Conns()
	sort.Slice(conns, func(i, j int) bool { return conns[i] < conns[j] })

	a := s.Players[conns[0]]
	b := s.Players[conns[1]]
	if a.Identity == nil || b.Identity == nil {
		return
	}

	match := history.Match{
		PlayerA:   a.Identity.ID,
		PlayerB:   b.Identity.ID,
		GameID:    s.GameID,
		Mode:      s.Mode,
		AttemptsA: len(a.Attempts),
		AttemptsB: len(b.Attempts),
		EndedAt:   d.clock.Now(),
	}
	if winner != "" {
		winnerID := s.Players[winner].Identity.ID
		match.Winner = &winnerID
	}

	if err := d.recorder.RecordMatch(context.Background(), match); err != nil {
		d.logger.Error("failed to record match",
			slog.String("session_id", string(s.ID)),
			slog.Any("error", err),
		)
	}
}

// checkIdentityBusy rejects an identity that is already occupied anywhere
// in the system: an active session, any queue, or a hosted lobby.
func (d *Directory) checkIdentityBusy(id *model.Identity) error {
	if id == nil {
		return nil
	}
	if bound, ok := d.identities[id.ID]; ok {
		if _, inGame := d.memberships[bound]; inGame {
			return model.ErrAlreadyInGame
		}
		if d.queues.HasIdentity(id.ID) {
			return model.ErrAlreadyInQueue
		}
		if d.lobbies.HasIdentity(id.ID) {
			return model.ErrAlreadyHosting
		}
	}
	return nil
}

// checkBusy is the private-room variant of the busy check. Busy state is
// indexed by identity when one is present; anonymous play falls back to
// the connection handle.
func (d *Directory) checkBusy(conn model.ConnID, id *model.Identity) error {
	if _, inGame := d.memberships[conn]; inGame {
		return model.ErrAlreadyInGame
	}
	if id != nil {
		return d.checkIdentityBusy(id)
	}
	if d.queues.HasConn(conn) {
		return model.ErrAlreadyInQueue
	}
	if _, hosting := d.lobbies.HostedCode(conn); hosting {
		return model.ErrAlreadyHosting
	}
	return nil
}

// bind records the identity's current connection.
func (d *Directory) bind(id *model.Identity, conn model.ConnID) {
	if id != nil {
		d.identities[id.ID] = conn
	}
}

// release drops the identity binding if it still points at the
// connection being cleaned up.
func (d *Directory) release(id *model.Identity, conn model.ConnID) {
	if id == nil {
		return
	}
	if bound, ok := d.identities[id.ID]; ok && bound == conn {
		delete(d.identities, id.ID)
	}
}

func (d *Directory) sessionFor(conn model.ConnID) (*model.Session, bool) {
	id, ok := d.memberships[conn]
	if !ok {
		return nil, false
	}
	s, ok := d.sessions[id]
	return s, ok
}

func displayName(id *model.Identity, fallback string) string {
	if id != nil && id.Username != "" {
		return id.Username
	}
	return fallback
}

// Interface for dependency injection
type Interface interface {
	JoinQueue(conn model.ConnID, id *model.Identity, category, gameID string, mode model.Mode, data model.GameData) error
	LeaveQueue(conn model.ConnID, category, gameID string)
	CreatePrivateRoom(conn model.ConnID, id *model.Identity, mode model.Mode, data model.GameData) error
	JoinPrivateRoom(conn model.ConnID, id *model.Identity, rawCode string) error
	CancelPrivateRoom(conn model.ConnID)
	MakeGuess(conn model.ConnID, sessionID model.SessionID, candidate model.Candidate) error
	RequestRematch(conn model.ConnID) error
	SendChat(conn model.ConnID, text string) error
	LeaveRoom(conn model.ConnID)
	Disconnect(conn model.ConnID)
}

var _ Interface = (*Directory)(nil)
