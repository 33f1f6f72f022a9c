package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/lucasmnd/duodle/internal/identity"
	"github.com/lucasmnd/duodle/internal/model"
)

// dispatch routes one inbound message to the directory. Rejections are
// reported back to the requester only; they never reach the opponent.
func (h *Handler) dispatch(c *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.enqueue(model.ErrorEvent{Reason: "invalid-message"})
		return
	}

	switch msg.Type {
	case msgJoinQueue:
		var p joinQueuePayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		if !h.requireVerified(c, model.QueueError{}) {
			return
		}
		if err := h.directory.JoinQueue(c.id, c.identity, p.Category, p.GameID, p.Mode, p.GameData); err != nil {
			c.enqueue(model.QueueError{Reason: reasonFor(err)})
		}

	case msgLeaveQueue:
		var p leaveQueuePayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		h.directory.LeaveQueue(c.id, p.Category, p.GameID)

	case msgCreatePrivateRoom:
		var p createRoomPayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		if !h.requireVerified(c, model.PrivateRoomError{}) {
			return
		}
		if err := h.directory.CreatePrivateRoom(c.id, c.identity, p.Mode, p.GameData); err != nil {
			c.enqueue(model.PrivateRoomError{Reason: reasonFor(err)})
		}

	case msgJoinPrivateRoom:
		var p joinRoomPayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		if !h.requireVerified(c, model.PrivateRoomError{}) {
			return
		}
		if err := h.directory.JoinPrivateRoom(c.id, c.identity, p.Code); err != nil {
			c.enqueue(model.PrivateRoomError{Reason: reasonFor(err)})
		}

	case msgCancelPrivateRoom:
		h.directory.CancelPrivateRoom(c.id)

	case msgMakeGuess:
		var p guessPayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		if err := h.directory.MakeGuess(c.id, p.SessionID, p.Candidate); err != nil {
			c.enqueue(model.GuessError{Reason: reasonFor(err)})
		}

	case msgRequestRematch:
		if err := h.directory.RequestRematch(c.id); err != nil {
			c.enqueue(model.ErrorEvent{Reason: reasonFor(err)})
		}

	case msgSendChat:
		var p chatPayload
		if !h.decode(c, msg.Data, &p) {
			return
		}
		if strings.TrimSpace(p.Text) == "" {
			return
		}
		if err := h.directory.SendChat(c.id, p.Text); err != nil {
			c.enqueue(model.ErrorEvent{Reason: reasonFor(err)})
		}

	case msgLeaveRoom:
		h.directory.LeaveRoom(c.id)

	default:
		h.logger.Warn("unknown message type",
			slog.String("conn", string(c.id)),
			slog.String("type", msg.Type),
		)
		c.enqueue(model.ErrorEvent{Reason: "unknown-message-type"})
	}
}

// decode unmarshals a payload, reporting malformed data to the client.
func (h *Handler) decode(c *Client, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.enqueue(model.ErrorEvent{Reason: "invalid-payload"})
		return false
	}
	return true
}

// requireVerified gates matchmaking commands behind a verified identity.
// The directory itself accepts anonymous players; the product does not.
func (h *Handler) requireVerified(c *Client, errEvent model.Event) bool {
	err := identity.RequireVerified(c.identity)
	if err == nil {
		return true
	}

	reason := reasonFor(err)
	switch errEvent.(type) {
	case model.QueueError:
		c.enqueue(model.QueueError{Reason: reason})
	case model.PrivateRoomError:
		c.enqueue(model.PrivateRoomError{Reason: reason})
	default:
		c.enqueue(model.ErrorEvent{Reason: reason})
	}
	return false
}

// reasonFor maps the core's sentinel errors to wire reason codes.
func reasonFor(err error) string {
	for sentinel, reason := range reasons {
		if errors.Is(err, sentinel) {
			return reason
		}
	}
	return "internal-error"
}

var reasons = map[error]string{
	model.ErrAlreadyInQueue:     "already-in-queue",
	model.ErrAlreadyInGame:      "already-in-game",
	model.ErrAlreadyHosting:     "already-hosting",
	model.ErrRoomNotFound:       "room-not-found",
	model.ErrCannotJoinOwnRoom:  "cannot-join-own-room",
	model.ErrInvalidRoomCode:    "invalid-room-code",
	model.ErrSessionNotFound:    "session-not-found",
	model.ErrNotInSession:       "not-in-session",
	model.ErrNotPlaying:         "not-playing",
	model.ErrNotYourTurn:        "not-your-turn",
	model.ErrAlreadyGuessed:     "already-guessed",
	model.ErrNotFinished:        "not-finished",
	model.ErrIdentityRequired:   "identity-required",
	model.ErrIdentityUnverified: "identity-unverified",
}
