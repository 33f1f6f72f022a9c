package ws

import (
	"encoding/json"

	"github.com/lucasmnd/duodle/internal/model"
)

// Inbound message types accepted from clients.
const (
	msgJoinQueue         = "join-queue"
	msgLeaveQueue        = "leave-queue"
	msgCreatePrivateRoom = "create-private-room"
	msgJoinPrivateRoom   = "join-private-room"
	msgCancelPrivateRoom = "cancel-private-room"
	msgMakeGuess         = "make-guess"
	msgRequestRematch    = "request-rematch"
	msgSendChat          = "send-chat"
	msgLeaveRoom         = "leave-room"
)

// inboundMessage is the client-to-server envelope.
type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// outboundMessage is the server-to-client envelope wrapping an event.
type outboundMessage struct {
	Event string      `json:"event"`
	Data  model.Event `json:"data"`
}

type joinQueuePayload struct {
	Category string         `json:"category"`
	GameID   string         `json:"gameId"`
	Mode     model.Mode     `json:"gameMode"`
	GameData model.GameData `json:"gameData"`
}

type leaveQueuePayload struct {
	Category string `json:"category"`
	GameID   string `json:"gameId"`
}

type createRoomPayload struct {
	Mode     model.Mode     `json:"gameMode"`
	GameData model.GameData `json:"gameData"`
}

type joinRoomPayload struct {
	Code string `json:"code"`
}

type guessPayload struct {
	SessionID model.SessionID `json:"sessionId"`
	Candidate model.Candidate `json:"candidate"`
}

type chatPayload struct {
	Text string `json:"text"`
}

// encodeEvent wraps an event in the outbound envelope.
func encodeEvent(event model.Event) ([]byte, error) {
	return json.Marshal(outboundMessage{Event: event.Event(), Data: event})
}
