package ws

import "encoding/json"

// MessageType names the kind of payload a websocket frame carries.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypePromote   MessageType = "promote"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeDrawOffer MessageType = "drawOffer"
	MessageTypeResign    MessageType = "resign"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PromotePayload carries the piece chosen for a waiting pawn.
type PromotePayload struct {
	Piece string `json:"piece"`
}

// ErrorPayload is sent back when an incoming message could not be applied.
type ErrorPayload struct {
	Error string `json:"error"`
}
