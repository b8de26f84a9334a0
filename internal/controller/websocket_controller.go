package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess3d-backend/internal/middleware"
	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/benbeisheim/chess3d-backend/internal/service"
	"github.com/benbeisheim/chess3d-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	// Extract game ID and player ID from context
	gameID, _ := c.Locals(middleware.LocalGameID).(string)
	playerID, _ := c.Locals(middleware.LocalPlayerID).(string)
	log := logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID})
	log.Debug("websocket connected")

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.WithError(err).Warn("failed to register connection")
		wsc.sendError(gameID, c, err)
		c.Close()
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("read error")
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithError(err).Debug("parse error")
			wsc.sendError(gameID, c, fmt.Errorf("invalid message: %w", err))
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.WithError(err).WithField("type", msg.Type).Debug("handle error")
			wsc.sendError(gameID, c, err)
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %v", model.ErrMalformedMove, err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &promote); err != nil {
			return fmt.Errorf("%w: %v", model.ErrMalformedMove, err)
		}
		return wsc.gameService.HandlePromotion(gameID, playerID, promote.Piece)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	case ws.MessageTypeDrawOffer:
		return wsc.gameService.OfferDraw(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	if werr := wsc.gameService.Send(gameID, c, ws.Message{
		Type:    ws.MessageTypeError,
		Payload: payload,
	}); werr != nil {
		logrus.WithError(werr).Debug("failed to send error")
	}
}
