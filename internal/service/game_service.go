package service

import (
	"fmt"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/benbeisheim/chess3d-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame opens a new game. With a bot color set, the bot takes that
// seat and the game starts as soon as one player joins.
func (gs *GameService) CreateGame(botColor *model.Color) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, botColor); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) GetGameState(gameID string) (model.Snapshot, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, piece string) error {
	t, err := model.ParsePieceType(piece)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
	}
	return gs.gameManager.Promote(gameID, playerID, t)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) OfferDraw(gameID string, playerID string) error {
	return gs.gameManager.OfferDraw(gameID, playerID)
}

func (gs *GameService) GetArchivedGame(gameID string) (*model.GameRecord, error) {
	return gs.gameManager.GetArchivedGame(gameID)
}

func (gs *GameService) ListArchivedGames() ([]model.GameRecord, error) {
	return gs.gameManager.ListArchivedGames()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	return gs.gameManager.Send(gameID, conn, msg)
}
