// service/game_manager.go
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/benbeisheim/chess3d-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrNoBot        = errors.New("no bot configured")
	ErrNoArchive    = errors.New("no game archive configured")
)

// Archive stores finished games.
type Archive interface {
	Save(rec model.GameRecord) error
	Load(id string) (*model.GameRecord, error)
	List() ([]model.GameRecord, error)
}

// ManagerOptions wires the collaborators shared by every hosted game.
type ManagerOptions struct {
	ClockTime   time.Duration
	Bot         model.Suggester // nil disables bot games
	BotDepth    int
	BotVariants int
	Archive     Archive // nil disables archiving
}

type GameManager struct {
	games map[string]*model.Game
	opts  ManagerOptions
	mu    sync.RWMutex
	log   *logrus.Entry
}

func NewGameManager(opts ManagerOptions) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		opts:  opts,
		log:   logrus.WithField("component", "game-manager"),
	}
}

// CreateGame registers a new game under gameID. A non-nil botColor hands
// that seat to the configured bot.
func (gm *GameManager) CreateGame(gameID string, botColor *model.Color) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	if botColor != nil && gm.opts.Bot == nil {
		return ErrNoBot
	}

	game := model.NewGame(gameID, model.GameOptions{
		ClockTime: gm.opts.ClockTime,
		OnFinish:  gm.archive,
	})
	if botColor != nil {
		if err := game.SetBot(*botColor, model.BotSeat{
			Suggester: gm.opts.Bot,
			Depth:     gm.opts.BotDepth,
			Variants:  gm.opts.BotVariants,
		}); err != nil {
			return err
		}
	}
	gm.games[gameID] = game
	gm.log.WithField("game", gameID).Info("game created")
	return nil
}

// archive persists a finished game. The game stays live so clients can
// still fetch its final state.
func (gm *GameManager) archive(rec model.GameRecord) {
	log := gm.log.WithFields(logrus.Fields{"game": rec.ID, "result": rec.Result})
	log.Info("game finished")
	if gm.opts.Archive == nil {
		return
	}
	if err := gm.opts.Archive.Save(rec); err != nil {
		log.WithError(err).Error("failed to archive game")
	}
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	gm.log.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Debug("adding player to game")
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.White, err
	}

	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.Snapshot, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.MoveRequest) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Promote(gameID string, playerID string, piece model.PieceType) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.Promote(playerID, piece)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.Resign(playerID)
}

func (gm *GameManager) OfferDraw(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.OfferDraw(playerID)
}

func (gm *GameManager) GetArchivedGame(gameID string) (*model.GameRecord, error) {
	if gm.opts.Archive == nil {
		return nil, ErrNoArchive
	}
	return gm.opts.Archive.Load(gameID)
}

func (gm *GameManager) ListArchivedGames() ([]model.GameRecord, error) {
	if gm.opts.Archive == nil {
		return nil, ErrNoArchive
	}
	return gm.opts.Archive.List()
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID, conn)
}

// Send delivers a message on a game connection. Connections for unknown
// games are written to directly.
func (gm *GameManager) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return conn.WriteJSON(msg)
	}

	return game.Send(conn, msg)
}
