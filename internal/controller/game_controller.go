package controller

import (
	"errors"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/benbeisheim/chess3d-backend/internal/service"
	"github.com/benbeisheim/chess3d-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Bot string `json:"bot"` // color the bot plays, empty for a two-player game
}

type promoteRequest struct {
	Piece string `json:"piece"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPromotion),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrInvalidSquare),
		errors.Is(err, model.ErrMalformedMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoBot), errors.Is(err, service.ErrNoArchive):
		return fiber.StatusNotImplemented
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	var botColor *model.Color
	if req.Bot != "" {
		color, err := model.ParseColor(req.Bot)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		botColor = &color
	}

	gameID, err := gc.gameService.CreateGame(botColor)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	player := playerID(c)
	logrus.WithFields(logrus.Fields{"game": gameID, "player": player}).Debug("join request")

	color, err := gc.gameService.JoinGame(gameID, player)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, playerID(c), move); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid promotion body",
		})
	}

	if err := gc.gameService.HandlePromotion(c.Params("gameId"), playerID(c), req.Piece); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	if err := gc.gameService.Resign(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) OfferDraw(c *fiber.Ctx) error {
	if err := gc.gameService.OfferDraw(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) GetArchivedGame(c *fiber.Ctx) error {
	rec, err := gc.gameService.GetArchivedGame(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(rec)
}

func (gc *GameController) ListArchivedGames(c *fiber.Ctx) error {
	records, err := gc.gameService.ListArchivedGames()
	if err != nil {
		return sendError(c, err)
	}
	if records == nil {
		records = []model.GameRecord{}
	}
	return c.JSON(records)
}
