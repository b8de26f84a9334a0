package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// Locals keys carried across the websocket upgrade.
const (
	LocalGameID   = "wsGameID"
	LocalPlayerID = "wsPlayerID"
)

// WebSocketUpgrade admits only websocket upgrade requests that name a game
// (route parameter param) and carry a player id set by EnsurePlayerID.
func WebSocketUpgrade(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params(param)
		playerID, _ := c.Locals("playerID").(string)
		switch {
		case gameID == "":
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		case playerID == "":
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		// The websocket handler runs outside this request, so copy what it needs.
		c.Locals(LocalGameID, gameID)
		c.Locals(LocalPlayerID, playerID)
		logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Debug("upgrading to websocket")
		return c.Next()
	}
}
