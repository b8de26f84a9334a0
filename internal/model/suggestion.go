package model

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SuggestionRequest is what the move-suggestion collaborator is asked.
type SuggestionRequest struct {
	FEN      string `json:"fen"`
	Depth    int    `json:"depth"`
	Variants int    `json:"variants"`
}

// Suggester returns a UCI move token for a position. Implementations own
// their transport, timeouts and retries.
type Suggester interface {
	Suggest(ctx context.Context, req SuggestionRequest) (string, error)
}

// Suggestion is a reply from the collaborator together with the side and
// position it was computed for.
type Suggestion struct {
	Color Color
	FEN   string
	Move  string
}

// ApplySuggestion plays a collaborator's move if it still applies. Replies
// for a side that is no longer to move, for a finished game or for a position
// that has changed since the request are dropped.
func (c *Controller) ApplySuggestion(s Suggestion) bool {
	gs := c.state
	if gs == nil {
		logrus.Error("suggestion without a game state")
		return false
	}
	log := gs.logger().WithFields(logrus.Fields{"color": s.Color, "move": s.Move})

	if !gs.Phase.isPlayable() || gs.TurnColor != s.Color {
		log.WithField("turn", gs.TurnColor).Debug("dropping stale suggestion")
		return false
	}
	if s.FEN != "" && s.FEN != gs.FEN() {
		log.Debug("dropping suggestion for an outdated position")
		return false
	}

	move, err := ParseUCIMove(s.Move)
	if err != nil {
		log.WithError(err).Warn("ignoring malformed suggestion")
		return false
	}
	piece := gs.PieceAt(move.From)
	if piece == nil {
		log.Warn("ignoring suggestion from an empty square")
		return false
	}
	if !c.AttemptMove(piece, move.To, nil) {
		log.Warn("suggested move was rejected")
		return false
	}
	if gs.Phase == AwaitingPromotion {
		choice := Queen
		if move.Promotion != nil {
			choice = *move.Promotion
		}
		return c.CompletePawnPromotion(choice)
	}
	return true
}
