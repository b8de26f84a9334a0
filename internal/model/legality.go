package model

import "github.com/sirupsen/logrus"

// IsPlayerInCheck reports whether color's king is attacked. A missing king is
// a setup bug, not a chess outcome: it is logged and reported as not in check.
func (gs *GameState) IsPlayerInCheck(color Color) bool {
	king := gs.King(color)
	if king == nil {
		gs.logger().WithField("color", color).Error("no king on the board, treating as not in check")
		return false
	}
	return gs.IsSquareAttackedBy(king.Position, color.Opponent())
}

// IsMoveLegal plays piece to target on the live state, asks whether the
// mover's king is attacked, then restores every mutation. Callers never see
// the trial position and the state is identical afterwards.
func (gs *GameState) IsMoveLegal(piece *Piece, target Position) bool {
	if piece == nil || !gs.Board.IsValid(target) || !gs.isActive(piece) {
		return false
	}
	captured := gs.PieceAt(target)
	if captured == nil {
		captured = gs.enPassantVictim(piece, target)
	}
	if captured != nil && captured.Color == piece.Color {
		return false
	}

	saved := gs.pieces
	origin := piece.Position
	defer func() {
		piece.Position = origin
		gs.pieces = saved
	}()

	trial := make([]*Piece, 0, len(saved))
	for _, p := range saved {
		if p != piece && p != captured {
			trial = append(trial, p)
		}
	}
	piece.Position = target
	gs.pieces = append(trial, piece)

	return !gs.IsPlayerInCheck(piece.Color)
}

// LegalMoves narrows the piece's pseudo-legal moves to those that keep its
// own king safe.
func (gs *GameState) LegalMoves(piece *Piece) []Position {
	legal := []Position{}
	for _, target := range piece.PseudoLegalMoves(gs) {
		if gs.IsMoveLegal(piece, target) {
			legal = append(legal, target)
		}
	}
	return legal
}

// HasAnyLegalMove reports whether color has at least one legal move.
func (gs *GameState) HasAnyLegalMove(color Color) bool {
	for _, piece := range gs.PiecesOf(color) {
		for _, target := range piece.PseudoLegalMoves(gs) {
			if gs.IsMoveLegal(piece, target) {
				return true
			}
		}
	}
	return false
}

func (gs *GameState) IsPlayerInCheckmate(color Color) bool {
	return gs.IsPlayerInCheck(color) && !gs.HasAnyLegalMove(color)
}

func (gs *GameState) IsStalemate(color Color) bool {
	return !gs.IsPlayerInCheck(color) && !gs.HasAnyLegalMove(color)
}

// evaluatePhase runs end-of-game detection for the side to move.
func (gs *GameState) evaluatePhase() {
	side := gs.TurnColor
	switch {
	case gs.IsPlayerInCheckmate(side):
		if side == White {
			gs.setPhase(BlackWins)
		} else {
			gs.setPhase(WhiteWins)
		}
	case gs.IsStalemate(side):
		gs.setPhase(Stalemate)
	case gs.IsPlayerInCheck(side):
		gs.setPhase(Check)
	default:
		gs.setPhase(InProgress)
	}
	if gs.Phase.IsOver() {
		gs.logger().WithFields(logrus.Fields{"result": gs.Phase, "fen": gs.FEN()}).Debug("game finished")
	}
}
