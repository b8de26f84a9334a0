package model

import "golang.org/x/exp/slices"

// IsSquareAttackedBy reports whether any active piece of color attacks square.
//
// Kings are resolved through the adjacent-offset table and never through
// King.PseudoLegalMoves: that generator asks this function about castling
// squares, and two kings asking about each other would never return.
func (gs *GameState) IsSquareAttackedBy(square Position, color Color) bool {
	for _, attacker := range gs.pieces {
		if attacker.Color != color {
			continue
		}
		switch attacker.Type {
		case King:
			for _, dir := range kingDirs {
				if attacker.Position.Add(dir.X, dir.Y) == square {
					return true
				}
			}
		case Pawn:
			// pawns attack their forward diagonals whether or not anything stands there
			if square.Y == attacker.Position.Y+color.forward() && abs(square.X-attacker.Position.X) == 1 {
				return true
			}
		default:
			if slices.Contains(attacker.PseudoLegalMoves(gs), square) {
				return true
			}
		}
	}
	return false
}
