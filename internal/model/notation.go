package model

import (
	"strings"

	"golang.org/x/exp/slices"
)

// getNotation renders ply in short algebraic notation. before is the
// position the ply was played from, after the position it produced.
func getNotation(before *GameState, ply *Ply, after *GameState) string {
	var sb strings.Builder
	switch {
	case ply.CastleRookMove != nil && ply.To.X > ply.From.X:
		sb.WriteString("O-O")
	case ply.CastleRookMove != nil:
		sb.WriteString("O-O-O")
	default:
		sb.WriteString(ply.Piece.getPieceNotation())
		if ply.Piece == Pawn {
			if ply.CapturedPiece != nil {
				sb.WriteString(ply.From.getFileNotation())
			}
		} else {
			sb.WriteString(disambiguation(before, ply))
		}
		if ply.CapturedPiece != nil {
			sb.WriteByte('x')
		}
		sb.WriteString(ply.To.String())
		if ply.Promotion != nil {
			sb.WriteByte('=')
			sb.WriteString(ply.Promotion.getPieceNotation())
		}
	}
	switch {
	case after.Phase == WhiteWins || after.Phase == BlackWins:
		if after.IsPlayerInCheck(after.TurnColor) {
			sb.WriteByte('#')
		}
	case after.Phase == Check:
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the file, rank or both needed to tell the mover
// apart from other pieces of its kind that could reach the same square.
func disambiguation(before *GameState, ply *Ply) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range before.PiecesOf(ply.Color) {
		if other.Type != ply.Piece || other.Position == ply.From {
			continue
		}
		if !slices.Contains(before.LegalMoves(other), ply.To) {
			continue
		}
		ambiguous = true
		if other.Position.X == ply.From.X {
			sameFile = true
		}
		if other.Position.Y == ply.From.Y {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return ply.From.getFileNotation()
	case !sameRank:
		return ply.From.getRankNotation()
	default:
		return ply.From.String()
	}
}
