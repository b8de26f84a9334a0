package model

import "github.com/sirupsen/logrus"

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// PseudoLegalMoves returns every destination allowed by the piece's movement
// pattern and the board occupancy, ignoring whether the mover's own king is
// left in check.
func (p *Piece) PseudoLegalMoves(gs *GameState) []Position {
	if gs == nil {
		logrus.WithField("piece", p.String()).Error("move generation without a game state")
		return nil
	}
	switch p.Type {
	case Pawn:
		return gs.pawnMoves(p)
	case Knight:
		return gs.stepMoves(p, knightDirs)
	case Bishop:
		return gs.slideMoves(p, bishopDirs)
	case Rook:
		return gs.slideMoves(p, rookDirs)
	case Queen:
		return gs.slideMoves(p, queenDirs)
	case King:
		return append(gs.stepMoves(p, kingDirs), gs.castlingMoves(p)...)
	}
	return nil
}

func (gs *GameState) pawnMoves(p *Piece) []Position {
	moves := []Position{}
	dir := p.Color.forward()
	one := p.Position.Add(0, dir)
	if gs.Board.IsValid(one) && gs.PieceAt(one) == nil {
		moves = append(moves, one)
		two := p.Position.Add(0, 2*dir)
		if !p.HasMoved && p.Position.Y == gs.Board.pawnRank(p.Color) && gs.Board.IsValid(two) && gs.PieceAt(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dx := range []int{-1, 1} {
		diag := p.Position.Add(dx, dir)
		if !gs.Board.IsValid(diag) {
			continue
		}
		if occupant := gs.PieceAt(diag); occupant != nil {
			if occupant.Color != p.Color {
				moves = append(moves, diag)
			}
			continue
		}
		if gs.enPassantVictim(p, diag) != nil {
			moves = append(moves, diag)
		}
	}
	return moves
}

// enPassantVictim returns the pawn p would capture by moving diagonally onto
// target, or nil when target is not the current en passant square for p.
func (gs *GameState) enPassantVictim(p *Piece, target Position) *Piece {
	if p.Type != Pawn || gs.EnPassantTarget == nil || *gs.EnPassantTarget != target {
		return nil
	}
	if abs(target.X-p.Position.X) != 1 || target.Y != p.Position.Y+p.Color.forward() {
		return nil
	}
	victim := gs.enPassantPawn
	if victim == nil || victim.Type != Pawn || victim.Color == p.Color {
		return nil
	}
	if victim.Position != (Position{X: target.X, Y: p.Position.Y}) || !gs.isActive(victim) {
		return nil
	}
	return victim
}

func (gs *GameState) stepMoves(p *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := p.Position.Add(dir.X, dir.Y)
		if !gs.Board.IsValid(target) {
			continue
		}
		if occupant := gs.PieceAt(target); occupant == nil || occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (gs *GameState) slideMoves(p *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := p.Position.Add(dir.X, dir.Y)
		for gs.Board.IsValid(target) {
			occupant := gs.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != p.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	return moves
}

// castlingMoves returns the two-square king destinations. The rook is moved
// by the controller when the move is executed.
func (gs *GameState) castlingMoves(king *Piece) []Position {
	if king.HasMoved || king.Position.Y != gs.Board.homeRank(king.Color) {
		return nil
	}
	enemy := king.Color.Opponent()
	if gs.IsSquareAttackedBy(king.Position, enemy) {
		return nil
	}
	var moves []Position
	for _, kingSide := range []bool{true, false} {
		if !gs.Castling.Allowed(king.Color, kingSide) {
			continue
		}
		rook := gs.PieceAt(gs.Board.rookHome(king.Color, kingSide))
		if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		step := 1
		if rook.Position.X < king.Position.X {
			step = -1
		}
		if !gs.pathClear(king.Position, rook.Position, step) {
			continue
		}
		pass := king.Position.Add(step, 0)
		land := king.Position.Add(2*step, 0)
		if !gs.Board.IsValid(land) || gs.PieceAt(land) != nil {
			continue
		}
		if gs.IsSquareAttackedBy(pass, enemy) || gs.IsSquareAttackedBy(land, enemy) {
			continue
		}
		moves = append(moves, land)
	}
	return moves
}

// pathClear reports whether every square strictly between from and to on
// the same rank is empty.
func (gs *GameState) pathClear(from, to Position, step int) bool {
	for x := from.X + step; x != to.X; x += step {
		if gs.PieceAt(Position{X: x, Y: from.Y}) != nil {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
