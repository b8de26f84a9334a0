package model

import (
	"fmt"
	"strconv"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String returns the square in algebraic notation, e.g. "e4".
func (p Position) String() string {
	return fmt.Sprintf("%s%d", p.getFileNotation(), p.Y+1)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+'a')
}

func (p Position) getRankNotation() string {
	return strconv.Itoa(p.Y + 1)
}

// ParseSquare parses an algebraic square such as "e4". Ranks may have more
// than one digit for boards taller than nine ranks.
func ParseSquare(s string) (Position, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Position{X: int(s[0] - 'a'), Y: rank - 1}, nil
}

// Board is the fixed rectangular grid. It knows coordinate validity only;
// occupancy belongs to the GameState.
type Board struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewBoard(width, height int) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, fmt.Errorf("%w: %dx%d", ErrInvalidBoard, width, height)
	}
	return Board{Width: width, Height: height}, nil
}

func StandardBoard() Board {
	return Board{Width: 8, Height: 8}
}

func (b Board) IsValid(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

func (b Board) homeRank(c Color) int {
	if c == White {
		return 0
	}
	return b.Height - 1
}

func (b Board) pawnRank(c Color) int {
	if c == White {
		return 1
	}
	return b.Height - 2
}

func (b Board) promotionRank(c Color) int {
	return b.homeRank(c.Opponent())
}

func (b Board) rookFile(kingSide bool) int {
	if kingSide {
		return b.Width - 1
	}
	return 0
}

func (b Board) rookHome(c Color, kingSide bool) Position {
	return Position{X: b.rookFile(kingSide), Y: b.homeRank(c)}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func standardPieces() []*Piece {
	pieces := make([]*Piece, 0, 32)
	for _, color := range []Color{White, Black} {
		home, pawns := 0, 1
		if color == Black {
			home, pawns = 7, 6
		}
		for x, t := range backRank {
			pieces = append(pieces, NewPiece(color, t, Position{X: x, Y: home}))
		}
		for x := 0; x < 8; x++ {
			pieces = append(pieces, NewPiece(color, Pawn, Position{X: x, Y: pawns}))
		}
	}
	return pieces
}
