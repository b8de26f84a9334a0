package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard opening position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN encodes the position: placement from the top rank down, side to move,
// castling rights, en passant target, halfmove clock and fullmove number.
func (gs *GameState) FEN() string {
	var sb strings.Builder
	for y := gs.Board.Height - 1; y >= 0; y-- {
		empty := 0
		for x := 0; x < gs.Board.Width; x++ {
			p := gs.PieceAt(Position{X: x, Y: y})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.fenLetter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if gs.TurnColor == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(gs.Castling.String())
	sb.WriteByte(' ')
	if gs.EnPassantTarget != nil {
		sb.WriteString(gs.EnPassantTarget.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " %d %d", gs.HalfmoveClock, gs.FullmoveNumber)
	return sb.String()
}

// ParseFEN builds a waiting game from a FEN string. The clocks may be
// omitted. HasMoved is inferred: pawns off their start rank, and kings and
// rooks without a matching castling right, count as moved.
func ParseFEN(fen string) (*GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	width := -1
	var pieces []*Piece
	for i, rank := range ranks {
		y := len(ranks) - 1 - i
		x := 0
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '0' && ch <= '9' {
				k := j
				for k+1 < len(rank) && rank[k+1] >= '0' && rank[k+1] <= '9' {
					k++
				}
				n, _ := strconv.Atoi(rank[j : k+1])
				x += n
				j = k
				continue
			}
			t, err := ParsePieceType(string(ch))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
			}
			color := Black
			if ch >= 'A' && ch <= 'Z' {
				color = White
			}
			pieces = append(pieces, NewPiece(color, t, Position{X: x, Y: y}))
			x++
		}
		if width == -1 {
			width = x
		} else if x != width {
			return nil, fmt.Errorf("%w: rank %d has %d files, want %d", ErrInvalidFEN, y+1, x, width)
		}
	}
	board, err := NewBoard(width, len(ranks))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	gs := NewEmptyGameState(board)
	for _, p := range pieces {
		if err := gs.AddPiece(p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
	}
	for _, c := range []Color{White, Black} {
		kings := 0
		for _, p := range gs.PiecesOf(c) {
			if p.Type == King {
				kings++
			}
		}
		if kings != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidFEN, c, kings)
		}
	}

	switch fields[1] {
	case "w":
		gs.TurnColor = White
	case "b":
		gs.TurnColor = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				gs.Castling.WhiteKingSide = true
			case 'Q':
				gs.Castling.WhiteQueenSide = true
			case 'k':
				gs.Castling.BlackKingSide = true
			case 'q':
				gs.Castling.BlackQueenSide = true
			default:
				return nil, fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	for _, p := range gs.pieces {
		switch p.Type {
		case Pawn:
			p.HasMoved = p.Position.Y != board.pawnRank(p.Color)
		case King:
			p.HasMoved = !gs.Castling.Allowed(p.Color, true) && !gs.Castling.Allowed(p.Color, false)
		case Rook:
			p.HasMoved = true
			for _, kingSide := range []bool{true, false} {
				if gs.Castling.Allowed(p.Color, kingSide) && p.Position == board.rookHome(p.Color, kingSide) {
					p.HasMoved = false
				}
			}
		}
	}

	if fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil || !board.IsValid(target) {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, fields[3])
		}
		mover := gs.TurnColor.Opponent()
		pawn := gs.PieceAt(target.Add(0, mover.forward()))
		switch {
		case pawn == nil || pawn.Type != Pawn || pawn.Color != mover || gs.PieceAt(target) != nil:
			gs.logger().WithField("fen", fen).Warn("ignoring en passant square that does not follow a double step")
		case !gs.hasAdjacentEnemyPawn(pawn):
			gs.logger().WithField("fen", fen).Debug("ignoring en passant square no pawn can capture on")
		default:
			gs.EnPassantTarget = &target
			gs.enPassantPawn = pawn
		}
	}

	if len(fields) == 6 {
		if gs.HalfmoveClock, err = strconv.Atoi(fields[4]); err != nil || gs.HalfmoveClock < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		if gs.FullmoveNumber, err = strconv.Atoi(fields[5]); err != nil || gs.FullmoveNumber < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
	}
	return gs, nil
}
