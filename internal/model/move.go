package model

import "fmt"

// MoveRequest is a move as it arrives from a client, squares in algebraic
// notation.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (m MoveRequest) parse() (from, to Position, promotion *PieceType, err error) {
	if from, err = ParseSquare(m.From); err != nil {
		return
	}
	if to, err = ParseSquare(m.To); err != nil {
		return
	}
	if m.Promotion != "" {
		t, perr := ParsePieceType(m.Promotion)
		if perr != nil || !t.IsPromotionChoice() {
			err = fmt.Errorf("invalid promotion piece %q", m.Promotion)
			return
		}
		promotion = &t
	}
	return
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply records one executed half-move.
type Ply struct {
	Color          Color           `json:"color"`
	Piece          PieceType       `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	EnPassant      bool            `json:"enPassant"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      *PieceType      `json:"promotion"`
	Notation       string          `json:"notation"`
}

// UCI renders the ply as a long algebraic token, e.g. "e7e8q".
func (p Ply) UCI() string {
	s := p.From.String() + p.To.String()
	if p.Promotion != nil {
		s += string(p.Promotion.Letter())
	}
	return s
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
