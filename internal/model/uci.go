package model

import (
	"fmt"
	"strings"
)

// UCIMove is a parsed long-algebraic move token such as "e2e4" or "e7e8q".
type UCIMove struct {
	From      Position
	To        Position
	Promotion *PieceType
}

func (m UCIMove) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != nil {
		s += string(m.Promotion.Letter())
	}
	return s
}

// ParseUCIMove parses a four or five character move token.
func ParseUCIMove(token string) (UCIMove, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) < 4 {
		return UCIMove{}, fmt.Errorf("%w: %q is too short", ErrMalformedMove, token)
	}
	if len(token) > 5 {
		return UCIMove{}, fmt.Errorf("%w: %q is too long", ErrMalformedMove, token)
	}
	from, err := ParseSquare(token[0:2])
	if err != nil {
		return UCIMove{}, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}
	to, err := ParseSquare(token[2:4])
	if err != nil {
		return UCIMove{}, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}
	move := UCIMove{From: from, To: to}
	if len(token) == 5 {
		t, err := ParsePieceType(token[4:])
		if err != nil || !t.IsPromotionChoice() {
			return UCIMove{}, fmt.Errorf("%w: bad promotion letter in %q", ErrMalformedMove, token)
		}
		move.Promotion = &t
	}
	return move, nil
}
