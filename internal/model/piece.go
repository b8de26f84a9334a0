package model

import (
	"fmt"
	"strings"
)

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// PieceType is the closed set of piece kinds. Move generation dispatches on it.
type PieceType int

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

const pieceLetters = "pnbrqk"

// PromotionChoices lists the types a pawn may become.
var PromotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

func (t PieceType) String() string {
	if t < Pawn || t > King {
		return "unknown"
	}
	return pieceTypeNames[t]
}

// Letter returns the lowercase FEN/UCI letter of the type.
func (t PieceType) Letter() byte {
	return pieceLetters[t]
}

func (t PieceType) getPieceNotation() string {
	if t == Pawn {
		return ""
	}
	return strings.ToUpper(string(t.Letter()))
}

func (t PieceType) IsPromotionChoice() bool {
	return t == Queen || t == Rook || t == Bishop || t == Knight
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParsePieceType accepts full names ("queen") and single letters ("q", "Q").
func ParsePieceType(s string) (PieceType, error) {
	lower := strings.ToLower(s)
	for i, name := range pieceTypeNames {
		if lower == name {
			return PieceType(i), nil
		}
	}
	if len(lower) == 1 {
		if i := strings.IndexByte(pieceLetters, lower[0]); i >= 0 {
			return PieceType(i), nil
		}
	}
	return Pawn, fmt.Errorf("unknown piece type %q", s)
}

// Piece is identified by pointer. It is owned by a GameState's active set
// from spawn until capture or promotion-replacement.
type Piece struct {
	Color    Color     `json:"color"`
	Type     PieceType `json:"type"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(color Color, t PieceType, pos Position) *Piece {
	return &Piece{Color: color, Type: t, Position: pos}
}

func (p *Piece) fenLetter() byte {
	letter := p.Type.Letter()
	if p.Color == White {
		return letter - 'a' + 'A'
	}
	return letter
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Color, p.Type, p.Position)
}
