package model

import "errors"

var (
	ErrInvalidBoard  = errors.New("invalid board size")
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidFEN    = errors.New("invalid FEN")
	ErrMalformedMove = errors.New("malformed move token")

	ErrGameFull         = errors.New("game is full")
	ErrNotPlayer        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNoPiece          = errors.New("no piece at from square")
	ErrIllegalMove      = errors.New("invalid move, not legal")
	ErrPromotionPending = errors.New("pawn promotion pending")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrGameOver         = errors.New("game is over")
)
