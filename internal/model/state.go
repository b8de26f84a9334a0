package model

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type Phase int

const (
	WaitingToStart Phase = iota
	InProgress
	Check
	AwaitingPromotion
	WhiteWins
	BlackWins
	Stalemate
	Draw
)

var phaseNames = [...]string{
	"waitingToStart", "inProgress", "check", "awaitingPromotion",
	"whiteWins", "blackWins", "stalemate", "draw",
}

func (p Phase) String() string {
	if p < WaitingToStart || p > Draw {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if string(text) == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// IsOver reports whether the phase is terminal.
func (p Phase) IsOver() bool {
	return p == WhiteWins || p == BlackWins || p == Stalemate || p == Draw
}

func (p Phase) isPlayable() bool {
	return p == InProgress || p == Check
}

type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

func (r *CastlingRights) flag(c Color, kingSide bool) *bool {
	switch {
	case c == White && kingSide:
		return &r.WhiteKingSide
	case c == White:
		return &r.WhiteQueenSide
	case kingSide:
		return &r.BlackKingSide
	default:
		return &r.BlackQueenSide
	}
}

func (r CastlingRights) Allowed(c Color, kingSide bool) bool {
	return *r.flag(c, kingSide)
}

func (r *CastlingRights) revoke(c Color, kingSide bool) {
	*r.flag(c, kingSide) = false
}

// String renders the rights as the FEN castling field.
func (r CastlingRights) String() string {
	var sb strings.Builder
	if r.WhiteKingSide {
		sb.WriteByte('K')
	}
	if r.WhiteQueenSide {
		sb.WriteByte('Q')
	}
	if r.BlackKingSide {
		sb.WriteByte('k')
	}
	if r.BlackQueenSide {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// Listener receives rule-level events. It is how the board visual and the
// session host learn about captures, promotions and phase changes.
type Listener interface {
	PieceCaptured(p *Piece)
	PiecePromoted(pawn, replacement *Piece)
	PhaseChanged(from, to Phase)
}

// GameState is the single authoritative state of one match. It is not safe
// for concurrent use; the owner serializes access.
type GameState struct {
	Board           Board
	TurnColor       Color
	Phase           Phase
	Castling        CastlingRights
	EnPassantTarget *Position
	HalfmoveClock   int
	FullmoveNumber  int

	pieces        []*Piece
	enPassantPawn *Piece
	pawnToPromote *Piece
	promotionPly  *Ply // the move that brought pawnToPromote to the last rank

	listener Listener
	log      *logrus.Entry
}

// NewGameState returns a standard 8x8 game waiting to start.
func NewGameState() *GameState {
	gs := NewEmptyGameState(StandardBoard())
	gs.Reset()
	return gs
}

// NewEmptyGameState returns a board with no pieces and no castling rights,
// for custom setups.
func NewEmptyGameState(board Board) *GameState {
	return &GameState{
		Board:          board,
		TurnColor:      White,
		Phase:          WaitingToStart,
		FullmoveNumber: 1,
		log:            logrus.WithField("component", "rules"),
	}
}

// Reset puts the standard opening position back on an 8x8 board.
func (gs *GameState) Reset() {
	gs.Board = StandardBoard()
	gs.pieces = standardPieces()
	gs.TurnColor = White
	gs.Castling = CastlingRights{true, true, true, true}
	gs.EnPassantTarget = nil
	gs.enPassantPawn = nil
	gs.pawnToPromote = nil
	gs.promotionPly = nil
	gs.HalfmoveClock = 0
	gs.FullmoveNumber = 1
	gs.setPhase(WaitingToStart)
}

// Start moves a waiting game into play and evaluates the position, so a
// custom setup that is already mate or stalemate ends immediately.
func (gs *GameState) Start() bool {
	if gs.Phase != WaitingToStart {
		return false
	}
	gs.setPhase(InProgress)
	gs.evaluatePhase()
	return true
}

func (gs *GameState) SetListener(l Listener) {
	gs.listener = l
}

func (gs *GameState) SetLogger(entry *logrus.Entry) {
	gs.log = entry
}

func (gs *GameState) logger() *logrus.Entry {
	if gs.log == nil {
		gs.log = logrus.WithField("component", "rules")
	}
	return gs.log
}

func (gs *GameState) setPhase(p Phase) {
	if gs.Phase == p {
		return
	}
	from := gs.Phase
	gs.Phase = p
	gs.logger().WithFields(logrus.Fields{"from": from, "to": p}).Debug("phase changed")
	if gs.listener != nil {
		gs.listener.PhaseChanged(from, p)
	}
}

// Pieces returns a copy of the active set in iteration order.
func (gs *GameState) Pieces() []*Piece {
	return append([]*Piece(nil), gs.pieces...)
}

func (gs *GameState) PiecesOf(c Color) []*Piece {
	var out []*Piece
	for _, p := range gs.pieces {
		if p.Color == c {
			out = append(out, p)
		}
	}
	return out
}

func (gs *GameState) PieceAt(pos Position) *Piece {
	for _, p := range gs.pieces {
		if p.Position == pos {
			return p
		}
	}
	return nil
}

func (gs *GameState) King(c Color) *Piece {
	for _, p := range gs.pieces {
		if p.Type == King && p.Color == c {
			return p
		}
	}
	return nil
}

func (gs *GameState) isActive(piece *Piece) bool {
	for _, p := range gs.pieces {
		if p == piece {
			return true
		}
	}
	return false
}

// AddPiece places a piece on an empty, valid square.
func (gs *GameState) AddPiece(p *Piece) error {
	if !gs.Board.IsValid(p.Position) {
		return fmt.Errorf("%w: %s is off the board", ErrInvalidSquare, p.Position)
	}
	if other := gs.PieceAt(p.Position); other != nil {
		return fmt.Errorf("%w: %s is occupied by %s", ErrInvalidSquare, p.Position, other)
	}
	gs.pieces = append(gs.pieces, p)
	return nil
}

func (gs *GameState) removePiece(piece *Piece) bool {
	for i, p := range gs.pieces {
		if p == piece {
			gs.pieces = append(gs.pieces[:i:i], gs.pieces[i+1:]...)
			return true
		}
	}
	return false
}

// replacePiece swaps old for replacement in the same slot of the active set.
func (gs *GameState) replacePiece(old, replacement *Piece) bool {
	for i, p := range gs.pieces {
		if p == old {
			pieces := append([]*Piece(nil), gs.pieces...)
			pieces[i] = replacement
			gs.pieces = pieces
			return true
		}
	}
	return false
}

func (gs *GameState) capture(p *Piece) {
	if gs.listener != nil {
		gs.listener.PieceCaptured(p)
	}
	gs.removePiece(p)
	if gs.enPassantPawn == p {
		gs.enPassantPawn = nil
	}
}

// EnPassantPawn is the pawn that may be captured en passant this ply.
func (gs *GameState) EnPassantPawn() *Piece {
	return gs.enPassantPawn
}

// PawnToPromote is non-nil exactly while the phase is AwaitingPromotion.
func (gs *GameState) PawnToPromote() *Piece {
	return gs.pawnToPromote
}

// Clone returns a deep copy with no listener attached.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.listener = nil
	cp.pieces = make([]*Piece, len(gs.pieces))
	remap := make(map[*Piece]*Piece, len(gs.pieces))
	for i, p := range gs.pieces {
		q := *p
		cp.pieces[i] = &q
		remap[p] = &q
	}
	cp.enPassantPawn = remap[gs.enPassantPawn]
	cp.pawnToPromote = remap[gs.pawnToPromote]
	if gs.promotionPly != nil {
		ply := *gs.promotionPly
		cp.promotionPly = &ply
	}
	if gs.EnPassantTarget != nil {
		target := *gs.EnPassantTarget
		cp.EnPassantTarget = &target
	}
	return &cp
}
