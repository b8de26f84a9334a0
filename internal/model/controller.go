package model

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// PromotionRequester is asked to choose a piece when a pawn reaches the last
// rank. The answer comes back through Controller.CompletePawnPromotion.
type PromotionRequester interface {
	RequestPromotion(pawn *Piece)
}

// Controller executes moves against a GameState: validate, execute, update
// the ancillary state, detect the end of the game and hand over the turn.
type Controller struct {
	state *GameState
	last  *Ply
}

func NewController(state *GameState) *Controller {
	return &Controller{state: state}
}

func (c *Controller) State() *GameState {
	return c.state
}

// LastPly is the most recent completed ply, nil before the first move.
func (c *Controller) LastPly() *Ply {
	return c.last
}

// AttemptMove tries to play piece to target. A false return means the move
// was rejected and nothing changed. A pawn reaching the last rank leaves the
// game in AwaitingPromotion with the turn unchanged.
func (c *Controller) AttemptMove(piece *Piece, target Position, actor PromotionRequester) bool {
	gs := c.state
	if gs == nil || piece == nil {
		logrus.Error("attempted move without a game state or piece")
		return false
	}
	log := gs.logger().WithFields(logrus.Fields{"piece": piece.String(), "to": target.String()})

	if !gs.Phase.isPlayable() {
		log.WithField("phase", gs.Phase).Debug("move rejected: game not in play")
		return false
	}
	if piece.Color != gs.TurnColor {
		log.Debug("move rejected: not this color's turn")
		return false
	}
	if !gs.isActive(piece) {
		log.Debug("move rejected: piece is not on the board")
		return false
	}
	if !slices.Contains(piece.PseudoLegalMoves(gs), target) {
		log.Debug("move rejected: not a pseudo-legal destination")
		return false
	}
	if !gs.IsMoveLegal(piece, target) {
		log.Debug("move rejected: leaves own king in check")
		return false
	}

	from := piece.Position
	ply := &Ply{Color: piece.Color, Piece: piece.Type, From: from, To: target}

	if piece.Type == King && abs(target.X-from.X) == 2 {
		ply.CastleRookMove = gs.castleRook(piece, target)
	}

	captured := gs.PieceAt(target)
	if captured == nil {
		if captured = gs.enPassantVictim(piece, target); captured != nil {
			ply.EnPassant = true
		}
	}
	if captured != nil {
		gs.capture(captured)
		ply.CapturedPiece = captured
	}

	piece.Position = target
	piece.HasMoved = true

	if piece.Type == Pawn && target.Y == gs.Board.promotionRank(piece.Color) {
		gs.pawnToPromote = piece
		gs.promotionPly = ply
		gs.setPhase(AwaitingPromotion)
		if actor != nil {
			actor.RequestPromotion(piece)
		}
		return true
	}

	c.finishTurn(ply)
	return true
}

// castleRook moves the rook beside the king's new square.
func (gs *GameState) castleRook(king *Piece, target Position) *CastleRookMove {
	kingSide := target.X > king.Position.X
	rook := gs.PieceAt(gs.Board.rookHome(king.Color, kingSide))
	if rook == nil || rook.Type != Rook {
		gs.logger().WithField("king", king.String()).Error("castling without a rook on its home square")
		return nil
	}
	step := -1
	if kingSide {
		step = 1
	}
	move := &CastleRookMove{From: rook.Position, To: target.Add(-step, 0)}
	rook.Position = move.To
	rook.HasMoved = true
	return move
}

// CompletePawnPromotion replaces the waiting pawn with a piece of type t and
// ends the turn. Only queen, rook, bishop and knight are accepted.
func (c *Controller) CompletePawnPromotion(t PieceType) bool {
	gs := c.state
	if gs == nil {
		logrus.Error("promotion without a game state")
		return false
	}
	if gs.Phase != AwaitingPromotion || gs.pawnToPromote == nil {
		gs.logger().Debug("promotion rejected: nothing to promote")
		return false
	}
	if !t.IsPromotionChoice() {
		gs.logger().WithField("type", t).Debug("promotion rejected: invalid piece type")
		return false
	}

	pawn := gs.pawnToPromote
	replacement := &Piece{Color: pawn.Color, Type: t, Position: pawn.Position, HasMoved: true}
	gs.replacePiece(pawn, replacement)
	gs.pawnToPromote = nil
	if gs.listener != nil {
		gs.listener.PiecePromoted(pawn, replacement)
	}

	ply := gs.promotionPly
	if ply == nil {
		gs.logger().WithField("square", pawn.Position.String()).Error("promotion without a recorded ply")
		ply = &Ply{Color: pawn.Color, Piece: Pawn, From: pawn.Position, To: pawn.Position}
	}
	gs.promotionPly = nil
	ply.Promotion = &t
	c.finishTurn(ply)
	return true
}

func (c *Controller) finishTurn(ply *Ply) {
	gs := c.state
	mover := ply.Color

	if ply.Piece == King {
		gs.Castling.revoke(mover, true)
		gs.Castling.revoke(mover, false)
	}
	gs.revokeRookSquare(ply.From)
	gs.revokeRookSquare(ply.To)

	if ply.Piece == Pawn || ply.CapturedPiece != nil {
		gs.HalfmoveClock = 0
	} else {
		gs.HalfmoveClock++
	}
	if mover == Black {
		gs.FullmoveNumber++
	}

	gs.updateEnPassant(ply)

	gs.TurnColor = mover.Opponent()
	c.last = ply
	gs.evaluatePhase()
}

// revokeRookSquare clears the castling right tied to a rook home square,
// whether a rook left it or something was captured on it.
func (gs *GameState) revokeRookSquare(pos Position) {
	for _, color := range []Color{White, Black} {
		for _, kingSide := range []bool{true, false} {
			if gs.Board.rookHome(color, kingSide) == pos {
				gs.Castling.revoke(color, kingSide)
			}
		}
	}
}

// updateEnPassant records the skipped square after a double step, but only
// when an enemy pawn stands beside the landing square to use it. Some FEN
// consumers reject a target nobody can capture on.
func (gs *GameState) updateEnPassant(ply *Ply) {
	gs.EnPassantTarget = nil
	gs.enPassantPawn = nil
	if ply.Piece != Pawn || ply.Promotion != nil || abs(ply.To.Y-ply.From.Y) != 2 {
		return
	}
	pawn := gs.PieceAt(ply.To)
	if gs.hasAdjacentEnemyPawn(pawn) {
		skipped := Position{X: ply.To.X, Y: (ply.From.Y + ply.To.Y) / 2}
		gs.EnPassantTarget = &skipped
		gs.enPassantPawn = pawn
	}
}

// hasAdjacentEnemyPawn reports whether an enemy pawn stands beside pawn on
// its rank.
func (gs *GameState) hasAdjacentEnemyPawn(pawn *Piece) bool {
	for _, dx := range []int{-1, 1} {
		neighbour := gs.PieceAt(pawn.Position.Add(dx, 0))
		if neighbour != nil && neighbour.Type == Pawn && neighbour.Color != pawn.Color {
			return true
		}
	}
	return false
}

// Forfeit ends a game in progress as a loss for loser, e.g. on resignation
// or a flag fall.
func (c *Controller) Forfeit(loser Color) bool {
	gs := c.state
	if gs.Phase == WaitingToStart || gs.Phase.IsOver() {
		return false
	}
	gs.pawnToPromote = nil
	gs.promotionPly = nil
	if loser == White {
		gs.setPhase(BlackWins)
	} else {
		gs.setPhase(WhiteWins)
	}
	return true
}

// DeclareDraw ends a game in progress as a draw.
func (c *Controller) DeclareDraw() bool {
	gs := c.state
	if gs.Phase == WaitingToStart || gs.Phase.IsOver() {
		return false
	}
	gs.pawnToPromote = nil
	gs.promotionPly = nil
	gs.setPhase(Draw)
	return true
}
