package model

// Perft counts the legal move paths of the given depth from gs. Each
// promotion choice is a separate path. gs itself is not modified.
func Perft(gs *GameState, depth int) int {
	if depth <= 0 {
		return 1
	}
	if gs.Phase == WaitingToStart {
		gs = gs.Clone()
		gs.Start()
	}
	if !gs.Phase.isPlayable() {
		return 0
	}

	nodes := 0
	for _, piece := range gs.PiecesOf(gs.TurnColor) {
		for _, target := range gs.LegalMoves(piece) {
			choices := []PieceType{Queen}
			promotes := piece.Type == Pawn && target.Y == gs.Board.promotionRank(piece.Color)
			if promotes {
				choices = PromotionChoices
			}
			for _, choice := range choices {
				child := gs.Clone()
				ctrl := NewController(child)
				if !ctrl.AttemptMove(child.PieceAt(piece.Position), target, nil) {
					gs.logger().WithField("move", piece.Position.String()+target.String()).Error("perft: legal move rejected")
					continue
				}
				if promotes {
					ctrl.CompletePawnPromotion(choice)
				}
				nodes += Perft(child, depth-1)
			}
		}
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by UCI token.
func Divide(gs *GameState, depth int) map[string]int {
	if gs.Phase == WaitingToStart {
		gs = gs.Clone()
		gs.Start()
	}
	out := make(map[string]int)
	if depth <= 0 || !gs.Phase.isPlayable() {
		return out
	}
	for _, piece := range gs.PiecesOf(gs.TurnColor) {
		for _, target := range gs.LegalMoves(piece) {
			promotes := piece.Type == Pawn && target.Y == gs.Board.promotionRank(piece.Color)
			choices := []*PieceType{nil}
			if promotes {
				choices = nil
				for i := range PromotionChoices {
					choices = append(choices, &PromotionChoices[i])
				}
			}
			for _, choice := range choices {
				child := gs.Clone()
				ctrl := NewController(child)
				ctrl.AttemptMove(child.PieceAt(piece.Position), target, nil)
				if choice != nil {
					ctrl.CompletePawnPromotion(*choice)
				}
				out[UCIMove{From: piece.Position, To: target, Promotion: choice}.String()] = Perft(child, depth-1)
			}
		}
	}
	return out
}

// LegalUCIMoves lists the legal moves of the side to move as UCI tokens.
func LegalUCIMoves(gs *GameState) []string {
	var out []string
	for move := range Divide(gs, 1) {
		out = append(out, move)
	}
	return out
}
