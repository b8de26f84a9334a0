package model

import "testing"

func TestApplySuggestion(t *testing.T) {
	afterE4 := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	tests := []struct {
		name string
		s    Suggestion
		want bool
	}{
		{"current", Suggestion{Color: Black, FEN: afterE4, Move: "e7e5"}, true},
		{"no fen given", Suggestion{Color: Black, Move: "e7e5"}, true},
		{"wrong side", Suggestion{Color: White, FEN: afterE4, Move: "d2d4"}, false},
		{"outdated position", Suggestion{Color: Black, FEN: StartFEN, Move: "e7e5"}, false},
		{"malformed", Suggestion{Color: Black, FEN: afterE4, Move: "e7"}, false},
		{"empty square", Suggestion{Color: Black, FEN: afterE4, Move: "e5e4"}, false},
		{"illegal", Suggestion{Color: Black, FEN: afterE4, Move: "e7e4"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, c := startedGame(t, StartFEN)
			play(t, c, "e2e4")
			before := gs.FEN()

			if got := c.ApplySuggestion(tt.s); got != tt.want {
				t.Fatalf("ApplySuggestion = %v", got)
			}
			if !tt.want && gs.FEN() != before {
				t.Errorf("dropped suggestion changed the position: %s", gs.FEN())
			}
			if tt.want && gs.TurnColor != White {
				t.Errorf("turn = %v", gs.TurnColor)
			}
		})
	}
}

func TestApplySuggestionAfterGameOver(t *testing.T) {
	gs, c := startedGame(t, StartFEN)
	c.Forfeit(White)
	if c.ApplySuggestion(Suggestion{Color: White, FEN: gs.FEN(), Move: "e2e4"}) {
		t.Error("suggestion applied to a finished game")
	}
}

func TestApplySuggestionPromotes(t *testing.T) {
	tests := []struct {
		move string
		want PieceType
	}{
		{"a7a8n", Knight},
		{"a7a8", Queen},
	}
	for _, tt := range tests {
		gs, c := startedGame(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
		if !c.ApplySuggestion(Suggestion{Color: White, Move: tt.move}) {
			t.Fatalf("%s rejected", tt.move)
		}
		if p := gs.PieceAt(mustSquare(t, "a8")); p == nil || p.Type != tt.want {
			t.Errorf("%s: a8 = %v", tt.move, p)
		}
		if gs.Phase == AwaitingPromotion || gs.TurnColor != Black {
			t.Errorf("%s: phase %v, turn %v", tt.move, gs.Phase, gs.TurnColor)
		}
	}
}
