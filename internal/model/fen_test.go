package model

import (
	"errors"
	"strings"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	for _, fen := range fens {
		gs := mustParseFEN(t, fen)
		if got := gs.FEN(); got != fen {
			t.Errorf("round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestNewGameStateMatchesStartFEN(t *testing.T) {
	if got := NewGameState().FEN(); got != StartFEN {
		t.Errorf("got %s", got)
	}
}

func TestParseFENShortForm(t *testing.T) {
	gs := mustParseFEN(t, "4k3/8/8/8/8/8/8/4K3 b - -")
	if gs.TurnColor != Black || gs.HalfmoveClock != 0 || gs.FullmoveNumber != 1 {
		t.Errorf("turn %v, clocks %d %d", gs.TurnColor, gs.HalfmoveClock, gs.FullmoveNumber)
	}
}

func TestParseFENInfersHasMoved(t *testing.T) {
	gs := mustParseFEN(t, "r3k2r/8/8/8/8/4P3/3P4/R3K2R w Kq - 0 1")
	tests := []struct {
		square string
		want   bool
	}{
		{"d2", false}, // pawn on its start rank
		{"e3", true},
		{"e1", false}, // white may still castle king side
		{"h1", false},
		{"a1", true}, // queen side right is gone
		{"a8", false},
		{"h8", true},
	}
	for _, tt := range tests {
		if got := gs.PieceAt(mustSquare(t, tt.square)).HasMoved; got != tt.want {
			t.Errorf("%s HasMoved = %v", tt.square, got)
		}
	}
}

func TestParseFENIgnoresUnusableEnPassantSquare(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"no pawn in front", "4k3/8/8/8/8/8/8/4K3 w - e6 0 1"},
		{"no pawn beside", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"target occupied", "4k3/8/8/8/3pP3/4N3/8/4K3 b - e3 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := mustParseFEN(t, tt.fen)
			if gs.EnPassantTarget != nil || gs.EnPassantPawn() != nil {
				t.Errorf("target %v, pawn %v", gs.EnPassantTarget, gs.EnPassantPawn())
			}
			if got := strings.Fields(gs.FEN())[3]; got != "-" {
				t.Errorf("encoded en passant field %q", got)
			}
		})
	}

	gs := mustParseFEN(t, "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	if gs.EnPassantTarget == nil || gs.EnPassantTarget.String() != "e3" || gs.EnPassantPawn() != gs.PieceAt(mustSquare(t, "e4")) {
		t.Errorf("usable target dropped: %v", gs.EnPassantTarget)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "4k3/8/8/8/8/8/8/4K3 w -"},
		{"five fields", "4k3/8/8/8/8/8/8/4K3 w - - 0"},
		{"bad piece", "4k3/8/8/8/8/8/8/4X3 w - - 0 1"},
		{"ragged ranks", "4k3/8/8/8/8/8/7/4K3 w - - 0 1"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "3kk3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"bad halfmove", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"bad fullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("err = %v, want ErrInvalidFEN", err)
			}
		})
	}
}

func TestFENOnCustomBoard(t *testing.T) {
	board, err := NewBoard(10, 8)
	if err != nil {
		t.Fatal(err)
	}
	gs := NewEmptyGameState(board)
	gs.AddPiece(NewPiece(White, King, mustSquare(t, "a1")))
	gs.AddPiece(NewPiece(Black, King, mustSquare(t, "j8")))
	want := "9k/10/10/10/10/10/10/K9 w - - 0 1"
	if got := gs.FEN(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	parsed := mustParseFEN(t, want)
	if parsed.Board != board {
		t.Errorf("board = %+v", parsed.Board)
	}
}

func TestNewBoardRejectsEmpty(t *testing.T) {
	if _, err := NewBoard(0, 8); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("err = %v", err)
	}
}
