package model

import (
	"sort"
	"testing"
)

func mustParseFEN(t testing.TB, fen string) *GameState {
	t.Helper()
	gs, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return gs
}

// startedGame parses fen and puts it into play.
func startedGame(t testing.TB, fen string) (*GameState, *Controller) {
	t.Helper()
	gs := mustParseFEN(t, fen)
	gs.Start()
	return gs, NewController(gs)
}

func mustSquare(t testing.TB, s string) Position {
	t.Helper()
	pos, err := ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

// play applies a UCI move through the controller and fails the test if it
// is rejected.
func play(t testing.TB, c *Controller, token string) {
	t.Helper()
	move, err := ParseUCIMove(token)
	if err != nil {
		t.Fatal(err)
	}
	piece := c.State().PieceAt(move.From)
	if piece == nil {
		t.Fatalf("%s: no piece on %s", token, move.From)
	}
	if !c.AttemptMove(piece, move.To, nil) {
		t.Fatalf("%s was rejected in %s", token, c.State().FEN())
	}
	if move.Promotion != nil && !c.CompletePawnPromotion(*move.Promotion) {
		t.Fatalf("%s: promotion rejected", token)
	}
}

func squares(moves []Position) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
