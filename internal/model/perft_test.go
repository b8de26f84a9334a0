package model

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Reference counts from the chessprogramming wiki perft pages.
var perftPositions = []struct {
	name   string
	fen    string
	counts []int // by depth, starting at 1
}{
	{"start", StartFEN, []int{20, 400, 8902}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []int{48, 2039, 97862}},
	{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []int{14, 191, 2812, 43238}},
	{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []int{6, 264, 9467}},
	{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []int{44, 1486, 62379}},
}

func TestPerft(t *testing.T) {
	for _, pos := range perftPositions {
		t.Run(pos.name, func(t *testing.T) {
			gs := mustParseFEN(t, pos.fen)
			for i, want := range pos.counts {
				depth := i + 1
				if depth > 2 && testing.Short() {
					break
				}
				if got := Perft(gs, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if gs.FEN() != pos.fen {
				t.Errorf("perft modified the position: %s", gs.FEN())
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	gs := mustParseFEN(t, perftPositions[1].fen)
	total := 0
	for _, n := range Divide(gs, 2) {
		total += n
	}
	if total != 2039 {
		t.Errorf("divide total = %d", total)
	}
}

func TestDividePromotions(t *testing.T) {
	gs := mustParseFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	divide := Divide(gs, 1)
	for _, m := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"} {
		if divide[m] != 1 {
			t.Errorf("%s missing from %v", m, divide)
		}
	}
	if _, ok := divide["a7a8"]; ok {
		t.Error("promotion listed without a piece")
	}
}

func TestPerftDepthZero(t *testing.T) {
	if got := Perft(NewGameState(), 0); got != 1 {
		t.Errorf("perft(0) = %d", got)
	}
}

func TestPerftMateLeavesLogQuietly(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	gs := mustParseFEN(t, "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	gs.SetLogger(logrus.NewEntry(logger))

	if n := Perft(gs, 1); n != 30 {
		t.Errorf("nodes = %d, want 30", n)
	}
	mates := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level <= logrus.InfoLevel {
			t.Errorf("%s entry during perft: %s", entry.Level, entry.Message)
		}
		if entry.Message == "game finished" {
			mates++
		}
	}
	if mates != 1 {
		t.Errorf("finished games logged = %d, want 1", mates)
	}
}
