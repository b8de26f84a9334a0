package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/model"
)

type memArchive struct {
	mu      sync.Mutex
	records map[string]model.GameRecord
}

func newMemArchive() *memArchive {
	return &memArchive{records: make(map[string]model.GameRecord)}
}

func (a *memArchive) Save(rec model.GameRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[rec.ID] = rec
	return nil
}

func (a *memArchive) Load(id string) (*model.GameRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rec, nil
}

func (a *memArchive) List() ([]model.GameRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []model.GameRecord
	for _, rec := range a.records {
		out = append(out, rec)
	}
	return out, nil
}

// bookBot answers from a fixed FEN -> move table.
type bookBot map[string]string

func (b bookBot) Suggest(ctx context.Context, req model.SuggestionRequest) (string, error) {
	if move, ok := b[req.FEN]; ok {
		return move, nil
	}
	return "", errors.New("out of book")
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestFoolsMateIsArchived(t *testing.T) {
	archive := newMemArchive()
	svc := NewGameService(NewGameManager(ManagerOptions{Archive: archive}))

	gameID, err := svc.CreateGame(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c, err := svc.JoinGame(gameID, "alice"); err != nil || c != model.White {
		t.Fatalf("alice joined as %v, %v", c, err)
	}
	if c, err := svc.JoinGame(gameID, "bob"); err != nil || c != model.Black {
		t.Fatalf("bob joined as %v, %v", c, err)
	}
	if _, err := svc.JoinGame(gameID, "carol"); !errors.Is(err, model.ErrGameFull) {
		t.Fatalf("third player: %v", err)
	}

	moves := []struct{ player, from, to string }{
		{"alice", "f2", "f3"},
		{"bob", "e7", "e5"},
		{"alice", "g2", "g4"},
		{"bob", "d8", "h4"},
	}
	for _, m := range moves {
		if err := svc.HandleMove(gameID, m.player, model.MoveRequest{From: m.from, To: m.to}); err != nil {
			t.Fatalf("%s %s%s: %v", m.player, m.from, m.to, err)
		}
	}

	state, err := svc.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Phase != model.BlackWins {
		t.Fatalf("phase = %v", state.Phase)
	}

	var rec *model.GameRecord
	eventually(t, func() bool {
		rec, err = svc.GetArchivedGame(gameID)
		return err == nil
	})
	if rec.Result != model.BlackWins || len(rec.Moves) != 4 || rec.Notation[3] != "Qh4#" {
		t.Errorf("archived %+v", rec)
	}
}

func TestMoveErrors(t *testing.T) {
	svc := NewGameService(NewGameManager(ManagerOptions{}))
	gameID, _ := svc.CreateGame(nil)

	if err := svc.HandleMove(gameID, "alice", model.MoveRequest{From: "e2", To: "e4"}); !errors.Is(err, model.ErrNotPlayer) {
		t.Fatalf("move before joining: %v", err)
	}
	svc.JoinGame(gameID, "alice")
	if err := svc.HandleMove(gameID, "alice", model.MoveRequest{From: "e2", To: "e4"}); !errors.Is(err, model.ErrGameOver) {
		t.Fatalf("move before start: %v", err)
	}
	svc.JoinGame(gameID, "bob")

	tests := []struct {
		name   string
		player string
		move   model.MoveRequest
		want   error
	}{
		{"wrong turn", "bob", model.MoveRequest{From: "e7", To: "e5"}, model.ErrNotYourTurn},
		{"empty square", "alice", model.MoveRequest{From: "e4", To: "e5"}, model.ErrNoPiece},
		{"illegal", "alice", model.MoveRequest{From: "e2", To: "e5"}, model.ErrIllegalMove},
		{"bad square", "alice", model.MoveRequest{From: "z9", To: "e5"}, model.ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.HandleMove(gameID, tt.player, tt.move); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := svc.HandleMove("missing", "alice", model.MoveRequest{From: "e2", To: "e4"}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("unknown game: %v", err)
	}
	if _, err := svc.GetArchivedGame(gameID); !errors.Is(err, ErrNoArchive) {
		t.Errorf("archive lookup: %v", err)
	}
}

func TestResignAndDraw(t *testing.T) {
	svc := NewGameService(NewGameManager(ManagerOptions{}))

	gameID, _ := svc.CreateGame(nil)
	svc.JoinGame(gameID, "alice")
	svc.JoinGame(gameID, "bob")
	if err := svc.Resign(gameID, "alice"); err != nil {
		t.Fatal(err)
	}
	if state, _ := svc.GetGameState(gameID); state.Phase != model.BlackWins {
		t.Errorf("phase after resign = %v", state.Phase)
	}
	if err := svc.Resign(gameID, "bob"); !errors.Is(err, model.ErrGameOver) {
		t.Errorf("second resign: %v", err)
	}

	gameID, _ = svc.CreateGame(nil)
	svc.JoinGame(gameID, "alice")
	svc.JoinGame(gameID, "bob")
	if err := svc.OfferDraw(gameID, "alice"); err != nil {
		t.Fatal(err)
	}
	if state, _ := svc.GetGameState(gameID); state.Phase != model.InProgress || state.DrawOfferedBy == nil {
		t.Fatalf("after offer: phase %v, offer %v", state.Phase, state.DrawOfferedBy)
	}
	if err := svc.OfferDraw(gameID, "bob"); err != nil {
		t.Fatal(err)
	}
	if state, _ := svc.GetGameState(gameID); state.Phase != model.Draw {
		t.Errorf("phase after accept = %v", state.Phase)
	}
}

func TestPromotionThroughService(t *testing.T) {
	svc := NewGameService(NewGameManager(ManagerOptions{}))
	gameID, _ := svc.CreateGame(nil)
	svc.JoinGame(gameID, "alice")
	svc.JoinGame(gameID, "bob")

	if err := svc.HandlePromotion(gameID, "alice", "queen"); !errors.Is(err, model.ErrNoPromotion) {
		t.Fatalf("promotion with no pawn waiting: %v", err)
	}
	if err := svc.HandlePromotion(gameID, "alice", "dragon"); !errors.Is(err, model.ErrIllegalMove) {
		t.Fatalf("unknown piece: %v", err)
	}
}

func TestBotGame(t *testing.T) {
	book := bookBot{
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1": "e7e5",
	}
	svc := NewGameService(NewGameManager(ManagerOptions{Bot: book, BotDepth: 4}))

	black := model.Black
	gameID, err := svc.CreateGame(&black)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c, err := svc.JoinGame(gameID, "alice"); err != nil || c != model.White {
		t.Fatalf("join: %v %v", c, err)
	}
	if err := svc.HandleMove(gameID, "alice", model.MoveRequest{From: "e2", To: "e4"}); err != nil {
		t.Fatal(err)
	}

	eventually(t, func() bool {
		state, _ := svc.GetGameState(gameID)
		return state.ToMove == model.White && len(state.MoveHistory) == 1 && state.MoveHistory[0].BlackPly != nil
	})
	state, _ := svc.GetGameState(gameID)
	if state.FEN != "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2" {
		t.Errorf("fen = %s", state.FEN)
	}
	if !state.Players.Black.Bot {
		t.Error("black seat should be the bot")
	}
}

func TestBotGameWithoutBot(t *testing.T) {
	svc := NewGameService(NewGameManager(ManagerOptions{}))
	white := model.White
	if _, err := svc.CreateGame(&white); !errors.Is(err, ErrNoBot) {
		t.Fatalf("err = %v", err)
	}
}
