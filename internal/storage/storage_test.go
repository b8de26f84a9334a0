package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/model"
)

func TestArchiveRoundTrip(t *testing.T) {
	archive, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer archive.Close()

	rec := model.GameRecord{
		ID:       "g1",
		White:    "alice",
		Black:    "bot",
		Result:   model.BlackWins,
		FinalFEN: "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		Moves:    []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Notation: []string{"f3", "e5", "g4", "Qh4#"},
		EndedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := archive.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := archive.Load("g1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Result != model.BlackWins || got.FinalFEN != rec.FinalFEN || len(got.Moves) != 4 {
		t.Errorf("loaded %+v", got)
	}
	if !got.EndedAt.Equal(rec.EndedAt) {
		t.Errorf("ended at %v, want %v", got.EndedAt, rec.EndedAt)
	}
}

func TestArchiveMissing(t *testing.T) {
	archive, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer archive.Close()

	if _, err := archive.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestArchiveList(t *testing.T) {
	archive, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer archive.Close()

	now := time.Now()
	for i, id := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": -2 * time.Hour, "mid": -time.Hour, "new": 0}[id]
		if err := archive.Save(model.GameRecord{ID: id, Result: model.Draw, EndedAt: now.Add(offset)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, err := archive.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	want := []string{"new", "mid", "old"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}
