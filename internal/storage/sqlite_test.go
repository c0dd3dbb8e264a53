package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, store *Store, e ScoreEntry) {
	t.Helper()
	if _, err := store.SaveScore(e); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.arcade/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".arcade", "scores.db")); err != nil {
		t.Errorf("Database not created under home: %v", err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTemp(t)

	save(t, store, ScoreEntry{GameID: "brix", Player: "ann", Score: 100, MaxCombo: 4, MaxChain: 2, Level: 3})
	save(t, store, ScoreEntry{GameID: "brix", Player: "bob", Score: 50})
	save(t, store, ScoreEntry{GameID: "brix", Player: "cid", Score: 200, MaxCombo: 6})
	save(t, store, ScoreEntry{GameID: "other", Score: 500})

	scores, err := store.TopScores("brix", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	ann := scores[1]
	if ann.Player != "ann" || ann.MaxCombo != 4 || ann.MaxChain != 2 || ann.Level != 3 {
		t.Errorf("Round trip lost fields: %+v", ann)
	}
	if scores[2].Level != 1 {
		t.Errorf("Missing level should be stored as 1, got %d", scores[2].Level)
	}
	if ann.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestStoreTopScoresLimitAndTies(t *testing.T) {
	store := openTemp(t)

	for i := range 5 {
		save(t, store, ScoreEntry{GameID: "brix", Score: (i + 1) * 100})
	}
	save(t, store, ScoreEntry{GameID: "brix", Player: "late", Score: 500})

	scores, err := store.TopScores("brix", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Player != "" || scores[1].Player != "late" || scores[2].Score != 400 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTemp(t)

	high, err := store.HighScore("brix")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	save(t, store, ScoreEntry{GameID: "brix", Score: 100})
	save(t, store, ScoreEntry{GameID: "brix", Score: 300})
	save(t, store, ScoreEntry{GameID: "other", Score: 900})

	if high, _ = store.HighScore("brix"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("brix"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("brix", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Error("Other games should not be affected by clearing brix")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTemp(t)

	empty, err := store.GameStats("brix")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	save(t, store, ScoreEntry{GameID: "brix", Score: 100, MaxCombo: 5, MaxChain: 1})
	save(t, store, ScoreEntry{GameID: "brix", Score: 300, MaxCombo: 4, MaxChain: 3})

	stats, err := store.GameStats("brix")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("Unexpected totals: %+v", stats)
	}
	if stats.BestCombo != 5 || stats.BestChain != 3 {
		t.Errorf("Unexpected bests: %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}
}

func TestStoreOnlineMatches(t *testing.T) {
	store := openTemp(t)

	var saver multiplayer.MatchResultSaver = store
	results := []multiplayer.MatchResultData{
		{MatchID: "m1", GameID: "brix", Player1Session: "ann", Player2Session: "bob", Score1: 40, Score2: 10, WinnerSession: "ann", EndReason: "completed", DurationSecs: 95},
		{MatchID: "m2", GameID: "brix", Player1Session: "bob", Player2Session: "cid", EndReason: "completed"},
		{MatchID: "m3", GameID: "brix", Player1Session: "cid", Player2Session: "ann", WinnerSession: "ann", EndReason: "disconnect"},
	}
	for _, r := range results {
		if err := saver.SaveMatchResult(r); err != nil {
			t.Fatalf("SaveMatchResult() failed: %v", err)
		}
	}
	if err := saver.SaveMatchResult(results[0]); err == nil {
		t.Error("Saving a match twice should fail")
	}

	m1, err := store.OnlineMatchByID("m1")
	if err != nil || m1 == nil {
		t.Fatalf("OnlineMatchByID() = %v, %v", m1, err)
	}
	if m1.Score1 != 40 || m1.WinnerSession != "ann" || m1.Duration != 95 {
		t.Errorf("Round trip lost fields: %+v", m1)
	}

	m2, _ := store.OnlineMatchByID("m2")
	if m2 == nil || m2.WinnerSession != "" {
		t.Errorf("Draw should have no winner: %+v", m2)
	}

	missing, err := store.OnlineMatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("OnlineMatchByID() of unknown match = %v, %v", missing, err)
	}

	recent, err := store.RecentOnlineMatches(2)
	if err != nil {
		t.Fatalf("RecentOnlineMatches() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MatchID != "m3" || recent[1].MatchID != "m2" {
		t.Errorf("Unexpected recent matches: %v", recent)
	}

	history, err := store.PlayerMatchHistory("ann", 0)
	if err != nil {
		t.Fatalf("PlayerMatchHistory() failed: %v", err)
	}
	if len(history) != 2 || history[0].MatchID != "m3" || history[1].MatchID != "m1" {
		t.Errorf("Unexpected history: %v", history)
	}
}
