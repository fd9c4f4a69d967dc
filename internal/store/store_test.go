package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "mathdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertTestSession(t *testing.T, st *Store, uid, name string, ended time.Time, attempts []model.AttemptRecord) int64 {
	t.Helper()
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	stats := model.SessionStats{
		UID:             uid,
		StartedAt:       ended.Add(-time.Minute),
		EndedAt:         ended,
		UserName:        name,
		StartDifficulty: model.Easy,
		EndDifficulty:   model.Medium,
		Puzzles:         len(attempts),
		Correct:         correct,
		HighAcc:         75,
		LowAcc:          50,
		MinAttempts:     2,
		DurationMs:      time.Minute.Milliseconds(),
	}
	id, err := st.InsertSession(context.Background(), stats, attempts)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	attempts := []model.AttemptRecord{
		{PuzzleID: 1, Difficulty: model.Easy, Problem: "2 + 3 = ?", Correct: true, Elapsed: 1500 * time.Millisecond, UserAnswer: 5, CorrectAnswer: 5, AnsweredAt: base},
		{PuzzleID: 2, Difficulty: model.Medium, Problem: "7 * 6 = ?", Correct: false, Elapsed: 4 * time.Second, UserAnswer: 41, CorrectAnswer: 42, AnsweredAt: base},
	}
	second := insertTestSession(t, st, "b", "Bo", base.Add(time.Hour), attempts)
	first := insertTestSession(t, st, "a", "Ada", base, attempts)

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != first || sessions[1].SessionID != second {
		t.Fatalf("expected sessions ordered by end time: %+v", sessions)
	}
	got := sessions[0]
	if got.UID != "a" || got.UserName != "Ada" || got.Puzzles != 2 || got.Correct != 1 || got.EndDifficulty != model.Medium {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.EndedAt.Equal(base) {
		t.Fatalf("expected ended_at %v, got %v", base, got.EndedAt)
	}

	byName, err := st.ListSessions(ctx, model.StatsConfig{Name: "Bo"})
	if err != nil {
		t.Fatalf("list sessions by name: %v", err)
	}
	if len(byName) != 1 || byName[0].SessionID != second {
		t.Fatalf("unexpected name filter result: %+v", byName)
	}
	since := base.Add(time.Minute)
	bySince, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions since: %v", err)
	}
	if len(bySince) != 1 || bySince[0].SessionID != second {
		t.Fatalf("unexpected since filter result: %+v", bySince)
	}

	stored, err := st.ListAttempts(ctx, first)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(stored) != 2 || stored[1].Problem != "7 * 6 = ?" || stored[1].Correct || stored[0].Elapsed != 1500*time.Millisecond {
		t.Fatalf("unexpected attempts: %+v", stored)
	}
}

func TestListDifficultyAggregates(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := insertTestSession(t, st, "a", "Ada", base, []model.AttemptRecord{
		{PuzzleID: 1, Difficulty: model.Easy, Correct: true, Elapsed: time.Second, AnsweredAt: base},
		{PuzzleID: 2, Difficulty: model.Easy, Correct: false, Elapsed: 3 * time.Second, AnsweredAt: base},
		{PuzzleID: 3, Difficulty: model.Hard, Correct: true, Elapsed: 8 * time.Second, AnsweredAt: base},
	})

	aggs, err := st.ListDifficultyAggregates(context.Background(), []int64{id})
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 levels, got %+v", aggs)
	}
	easy := aggs[0]
	if easy.Difficulty != model.Easy || easy.Attempts != 2 || easy.Correct != 1 || easy.TimeSumMs != 4000 {
		t.Fatalf("unexpected easy aggregate: %+v", easy)
	}
	if aggs[1].Difficulty != model.Hard || aggs[1].Attempts != 1 {
		t.Fatalf("unexpected hard aggregate: %+v", aggs[1])
	}

	none, err := st.ListDifficultyAggregates(context.Background(), nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil for no sessions, got %v (%v)", none, err)
	}
}

func TestInsertSessionDuplicateUIDRollsBack(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	insertTestSession(t, st, "dup", "Ada", base, nil)
	_, err := st.InsertSession(context.Background(), model.SessionStats{UID: "dup", StartedAt: base, EndedAt: base}, nil)
	if err == nil {
		t.Fatalf("expected unique constraint error")
	}
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
}
