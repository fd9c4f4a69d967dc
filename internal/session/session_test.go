package session

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/adaptive"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
)

// fixedSource returns 2 + 3 at whatever level is requested and remembers the levels.
type fixedSource struct {
	levels []model.Difficulty
}

func (f *fixedSource) Generate(d model.Difficulty) puzzle.Puzzle {
	f.levels = append(f.levels, d)
	return puzzle.Puzzle{Operand1: 2, Operand2: 3, Op: puzzle.Add, Answer: 5, Difficulty: d}
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() model.Config {
	return model.Config{
		Name:        "Ada",
		Difficulty:  model.Easy,
		Puzzles:     4,
		Window:      5,
		HighAcc:     75,
		LowAcc:      50,
		MinAttempts: 2,
	}
}

func newTestSession(t *testing.T, cfg model.Config) (*Session, *fixedSource, *stepClock) {
	t.Helper()
	src := &fixedSource{}
	clock := &stepClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	s, err := NewWithClock(cfg, src, clock.Now)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, src, clock
}

func answer(t *testing.T, s *Session, clock *stepClock, input string, took time.Duration) Outcome {
	t.Helper()
	if _, err := s.NextPuzzle(); err != nil {
		t.Fatalf("next puzzle: %v", err)
	}
	clock.advance(took)
	out, err := s.Submit(input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return out
}

func TestSessionRaisesDifficultyOnFastCorrectAnswers(t *testing.T) {
	s, src, clock := newTestSession(t, testConfig())

	first := answer(t, s, clock, "5", 3*time.Second)
	if !first.Correct || first.Changed() {
		t.Fatalf("expected correct answer without change below min attempts: %+v", first)
	}
	if first.Elapsed != 3*time.Second {
		t.Fatalf("expected 3s elapsed, got %v", first.Elapsed)
	}
	second := answer(t, s, clock, "5", 3*time.Second)
	if second.From != model.Easy || second.To != model.Medium {
		t.Fatalf("expected easy -> medium, got %s -> %s", second.From, second.To)
	}
	answer(t, s, clock, "5", 3*time.Second)

	if s.Current() != model.Hard {
		t.Fatalf("expected hard, got %s", s.Current())
	}
	want := []model.Difficulty{model.Easy, model.Easy, model.Medium}
	for i, d := range want {
		if src.levels[i] != d {
			t.Fatalf("puzzle %d generated at %s, want %s", i+1, src.levels[i], d)
		}
	}
	if got := len(s.History()); got != 3 {
		t.Fatalf("expected 3 decisions, got %d", got)
	}
}

func TestSessionLowersDifficultyOnWrongAnswers(t *testing.T) {
	cfg := testConfig()
	cfg.Difficulty = model.Hard
	s, _, clock := newTestSession(t, cfg)

	first := answer(t, s, clock, "1", 4*time.Second)
	if first.Correct || first.RecentAccuracy != 0 {
		t.Fatalf("expected wrong answer: %+v", first)
	}
	second := answer(t, s, clock, "-7", 4*time.Second)
	if second.To != model.Medium {
		t.Fatalf("expected hard -> medium, got %s", second.To)
	}
}

func TestSessionInvalidInputKeepsPuzzle(t *testing.T) {
	s, src, clock := newTestSession(t, testConfig())
	p, err := s.NextPuzzle()
	if err != nil {
		t.Fatalf("next puzzle: %v", err)
	}
	if _, err := s.Submit("  "); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if _, err := s.Submit("five"); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
	again, err := s.NextPuzzle()
	if err != nil || again != p {
		t.Fatalf("expected pending puzzle again, got %v (%v)", again, err)
	}
	if s.Asked() != 1 || len(src.levels) != 1 {
		t.Fatalf("expected one puzzle asked, got %d", s.Asked())
	}
	clock.advance(2 * time.Second)
	out, err := s.Submit("5")
	if err != nil || !out.Correct {
		t.Fatalf("expected correct answer, got %+v (%v)", out, err)
	}
	if len(s.History()) != 1 {
		t.Fatalf("invalid input must not reach the controller")
	}
}

func TestSessionFinishes(t *testing.T) {
	cfg := testConfig()
	cfg.Puzzles = 2
	s, _, clock := newTestSession(t, cfg)
	answer(t, s, clock, "5", time.Second)
	if s.Done() {
		t.Fatalf("session finished early")
	}
	answer(t, s, clock, "4", time.Second)
	if !s.Done() {
		t.Fatalf("expected session to be done")
	}
	if _, err := s.NextPuzzle(); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
	if _, err := s.Submit("5"); !errors.Is(err, ErrNoPuzzle) {
		t.Fatalf("expected ErrNoPuzzle, got %v", err)
	}

	summary := s.Summary()
	if summary.TotalPuzzles != 2 || summary.TotalCorrect != 1 || summary.OverallAccuracy != 50 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	stats := s.Stats()
	if stats.UID == "" || stats.UserName != "Ada" || stats.Puzzles != 2 || stats.DurationMs != 2000 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.LowAcc = 90
	if _, err := New(cfg, &fixedSource{}); !errors.Is(err, adaptive.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	cfg = testConfig()
	cfg.Puzzles = 0
	if _, err := New(cfg, &fixedSource{}); err == nil {
		t.Fatalf("expected error for zero puzzles")
	}
}

func TestNewDefaultsName(t *testing.T) {
	cfg := testConfig()
	cfg.Name = "   "
	s, _, _ := newTestSession(t, cfg)
	if s.Summary().UserName != DefaultName {
		t.Fatalf("expected default name, got %q", s.Summary().UserName)
	}
}

func TestParseAnswer(t *testing.T) {
	if v, err := ParseAnswer(" -12 "); err != nil || v != -12 {
		t.Fatalf("expected -12, got %d (%v)", v, err)
	}
	if _, err := ParseAnswer("1.5"); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}
