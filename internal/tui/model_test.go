package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
	"github.com/verte-zerg/mathdrill/internal/session"
)

type fixedSource struct{}

func (fixedSource) Generate(d model.Difficulty) puzzle.Puzzle {
	return puzzle.Puzzle{Operand1: 4, Operand2: 3, Op: puzzle.Mul, Answer: 12, Difficulty: d}
}

func testOptions(askName, askDifficulty bool) session.Options {
	return session.Options{
		Config: model.Config{
			Difficulty:  model.Easy,
			Puzzles:     2,
			Window:      5,
			HighAcc:     75,
			LowAcc:      50,
			MinAttempts: 2,
		},
		AskName:       askName,
		AskDifficulty: askDifficulty,
		Source:        fixedSource{},
		Now:           func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func pressEnter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestSetupFlow(t *testing.T) {
	m := NewModel(testOptions(true, true))
	if m.Session() != nil {
		t.Fatalf("session must not start before setup")
	}
	typeText(m, "Ada")
	pressEnter(m)
	if m.phase != phaseDifficulty {
		t.Fatalf("expected difficulty phase, got %d", m.phase)
	}
	if !strings.Contains(m.View(), "Choose your starting difficulty") {
		t.Fatalf("expected difficulty menu:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	sess := m.Session()
	if sess == nil {
		t.Fatalf("expected session to start")
	}
	if sess.Current() != model.Hard || sess.Config().Name != "Ada" {
		t.Fatalf("unexpected session config: %+v", sess.Config())
	}
	if !strings.Contains(m.View(), "4 * 3 = ?") {
		t.Fatalf("expected puzzle in view:\n%s", m.View())
	}
}

func TestDifficultyArrowSelection(t *testing.T) {
	m := NewModel(testOptions(false, true))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	pressEnter(m)
	if m.Session() == nil || m.Session().Current() != model.Hard {
		t.Fatalf("expected hard after moving down past the end")
	}
	if m.Session().Config().Name != session.DefaultName {
		t.Fatalf("expected default name, got %q", m.Session().Config().Name)
	}
}

func TestPracticeFlow(t *testing.T) {
	m := NewModel(testOptions(false, false))
	if m.Session() == nil {
		t.Fatalf("expected session to start immediately")
	}

	pressEnter(m)
	if m.notice == "" {
		t.Fatalf("expected notice for empty answer")
	}
	typeText(m, "12")
	if cmd := pressEnter(m); cmd != nil {
		t.Fatalf("expected no quit after first answer")
	}
	if m.last == nil || !m.last.Correct || m.notice != "" {
		t.Fatalf("expected correct outcome, got %+v", m.last)
	}
	if !strings.Contains(m.View(), "Correct!") {
		t.Fatalf("expected feedback in view:\n%s", m.View())
	}

	typeText(m, "11")
	if cmd := pressEnter(m); cmd == nil {
		t.Fatalf("expected quit command after last answer")
	}
	if !m.Session().Done() || m.Interrupted() {
		t.Fatalf("expected finished session")
	}
	if got := m.Session().Summary().TotalCorrect; got != 1 {
		t.Fatalf("expected 1 correct, got %d", got)
	}
}

func TestEscInterrupts(t *testing.T) {
	m := NewModel(testOptions(false, false))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if !m.Interrupted() {
		t.Fatalf("expected interrupted session")
	}
}

func TestInvalidConfigStopsUI(t *testing.T) {
	opts := testOptions(false, false)
	opts.Config.MinAttempts = 0
	m := NewModel(opts)
	if m.Err() == nil || m.Session() != nil {
		t.Fatalf("expected configuration error")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(testOptions(false, false))
	typeText(m, "12")
	pressEnter(m)
	out := m.renderFooter()
	for _, want := range []string{"Progress 2/2", "Level EASY", "Accuracy (last 5) 100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
