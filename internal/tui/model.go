// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
	"github.com/verte-zerg/mathdrill/internal/session"
)

type phase int

const (
	phaseName phase = iota
	phaseDifficulty
	phasePractice
	phaseDone
)

// Model implements the Bubble Tea practice UI.
type Model struct {
	opts session.Options
	cfg  model.Config

	phase  phase
	input  textinput.Model
	choice int

	sess        *session.Session
	puzzle      puzzle.Puzzle
	last        *session.Outcome
	notice      string
	err         error
	interrupted bool

	width  int
	height int
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	problemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice TUI model. When neither prompt is
// requested the session starts immediately.
func NewModel(opts session.Options) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()
	m := &Model{
		opts:   opts,
		cfg:    opts.Config,
		input:  input,
		choice: int(opts.Config.Difficulty),
	}
	switch {
	case opts.AskName:
		m.phase = phaseName
		m.input.Placeholder = session.DefaultName
	case opts.AskDifficulty:
		m.phase = phaseDifficulty
	default:
		m.startSession()
	}
	return m
}

// Session returns the running session, or nil if setup did not finish.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Err returns the error that stopped the UI, if any.
func (m *Model) Err() error {
	return m.err
}

// Interrupted reports whether the learner quit before the last puzzle.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			if m.phase != phaseDone {
				m.interrupted = m.sess != nil
				m.phase = phaseDone
			}
			return m, tea.Quit
		}
		switch m.phase {
		case phaseName:
			return m.updateName(msg)
		case phaseDifficulty:
			return m.updateDifficulty(msg)
		case phasePractice:
			return m.updatePractice(msg)
		default:
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.cfg.Name = strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.input.Placeholder = ""
	if m.opts.AskDifficulty {
		m.phase = phaseDifficulty
		return m, nil
	}
	return m, m.startSession()
}

func (m *Model) updateDifficulty(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.choice = max(m.choice-1, 0)
	case "down", "j":
		m.choice = min(m.choice+1, len(model.Difficulties)-1)
	case "1", "2", "3":
		d, err := model.ParseDifficulty(msg.String())
		if err == nil {
			m.choice = int(d)
			return m, m.startSession()
		}
	case "enter":
		return m, m.startSession()
	}
	return m, nil
}

func (m *Model) updatePractice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	outcome, err := m.sess.Submit(m.input.Value())
	m.input.Reset()
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.last = &outcome
	if m.sess.Done() {
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, m.nextPuzzle()
}

func (m *Model) startSession() tea.Cmd {
	if m.opts.AskDifficulty {
		m.cfg.Difficulty = model.Difficulties[m.choice]
	}
	sess, err := m.opts.Start(m.cfg)
	if err != nil {
		m.err = err
		m.phase = phaseDone
		return tea.Quit
	}
	m.sess = sess
	m.phase = phasePractice
	m.input.Placeholder = "answer"
	return m.nextPuzzle()
}

func (m *Model) nextPuzzle() tea.Cmd {
	p, err := m.sess.NextPuzzle()
	if err != nil {
		m.phase = phaseDone
		return tea.Quit
	}
	m.puzzle = p
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseDone {
		return ""
	}
	var body string
	switch m.phase {
	case phaseName:
		body = m.viewName()
	case phaseDifficulty:
		body = m.viewDifficulty()
	default:
		body = m.viewPractice()
	}
	content := titleStyle.Render("MATH DRILL") + "\n\n" + body
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyLines := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return bodyLines + "\n" + footerLine
}

func (m *Model) viewName() string {
	return "Welcome! What's your name?\n\n" + m.input.View()
}

func (m *Model) viewDifficulty() string {
	lines := []string{"Choose your starting difficulty:", ""}
	for i, d := range model.Difficulties {
		line := fmt.Sprintf("%d. %-7s %s", i+1, d, mutedStyle.Render("("+puzzle.RulesFor(d).Describe()+")"))
		if i == m.choice {
			line = selectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", mutedStyle.Render("1/2/3 or ↑/↓ + enter"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewPractice() string {
	lines := []string{
		mutedStyle.Render(fmt.Sprintf("Question %d/%d · %s", m.sess.Asked(), m.sess.Total(), m.puzzle.Difficulty)),
		"",
		problemStyle.Render(m.puzzle.String()),
		"",
		m.input.View(),
		"",
	}
	if m.notice != "" {
		lines = append(lines, incorrectStyle.Render(m.notice))
	} else if m.last != nil {
		lines = append(lines, m.renderOutcome(*m.last))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderOutcome(o session.Outcome) string {
	var result string
	if o.Correct {
		result = correctStyle.Render("Correct!")
	} else {
		result = incorrectStyle.Render(fmt.Sprintf("Wrong! %s = %d", strings.TrimSuffix(o.Puzzle.String(), " = ?"), o.Puzzle.Answer))
	}
	change := fmt.Sprintf("Keeping %s level", o.To)
	if o.Changed() {
		change = fmt.Sprintf("Difficulty adjusted: %s → %s", o.From, o.To)
	}
	return result + "  " + mutedStyle.Render(fmt.Sprintf("%.2fs · %s", o.Elapsed.Seconds(), change))
}

func (m *Model) renderFooter() string {
	if m.sess == nil {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Progress %d/%d", m.sess.Asked(), m.sess.Total()),
		fmt.Sprintf("Level %s", m.sess.Current()),
	}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Accuracy (last %d) %.1f%%", m.sess.Config().Window, m.last.RecentAccuracy))
	}
	segments = append(segments, "esc to finish")
	return footerStyle.Render(strings.Join(segments, "  "))
}
