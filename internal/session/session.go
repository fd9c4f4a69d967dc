// Package session runs the puzzle/answer/adapt cycle shared by the front ends.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/mathdrill/internal/adaptive"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
	"github.com/verte-zerg/mathdrill/internal/tracker"
)

// Defaults for a practice session.
const (
	DefaultPuzzles = 10
	DefaultWindow  = 5
	DefaultName    = "Learner"
)

var (
	// ErrEmptyAnswer is returned when the learner submits nothing.
	ErrEmptyAnswer = errors.New("please enter a number")
	// ErrInvalidAnswer is returned when the answer is not an integer.
	ErrInvalidAnswer = errors.New("invalid input, please enter a valid number")
	// ErrNoPuzzle is returned when Submit is called without a pending puzzle.
	ErrNoPuzzle = errors.New("no puzzle pending")
	// ErrFinished is returned by NextPuzzle once the session is complete.
	ErrFinished = errors.New("session finished")
)

// Source produces puzzles for a difficulty level.
type Source interface {
	Generate(d model.Difficulty) puzzle.Puzzle
}

// Options configures a front end run: which setup prompts to show and the
// collaborators to build the session from.
type Options struct {
	Config        model.Config
	AskName       bool
	AskDifficulty bool
	Source        Source
	Now           func() time.Time
}

// Start builds the session from opts with cfg overriding opts.Config,
// filling in a clock-seeded generator and wall clock when unset.
func (o Options) Start(cfg model.Config) (*Session, error) {
	source := o.Source
	if source == nil {
		source = puzzle.New()
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}
	return NewWithClock(cfg, source, now)
}

// Outcome reports the result of one answered puzzle.
type Outcome struct {
	Puzzle         puzzle.Puzzle
	Correct        bool
	UserAnswer     int
	Elapsed        time.Duration
	From           model.Difficulty
	To             model.Difficulty
	RecentAccuracy float64
}

// Changed reports whether the difficulty moved after this answer.
func (o Outcome) Changed() bool {
	return o.From != o.To
}

// Session drives a single learner through a fixed number of puzzles.
type Session struct {
	id         string
	cfg        model.Config
	start      model.Difficulty
	current    model.Difficulty
	source     Source
	tracker    *tracker.Tracker
	controller *adaptive.Controller
	now        func() time.Time

	asked   int
	pending *puzzle.Puzzle
	shownAt time.Time
}

// New validates cfg and builds a session with a fresh controller and tracker.
func New(cfg model.Config, source Source) (*Session, error) {
	return NewWithClock(cfg, source, time.Now)
}

// NewWithClock is New with a custom clock for elapsed-time measurement.
func NewWithClock(cfg model.Config, source Source, now func() time.Time) (*Session, error) {
	if cfg.Puzzles <= 0 {
		return nil, fmt.Errorf("puzzles must be > 0")
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("window must be > 0")
	}
	if !cfg.Difficulty.Valid() {
		return nil, fmt.Errorf("invalid starting difficulty %d", int(cfg.Difficulty))
	}
	controller, err := adaptive.NewController(adaptive.Config{
		HighAccuracy: cfg.HighAcc,
		LowAccuracy:  cfg.LowAcc,
		MinAttempts:  cfg.MinAttempts,
	})
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = DefaultName
	}
	cfg.Name = name
	return &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		start:      cfg.Difficulty,
		current:    cfg.Difficulty,
		source:     source,
		tracker:    tracker.NewWithClock(name, now),
		controller: controller,
		now:        now,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Config returns the session settings.
func (s *Session) Config() model.Config {
	return s.cfg
}

// Current returns the difficulty used for the next puzzle.
func (s *Session) Current() model.Difficulty {
	return s.current
}

// Asked returns how many puzzles have been presented.
func (s *Session) Asked() int {
	return s.asked
}

// Total returns the configured number of puzzles.
func (s *Session) Total() int {
	return s.cfg.Puzzles
}

// Done reports whether every puzzle has been answered.
func (s *Session) Done() bool {
	return s.asked >= s.cfg.Puzzles && s.pending == nil
}

// Pending returns the puzzle awaiting an answer, if any.
func (s *Session) Pending() (puzzle.Puzzle, bool) {
	if s.pending == nil {
		return puzzle.Puzzle{}, false
	}
	return *s.pending, true
}

// NextPuzzle presents a new puzzle at the current difficulty and starts its
// timer. A puzzle that is still pending is returned again unchanged.
func (s *Session) NextPuzzle() (puzzle.Puzzle, error) {
	if s.pending != nil {
		return *s.pending, nil
	}
	if s.asked >= s.cfg.Puzzles {
		return puzzle.Puzzle{}, ErrFinished
	}
	p := s.source.Generate(s.current)
	s.pending = &p
	s.asked++
	s.shownAt = s.now()
	return p, nil
}

// Submit parses and checks input against the pending puzzle. Empty or
// non-numeric input returns an error and keeps the puzzle pending.
func (s *Session) Submit(input string) (Outcome, error) {
	if s.pending == nil {
		return Outcome{}, ErrNoPuzzle
	}
	answer, err := ParseAnswer(input)
	if err != nil {
		return Outcome{}, err
	}
	return s.answer(answer, s.now().Sub(s.shownAt)), nil
}

func (s *Session) answer(answer int, elapsed time.Duration) Outcome {
	p := *s.pending
	s.pending = nil
	if elapsed < 0 {
		elapsed = 0
	}

	correct := p.Check(answer)
	s.tracker.Log(model.AttemptRecord{
		PuzzleID:      s.asked,
		Difficulty:    s.current,
		Problem:       p.String(),
		Correct:       correct,
		Elapsed:       elapsed,
		UserAnswer:    answer,
		CorrectAnswer: p.Answer,
	})

	from := s.current
	s.current = s.controller.DecideNext(
		from,
		s.tracker.RecentCorrectness(s.cfg.Window),
		s.tracker.RecentTimes(s.cfg.Window),
	)
	return Outcome{
		Puzzle:         p,
		Correct:        correct,
		UserAnswer:     answer,
		Elapsed:        elapsed,
		From:           from,
		To:             s.current,
		RecentAccuracy: s.tracker.Accuracy(s.cfg.Window),
	}
}

// Summary returns the tracker's session summary.
func (s *Session) Summary() model.SessionSummary {
	return s.tracker.Summary()
}

// History returns the controller's decisions, oldest first.
func (s *Session) History() []adaptive.DecisionRecord {
	return s.controller.History()
}

// Records returns every answered attempt.
func (s *Session) Records() []model.AttemptRecord {
	return s.tracker.Records()
}

// Stats builds the persistence record for the session.
func (s *Session) Stats() model.SessionStats {
	summary := s.tracker.Summary()
	started := s.tracker.StartedAt()
	ended := started.Add(summary.Duration)
	return model.SessionStats{
		UID:             s.id,
		StartedAt:       started,
		EndedAt:         ended,
		UserName:        s.cfg.Name,
		StartDifficulty: s.start,
		EndDifficulty:   s.current,
		Puzzles:         summary.TotalPuzzles,
		Correct:         summary.TotalCorrect,
		HighAcc:         s.cfg.HighAcc,
		LowAcc:          s.cfg.LowAcc,
		MinAttempts:     s.cfg.MinAttempts,
		DurationMs:      summary.Duration.Milliseconds(),
	}
}

// ParseAnswer converts learner input to an integer.
func ParseAnswer(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrEmptyAnswer
	}
	v, err := strconv.Atoi(input)
	if err != nil {
		return 0, ErrInvalidAnswer
	}
	return v, nil
}
