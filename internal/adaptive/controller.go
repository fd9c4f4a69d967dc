package adaptive

import (
	"math"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// DecisionRecord is one entry of the controller's history.
type DecisionRecord struct {
	Attempt  int
	From     model.Difficulty
	To       model.Difficulty
	Accuracy float64 // percent
	AvgTime  float64 // seconds
}

// Changed reports whether the decision moved the difficulty.
func (r DecisionRecord) Changed() bool {
	return r.From != r.To
}

// Controller decides the next difficulty and keeps a history of decisions.
// It is not safe for concurrent use; each session owns its own controller.
type Controller struct {
	cfg      Config
	attempts int
	history  []DecisionRecord
}

// NewController validates cfg and returns an empty controller.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg}, nil
}

// NewDefaultController returns a controller using DefaultConfig.
func NewDefaultController() *Controller {
	return &Controller{cfg: DefaultConfig()}
}

// Config returns the controller's thresholds.
func (c *Controller) Config() Config {
	return c.cfg
}

// DecideNext returns the difficulty for the next puzzle given the recent
// window, oldest first. Every call counts as an attempt and appends one
// DecisionRecord. recentTimes may differ in length from recentCorrect; an
// empty recentTimes is treated as the slowest possible average.
func (c *Controller) DecideNext(current model.Difficulty, recentCorrect []bool, recentTimes []float64) model.Difficulty {
	c.attempts++

	accuracy := accuracyPercent(recentCorrect)
	avgTime := mean(recentTimes)

	next := current
	if len(recentCorrect) > 0 && len(recentCorrect) >= c.cfg.MinAttempts {
		decisionTime := avgTime
		if len(recentTimes) == 0 {
			decisionTime = math.Inf(1)
		}
		next = Classify(c.cfg, accuracy, decisionTime).Apply(current)
	}

	c.history = append(c.history, DecisionRecord{
		Attempt:  c.attempts,
		From:     current,
		To:       next,
		Accuracy: accuracy,
		AvgTime:  avgTime,
	})
	return next
}

// History returns a copy of all decisions, oldest first.
func (c *Controller) History() []DecisionRecord {
	out := make([]DecisionRecord, len(c.history))
	copy(out, c.history)
	return out
}

// Attempts returns the number of DecideNext calls since construction or Reset.
func (c *Controller) Attempts() int {
	return c.attempts
}

// Reset clears the history and the attempt counter.
func (c *Controller) Reset() {
	c.history = nil
	c.attempts = 0
}

func accuracyPercent(results []bool) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(results)) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
