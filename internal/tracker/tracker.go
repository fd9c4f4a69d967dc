// Package tracker keeps the in-memory attempt log for a practice session.
package tracker

import (
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// TrendWindow is the number of recent attempts reported in a summary trend.
const TrendWindow = 5

// Tracker records attempts in order and answers windowed queries.
type Tracker struct {
	userName  string
	records   []model.AttemptRecord
	startedAt time.Time
	now       func() time.Time
}

// New starts a tracker for userName using the wall clock.
func New(userName string) *Tracker {
	return NewWithClock(userName, time.Now)
}

// NewWithClock starts a tracker with a custom clock.
func NewWithClock(userName string, now func() time.Time) *Tracker {
	return &Tracker{
		userName:  userName,
		startedAt: now(),
		now:       now,
	}
}

// UserName returns the learner's name.
func (t *Tracker) UserName() string {
	return t.userName
}

// StartedAt returns when the tracker was created.
func (t *Tracker) StartedAt() time.Time {
	return t.startedAt
}

// Log appends an attempt. A zero AnsweredAt is filled from the clock.
func (t *Tracker) Log(rec model.AttemptRecord) {
	if rec.AnsweredAt.IsZero() {
		rec.AnsweredAt = t.now()
	}
	t.records = append(t.records, rec)
}

// Records returns a copy of all attempts, oldest first.
func (t *Tracker) Records() []model.AttemptRecord {
	out := make([]model.AttemptRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of logged attempts.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Accuracy returns the percentage of correct attempts over the last recentN
// attempts, or over all attempts when recentN <= 0.
func (t *Tracker) Accuracy(recentN int) float64 {
	records := t.last(recentN)
	if len(records) == 0 {
		return 0
	}
	return float64(countCorrect(records)) / float64(len(records)) * 100
}

// AverageTime returns the mean elapsed time over the last recentN attempts,
// or over all attempts when recentN <= 0.
func (t *Tracker) AverageTime(recentN int) time.Duration {
	records := t.last(recentN)
	if len(records) == 0 {
		return 0
	}
	return sumElapsed(records) / time.Duration(len(records))
}

// RecentCorrectness returns the correctness flags of the last n attempts, oldest first.
func (t *Tracker) RecentCorrectness(n int) []bool {
	records := t.last(n)
	out := make([]bool, len(records))
	for i, r := range records {
		out[i] = r.Correct
	}
	return out
}

// RecentTimes returns the elapsed seconds of the last n attempts, oldest first.
func (t *Tracker) RecentTimes(n int) []float64 {
	records := t.last(n)
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Elapsed.Seconds()
	}
	return out
}

// DifficultyStats breaks attempts down by level, easiest first, skipping
// levels with no attempts.
func (t *Tracker) DifficultyStats() []model.DifficultyStats {
	var out []model.DifficultyStats
	for _, d := range model.Difficulties {
		var matched []model.AttemptRecord
		for _, r := range t.records {
			if r.Difficulty == d {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			continue
		}
		correct := countCorrect(matched)
		out = append(out, model.DifficultyStats{
			Difficulty: d,
			Attempts:   len(matched),
			Correct:    correct,
			Accuracy:   float64(correct) / float64(len(matched)) * 100,
			AvgTime:    sumElapsed(matched) / time.Duration(len(matched)),
		})
	}
	return out
}

// Duration returns the time since the tracker started.
func (t *Tracker) Duration() time.Duration {
	return t.now().Sub(t.startedAt)
}

// Summary builds the end-of-session summary.
func (t *Tracker) Summary() model.SessionSummary {
	return model.SessionSummary{
		UserName:        t.userName,
		TotalPuzzles:    len(t.records),
		TotalCorrect:    countCorrect(t.records),
		OverallAccuracy: t.Accuracy(0),
		AverageTime:     t.AverageTime(0),
		Duration:        t.Duration(),
		ByDifficulty:    t.DifficultyStats(),
		RecentTrend:     t.RecentCorrectness(TrendWindow),
	}
}

func (t *Tracker) last(n int) []model.AttemptRecord {
	if n <= 0 || n >= len(t.records) {
		return t.records
	}
	return t.records[len(t.records)-n:]
}

func countCorrect(records []model.AttemptRecord) int {
	n := 0
	for _, r := range records {
		if r.Correct {
			n++
		}
	}
	return n
}

func sumElapsed(records []model.AttemptRecord) time.Duration {
	var total time.Duration
	for _, r := range records {
		total += r.Elapsed
	}
	return total
}
