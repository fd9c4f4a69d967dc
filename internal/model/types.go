// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Name        string
	Difficulty  Difficulty
	Puzzles     int
	Window      int
	HighAcc     float64
	LowAcc      float64
	MinAttempts int
	Seed        int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Name        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// AttemptRecord captures a single answered puzzle.
type AttemptRecord struct {
	PuzzleID      int
	Difficulty    Difficulty
	Problem       string
	Correct       bool
	Elapsed       time.Duration
	UserAnswer    int
	CorrectAnswer int
	AnsweredAt    time.Time
}

// DifficultyStats summarizes attempts made at one difficulty level.
type DifficultyStats struct {
	Difficulty Difficulty
	Attempts   int
	Correct    int
	Accuracy   float64
	AvgTime    time.Duration
}

// SessionSummary describes a finished or interrupted practice session.
type SessionSummary struct {
	UserName        string
	TotalPuzzles    int
	TotalCorrect    int
	OverallAccuracy float64
	AverageTime     time.Duration
	Duration        time.Duration
	ByDifficulty    []DifficultyStats
	RecentTrend     []bool
}

// SessionStats captures a completed session for persistence.
type SessionStats struct {
	UID             string
	StartedAt       time.Time
	EndedAt         time.Time
	UserName        string
	StartDifficulty Difficulty
	EndDifficulty   Difficulty
	Puzzles         int
	Correct         int
	HighAcc         float64
	LowAcc          float64
	MinAttempts     int
	DurationMs      int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID       int64
	UID             string
	UserName        string
	EndedAt         time.Time
	StartDifficulty Difficulty
	EndDifficulty   Difficulty
	Puzzles         int
	Correct         int
	DurationMs      int64
}

// DifficultyAggregate aggregates stored attempts per difficulty.
type DifficultyAggregate struct {
	Difficulty Difficulty
	Attempts   int
	Correct    int
	TimeSumMs  int64
}
