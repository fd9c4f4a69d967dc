package model

import (
	"fmt"
	"strings"
)

// Difficulty is an ordered puzzle difficulty level.
type Difficulty int

// Difficulty levels in ascending order.
const (
	Easy Difficulty = iota
	Medium
	Hard
)

// MinDifficulty and MaxDifficulty bound the level range.
const (
	MinDifficulty = Easy
	MaxDifficulty = Hard
)

// Difficulties lists every level from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// String returns the upper-case level name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "EASY"
	case Medium:
		return "MEDIUM"
	case Hard:
		return "HARD"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of the defined levels.
func (d Difficulty) Valid() bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}

// Next returns the next harder level, saturating at Hard.
func (d Difficulty) Next() Difficulty {
	if d >= MaxDifficulty {
		return MaxDifficulty
	}
	if d < MinDifficulty {
		return MinDifficulty
	}
	return d + 1
}

// Prev returns the next easier level, saturating at Easy.
func (d Difficulty) Prev() Difficulty {
	if d <= MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d - 1
}

// ParseDifficulty accepts a level name (case-insensitive) or its menu number 1-3.
func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "1":
		return Easy, nil
	case "medium", "2":
		return Medium, nil
	case "hard", "3":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown difficulty %q (want easy, medium, hard or 1-3)", value)
	}
}
