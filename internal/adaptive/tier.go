package adaptive

import "github.com/verte-zerg/mathdrill/internal/model"

// Time bounds in seconds. The strong/weak tiers use the outer pair, the
// middle band the inner pair.
const (
	fastTime       = 10.0
	slowTime       = 20.0
	middleFastTime = 12.0
	middleSlowTime = 18.0

	middleHighAccuracy = 65.0
	middleLowAccuracy  = 45.0
)

// Tier is the rule band a decision fell into.
type Tier int

const (
	// TierHold means the sample was too small or the middle band kept the level.
	TierHold Tier = iota
	// TierStrong is high accuracy with fast answers.
	TierStrong
	// TierWeak is low accuracy or slow answers.
	TierWeak
	// TierMiddleUp is the middle band leaning strong.
	TierMiddleUp
	// TierMiddleDown is the middle band leaning weak.
	TierMiddleDown
)

// String returns a short name for the tier.
func (t Tier) String() string {
	switch t {
	case TierHold:
		return "hold"
	case TierStrong:
		return "strong"
	case TierWeak:
		return "weak"
	case TierMiddleUp:
		return "middle_up"
	case TierMiddleDown:
		return "middle_down"
	default:
		return "unknown"
	}
}

// Classify evaluates the strong, weak and middle tiers in that order and
// returns the first match. avgTime may be +Inf.
func Classify(cfg Config, accuracy, avgTime float64) Tier {
	if accuracy >= cfg.HighAccuracy && avgTime < fastTime {
		return TierStrong
	}
	if accuracy <= cfg.LowAccuracy || avgTime > slowTime {
		return TierWeak
	}
	if accuracy > middleHighAccuracy && avgTime < middleFastTime {
		return TierMiddleUp
	}
	if accuracy < middleLowAccuracy || avgTime > middleSlowTime {
		return TierMiddleDown
	}
	return TierHold
}

// Apply moves d one step in the direction the tier calls for.
func (t Tier) Apply(d model.Difficulty) model.Difficulty {
	switch t {
	case TierStrong, TierMiddleUp:
		return d.Next()
	case TierWeak, TierMiddleDown:
		return d.Prev()
	default:
		return d
	}
}
