package puzzle

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Generator produces random puzzles.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds one puzzle for the difficulty level.
func (g *Generator) Generate(d model.Difficulty) Puzzle {
	if !d.Valid() {
		d = model.Easy
	}
	rules := RulesFor(d)
	a := g.intBetween(rules.Min, rules.Max)
	b := g.intBetween(max(1, rules.Min/2), rules.Max)
	op := rules.Operators[g.rnd.Intn(len(rules.Operators))]
	if op == Div {
		// The divisor is a fraction of the dividend; answers use integer division.
		b = max(1, a/g.intBetween(2, 5))
	}
	return Puzzle{
		Operand1:   a,
		Operand2:   b,
		Op:         op,
		Answer:     apply(op, a, b),
		Difficulty: d,
	}
}

// GenerateBatch builds count puzzles for the difficulty level.
func (g *Generator) GenerateBatch(d model.Difficulty, count int) []Puzzle {
	result := make([]Puzzle, 0, max(count, 0))
	for i := 0; i < count; i++ {
		result = append(result, g.Generate(d))
	}
	return result
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
