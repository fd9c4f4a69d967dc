// Package puzzle builds arithmetic puzzles for a difficulty level.
package puzzle

import (
	"fmt"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Operator is an arithmetic operator.
type Operator string

// Supported operators.
const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "*"
	Div Operator = "/"
)

// Puzzle is a single arithmetic problem with its integer answer.
type Puzzle struct {
	Operand1   int
	Operand2   int
	Op         Operator
	Answer     int
	Difficulty model.Difficulty
}

// String renders the problem as shown to the learner.
func (p Puzzle) String() string {
	return fmt.Sprintf("%d %s %d = ?", p.Operand1, p.Op, p.Operand2)
}

// Check reports whether answer solves p.
func (p Puzzle) Check(answer int) bool {
	return answer == p.Answer
}

// Rules describes operand ranges and operators for a difficulty level.
type Rules struct {
	Min       int
	Max       int
	Operators []Operator
}

var rulesByDifficulty = map[model.Difficulty]Rules{
	model.Easy:   {Min: 1, Max: 10, Operators: []Operator{Add, Sub}},
	model.Medium: {Min: 5, Max: 50, Operators: []Operator{Add, Sub, Mul}},
	model.Hard:   {Min: 10, Max: 100, Operators: []Operator{Add, Sub, Mul, Div}},
}

// RulesFor returns the generation rules for d. Unknown levels use Easy rules.
func RulesFor(d model.Difficulty) Rules {
	rules, ok := rulesByDifficulty[d]
	if !ok {
		return rulesByDifficulty[model.Easy]
	}
	return rules
}

// Describe returns a short menu label such as "1-10, + -".
func (r Rules) Describe() string {
	ops := ""
	for i, op := range r.Operators {
		if i > 0 {
			ops += " "
		}
		ops += string(op)
	}
	return fmt.Sprintf("%d-%d, %s", r.Min, r.Max, ops)
}

// Validate checks that p respects its level's ranges and operator set.
func Validate(p Puzzle) error {
	if !p.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %d", int(p.Difficulty))
	}
	rules := RulesFor(p.Difficulty)
	allowed := false
	for _, op := range rules.Operators {
		if op == p.Op {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("operator %q not allowed at %s", p.Op, p.Difficulty)
	}
	if p.Operand1 < rules.Min || p.Operand1 > rules.Max {
		return fmt.Errorf("operand %d outside %d-%d", p.Operand1, rules.Min, rules.Max)
	}
	if p.Operand2 < 1 || p.Operand2 > rules.Max {
		return fmt.Errorf("operand %d outside 1-%d", p.Operand2, rules.Max)
	}
	if want := apply(p.Op, p.Operand1, p.Operand2); want != p.Answer {
		return fmt.Errorf("answer %d does not match %d", p.Answer, want)
	}
	return nil
}

func apply(op Operator, a, b int) int {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return 0
	}
}
