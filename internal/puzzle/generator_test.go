package puzzle

import (
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestGenerateRespectsRules(t *testing.T) {
	gen := NewSeeded(42)
	for _, d := range model.Difficulties {
		rules := RulesFor(d)
		seenOps := map[Operator]bool{}
		for _, p := range gen.GenerateBatch(d, 500) {
			if err := Validate(p); err != nil {
				t.Fatalf("%s puzzle %s invalid: %v", d, p, err)
			}
			if p.Difficulty != d {
				t.Fatalf("expected difficulty %s, got %s", d, p.Difficulty)
			}
			if p.Op != Div && p.Operand2 < max(1, rules.Min/2) {
				t.Fatalf("second operand %d below %d", p.Operand2, rules.Min/2)
			}
			seenOps[p.Op] = true
		}
		if len(seenOps) != len(rules.Operators) {
			t.Fatalf("%s: expected all %d operators, saw %v", d, len(rules.Operators), seenOps)
		}
	}
}

func TestGenerateDivisionDivisor(t *testing.T) {
	gen := NewSeeded(7)
	found := false
	for _, p := range gen.GenerateBatch(model.Hard, 400) {
		if p.Op != Div {
			continue
		}
		found = true
		if p.Operand2 < p.Operand1/5 || p.Operand2 > p.Operand1/2 {
			t.Fatalf("divisor %d not within dividend/5..dividend/2 for %d", p.Operand2, p.Operand1)
		}
		if p.Answer != p.Operand1/p.Operand2 {
			t.Fatalf("unexpected quotient for %s: %d", p, p.Answer)
		}
	}
	if !found {
		t.Fatalf("expected at least one division puzzle")
	}
}

func TestGenerateSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(99).GenerateBatch(model.Medium, 20)
	b := NewSeeded(99).GenerateBatch(model.Medium, 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("puzzle %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestGenerateInvalidDifficultyFallsBackToEasy(t *testing.T) {
	p := NewSeeded(1).Generate(model.Difficulty(9))
	if p.Difficulty != model.Easy {
		t.Fatalf("expected easy fallback, got %s", p.Difficulty)
	}
}

func TestPuzzleStringAndCheck(t *testing.T) {
	p := Puzzle{Operand1: 12, Operand2: 4, Op: Div, Answer: 3, Difficulty: model.Hard}
	if p.String() != "12 / 4 = ?" {
		t.Fatalf("unexpected text %q", p.String())
	}
	if !p.Check(3) || p.Check(4) {
		t.Fatalf("unexpected check result")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []Puzzle{
		{Operand1: 3, Operand2: 2, Op: Mul, Answer: 6, Difficulty: model.Easy},
		{Operand1: 11, Operand2: 2, Op: Add, Answer: 13, Difficulty: model.Easy},
		{Operand1: 3, Operand2: 2, Op: Add, Answer: 6, Difficulty: model.Easy},
		{Operand1: 3, Operand2: 2, Op: Add, Answer: 5, Difficulty: model.Difficulty(5)},
	}
	for _, p := range cases {
		if err := Validate(p); err == nil {
			t.Fatalf("expected %+v to be rejected", p)
		}
	}
}

func TestRulesDescribe(t *testing.T) {
	if got := RulesFor(model.Medium).Describe(); got != "5-50, + - *" {
		t.Fatalf("unexpected description %q", got)
	}
}
