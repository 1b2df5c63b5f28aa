package scoring

import "testing"

func TestEstimateCoherence_BaseOnly(t *testing.T) {
	// No streaks, no difficulty data, no dominant letter: the result is
	// the plain linear estimate against the reference area.
	key := AnswerKey{"A", "B", "C", "D", "E"}
	answers := []string{"A", "C", "B", "D", "A"} // items 1 and 4 correct, not adjacent

	got := EstimateCoherence(2, 5, answers, key, nil)
	want := EstimateLinear(2, 5, ReferenceArea)
	if got != want {
		t.Errorf("EstimateCoherence = %v, want base %v", got, want)
	}
}

func TestEstimateCoherence_StreakBonus(t *testing.T) {
	key := AnswerKey{"A", "B", "C", "D", "E"}

	tests := []struct {
		name    string
		answers []string
		correct int
		bonus   float64
	}{
		{"run of two earns one bonus item", []string{"A", "B", "", "D", ""}, 3, 0.5},
		{"run of three earns two bonus items", []string{"A", "B", "C", "", ""}, 3, 1.0},
		{"isolated corrects earn nothing", []string{"A", "", "C", "", "E"}, 3, 0.0},
		{"two separate runs", []string{"A", "B", "", "D", "E"}, 4, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := EstimateLinear(tt.correct, 5, ReferenceArea)
			got := EstimateCoherence(tt.correct, 5, tt.answers, key, nil)
			if want := round2(base + tt.bonus); got != want {
				t.Errorf("got %v, want base %v + bonus %v = %v", got, base, tt.bonus, want)
			}
		})
	}
}

func TestEstimateCoherence_DifficultyBonus(t *testing.T) {
	key := AnswerKey{"A", "B", "C", "D", "E"}
	answers := []string{"A", "B", "", "D", ""}
	difficulty := []float64{0.5, 0.25, 0.9, 0, 0}

	// Correct on items 1, 2 and 4: bonus = (0.5+0.25+0)*2 = 1.5, plus the
	// 0.5 streak bonus for the 1-2 run.
	base := EstimateLinear(3, 5, ReferenceArea)
	want := round2(base + 0.5 + 1.5)
	if got := EstimateCoherence(3, 5, answers, key, difficulty); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEstimateCoherence_ShortDifficultyVector(t *testing.T) {
	key := AnswerKey{"A", "B", "C"}
	answers := []string{"A", "", "C"}
	difficulty := []float64{0.4} // items 2 and 3 have no computed difficulty

	base := EstimateLinear(2, 3, ReferenceArea)
	want := round2(base + 0.4*2)
	if got := EstimateCoherence(2, 3, answers, key, difficulty); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEstimateCoherence_GuessingPenalty(t *testing.T) {
	// 20 items, 15 identical non-blank letters: share 0.75, penalty
	// (0.75-0.70)*20 = 1.0 point.
	key := AnswerKey(repeatAnswers("A", 20))
	for i := 15; i < 20; i++ {
		key[i] = "E"
	}
	answers := append(repeatAnswers("A", 15), repeatAnswers("B", 5)...)

	base := EstimateLinear(15, 20, ReferenceArea)
	streak := 14 * 0.5
	want := round2(base + streak - 1.0)
	if got := EstimateCoherence(15, 20, answers, key, nil); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEstimateCoherence_PenaltyAtThresholdShare(t *testing.T) {
	// Exactly 70% share must not be penalized; only the excess above the
	// threshold is.
	key := AnswerKey(repeatAnswers("E", 10))
	answers := append(repeatAnswers("A", 7), repeatAnswers("B", 3)...)

	base := EstimateLinear(0, 10, ReferenceArea)
	if got := EstimateCoherence(0, 10, answers, key, nil); got != base {
		t.Errorf("share at threshold penalized: got %v, want %v", got, base)
	}
}

func TestEstimateCoherence_ClampInvariant(t *testing.T) {
	b := BoundsFor(ReferenceArea)

	t.Run("upper clamp", func(t *testing.T) {
		// Perfect score plus streak and difficulty bonuses must not
		// exceed the reference ceiling.
		n := 45
		key := AnswerKey(repeatAnswers("A", n))
		answers := repeatAnswers("A", n)
		difficulty := make([]float64, n)
		for i := range difficulty {
			difficulty[i] = 1.0
		}
		if got := EstimateCoherence(n, n, answers, key, difficulty); got != b.Max {
			t.Errorf("got %v, want ceiling %v", got, b.Max)
		}
	})

	t.Run("lower clamp", func(t *testing.T) {
		// Zero correct with a uniform-guess penalty must not drop below
		// the floor.
		key := AnswerKey(repeatAnswers("E", 20))
		answers := repeatAnswers("A", 20)
		if got := EstimateCoherence(0, 20, answers, key, nil); got != b.Min {
			t.Errorf("got %v, want floor %v", got, b.Min)
		}
	})
}

func TestEstimateCoherence_EmptyInputs(t *testing.T) {
	b := BoundsFor(ReferenceArea)

	if got := EstimateCoherence(0, 0, nil, nil, nil); got != b.Min {
		t.Errorf("zero items must yield the floor, got %v", got)
	}
	if got := EstimateCoherence(0, 10, nil, nil, nil); got != b.Min {
		t.Errorf("empty answers must yield the plain base, got %v", got)
	}
}
