package scoring

// Coherence adjustment constants. These are inherited calibration values;
// changing any of them changes every published score.
const (
	streakBonusPerItem   = 0.5
	difficultyMultiplier = 2.0
	guessShareThreshold  = 0.70
	guessPenaltyFactor   = 20.0
)

// EstimateCoherence refines the linear estimate with pedagogical-coherence
// heuristics: consecutive correct answers and correct answers on hard items
// raise the score, an answer pattern dominated by a single letter lowers
// it. The base estimate and the final clamp both use the reference area's
// bounds regardless of the area being scored.
func EstimateCoherence(correct, totalItems int, answers []string, key AnswerKey, itemDifficulty []float64) float64 {
	base := EstimateLinear(correct, totalItems, ReferenceArea)

	adjusted := base + streakBonus(answers, key) + difficultyBonus(answers, key, itemDifficulty) - guessPenalty(answers, totalItems)

	b := BoundsFor(ReferenceArea)
	if adjusted < b.Min {
		adjusted = b.Min
	}
	if adjusted > b.Max {
		adjusted = b.Max
	}
	return round2(adjusted)
}

// streakBonus awards the per-item bonus for every item of a correct run
// beyond the run's first item. Isolated correct answers earn nothing.
func streakBonus(answers []string, key AnswerKey) float64 {
	bonus := 0.0
	prevCorrect := false
	for i := range answers {
		correct := isCorrectAt(answers, key, i)
		if correct && prevCorrect {
			bonus += streakBonusPerItem
		}
		prevCorrect = correct
	}
	return bonus
}

// difficultyBonus rewards correct answers in proportion to how often the
// class got the item wrong. Items without a computed difficulty contribute
// zero.
func difficultyBonus(answers []string, key AnswerKey, itemDifficulty []float64) float64 {
	bonus := 0.0
	for i := range answers {
		if !isCorrectAt(answers, key, i) {
			continue
		}
		if i < len(itemDifficulty) {
			bonus += itemDifficulty[i] * difficultyMultiplier
		}
	}
	return bonus
}

// guessPenalty detects uniform-guessing patterns: when a single letter
// accounts for more than the threshold share of all non-blank answers, the
// excess share is penalized.
func guessPenalty(answers []string, totalItems int) float64 {
	limit := len(answers)
	if totalItems > 0 && totalItems < limit {
		limit = totalItems
	}

	counts := make(map[string]int)
	nonBlank := 0
	for i := 0; i < limit; i++ {
		a := NormalizeAnswer(answers[i])
		if a == "" {
			continue
		}
		counts[a]++
		nonBlank++
	}
	if nonBlank == 0 {
		return 0
	}

	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}

	share := float64(top) / float64(nonBlank)
	if share <= guessShareThreshold {
		return 0
	}
	return (share - guessShareThreshold) * guessPenaltyFactor
}

func isCorrectAt(answers []string, key AnswerKey, i int) bool {
	k := answerAt(key, i)
	if k == "" {
		return false
	}
	return answerAt(answers, i) == k
}
