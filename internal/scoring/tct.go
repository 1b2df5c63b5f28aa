package scoring

import "strings"

// NormalizeAnswer canonicalizes an answer letter for comparison: trimmed
// and upper-cased. Blank and whitespace-only answers normalize to "".
func NormalizeAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// answerAt returns the normalized answer at a 0-based index, treating any
// out-of-range position as blank.
func answerAt(answers []string, idx int) string {
	if idx < 0 || idx >= len(answers) {
		return ""
	}
	return NormalizeAnswer(answers[idx])
}

// indexOffset translates exam-absolute item numbering into the physical
// array. A session-2 sheet (or key) holds only 90 entries while its areas
// start at item 91, so those arrays are read shifted back by one session.
// The answer array and the key are translated independently: a merged
// 180-entry key can be scored against a raw 90-entry session-2 sheet.
func indexOffset(area AreaDefinition, length int) int {
	if length <= SessionItems && area.StartItem > SessionItems {
		return SessionItems
	}
	return 0
}

// ScoreStudent computes the classical (TCT) score of one sheet against an
// answer key, per area and in total. Items with no key entry are not
// scorable and contribute to no counter, so a partially configured key
// never raises and never inflates the wrong count. The totals reflect only
// the areas passed in: with a single session's areas configured, the other
// session's answers are ignored even if physically present.
func ScoreStudent(student StudentAnswerRecord, key AnswerKey, areas []AreaDefinition) StudentScore {
	score := StudentScore{Areas: make([]AreaScoreResult, 0, len(areas))}

	for _, area := range areas {
		ansOff := indexOffset(area, len(student.Answers))
		keyOff := indexOffset(area, len(key))

		res := AreaScoreResult{AreaCode: area.AreaCode, TotalItems: area.ItemCount()}
		for item := area.StartItem; item <= area.EndItem; item++ {
			k := answerAt(key, item-1-keyOff)
			if k == "" {
				continue
			}

			ans := answerAt(student.Answers, item-1-ansOff)
			switch {
			case ans == "":
				score.BlankTotal++
			case ans == k:
				res.CorrectCount++
				score.CorrectTotal++
			default:
				score.WrongTotal++
			}
		}

		if res.TotalItems > 0 {
			res.RawScorePercent = round2(float64(res.CorrectCount) / float64(res.TotalItems) * 100)
		}
		res.ScaledScore = EstimateLinear(res.CorrectCount, res.TotalItems, area.AreaCode)
		score.Areas = append(score.Areas, res)
	}

	return score
}

// ScoresByArea indexes a scoring pass by area code, the shape carried on
// student records and merged records.
func ScoresByArea(score StudentScore) map[string]AreaScoreResult {
	out := make(map[string]AreaScoreResult, len(score.Areas))
	for _, a := range score.Areas {
		out[a.AreaCode] = a
	}
	return out
}
