package scoring

import "sort"

// ItemStatistics is the class-wide distribution for one exam item.
// CorrectPercent is taken over all students in the roster, not only those
// who answered, so absences and blanks both count against it.
type ItemStatistics struct {
	Item           int            `json:"item"`
	CorrectCount   int            `json:"correct_count"`
	WrongCount     int            `json:"wrong_count"`
	BlankCount     int            `json:"blank_count"`
	Distribution   map[string]int `json:"distribution"`
	CorrectPercent float64        `json:"correct_percent"`
}

// GroupStatistics summarizes one class group, ranked by average scaled
// score.
type GroupStatistics struct {
	ClassGroup    string  `json:"class_group"`
	StudentCount  int     `json:"student_count"`
	AverageScaled float64 `json:"average_scaled"`
	TotalCorrect  int     `json:"total_correct"`
	TotalWrong    int     `json:"total_wrong"`
}

// ClassStatistics is the derived aggregate view over a scored roster.
type ClassStatistics struct {
	TotalStudents int               `json:"total_students"`
	Items         []ItemStatistics  `json:"items"`
	Groups        []GroupStatistics `json:"groups"`
}

// Aggregate derives per-item distributions and per-group rankings from a
// scored roster. Input records are not modified. Items are keyed by the
// answer key's own numbering: index i is reported as item i+1.
func Aggregate(students []StudentAnswerRecord, key AnswerKey) ClassStatistics {
	stats := ClassStatistics{
		TotalStudents: len(students),
		Items:         make([]ItemStatistics, len(key)),
	}

	for i := range key {
		stats.Items[i] = ItemStatistics{Item: i + 1, Distribution: make(map[string]int)}
	}

	groups := make(map[string]*GroupStatistics)
	groupScaledSums := make(map[string]float64)
	groupScaledCounts := make(map[string]int)

	for _, s := range students {
		g := groups[s.ClassGroup]
		if g == nil {
			g = &GroupStatistics{ClassGroup: s.ClassGroup}
			groups[s.ClassGroup] = g
		}
		g.StudentCount++

		for i := range key {
			k := NormalizeAnswer(key[i])
			ans := answerAt(s.Answers, i)
			item := &stats.Items[i]

			if ans != "" {
				item.Distribution[ans]++
			}

			switch {
			case ans == "":
				item.BlankCount++
			case k != "" && ans == k:
				item.CorrectCount++
				g.TotalCorrect++
			default:
				item.WrongCount++
				g.TotalWrong++
			}
		}

		if scaled, ok := studentScaledAverage(s.Scores); ok {
			groupScaledSums[s.ClassGroup] += scaled
			groupScaledCounts[s.ClassGroup]++
		}
	}

	if stats.TotalStudents > 0 {
		for i := range stats.Items {
			item := &stats.Items[i]
			item.CorrectPercent = round2(float64(item.CorrectCount) / float64(stats.TotalStudents) * 100)
		}
	}

	stats.Groups = make([]GroupStatistics, 0, len(groups))
	for name, g := range groups {
		if n := groupScaledCounts[name]; n > 0 {
			g.AverageScaled = round2(groupScaledSums[name] / float64(n))
		}
		stats.Groups = append(stats.Groups, *g)
	}
	sort.Slice(stats.Groups, func(i, j int) bool {
		if stats.Groups[i].AverageScaled != stats.Groups[j].AverageScaled {
			return stats.Groups[i].AverageScaled > stats.Groups[j].AverageScaled
		}
		return stats.Groups[i].ClassGroup < stats.Groups[j].ClassGroup
	})

	return stats
}

// ItemDifficulties derives the per-item difficulty vector consumed by the
// coherence estimator: the proportion of the class that did not get the
// item right. With no students every difficulty is zero.
func (s ClassStatistics) ItemDifficulties() []float64 {
	out := make([]float64, len(s.Items))
	if s.TotalStudents == 0 {
		return out
	}
	for i, item := range s.Items {
		out[i] = 1 - float64(item.CorrectCount)/float64(s.TotalStudents)
	}
	return out
}

// studentScaledAverage is a student's overall scaled score: the mean of
// the area scaled scores they actually have. Absent areas are excluded,
// not counted as zero.
func studentScaledAverage(scores map[string]AreaScoreResult) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, res := range scores {
		sum += res.ScaledScore
	}
	return sum / float64(len(scores)), true
}

// RecordsFromMerged views merged records as plain answer records so they
// can flow through scoring and aggregation unchanged.
func RecordsFromMerged(merged []MergedStudentRecord) []StudentAnswerRecord {
	out := make([]StudentAnswerRecord, len(merged))
	for i, m := range merged {
		out[i] = StudentAnswerRecord{
			StudentID:        m.StudentID,
			DisplayName:      m.DisplayName,
			ClassGroup:       m.ClassGroup,
			Answers:          m.Answers,
			AttendedSession1: m.AttendedSession1,
			AttendedSession2: m.AttendedSession2,
			Scores:           m.Scores,
		}
	}
	return out
}
