package scoring

import (
	"math"
	"testing"
)

func TestAggregate_PerItemCounts(t *testing.T) {
	key := AnswerKey{"A", "B"}
	students := []StudentAnswerRecord{
		{StudentID: "1", Answers: []string{"A", "B"}},
		{StudentID: "2", Answers: []string{"A", "C"}},
		{StudentID: "3", Answers: []string{"", "B"}},
		{StudentID: "4", Answers: []string{"B", ""}},
	}

	stats := Aggregate(students, key)
	if stats.TotalStudents != 4 {
		t.Fatalf("total students = %d", stats.TotalStudents)
	}

	item1 := stats.Items[0]
	if item1.CorrectCount != 2 || item1.WrongCount != 1 || item1.BlankCount != 1 {
		t.Errorf("item 1 counts = %d/%d/%d, want 2/1/1",
			item1.CorrectCount, item1.WrongCount, item1.BlankCount)
	}
	if item1.Distribution["A"] != 2 || item1.Distribution["B"] != 1 {
		t.Errorf("item 1 distribution = %v", item1.Distribution)
	}
	// Percentage over all students, not only those who answered.
	if item1.CorrectPercent != 50.0 {
		t.Errorf("item 1 correct%% = %v, want 50", item1.CorrectPercent)
	}

	item2 := stats.Items[1]
	if item2.CorrectCount != 2 || item2.WrongCount != 1 || item2.BlankCount != 1 {
		t.Errorf("item 2 counts = %d/%d/%d, want 2/1/1",
			item2.CorrectCount, item2.WrongCount, item2.BlankCount)
	}
}

func TestAggregate_GroupRanking(t *testing.T) {
	key := AnswerKey{"A"}
	students := []StudentAnswerRecord{
		{StudentID: "1", ClassGroup: "3A", Answers: []string{"A"},
			Scores: map[string]AreaScoreResult{AreaLC: {ScaledScore: 700}}},
		{StudentID: "2", ClassGroup: "3A", Answers: []string{"B"},
			Scores: map[string]AreaScoreResult{AreaLC: {ScaledScore: 500}}},
		{StudentID: "3", ClassGroup: "3B", Answers: []string{"A"},
			Scores: map[string]AreaScoreResult{AreaLC: {ScaledScore: 800}}},
	}

	stats := Aggregate(students, key)
	if len(stats.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(stats.Groups))
	}
	if stats.Groups[0].ClassGroup != "3B" {
		t.Errorf("groups must sort descending by average, got %v first", stats.Groups[0].ClassGroup)
	}
	if stats.Groups[0].AverageScaled != 800 || stats.Groups[1].AverageScaled != 600 {
		t.Errorf("averages = %v / %v, want 800 / 600",
			stats.Groups[0].AverageScaled, stats.Groups[1].AverageScaled)
	}

	var groupA GroupStatistics
	for _, g := range stats.Groups {
		if g.ClassGroup == "3A" {
			groupA = g
		}
	}
	if groupA.StudentCount != 2 || groupA.TotalCorrect != 1 || groupA.TotalWrong != 1 {
		t.Errorf("group 3A = %+v", groupA)
	}
}

func TestAggregate_MultiAreaScaledAverage(t *testing.T) {
	key := AnswerKey{"A"}
	students := []StudentAnswerRecord{
		{StudentID: "1", ClassGroup: "3A", Answers: []string{"A"},
			Scores: map[string]AreaScoreResult{
				AreaLC: {ScaledScore: 600},
				AreaCH: {ScaledScore: 700},
			}},
	}

	stats := Aggregate(students, key)
	if stats.Groups[0].AverageScaled != 650 {
		t.Errorf("average = %v, want mean of available areas 650", stats.Groups[0].AverageScaled)
	}
}

func TestAggregate_UnscoredStudentsExcludedFromAverage(t *testing.T) {
	key := AnswerKey{"A"}
	students := []StudentAnswerRecord{
		{StudentID: "1", ClassGroup: "3A", Answers: []string{"A"},
			Scores: map[string]AreaScoreResult{AreaLC: {ScaledScore: 640}}},
		{StudentID: "2", ClassGroup: "3A", Answers: []string{"A"}},
	}

	stats := Aggregate(students, key)
	g := stats.Groups[0]
	if g.StudentCount != 2 {
		t.Errorf("student count = %d, want 2", g.StudentCount)
	}
	if g.AverageScaled != 640 {
		t.Errorf("average = %v, unscored students must not drag it to zero", g.AverageScaled)
	}
}

func TestAggregate_EmptyRoster(t *testing.T) {
	stats := Aggregate(nil, AnswerKey{"A", "B"})
	if stats.TotalStudents != 0 || len(stats.Items) != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	for _, item := range stats.Items {
		if item.CorrectPercent != 0 {
			t.Error("empty roster must not divide by zero")
		}
	}
}

func TestItemDifficulties(t *testing.T) {
	key := AnswerKey{"A", "B", "C"}
	students := []StudentAnswerRecord{
		{StudentID: "1", Answers: []string{"A", "B", "X"}},
		{StudentID: "2", Answers: []string{"A", "C", ""}},
		{StudentID: "3", Answers: []string{"A", "", "C"}},
		{StudentID: "4", Answers: []string{"B", "B", "C"}},
	}

	diff := Aggregate(students, key).ItemDifficulties()
	want := []float64{0.25, 0.5, 0.5}
	for i := range want {
		if math.Abs(diff[i]-want[i]) > 1e-9 {
			t.Errorf("difficulty[%d] = %v, want %v", i, diff[i], want[i])
		}
	}
}

func TestItemDifficulties_EmptyRoster(t *testing.T) {
	diff := Aggregate(nil, AnswerKey{"A"}).ItemDifficulties()
	if len(diff) != 1 || diff[0] != 0 {
		t.Errorf("expected zero difficulty for empty roster, got %v", diff)
	}
}

func TestRecordsFromMerged(t *testing.T) {
	merged := []MergedStudentRecord{{
		ID:               "synthetic",
		StudentID:        "2024001",
		DisplayName:      "Ana",
		ClassGroup:       "3A",
		Answers:          repeatAnswers("A", FullExamItems),
		AttendedSession1: true,
		Scores:           map[string]AreaScoreResult{AreaLC: {ScaledScore: 700}},
	}}

	records := RecordsFromMerged(merged)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.StudentID != "2024001" || !r.AttendedSession1 || r.AttendedSession2 {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Scores[AreaLC].ScaledScore != 700 {
		t.Error("scores must carry over")
	}
}
