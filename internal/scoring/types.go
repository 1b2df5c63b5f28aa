package scoring

// AnswerKey holds the correct answer letter per item, 0-based. For a full
// exam it is 180 entries long; for a single session it is 90. An empty
// entry means the item has no key yet and is not scorable.
type AnswerKey []string

// AreaDefinition is a named knowledge-area range of exam items. Item
// numbers are 1-based and exam-absolute: on a session-2 sheet the first
// physical answer still belongs to item 91.
type AreaDefinition struct {
	AreaCode  string `json:"area_code"`
	StartItem int    `json:"start_item"`
	EndItem   int    `json:"end_item"`
}

// ItemCount returns the number of items the area spans.
func (a AreaDefinition) ItemCount() int {
	return a.EndItem - a.StartItem + 1
}

// StudentAnswerRecord is one student's sheet as delivered by the OMR
// pipeline. Scoring never mutates it; derived results are returned as new
// values.
type StudentAnswerRecord struct {
	StudentID        string                     `json:"student_id"`
	DisplayName      string                     `json:"display_name"`
	ClassGroup       string                     `json:"class_group,omitempty"`
	Answers          []string                   `json:"answers"`
	AttendedSession1 bool                       `json:"attended_session1"`
	AttendedSession2 bool                       `json:"attended_session2"`
	Scores           map[string]AreaScoreResult `json:"scores,omitempty"`
}

// AreaScoreResult is the derived score for one knowledge area.
type AreaScoreResult struct {
	AreaCode        string  `json:"area_code"`
	CorrectCount    int     `json:"correct_count"`
	TotalItems      int     `json:"total_items"`
	RawScorePercent float64 `json:"raw_score_percent"`
	ScaledScore     float64 `json:"scaled_score"`
}

// StudentScore aggregates one scoring pass over a student sheet.
// WrongTotal counts answered-but-wrong items only; blanks are excluded
// from both correct and wrong, so the three totals do not generally sum
// to the item count.
type StudentScore struct {
	Areas        []AreaScoreResult `json:"areas"`
	CorrectTotal int               `json:"correct_total"`
	WrongTotal   int               `json:"wrong_total"`
	BlankTotal   int               `json:"blank_total"`
}

// MergedStudentRecord is the 180-item consolidation of a student's two
// session sheets. Scores holds only the areas whose session was actually
// attended; a missing key means "absent", which downstream reporting must
// keep distinct from a zero score.
type MergedStudentRecord struct {
	ID               string                     `json:"id"`
	StudentID        string                     `json:"student_id"`
	DisplayName      string                     `json:"display_name"`
	ClassGroup       string                     `json:"class_group,omitempty"`
	Answers          []string                   `json:"answers"`
	AttendedSession1 bool                       `json:"attended_session1"`
	AttendedSession2 bool                       `json:"attended_session2"`
	Scores           map[string]AreaScoreResult `json:"scores"`
}
