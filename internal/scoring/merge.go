package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MergeSessions reconciles the two independently processed session rosters
// into one consolidated 180-item record per student, joined on StudentID.
// Students present in only one session keep the other session's positions
// blank, its areas absent from Scores, and its attendance flag false; a
// roster where nobody attended both sessions merges normally.
//
// Records without a usable StudentID cannot be joined and are skipped; the
// second return value lists them so the caller can surface the rejects
// without failing the batch. Each merged record gets a fresh synthetic ID
// while StudentID stays the join key, so re-merging the same inputs yields
// score-equivalent output.
//
// Merging never computes scores. It carries over each session's previously
// derived area results (session 1 contributes LC/CH, session 2 CN/MT);
// callers re-score against the full template once both keys are available.
func MergeSessions(session1, session2 []StudentAnswerRecord) ([]MergedStudentRecord, []string) {
	var skipped []string
	byID1 := indexByStudentID(session1, 1, &skipped)
	byID2 := indexByStudentID(session2, 2, &skipped)

	ids := make([]string, 0, len(byID1)+len(byID2))
	for id := range byID1 {
		ids = append(ids, id)
	}
	for id := range byID2 {
		if _, ok := byID1[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	merged := make([]MergedStudentRecord, 0, len(ids))
	for _, id := range ids {
		r1, ok1 := byID1[id]
		r2, ok2 := byID2[id]

		m := MergedStudentRecord{
			ID:               uuid.New().String(),
			StudentID:        id,
			Answers:          make([]string, FullExamItems),
			AttendedSession1: ok1,
			AttendedSession2: ok2,
			Scores:           make(map[string]AreaScoreResult),
		}

		if ok1 {
			m.DisplayName = r1.DisplayName
			m.ClassGroup = r1.ClassGroup
			copySessionAnswers(m.Answers, r1.Answers, 0)
			carryScores(m.Scores, r1.Scores, SessionAreaCodes(1))
		}
		if ok2 {
			if m.DisplayName == "" {
				m.DisplayName = r2.DisplayName
			}
			if m.ClassGroup == "" {
				m.ClassGroup = r2.ClassGroup
			}
			copySessionAnswers(m.Answers, r2.Answers, SessionItems)
			carryScores(m.Scores, r2.Scores, SessionAreaCodes(2))
		}

		merged = append(merged, m)
	}

	return merged, skipped
}

// indexByStudentID maps a session roster by trimmed StudentID. Records
// with an empty identifier are reported via skipped; on duplicate
// identifiers the last record wins.
func indexByStudentID(records []StudentAnswerRecord, session int, skipped *[]string) map[string]StudentAnswerRecord {
	byID := make(map[string]StudentAnswerRecord, len(records))
	for i, r := range records {
		id := strings.TrimSpace(r.StudentID)
		if id == "" {
			label := r.DisplayName
			if label == "" {
				label = fmt.Sprintf("session%d record %d", session, i+1)
			}
			*skipped = append(*skipped, label)
			continue
		}
		r.StudentID = id
		byID[id] = r
	}
	return byID
}

// copySessionAnswers writes one session's answers into the 180-slot array
// at the given base, bounded so short or overlong source arrays never
// panic.
func copySessionAnswers(dst, src []string, base int) {
	for i := 0; i < SessionItems && i < len(src); i++ {
		dst[base+i] = src[i]
	}
}

// carryScores copies only the areas belonging to the contributing session,
// leaving areas of an unattended session absent rather than zeroed.
func carryScores(dst, src map[string]AreaScoreResult, areaCodes []string) {
	for _, code := range areaCodes {
		if res, ok := src[code]; ok {
			dst[code] = res
		}
	}
}
