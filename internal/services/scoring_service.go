package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/scoring"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound   = errors.New("exam session not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrMissingAnswerKey  = errors.New("session has no answer key")
	ErrNoSessionsToMerge = errors.New("project has no scored sessions")
)

type ScoringService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewScoringService(db *gorm.DB, audit *AuditService) *ScoringService {
	return &ScoringService{db: db, audit: audit}
}

// SessionScoreSummary is what a scoring pass reports back to the caller.
type SessionScoreSummary struct {
	SessionID    uuid.UUID               `json:"session_id"`
	TemplateID   string                  `json:"template_id"`
	SheetsScored int                     `json:"sheets_scored"`
	Statistics   scoring.ClassStatistics `json:"statistics"`
}

// ScoreSession scores every ingested sheet of a session against its answer
// key and stores one ScoreRecord per sheet, replacing earlier passes. The
// coherence estimate uses the class's own item difficulties, so it is
// computed in a second walk after aggregation.
func (s *ScoringService) ScoreSession(sessionID uuid.UUID) (*SessionScoreSummary, error) {
	start := time.Now()

	var session models.ExamSession
	if err := s.db.Preload("Project").First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if len(session.AnswerKey) == 0 {
		return nil, ErrMissingAnswerKey
	}

	var sheets []models.AnswerSheet
	if err := s.db.Where("session_id = ?", sessionID).Order("student_id").Find(&sheets).Error; err != nil {
		return nil, err
	}

	areas := scoring.ResolveAreas(session.TemplateID, session.TotalItems, customAreas(session.Project))
	key := scoring.AnswerKey(session.AnswerKey)

	records := make([]scoring.StudentAnswerRecord, len(sheets))
	scores := make([]scoring.StudentScore, len(sheets))
	for i, sheet := range sheets {
		records[i] = scoring.StudentAnswerRecord{
			StudentID:   sheet.StudentID,
			DisplayName: sheet.DisplayName,
			ClassGroup:  sheet.ClassGroup,
			Answers:     sheet.Answers,
		}
		scores[i] = scoring.ScoreStudent(records[i], key, areas)
		records[i].Scores = scoring.ScoresByArea(scores[i])
	}

	stats := scoring.Aggregate(records, key)
	difficulties := stats.ItemDifficulties()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ScoreRecord{}).Error; err != nil {
			return err
		}
		for i, sheet := range sheets {
			coherence := scoring.EstimateCoherence(
				scores[i].CorrectTotal, session.TotalItems, sheet.Answers, key, difficulties)
			record := models.ScoreRecord{
				SessionID:      sessionID,
				SheetID:        sheet.ID,
				StudentID:      sheet.StudentID,
				AreaScores:     areaScoresJSON(records[i].Scores),
				CorrectTotal:   scores[i].CorrectTotal,
				WrongTotal:     scores[i].WrongTotal,
				BlankTotal:     scores[i].BlankTotal,
				CoherenceScore: coherence,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sheetsScoredTotal.WithLabelValues(session.TemplateID).Add(float64(len(sheets)))
	scoringDuration.Observe(time.Since(start).Seconds())
	log.Printf("Scored session %s: %d sheets in %s", sessionID, len(sheets), time.Since(start))

	return &SessionScoreSummary{
		SessionID:    sessionID,
		TemplateID:   session.TemplateID,
		SheetsScored: len(sheets),
		Statistics:   stats,
	}, nil
}

// MergeSummary reports the outcome of a project-level merge.
type MergeSummary struct {
	ProjectID uuid.UUID `json:"project_id"`
	Merged    int       `json:"merged"`
	Skipped   []string  `json:"skipped,omitempty"`
}

// MergeProject joins the two session rosters of a project into one
// 180-item record per student and re-scores the union against the full
// four-area template. A student's missing session leaves its areas out of
// the stored scores entirely.
func (s *ScoringService) MergeProject(projectID uuid.UUID) (*MergeSummary, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	session1, key1, err := s.loadSessionRecords(projectID, 1)
	if err != nil {
		return nil, err
	}
	session2, key2, err := s.loadSessionRecords(projectID, 2)
	if err != nil {
		return nil, err
	}
	if session1 == nil && session2 == nil {
		return nil, ErrNoSessionsToMerge
	}

	merged, skipped := scoring.MergeSessions(session1, session2)

	fullKey := make(scoring.AnswerKey, scoring.FullExamItems)
	copy(fullKey, key1)
	copy(fullKey[scoring.SessionItems:], key2)
	fullAreas := scoring.ResolveAreas("completo", scoring.FullExamItems, nil)

	mergedRecords := scoring.RecordsFromMerged(merged)
	stats := scoring.Aggregate(mergedRecords, fullKey)
	difficulties := stats.ItemDifficulties()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.MergedResult{}).Error; err != nil {
			return err
		}
		for i, m := range merged {
			score := scoring.ScoreStudent(mergedRecords[i], fullKey, fullAreas)
			finalScores := attendedScores(scoring.ScoresByArea(score), m.AttendedSession1, m.AttendedSession2)
			coherence := scoring.EstimateCoherence(
				score.CorrectTotal, scoring.FullExamItems, m.Answers, fullKey, difficulties)

			result := models.MergedResult{
				ProjectID:        projectID,
				StudentID:        m.StudentID,
				DisplayName:      m.DisplayName,
				ClassGroup:       m.ClassGroup,
				Answers:          m.Answers,
				AttendedSession1: m.AttendedSession1,
				AttendedSession2: m.AttendedSession2,
				AreaScores:       areaScoresJSON(finalScores),
				CoherenceScore:   coherence,
			}
			if err := tx.Create(&result).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	mergesTotal.Inc()
	log.Printf("Merged project %s: %d students, %d skipped", projectID, len(merged), len(skipped))

	return &MergeSummary{ProjectID: projectID, Merged: len(merged), Skipped: skipped}, nil
}

// SessionStatistics recomputes the aggregate view for a session from its
// stored sheets and score records.
func (s *ScoringService) SessionStatistics(sessionID uuid.UUID) (*scoring.ClassStatistics, error) {
	var session models.ExamSession
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	records, err := s.sessionAnswerRecords(sessionID)
	if err != nil {
		return nil, err
	}
	stats := scoring.Aggregate(records, scoring.AnswerKey(session.AnswerKey))
	return &stats, nil
}

// ProjectStatistics aggregates over the merged results of a project.
func (s *ScoringService) ProjectStatistics(projectID uuid.UUID) (*scoring.ClassStatistics, error) {
	fullKey := make(scoring.AnswerKey, scoring.FullExamItems)
	for _, n := range []int{1, 2} {
		key, err := s.loadSessionKey(projectID, n)
		if err != nil {
			return nil, err
		}
		copy(fullKey[(n-1)*scoring.SessionItems:], key)
	}

	var results []models.MergedResult
	if err := s.db.Where("project_id = ?", projectID).Order("student_id").Find(&results).Error; err != nil {
		return nil, err
	}

	records := make([]scoring.StudentAnswerRecord, len(results))
	for i, r := range results {
		records[i] = scoring.StudentAnswerRecord{
			StudentID:        r.StudentID,
			DisplayName:      r.DisplayName,
			ClassGroup:       r.ClassGroup,
			Answers:          r.Answers,
			AttendedSession1: r.AttendedSession1,
			AttendedSession2: r.AttendedSession2,
			Scores:           areaScoresFromJSON(r.AreaScores),
		}
	}

	stats := scoring.Aggregate(records, fullKey)
	return &stats, nil
}

// loadSessionRecords loads a project session's sheets with their stored
// area scores attached. A missing session is not an error: the merge
// treats it as an empty roster.
func (s *ScoringService) loadSessionRecords(projectID uuid.UUID, sessionNumber int) ([]scoring.StudentAnswerRecord, scoring.AnswerKey, error) {
	var session models.ExamSession
	err := s.db.Where("project_id = ? AND session_number = ?", projectID, sessionNumber).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	records, err := s.sessionAnswerRecords(session.ID)
	if err != nil {
		return nil, nil, err
	}
	return records, scoring.AnswerKey(session.AnswerKey), nil
}

// loadSessionKey returns a session's answer key, or nil when the project
// has no such session.
func (s *ScoringService) loadSessionKey(projectID uuid.UUID, sessionNumber int) (scoring.AnswerKey, error) {
	var session models.ExamSession
	err := s.db.Where("project_id = ? AND session_number = ?", projectID, sessionNumber).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return scoring.AnswerKey(session.AnswerKey), nil
}

func (s *ScoringService) sessionAnswerRecords(sessionID uuid.UUID) ([]scoring.StudentAnswerRecord, error) {
	var sheets []models.AnswerSheet
	if err := s.db.Where("session_id = ?", sessionID).Order("student_id").Find(&sheets).Error; err != nil {
		return nil, err
	}

	var scoreRecords []models.ScoreRecord
	if err := s.db.Where("session_id = ?", sessionID).Find(&scoreRecords).Error; err != nil {
		return nil, err
	}
	scoresBySheet := make(map[uuid.UUID]models.ScoreRecord, len(scoreRecords))
	for _, r := range scoreRecords {
		scoresBySheet[r.SheetID] = r
	}

	records := make([]scoring.StudentAnswerRecord, len(sheets))
	for i, sheet := range sheets {
		records[i] = scoring.StudentAnswerRecord{
			StudentID:   sheet.StudentID,
			DisplayName: sheet.DisplayName,
			ClassGroup:  sheet.ClassGroup,
			Answers:     sheet.Answers,
		}
		if r, ok := scoresBySheet[sheet.ID]; ok {
			records[i].Scores = areaScoresFromJSON(r.AreaScores)
		}
	}
	return records, nil
}

// customAreas extracts school-defined area ranges from a project config.
// A missing or malformed "areas" entry yields nil, which falls back to the
// template tables.
func customAreas(project *models.Project) []scoring.AreaDefinition {
	if project == nil || project.Config == nil {
		return nil
	}
	raw, ok := project.Config["areas"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var areas []scoring.AreaDefinition
	if err := json.Unmarshal(data, &areas); err != nil {
		return nil
	}
	return areas
}

// attendedScores drops the areas of any session the student did not sit.
func attendedScores(scores map[string]scoring.AreaScoreResult, s1, s2 bool) map[string]scoring.AreaScoreResult {
	keep := make(map[string]bool)
	if s1 {
		for _, code := range scoring.SessionAreaCodes(1) {
			keep[code] = true
		}
	}
	if s2 {
		for _, code := range scoring.SessionAreaCodes(2) {
			keep[code] = true
		}
	}
	out := make(map[string]scoring.AreaScoreResult, len(scores))
	for code, res := range scores {
		if keep[code] {
			out[code] = res
		}
	}
	return out
}

func areaScoresJSON(scores map[string]scoring.AreaScoreResult) models.JSONB {
	out := make(models.JSONB, len(scores))
	for code, res := range scores {
		out[code] = map[string]interface{}{
			"area_code":         res.AreaCode,
			"correct_count":     res.CorrectCount,
			"total_items":       res.TotalItems,
			"raw_score_percent": res.RawScorePercent,
			"scaled_score":      res.ScaledScore,
		}
	}
	return out
}

func areaScoresFromJSON(data models.JSONB) map[string]scoring.AreaScoreResult {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]scoring.AreaScoreResult, len(data))
	for code, raw := range data {
		b, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var res scoring.AreaScoreResult
		if err := json.Unmarshal(b, &res); err != nil {
			continue
		}
		if res.AreaCode == "" {
			res.AreaCode = code
		}
		out[code] = res
	}
	return out
}
