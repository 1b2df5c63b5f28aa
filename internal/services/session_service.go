package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/omr"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSheetCodeInvalid = errors.New("invalid sheet code")

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// IngestSummary reports one recognition batch.
type IngestSummary struct {
	SessionID uuid.UUID `json:"session_id"`
	Ingested  int       `json:"ingested"`
	Rejected  []string  `json:"rejected,omitempty"`
}

// SheetPayload is one recognized sheet submitted for ingestion: the
// student identification read from the sheet plus the raw recognition
// response for its answer grid.
type SheetPayload struct {
	StudentID   string          `json:"student_id" binding:"required"`
	DisplayName string          `json:"display_name"`
	ClassGroup  string          `json:"class_group"`
	SheetCode   string          `json:"sheet_code" binding:"required"`
	Recognition json.RawMessage `json:"recognition" binding:"required"`
}

// IngestSheets stores a batch of recognized sheets for a session. A sheet
// already ingested for the same student is replaced; sheets with a bad
// code or a failed recognition are reported in Rejected and skipped.
func (s *SessionService) IngestSheets(sessionID uuid.UUID, payloads []SheetPayload) (*IngestSummary, error) {
	var session models.ExamSession
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	summary := &IngestSummary{SessionID: sessionID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range payloads {
			code := strings.ToUpper(strings.TrimSpace(p.SheetCode))
			if !omr.ValidSheetCode.MatchString(code) {
				summary.Rejected = append(summary.Rejected, fmt.Sprintf("%s: %v", p.StudentID, ErrSheetCodeInvalid))
				continue
			}
			result, err := omr.ParseResult(p.Recognition)
			if err != nil {
				summary.Rejected = append(summary.Rejected, fmt.Sprintf("%s: %v", p.StudentID, err))
				continue
			}

			sheet := models.AnswerSheet{
				SessionID:    sessionID,
				StudentID:    strings.TrimSpace(p.StudentID),
				DisplayName:  strings.TrimSpace(p.DisplayName),
				ClassGroup:   strings.TrimSpace(p.ClassGroup),
				SheetCode:    code,
				Answers:      result.AnswerSlice(session.TotalItems),
				Answered:     result.Page.Result.Answered,
				Blank:        result.Page.Result.Blank,
				DoubleMarked: result.Page.Result.DoubleMarks,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"display_name", "class_group", "sheet_code",
					"answers", "answered", "blank", "double_marked",
				}),
			}).Create(&sheet).Error
			if err != nil {
				return err
			}
			summary.Ingested++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportRoster applies an enrollment CSV to a session's sheets, filling
// in names and class groups for already-ingested students. Returns how
// many sheets were updated.
func (s *SessionService) ImportRoster(sessionID uuid.UUID, r io.Reader) (int, error) {
	var session models.ExamSession
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	entries, err := omr.ParseRoster(r)
	if err != nil {
		return 0, err
	}

	applied := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			res := tx.Model(&models.AnswerSheet{}).
				Where("session_id = ? AND student_id = ?", sessionID, entry.StudentID).
				Updates(map[string]interface{}{
					"display_name": entry.DisplayName,
					"class_group":  entry.ClassGroup,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				applied++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
