package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB custom type for JSON fields
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONB)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringList stores an ordered answer sequence as a JSON array. Blank
// entries are meaningful (unanswered items) and are preserved.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Base model with UUID
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Project groups up to two exam sessions (the two national exam days, or a
// single school-defined exam) plus their derived scores.
type Project struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Config carries per-exam overrides, notably custom area ranges for
	// school-defined templates ("areas": [{area_code,start_item,end_item}]).
	Config JSONB `gorm:"type:json" json:"config"`
}

// ExamSession is one applied exam: template, answer key, item contents and
// the scanned sheets ingested for it.
type ExamSession struct {
	BaseModel
	ProjectID     uuid.UUID  `gorm:"type:char(36);not null;index:idx_session_project_number" json:"project_id"`
	SessionNumber int        `gorm:"not null;index:idx_session_project_number" json:"session_number"`
	TemplateID    string     `gorm:"type:varchar(100);not null" json:"template_id"`
	TotalItems    int        `gorm:"not null" json:"total_items"`
	AnswerKey     StringList `gorm:"type:json" json:"answer_key"`
	ItemContents  JSONB      `gorm:"type:json" json:"item_contents"`
	AppliedOn     *time.Time `gorm:"type:date" json:"applied_on,omitempty"`
	Project       *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// AnswerSheet is one student's scanned sheet as delivered by the OMR
// service. StudentID is the enrollment number printed on the sheet and is
// the join key between the two sessions.
type AnswerSheet struct {
	BaseModel
	SessionID    uuid.UUID    `gorm:"type:char(36);not null;uniqueIndex:idx_sheet_session_student" json:"session_id"`
	StudentID    string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_sheet_session_student" json:"student_id"`
	DisplayName  string       `gorm:"type:varchar(255)" json:"display_name"`
	ClassGroup   string       `gorm:"type:varchar(100);index" json:"class_group"`
	SheetCode    string       `gorm:"type:varchar(20);index" json:"sheet_code"`
	Answers      StringList   `gorm:"type:json" json:"answers"`
	Answered     int          `json:"answered"`
	Blank        int          `json:"blank"`
	DoubleMarked int          `json:"double_marked"`
	Session      *ExamSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// ScoreRecord stores one scoring pass over a sheet. AreaScores maps area
// code to the serialized AreaScoreResult.
type ScoreRecord struct {
	BaseModel
	SessionID      uuid.UUID    `gorm:"type:char(36);not null;index" json:"session_id"`
	SheetID        uuid.UUID    `gorm:"type:char(36);not null;uniqueIndex" json:"sheet_id"`
	StudentID      string       `gorm:"type:varchar(50);not null;index" json:"student_id"`
	AreaScores     JSONB        `gorm:"type:json" json:"area_scores"`
	CorrectTotal   int          `json:"correct_total"`
	WrongTotal     int          `json:"wrong_total"`
	BlankTotal     int          `json:"blank_total"`
	CoherenceScore float64      `gorm:"type:decimal(7,2)" json:"coherence_score"`
	Sheet          *AnswerSheet `gorm:"foreignKey:SheetID" json:"sheet,omitempty"`
}

// MergedResult is the persisted consolidation of a student's two session
// sheets, re-scored against the full four-area template. Areas whose
// session the student missed are absent from AreaScores, which is how
// reporting distinguishes "did not attend" from "scored zero".
type MergedResult struct {
	BaseModel
	ProjectID        uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_merged_project_student" json:"project_id"`
	StudentID        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_merged_project_student" json:"student_id"`
	DisplayName      string     `gorm:"type:varchar(255)" json:"display_name"`
	ClassGroup       string     `gorm:"type:varchar(100);index" json:"class_group"`
	Answers          StringList `gorm:"type:json" json:"answers"`
	AttendedSession1 bool       `json:"attended_session1"`
	AttendedSession2 bool       `json:"attended_session2"`
	AreaScores       JSONB      `gorm:"type:json" json:"area_scores"`
	CoherenceScore   float64    `gorm:"type:decimal(7,2)" json:"coherence_score"`
	Project          *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// User represents system users (admin/operator)
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         string `gorm:"type:varchar(20);not null" json:"role"`
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	Meta         JSONB  `gorm:"type:json" json:"meta"`
}

// AuditLog tracks all data changes
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ActorUserID  uuid.UUID `gorm:"type:char(36);index" json:"actor_user_id"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   uuid.UUID `gorm:"type:char(36);index" json:"resource_id"`
	Before       JSONB     `gorm:"type:json" json:"before"`
	After        JSONB     `gorm:"type:json" json:"after"`
	Timestamp    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	IP           string    `gorm:"type:varchar(45)" json:"ip"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores refresh tokens for revocation
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index" json:"user_id"`
	Token     string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Revoked   bool      `gorm:"default:false;index" json:"revoked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
