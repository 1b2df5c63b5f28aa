package handlers

import (
	"net/http"
	"time"

	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/scoring"
	"github.com/gabaritai/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionHandler struct {
	db             *gorm.DB
	sessionService *services.SessionService
	scoringService *services.ScoringService
}

func NewSessionHandler(db *gorm.DB, sessionService *services.SessionService, scoringService *services.ScoringService) *SessionHandler {
	return &SessionHandler{db: db, sessionService: sessionService, scoringService: scoringService}
}

type CreateSessionRequest struct {
	ProjectID     string       `json:"project_id" binding:"required,uuid"`
	SessionNumber int          `json:"session_number" binding:"required,min=1,max=2"`
	TemplateID    string       `json:"template_id" binding:"required"`
	TotalItems    int          `json:"total_items" binding:"required,min=1"`
	AnswerKey     []string     `json:"answer_key"`
	ItemContents  models.JSONB `json:"item_contents"`
	AppliedOn     *time.Time   `json:"applied_on"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if req.AnswerKey != nil && len(req.AnswerKey) != req.TotalItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer key length must match total items"})
		return
	}

	session := models.ExamSession{
		ProjectID:     projectID,
		SessionNumber: req.SessionNumber,
		TemplateID:    req.TemplateID,
		TotalItems:    req.TotalItems,
		AnswerKey:     req.AnswerKey,
		ItemContents:  req.ItemContents,
		AppliedOn:     req.AppliedOn,
	}
	if err := h.db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	var session models.ExamSession
	if err := h.db.Preload("Project").First(&session, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	areas := scoring.ResolveAreas(session.TemplateID, session.TotalItems, nil)
	c.JSON(http.StatusOK, gin.H{"session": session, "areas": areas})
}

type UpdateKeyRequest struct {
	AnswerKey []string `json:"answer_key" binding:"required"`
}

func (h *SessionHandler) UpdateKey(c *gin.Context) {
	id := c.Param("id")
	var session models.ExamSession
	if err := h.db.First(&session, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.AnswerKey) != session.TotalItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer key length must match total items"})
		return
	}

	if err := h.db.Model(&session).Update("answer_key", models.StringList(req.AnswerKey)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

type IngestRequest struct {
	Sheets []services.SheetPayload `json:"sheets" binding:"required,min=1"`
}

// @Summary Ingest recognized answer sheets for a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body IngestRequest true "Recognition payloads"
// @Success 200 {object} services.IngestSummary
// @Router /api/v1/sessions/{id}/sheets [post]
func (h *SessionHandler) IngestSheets(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.sessionService.IngestSheets(sessionID, req.Sheets)
	if err != nil {
		if err == services.ErrSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SessionHandler) ListSheets(c *gin.Context) {
	id := c.Param("id")
	var sheets []models.AnswerSheet
	if err := h.db.Where("session_id = ?", id).Order("student_id").Find(&sheets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sheets)
}

// ImportRoster accepts a semicolon-delimited enrollment CSV upload and
// applies names and class groups to the session's sheets.
func (h *SessionHandler) ImportRoster(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	file, _, err := c.Request.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Roster file required"})
		return
	}
	defer file.Close()

	applied, err := h.sessionService.ImportRoster(sessionID, file)
	if err != nil {
		if err == services.ErrSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": applied})
}

// @Summary Score every ingested sheet of a session
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionScoreSummary
// @Router /api/v1/sessions/{id}/score [post]
func (h *SessionHandler) Score(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	summary, err := h.scoringService.ScoreSession(sessionID)
	if err != nil {
		switch err {
		case services.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case services.ErrMissingAnswerKey:
			c.JSON(http.StatusConflict, gin.H{"error": "Session has no answer key"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SessionHandler) Scores(c *gin.Context) {
	id := c.Param("id")
	var records []models.ScoreRecord
	if err := h.db.Where("session_id = ?", id).Order("student_id").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SessionHandler) Statistics(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	stats, err := h.scoringService.SessionStatistics(sessionID)
	if err != nil {
		if err == services.ErrSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
