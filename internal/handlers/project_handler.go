package handlers

import (
	"net/http"

	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	scoringService *services.ScoringService
	auditService   *services.AuditService
}

func NewProjectHandler(db *gorm.DB, scoringService *services.ScoringService, auditService *services.AuditService) *ProjectHandler {
	return &ProjectHandler{db: db, scoringService: scoringService, auditService: auditService}
}

func (h *ProjectHandler) List(c *gin.Context) {
	var projects []models.Project
	if err := h.db.Order("created_at desc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

type CreateProjectRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Config      models.JSONB `json:"config"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
	}
	if err := h.db.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")
	if actorID, ok := userID.(uuid.UUID); ok {
		h.auditService.Log(actorID, "create", "project", project.ID, nil,
			models.JSONB{"name": project.Name}, c.ClientIP())
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id := c.GetString("project_id")
	var project models.Project
	if err := h.db.First(&project, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var sessions []models.ExamSession
	h.db.Where("project_id = ?", id).Order("session_number").Find(&sessions)

	c.JSON(http.StatusOK, gin.H{"project": project, "sessions": sessions})
}

// @Summary Merge the project's two session rosters into final results
// @Tags projects
// @Produce json
// @Success 200 {object} services.MergeSummary
// @Router /api/v1/projects/{id}/merge [post]
func (h *ProjectHandler) Merge(c *gin.Context) {
	projectID, err := uuid.Parse(c.GetString("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	summary, err := h.scoringService.MergeProject(projectID)
	if err != nil {
		switch err {
		case services.ErrProjectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case services.ErrNoSessionsToMerge:
			c.JSON(http.StatusConflict, gin.H{"error": "No scored sessions to merge"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ProjectHandler) Results(c *gin.Context) {
	id := c.GetString("project_id")
	classGroup := c.Query("class_group")

	var results []models.MergedResult
	query := h.db.Where("project_id = ?", id).Order("student_id")
	if classGroup != "" {
		query = query.Where("class_group = ?", classGroup)
	}
	if err := query.Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ProjectHandler) Statistics(c *gin.Context) {
	projectID, err := uuid.Parse(c.GetString("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	stats, err := h.scoringService.ProjectStatistics(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
