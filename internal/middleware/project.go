package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectScope validates the :id route parameter of project-scoped routes
// and stores it for handlers, so each handler does not re-parse it.
func ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		if projectIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID required"})
			c.Abort()
			return
		}

		if _, err := uuid.Parse(projectIDStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			c.Abort()
			return
		}

		c.Set("project_id", projectIDStr)
		c.Next()
	}
}
