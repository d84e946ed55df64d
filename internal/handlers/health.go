package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/database"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/logger"
	"gorm.io/gorm"
)

// HealthHandler handles health check and schema endpoints
type HealthHandler struct {
	db        *gorm.DB
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// Health reports that the process is serving requests. It does not touch
// the database.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "ToDo API is running",
	})
}

// Ready checks the database connection
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "healthy"
	statusCode := http.StatusOK

	if err := database.Ping(ctx, h.db); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// InitDB creates any missing tables and indexes. Existing data is kept.
func (h *HealthHandler) InitDB(c *gin.Context) {
	if err := database.Migrate(h.db); err != nil {
		apierrors.InternalError(c, "Failed to create database tables: "+err.Error())
		return
	}

	logger.Info("database schema ensured via init-db")
	c.JSON(http.StatusOK, gin.H{"message": "Database tables created successfully"})
}
