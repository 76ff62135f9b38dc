package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	env string
}

func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env}
}

// Health answers 503 when the database does not respond to a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"environment": h.env,
	})
}
