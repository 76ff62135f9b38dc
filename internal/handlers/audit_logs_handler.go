package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filtros opcionais (datas no fuso da clínica)
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" {
		from, err := time.ParseInLocation("2006-01-02", fromStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", from.UTC())
	}

	if toStr != "" {
		to, err := time.ParseInLocation("2006-01-02", toStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.Failure("audit_count_failed", "Erro ao contar logs.", err))
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Respond(c, httperr.Failure("audit_list_failed", "Erro ao listar logs.", err))
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
