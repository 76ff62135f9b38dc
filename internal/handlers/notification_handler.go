package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

type NotificationHandler struct {
	notifications *notification.Service
	users         userdomain.Repository
}

func NewNotificationHandler(notifications *notification.Service, users userdomain.Repository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// --------- Requests ---------

type CreateNotificationRequest struct {
	UserID   uint           `json:"user_id" binding:"required"`
	Title    string         `json:"title" binding:"required,max=150"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

type MarkReadRequest struct {
	Notifications []uint `json:"notifications" binding:"required,min=1,dive,required"`
}

// --------- Handlers ---------

// List shows administrators every notification, optionally narrowed by
// ?user_id. Everyone else only sees their own.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}

	if middleware.Role(c) != models.RoleAdministrator {
		userID = middleware.UserID(c)
	}

	list, err := h.notifications.List(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	if _, err := h.users.Get(c.Request.Context(), req.UserID); err != nil {
		httperr.Respond(c, err)
		return
	}

	n, err := h.notifications.Notify(c.Request.Context(), req.UserID, notification.Message{
		Title:    req.Title,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	// Administrators may mark any notification; everyone else only their own.
	var owner uint
	if middleware.Role(c) != models.RoleAdministrator {
		owner = middleware.UserID(c)
	}

	updated, err := h.notifications.MarkRead(c.Request.Context(), req.Notifications, owner)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, updated)
}
