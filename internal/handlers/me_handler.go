package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MeHandler struct {
	users userdomain.Repository
}

func NewMeHandler(users userdomain.Repository) *MeHandler {
	return &MeHandler{users: users}
}

type UpdateMeRequest struct {
	Name      *string         `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone     *string         `json:"phone,omitempty" binding:"omitempty,max=20"`
	Document  *string         `json:"document,omitempty" binding:"omitempty,max=20"`
	Birthdate *string         `json:"birthdate,omitempty"`
	Specialty *string         `json:"specialty,omitempty" binding:"omitempty,max=100"`
	Address   *AddressRequest `json:"address,omitempty"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, user)
}

// UpdateMe changes the caller's own profile. Email, role and password are
// not editable here.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Document != nil {
		user.Document = strings.TrimSpace(*req.Document)
	}
	if req.Birthdate != nil {
		if *req.Birthdate == "" {
			user.Birthdate = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.Birthdate)
			if err != nil {
				httperr.BadRequest(c, "invalid_birthdate", "Data de nascimento inválida.")
				return
			}
			user.Birthdate = &d
		}
	}
	if req.Specialty != nil && user.Role == models.RoleProfessional {
		user.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Address != nil {
		user.Address = applyAddress(user.Address, req.Address)
	}

	if err := h.users.Save(c.Request.Context(), user); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, user)
}
