package handlers

import (
	"github.com/gin-gonic/gin"

	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PatientHandler struct {
	users userdomain.Repository
}

func NewPatientHandler(users userdomain.Repository) *PatientHandler {
	return &PatientHandler{users: users}
}

// List accepts ?query= to search by name, phone or email.
func (h *PatientHandler) List(c *gin.Context) {
	list, err := h.users.ListByRole(c.Request.Context(), models.RolePatient, userdomain.ListFilter{
		Query: c.Query("query"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}
