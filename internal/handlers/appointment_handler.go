package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book   *ucAppointment.BookAppointment
	update *ucAppointment.UpdateAppointment
	status *ucAppointment.UpdateAppointmentStatus
	remove *ucAppointment.DeleteAppointment
	list   *ucAppointment.ListAppointments
	get    *ucAppointment.GetAppointment

	loc *time.Location
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	update *ucAppointment.UpdateAppointment,
	status *ucAppointment.UpdateAppointmentStatus,
	remove *ucAppointment.DeleteAppointment,
	list *ucAppointment.ListAppointments,
	get *ucAppointment.GetAppointment,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:   book,
		update: update,
		status: status,
		remove: remove,
		list:   list,
		get:    get,
		loc:    loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PrescriptionRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Dosage    string `json:"dosage" binding:"max=100"`
	Frequency string `json:"frequency" binding:"max=100"`
	Duration  string `json:"duration" binding:"max=100"`
}

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	PatientID      uint   `json:"patient_id" binding:"required"`
	UnitID         uint   `json:"unit_id" binding:"required"`
	ScheduledFor   string `json:"scheduled_for" binding:"required"`
	Notes          string `json:"notes" binding:"max=255"`

	Prescriptions []PrescriptionRequest `json:"prescriptions" binding:"dive"`
}

type UpdateAppointmentRequest struct {
	ProfessionalID *uint   `json:"professional_id,omitempty"`
	PatientID      *uint   `json:"patient_id,omitempty"`
	UnitID         *uint   `json:"unit_id,omitempty"`
	ScheduledFor   *string `json:"scheduled_for,omitempty"`
	Notes          *string `json:"notes,omitempty" binding:"omitempty,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	at, err := parseScheduledFor(req.ScheduledFor, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_scheduled_for", "Data ou hora inválida.")
		return
	}

	in := ucAppointment.BookAppointmentInput{
		ActorID:        middleware.UserID(c),
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		UnitID:         req.UnitID,
		ScheduledFor:   at,
		Notes:          req.Notes,
	}
	for _, p := range req.Prescriptions {
		in.Prescriptions = append(in.Prescriptions, ucAppointment.PrescriptionInput{
			Name:      p.Name,
			Dosage:    p.Dosage,
			Frequency: p.Frequency,
			Duration:  p.Duration,
		})
	}

	ap, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	professionalID, ok := queryUint(c, "professional_id")
	if !ok {
		return
	}
	patientID, ok := queryUint(c, "patient_id")
	if !ok {
		return
	}
	unitID, ok := queryUint(c, "unit_id")
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		UnitID:         unitID,
		Status:         c.Query("status"),
		Date:           c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		ActorID:        middleware.UserID(c),
		ID:             id,
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		UnitID:         req.UnitID,
		Notes:          req.Notes,
	}

	if req.ScheduledFor != nil {
		at, err := parseScheduledFor(*req.ScheduledFor, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_scheduled_for", "Data ou hora inválida.")
			return
		}
		in.ScheduledFor = &at
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
