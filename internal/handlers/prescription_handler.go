package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PrescriptionHandler struct {
	db *gorm.DB
}

func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{db: db}
}

// List returns prescriptions newest first with their appointment, patient,
// professional and unit. ?patient_id narrows to one patient.
func (h *PrescriptionHandler) List(c *gin.Context) {
	patientID, ok := queryUint(c, "patient_id")
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	q := db.
		Preload("Appointment.Patient").
		Preload("Appointment.Professional").
		Preload("Appointment.Unit.Address")

	if patientID != 0 {
		q = q.Where("appointment_id IN (?)",
			db.Model(&models.Appointment{}).Select("id").Where("patient_id = ?", patientID),
		)
	}

	list := []models.Prescription{}
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}
