package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	ErrSlotTaken = httperr.Conflict(
		"slot_taken",
		"Este horário já está reservado para o profissional selecionado.",
	)
	ErrNotFound             = httperr.Missing("appointment_not_found", "Agendamento não encontrado.")
	ErrProfessionalNotFound = httperr.Missing("professional_not_found", "Profissional não encontrado.")
	ErrPatientNotFound      = httperr.Missing("patient_not_found", "Paciente não encontrado.")
	ErrUnitNotFound         = httperr.Missing("unit_not_found", "Unidade não encontrada.")
)

// ===============================
// Domain Actions
// ===============================

// NormalizeTime is how every scheduled instant is stored: UTC, whole seconds.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ChangeStatus moves ap to next and stamps the matching timestamp.
func ChangeStatus(ap *models.Appointment, next Status, now time.Time) {
	ap.Status = string(next)

	switch next {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
}
