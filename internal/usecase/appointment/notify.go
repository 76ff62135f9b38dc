package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

// Notifier delivers one message to every administrator plus extra
// recipients and reports how many were written.
type Notifier interface {
	NotifyAdministrators(ctx context.Context, msg notification.Message, extra ...uint) int
}

const displayLayout = "02/01/2006 às 15:04"

func appointmentMetadata(ap *models.Appointment) map[string]any {
	return map[string]any{
		"appointment_id":  ap.ID,
		"professional_id": ap.ProfessionalID,
		"patient_id":      ap.PatientID,
		"unit_id":         ap.UnitID,
		"scheduled_for":   ap.ScheduledFor.Format(time.RFC3339),
		"status":          ap.Status,
	}
}

func bookedMessage(ap *models.Appointment, loc *time.Location) notification.Message {
	return notification.Message{
		Title: "Nova consulta agendada",
		Content: fmt.Sprintf(
			"Consulta de %s com %s agendada para %s em %s.",
			ap.Patient.Name,
			ap.Professional.Name,
			ap.ScheduledFor.In(loc).Format(displayLayout),
			ap.Unit.Name,
		),
		Metadata: appointmentMetadata(ap),
	}
}

func prescriptionMessage(ap *models.Appointment, p *models.Prescription) notification.Message {
	return notification.Message{
		Title: "Nova prescrição",
		Content: fmt.Sprintf(
			"%s prescreveu %s para %s.",
			ap.Professional.Name,
			p.Name,
			ap.Patient.Name,
		),
		Metadata: map[string]any{
			"prescription_id": p.ID,
			"appointment_id":  ap.ID,
			"name":            p.Name,
			"dosage":          p.Dosage,
			"frequency":       p.Frequency,
			"duration":        p.Duration,
		},
	}
}

func updatedMessage(ap *models.Appointment, loc *time.Location) notification.Message {
	return notification.Message{
		Title: "Consulta atualizada",
		Content: fmt.Sprintf(
			"A consulta de %s com %s em %s está com status \"%s\".",
			ap.Patient.Name,
			ap.Professional.Name,
			ap.ScheduledFor.In(loc).Format(displayLayout),
			ap.Status,
		),
		Metadata: appointmentMetadata(ap),
	}
}
