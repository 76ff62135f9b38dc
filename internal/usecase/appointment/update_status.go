package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UpdateAppointmentStatus struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	loc *time.Location,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		loc:      loc,
	}
}

// Execute sets the status. Cancelling frees the slot; leaving cancelled
// takes it back and fails with a conflict if it was booked meanwhile.
func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
	rawStatus string,
) (*models.Appointment, error) {

	next, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	prev := ap.Status
	domain.ChangeStatus(ap, next, time.Now().UTC())

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Get(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyAdministrators(ctx, updatedMessage(updated, uc.loc), updated.PatientID, updated.ProfessionalID)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(actorID),
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &updated.ID,
		Metadata: map[string]any{
			"from": prev,
			"to":   updated.Status,
		},
	})

	return updated, nil
}
