package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// UpdateAppointmentInput changes only the fields that are set.
type UpdateAppointmentInput struct {
	ActorID uint
	ID      uint

	ProfessionalID *uint
	PatientID      *uint
	UnitID         *uint
	ScheduledFor   *time.Time
	Notes          *string
}

type UpdateAppointment struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewUpdateAppointment(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	loc *time.Location,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		loc:      loc,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}

	if in.ProfessionalID != nil && *in.ProfessionalID != ap.ProfessionalID {
		if _, err := uc.repo.GetProfessional(ctx, *in.ProfessionalID); err != nil {
			return nil, err
		}
		ap.ProfessionalID = *in.ProfessionalID
		changes["professional_id"] = ap.ProfessionalID
	}

	if in.PatientID != nil && *in.PatientID != ap.PatientID {
		if _, err := uc.repo.GetPatient(ctx, *in.PatientID); err != nil {
			return nil, err
		}
		ap.PatientID = *in.PatientID
		changes["patient_id"] = ap.PatientID
	}

	if in.UnitID != nil && *in.UnitID != ap.UnitID {
		if _, err := uc.repo.GetUnit(ctx, *in.UnitID); err != nil {
			return nil, err
		}
		ap.UnitID = *in.UnitID
		changes["unit_id"] = ap.UnitID
	}

	if in.ScheduledFor != nil {
		at := domain.NormalizeTime(*in.ScheduledFor)
		if !at.Equal(ap.ScheduledFor) {
			ap.ScheduledFor = at
			changes["scheduled_for"] = at
		}
	}

	if in.Notes != nil {
		ap.Notes = strings.TrimSpace(*in.Notes)
		changes["notes"] = ap.Notes
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Get(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyAdministrators(ctx, updatedMessage(updated, uc.loc), updated.PatientID, updated.ProfessionalID)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &updated.ID,
		Metadata: changes,
	})

	return updated, nil
}
