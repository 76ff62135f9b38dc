package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsInput struct {
	ProfessionalID uint
	PatientID      uint
	UnitID         uint
	Status         string

	// Date is YYYY-MM-DD in the clinic timezone.
	Date string
}

type ListAppointments struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointments(repo domain.Repository, loc *time.Location) *ListAppointments {
	return &ListAppointments{repo: repo, loc: loc}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	f := domain.Filter{
		ProfessionalID: in.ProfessionalID,
		PatientID:      in.PatientID,
		UnitID:         in.UnitID,
		Status:         strings.ToLower(strings.TrimSpace(in.Status)),
	}

	if in.Date != "" {
		day, err := timezone.ParseDay(in.Date, uc.loc)
		if err != nil {
			return nil, httperr.Validation("invalid_date", "Data inválida.")
		}

		from, to := timezone.DayBounds(day, uc.loc)
		from, to = from.UTC(), to.UTC()
		f.From, f.To = &from, &to
	}

	return uc.repo.List(ctx, f)
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, id uint) (*models.Appointment, error) {
	return uc.repo.Get(ctx, id)
}
