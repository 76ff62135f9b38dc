package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

const (
	defaultRecentPatients = 10
	maxRecentPatients     = 50
)

type ListRecentPatients struct {
	repo domain.Repository
}

func NewListRecentPatients(repo domain.Repository) *ListRecentPatients {
	return &ListRecentPatients{repo: repo}
}

func (uc *ListRecentPatients) Execute(
	ctx context.Context,
	professionalID uint,
	limit int,
) ([]dto.RecentPatientDTO, error) {

	if limit <= 0 {
		limit = defaultRecentPatients
	}
	if limit > maxRecentPatients {
		limit = maxRecentPatients
	}

	if _, err := uc.repo.GetProfessional(ctx, professionalID); err != nil {
		return nil, err
	}

	recent, err := uc.repo.RecentPatients(ctx, professionalID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RecentPatientDTO, 0, len(recent))
	for _, rp := range recent {
		out = append(out, dto.RecentPatientDTO{
			Patient:         rp.Patient,
			LastAppointment: rp.LastAppointment,
			Appointments:    rp.Appointments,
		})
	}
	return out, nil
}
