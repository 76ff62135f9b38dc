package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Filter struct {
	ProfessionalID uint
	PatientID      uint
	UnitID         uint
	Status         string

	// From is inclusive, To exclusive.
	From *time.Time
	To   *time.Time
}

type RecentPatient struct {
	Patient         models.User
	LastAppointment time.Time
	Appointments    int
}

type Repository interface {
	// -------- References --------
	GetProfessional(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetPatient(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetUnit(
		ctx context.Context,
		id uint,
	) (*models.Unit, error)

	// -------- Appointment (create / conflict) --------

	// Create inserts ap and its prescriptions atomically. It returns
	// ErrSlotTaken when another active appointment holds the slot.
	Create(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read) --------
	Get(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	List(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, error)

	RecentPatients(
		ctx context.Context,
		professionalID uint,
		limit int,
	) ([]RecentPatient, error)

	// -------- Appointment (change) --------

	// Update saves ap, re-checking the slot when ap is active.
	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	Delete(
		ctx context.Context,
		id uint,
	) error
}
