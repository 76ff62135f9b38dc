package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	id uint,
) (*models.User, error) {
	return r.userWithRole(ctx, id, models.RoleProfessional, domain.ErrProfessionalNotFound)
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.User, error) {
	return r.userWithRole(ctx, id, models.RolePatient, domain.ErrPatientNotFound)
}

func (r *AppointmentGormRepository) userWithRole(
	ctx context.Context,
	id uint,
	role string,
	notFound error,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, role).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetUnit(
	ctx context.Context,
	id uint,
) (*models.Unit, error) {

	var unit models.Unit
	err := r.db.WithContext(ctx).First(&unit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// slotTaken looks for another active appointment on the same slot. The
// partial unique index is the final word; this only turns the common case
// into a clean conflict before the insert.
func slotTaken(
	tx *gorm.DB,
	professionalID uint,
	at time.Time,
	exceptID uint,
) (bool, error) {

	q := tx.Model(&models.Appointment{}).
		Where(
			"professional_id = ? AND scheduled_for = ? AND status <> ?",
			professionalID,
			at,
			string(domain.StatusCancelled),
		)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	var ids []uint
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.ScheduledFor = domain.NormalizeTime(ap.ScheduledFor)

	prescriptions := ap.Prescriptions
	ap.Prescriptions = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, ap.ProfessionalID, ap.ScheduledFor, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotTaken
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			return err
		}

		for i := range prescriptions {
			prescriptions[i].AppointmentID = ap.ID
			if err := tx.Omit(clause.Associations).Create(&prescriptions[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if httperr.IsUniqueViolation(err) {
		return domain.ErrSlotTaken
	}
	if err != nil {
		return err
	}

	ap.Prescriptions = prescriptions
	return nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Professional.Address").
		Preload("Patient.Address").
		Preload("Unit.Address").
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.withRelations(ctx).First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.withRelations(ctx)

	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.UnitID != 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("scheduled_for >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("scheduled_for < ?", f.To.UTC())
	}

	apps := []models.Appointment{}
	if err := q.Order("scheduled_for ASC, id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) RecentPatients(
	ctx context.Context,
	professionalID uint,
	limit int,
) ([]domain.RecentPatient, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("patient_id", "scheduled_for").
		Where("professional_id = ? AND status <> ?", professionalID, string(domain.StatusCancelled)).
		Order("scheduled_for DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	// newest first, one entry per patient
	var order []uint
	byPatient := map[uint]*domain.RecentPatient{}
	for _, ap := range apps {
		if rp, ok := byPatient[ap.PatientID]; ok {
			rp.Appointments++
			continue
		}
		if len(order) == limit {
			continue
		}
		order = append(order, ap.PatientID)
		byPatient[ap.PatientID] = &domain.RecentPatient{
			LastAppointment: ap.ScheduledFor,
			Appointments:    1,
		}
	}

	if len(order) == 0 {
		return []domain.RecentPatient{}, nil
	}

	var patients []models.User
	if err := r.db.WithContext(ctx).
		Preload("Address").
		Where("id IN ?", order).
		Find(&patients).Error; err != nil {
		return nil, err
	}
	for _, p := range patients {
		byPatient[p.ID].Patient = p
	}

	out := make([]domain.RecentPatient, 0, len(order))
	for _, id := range order {
		out = append(out, *byPatient[id])
	}
	return out, nil
}

// --------------------------------------------------
// Appointment (change)
// --------------------------------------------------

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.ScheduledFor = domain.NormalizeTime(ap.ScheduledFor)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if domain.Status(ap.Status).Active() {
			taken, err := slotTaken(tx, ap.ProfessionalID, ap.ScheduledFor, ap.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrSlotTaken
			}
		}

		return tx.Omit(clause.Associations).Save(ap).Error
	})

	if httperr.IsUniqueViolation(err) {
		return domain.ErrSlotTaken
	}
	return err
}

func (r *AppointmentGormRepository) Delete(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("appointment_id = ?", id).
			Delete(&models.Prescription{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Appointment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
