package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type PrescriptionInput struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

type BookAppointmentInput struct {
	ActorID uint

	ProfessionalID uint
	PatientID      uint
	UnitID         uint

	ScheduledFor time.Time
	Notes        string

	Prescriptions []PrescriptionInput
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewBookAppointment(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	loc *time.Location,
) *BookAppointment {
	return &BookAppointment{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		loc:      loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	if in.ProfessionalID == 0 || in.PatientID == 0 || in.UnitID == 0 || in.ScheduledFor.IsZero() {
		return nil, httperr.Validation("invalid_request", "Profissional, paciente, unidade e horário são obrigatórios.")
	}

	for _, p := range in.Prescriptions {
		if strings.TrimSpace(p.Name) == "" {
			return nil, httperr.Validation("invalid_prescription", "Toda prescrição precisa de um nome.")
		}
	}

	scheduledFor := domain.NormalizeTime(in.ScheduledFor)

	// --------------------------------------------------
	// 2️⃣ Referências
	// --------------------------------------------------
	if _, err := uc.repo.GetProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetUnit(ctx, in.UnitID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Agendamento + prescrições (transação única)
	// --------------------------------------------------
	ap := &models.Appointment{
		ProfessionalID: in.ProfessionalID,
		PatientID:      in.PatientID,
		UnitID:         in.UnitID,
		ScheduledFor:   scheduledFor,
		Status:         string(domain.InitialStatus()),
		Notes:          strings.TrimSpace(in.Notes),
	}

	for _, p := range in.Prescriptions {
		ap.Prescriptions = append(ap.Prescriptions, models.Prescription{
			Name:      strings.TrimSpace(p.Name),
			Dosage:    p.Dosage,
			Frequency: p.Frequency,
			Duration:  p.Duration,
		})
	}

	if err := uc.repo.Create(ctx, ap); err != nil {
		return nil, err
	}

	created, err := uc.repo.Get(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Notificações (falhas não desfazem o agendamento)
	// --------------------------------------------------
	uc.notifier.NotifyAdministrators(ctx, bookedMessage(created, uc.loc), created.PatientID, created.ProfessionalID)

	for i := range created.Prescriptions {
		uc.notifier.NotifyAdministrators(
			ctx,
			prescriptionMessage(created, &created.Prescriptions[i]),
			created.PatientID,
			created.ProfessionalID,
		)
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"professional_id": created.ProfessionalID,
			"patient_id":      created.PatientID,
			"scheduled_for":   created.ScheduledFor,
			"prescriptions":   len(created.Prescriptions),
		},
	})

	return created, nil
}

func actor(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
