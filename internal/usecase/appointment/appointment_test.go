package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
)

type fixture struct {
	db *gorm.DB

	book    *BookAppointment
	update  *UpdateAppointment
	status  *UpdateAppointmentStatus
	remove  *DeleteAppointment
	list    *ListAppointments
	recent  *ListRecentPatients
	patient *models.User
	pro     *models.User
	unit    *models.Unit
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	loc := saoPaulo(t)

	repo := repository.NewAppointmentGormRepository(db)
	notifier := notification.NewService(db, testutil.Logger())
	dispatcher := audit.NewDispatcher(audit.New(db), nil, testutil.Logger())
	t.Cleanup(dispatcher.Close)

	return &fixture{
		db:      db,
		book:    NewBookAppointment(repo, notifier, dispatcher, loc),
		update:  NewUpdateAppointment(repo, notifier, dispatcher, loc),
		status:  NewUpdateAppointmentStatus(repo, notifier, dispatcher, loc),
		remove:  NewDeleteAppointment(repo, dispatcher),
		list:    NewListAppointments(repo, loc),
		recent:  NewListRecentPatients(repo),
		patient: testutil.CreateUser(t, db, models.RolePatient),
		pro:     testutil.CreateUser(t, db, models.RoleProfessional),
		unit:    testutil.CreateUnit(t, db),
	}
}

func (f *fixture) input(at time.Time) BookAppointmentInput {
	return BookAppointmentInput{
		ProfessionalID: f.pro.ID,
		PatientID:      f.patient.ID,
		UnitID:         f.unit.ID,
		ScheduledFor:   at,
	}
}

func (f *fixture) countNotifications(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.Notification{}).Count(&n).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return n
}

func TestBookReturnsRelations(t *testing.T) {
	f := newFixture(t)

	in := f.input(testutil.Slot(0))
	in.Prescriptions = []PrescriptionInput{{Name: "Dipirona", Dosage: "500mg", Frequency: "6/6h", Duration: "3 dias"}}

	ap, err := f.book.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if ap.Status != "scheduled" {
		t.Errorf("status = %q", ap.Status)
	}
	if ap.Professional == nil || ap.Patient == nil || ap.Unit == nil || ap.Unit.Address == nil {
		t.Fatalf("relations not loaded: %+v", ap)
	}
	if len(ap.Prescriptions) != 1 || ap.Prescriptions[0].AppointmentID != ap.ID {
		t.Errorf("prescriptions = %+v", ap.Prescriptions)
	}
}

func TestBookSameSlotConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.book.Execute(ctx, f.input(testutil.Slot(0))); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.book.Execute(ctx, f.input(testutil.Slot(0)))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("second booking err = %v, want slot taken", err)
	}
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Errorf("err kind is not conflict")
	}

	other := testutil.CreateUser(t, f.db, models.RoleProfessional)
	in := f.input(testutil.Slot(0))
	in.ProfessionalID = other.ID
	if _, err := f.book.Execute(ctx, in); err != nil {
		t.Errorf("other professional same time: %v", err)
	}
}

func TestBookNormalisesInstant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	local := time.Date(2024, 1, 1, 7, 0, 0, 123456789, saoPaulo(t))
	ap, err := f.book.Execute(ctx, f.input(local))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if !ap.ScheduledFor.Equal(testutil.Slot(0)) {
		t.Errorf("scheduled_for = %v, want %v", ap.ScheduledFor, testutil.Slot(0))
	}

	if _, err := f.book.Execute(ctx, f.input(testutil.Slot(0))); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("same instant in UTC err = %v, want slot taken", err)
	}
}

func TestCancelThenRebook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.book.Execute(ctx, f.input(testutil.Slot(0)))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	cancelled, err := f.status.Execute(ctx, 0, first.ID, "  Cancelled ")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != "cancelled" || cancelled.CancelledAt == nil {
		t.Fatalf("cancelled = %+v", cancelled)
	}

	if _, err := f.book.Execute(ctx, f.input(testutil.Slot(0))); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}

	if _, err := f.status.Execute(ctx, 0, first.ID, "scheduled"); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("reactivate err = %v, want slot taken", err)
	}
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
		others    []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.book.Execute(ctx, f.input(testutil.Slot(0)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrSlotTaken):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Errorf("wins = %d conflicts = %d", wins, conflicts)
	}

	var active int64
	f.db.Model(&models.Appointment{}).
		Where("professional_id = ? AND status <> 'cancelled'", f.pro.ID).
		Count(&active)
	if active != 1 {
		t.Errorf("active appointments = %d, want 1", active)
	}
}

func TestBookFanOut(t *testing.T) {
	f := newFixture(t)

	testutil.CreateUser(t, f.db, models.RoleAdministrator)
	testutil.CreateUser(t, f.db, models.RoleAdministrator)
	testutil.CreateUser(t, f.db, models.RoleAdministrator)

	in := f.input(testutil.Slot(0))
	in.Prescriptions = []PrescriptionInput{{Name: "Amoxicilina"}, {Name: "Ibuprofeno"}}

	if _, err := f.book.Execute(context.Background(), in); err != nil {
		t.Fatalf("book: %v", err)
	}

	// one appointment event plus one per prescription, each to 3 admins + 2
	if got := f.countNotifications(t); got != 3*5 {
		t.Errorf("notifications = %d, want 15", got)
	}

	var toPatient int64
	f.db.Model(&models.Notification{}).Where("user_id = ?", f.patient.ID).Count(&toPatient)
	if toPatient != 3 {
		t.Errorf("patient notifications = %d, want 3", toPatient)
	}
}

func TestBookSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)

	if err := f.db.Migrator().DropTable(&models.Notification{}); err != nil {
		t.Fatalf("drop notifications: %v", err)
	}

	in := f.input(testutil.Slot(0))
	in.Prescriptions = []PrescriptionInput{{Name: "Paracetamol"}}

	ap, err := f.book.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	var stored models.Appointment
	if err := f.db.First(&stored, ap.ID).Error; err != nil {
		t.Fatalf("appointment rolled back: %v", err)
	}
}

func TestBookRejectsBadReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		edit func(*BookAppointmentInput)
		want error
	}{
		{"patient as professional", func(in *BookAppointmentInput) { in.ProfessionalID = f.patient.ID }, domain.ErrProfessionalNotFound},
		{"professional as patient", func(in *BookAppointmentInput) { in.PatientID = f.pro.ID }, domain.ErrPatientNotFound},
		{"unknown unit", func(in *BookAppointmentInput) { in.UnitID = 9999 }, domain.ErrUnitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input(testutil.Slot(0))
			tt.edit(&in)

			if _, err := f.book.Execute(ctx, in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := f.book.Execute(ctx, BookAppointmentInput{}); !httperr.IsKind(err, httperr.KindValidation) {
		t.Errorf("empty input err = %v, want validation", err)
	}
}

func TestRescheduleKeepsInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _ := f.book.Execute(ctx, f.input(testutil.Slot(0)))
	b, err := f.book.Execute(ctx, f.input(testutil.Slot(1)))
	if err != nil {
		t.Fatalf("book b: %v", err)
	}

	taken := testutil.Slot(0)
	if _, err := f.update.Execute(ctx, UpdateAppointmentInput{ID: b.ID, ScheduledFor: &taken}); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("move onto taken slot err = %v", err)
	}

	notes := "retorno"
	same := testutil.Slot(0)
	updated, err := f.update.Execute(ctx, UpdateAppointmentInput{ID: a.ID, ScheduledFor: &same, Notes: &notes})
	if err != nil {
		t.Fatalf("update in place: %v", err)
	}
	if updated.Notes != "retorno" {
		t.Errorf("notes = %q", updated.Notes)
	}

	free := testutil.Slot(2)
	moved, err := f.update.Execute(ctx, UpdateAppointmentInput{ID: b.ID, ScheduledFor: &free})
	if err != nil {
		t.Fatalf("move to free slot: %v", err)
	}
	if !moved.ScheduledFor.Equal(free) {
		t.Errorf("scheduled_for = %v", moved.ScheduledFor)
	}
}

func TestListByClinicDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2024-01-02 01:00 UTC is still 2024-01-01 in São Paulo
	late := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)
	if _, err := f.book.Execute(ctx, f.input(late)); err != nil {
		t.Fatalf("book late: %v", err)
	}
	if _, err := f.book.Execute(ctx, f.input(testutil.Slot(0))); err != nil {
		t.Fatalf("book morning: %v", err)
	}
	if _, err := f.book.Execute(ctx, f.input(testutil.Slot(48))); err != nil {
		t.Fatalf("book later day: %v", err)
	}

	apps, err := f.list.Execute(ctx, ListAppointmentsInput{ProfessionalID: f.pro.ID, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("appointments = %d, want 2", len(apps))
	}
	if !apps[0].ScheduledFor.Before(apps[1].ScheduledFor) {
		t.Error("appointments not ordered by time")
	}

	if _, err := f.list.Execute(ctx, ListAppointmentsInput{Date: "01/01/2024"}); !httperr.IsKind(err, httperr.KindValidation) {
		t.Errorf("bad date err = %v", err)
	}
}

func TestDeleteRemovesPrescriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input(testutil.Slot(0))
	in.Prescriptions = []PrescriptionInput{{Name: "Loratadina"}}
	ap, _ := f.book.Execute(ctx, in)

	if err := f.remove.Execute(ctx, 0, ap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	f.db.Model(&models.Prescription{}).Where("appointment_id = ?", ap.ID).Count(&count)
	if count != 0 {
		t.Errorf("prescriptions left = %d", count)
	}

	if err := f.remove.Execute(ctx, 0, ap.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v, want not found", err)
	}
}

func TestRecentPatients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := testutil.CreateUser(t, f.db, models.RolePatient)

	f.book.Execute(ctx, f.input(testutil.Slot(0)))
	f.book.Execute(ctx, f.input(testutil.Slot(5)))
	in := f.input(testutil.Slot(3))
	in.PatientID = other.ID
	f.book.Execute(ctx, in)

	recent, err := f.recent.Execute(ctx, f.pro.ID, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	if recent[0].Patient.ID != f.patient.ID || recent[0].Appointments != 2 {
		t.Errorf("first = %+v", recent[0])
	}
	if !recent[0].LastAppointment.Equal(testutil.Slot(5)) {
		t.Errorf("last appointment = %v", recent[0].LastAppointment)
	}
	if recent[1].Patient.ID != other.ID {
		t.Errorf("second = %+v", recent[1])
	}

	if _, err := f.recent.Execute(ctx, f.patient.ID, 5); !errors.Is(err, domain.ErrProfessionalNotFound) {
		t.Errorf("non professional err = %v", err)
	}
}
