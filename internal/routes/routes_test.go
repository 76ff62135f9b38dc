package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		t.Fatal("no mail sent")
	}
	text := o.sent[len(o.sent)-1].Text
	return text[len(text)-6:]
}

type app struct {
	t    *testing.T
	r    *gin.Engine
	db   *gorm.DB
	mail *outbox
}

func newApp(t *testing.T) *app {
	t.Helper()

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	mail := &outbox{}

	dispatcher := audit.NewDispatcher(audit.New(db), nil, testutil.Logger())
	t.Cleanup(dispatcher.Close)

	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       "test-secret",
		TokenTTL:        30 * 24 * time.Hour,
		RecoveryCodeTTL: 300 * time.Second,
		ClinicTimezone:  "America/Sao_Paulo",
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
	}

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Mailer: mail,
		Audit:  dispatcher,
		Logger: testutil.Logger(),
	})

	return &app{t: t, r: r, db: db, mail: mail}
}

func (a *app) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

type session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (a *app) register(email, role string) session {
	a.t.Helper()

	w := a.do(http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": "p1",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}

	var s session
	decode(a.t, w, &s)
	return s
}

// administrator inserts an administrator straight into the database, the
// way the create-admin command does, and logs in.
func (a *app) administrator(email string) session {
	a.t.Helper()

	hash, err := security.HashPassword("p1")
	if err != nil {
		a.t.Fatalf("hash: %v", err)
	}
	u := &models.User{Name: "Admin", Email: email, PasswordHash: hash, Role: models.RoleAdministrator}
	if err := a.db.Create(u).Error; err != nil {
		a.t.Fatalf("create admin: %v", err)
	}

	w := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "p1"})
	if w.Code != http.StatusOK {
		a.t.Fatalf("admin login: %d %s", w.Code, w.Body.String())
	}

	var s session
	decode(a.t, w, &s)
	return s
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	decode(t, w, &body)
	return body.Code
}

// ======================================================
// AUTH
// ======================================================

func TestHealth(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterTwiceConflicts(t *testing.T) {
	a := newApp(t)

	first := a.do(http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "p1"})
	if first.Code != http.StatusCreated {
		t.Fatalf("first register: %d %s", first.Code, first.Body.String())
	}

	second := a.do(http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "p2"})
	if second.Code != http.StatusConflict {
		t.Fatalf("second register: %d %s", second.Code, second.Body.String())
	}
	if code := errorCode(t, second); code != "email_taken" {
		t.Errorf("error_code = %q", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newApp(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing password", gin.H{"email": "a@x.com"}},
		{"bad email", gin.H{"email": "not-an-email", "password": "p1"}},
		{"unknown role", gin.H{"email": "a@x.com", "password": "p1", "role": "nurse"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/auth/register", "", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterAdministratorNeedsAdministrator(t *testing.T) {
	a := newApp(t)
	admin := a.administrator("root@x.com")
	patient := a.register("ana@x.com", models.RolePatient)

	body := func(email string) gin.H {
		return gin.H{"email": email, "password": "p1", "role": models.RoleAdministrator}
	}

	w := a.do(http.MethodPost, "/auth/register", "", body("self@x.com"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous: status = %d, want 403 (%s)", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/auth/register", patient.Token, body("escalate@x.com"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("patient: status = %d, want 403 (%s)", w.Code, w.Body.String())
	}

	var count int64
	a.db.Model(&models.User{}).Where("role = ?", models.RoleAdministrator).Count(&count)
	if count != 1 {
		t.Fatalf("administrators = %d, want 1", count)
	}

	w = a.do(http.MethodPost, "/auth/register", admin.Token, body("second@x.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: status = %d, want 201 (%s)", w.Code, w.Body.String())
	}

	var created session
	decode(t, w, &created)
	if created.User.Role != models.RoleAdministrator {
		t.Errorf("role = %q", created.User.Role)
	}

	w = a.do(http.MethodPost, "/units", created.Token, gin.H{"name": "UBS Norte"})
	if w.Code != http.StatusCreated {
		t.Errorf("new admin create unit: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterWithBadTokenIsRejected(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/auth/register", "forged", gin.H{"email": "a@x.com", "password": "p1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/auth/register", "", gin.H{"email": "a@x.com", "password": "p1"})
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Errorf("response mentions password: %s", w.Body.String())
	}
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	a := newApp(t)
	a.register("a@x.com", "")

	ok := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "p1"})
	if ok.Code != http.StatusOK {
		t.Fatalf("login: %d %s", ok.Code, ok.Body.String())
	}

	wrong := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "nope"})
	unknown := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "b@x.com", "password": "p1"})

	if wrong.Code != http.StatusUnprocessableEntity || unknown.Code != http.StatusUnprocessableEntity {
		t.Fatalf("statuses = %d, %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", wrong.Body.String(), unknown.Body.String())
	}
}

func TestForgotThenVerifyCode(t *testing.T) {
	a := newApp(t)
	a.register("a@x.com", "")

	w := a.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "a@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("forgot: %d %s", w.Code, w.Body.String())
	}
	code := a.mail.lastCode(t)

	var verify struct {
		Match bool `json:"match"`
	}

	w = a.do(http.MethodPost, "/auth/verify-code", "", gin.H{"email": "a@x.com", "code": code})
	decode(t, w, &verify)
	if w.Code != http.StatusOK || !verify.Match {
		t.Fatalf("first verify: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/auth/verify-code", "", gin.H{"email": "a@x.com", "code": code})
	decode(t, w, &verify)
	if w.Code != http.StatusOK || verify.Match {
		t.Fatalf("second verify: %d %s", w.Code, w.Body.String())
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "ghost@x.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestVerifyCodeRejectsMalformedCode(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/auth/verify-code", "", gin.H{"email": "a@x.com", "code": "12ab"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestResetPasswordThenLogin(t *testing.T) {
	a := newApp(t)
	a.register("a@x.com", "")

	w := a.do(http.MethodPost, "/auth/reset-password", "", gin.H{"email": "a@x.com", "password": "nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: %d", w.Code)
	}
}

// ======================================================
// APPOINTMENTS
// ======================================================

type clinic struct {
	admin, pro, patient session
	unitID              uint
}

func (a *app) seed() clinic {
	a.t.Helper()

	c := clinic{
		admin:   a.administrator("admin@x.com"),
		pro:     a.register("dra@x.com", models.RoleProfessional),
		patient: a.register("ana@x.com", models.RolePatient),
	}

	w := a.do(http.MethodPost, "/units", c.admin.Token, gin.H{
		"name":    "UBS Centro",
		"phone":   "1133334444",
		"address": gin.H{"city": "São Paulo", "state": "sp"},
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("create unit: %d %s", w.Code, w.Body.String())
	}

	var unit models.Unit
	decode(a.t, w, &unit)
	c.unitID = unit.ID

	return c
}

func (c clinic) booking(at string, extra gin.H) gin.H {
	body := gin.H{
		"professional_id": c.pro.User.ID,
		"patient_id":      c.patient.User.ID,
		"unit_id":         c.unitID,
		"scheduled_for":   at,
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestAppointmentsRequireToken(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/appointments", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBookingSameSlotTwiceConflicts(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	first := a.do(http.MethodPost, "/appointments", c.patient.Token, c.booking("2024-01-01T10:00:00Z", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("first booking: %d %s", first.Code, first.Body.String())
	}

	second := a.do(http.MethodPost, "/appointments", c.patient.Token, c.booking("2024-01-01T10:00:00Z", nil))
	if second.Code != http.StatusConflict {
		t.Fatalf("second booking: %d %s", second.Code, second.Body.String())
	}
	if code := errorCode(t, second); code != "slot_taken" {
		t.Errorf("error_code = %q", code)
	}
}

func TestCancelThenRebook(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPost, "/appointments", c.patient.Token, c.booking("2024-01-01T10:00:00Z", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking: %d %s", w.Code, w.Body.String())
	}
	var ap models.Appointment
	decode(t, w, &ap)

	w = a.do(http.MethodPatch, fmt.Sprintf("/appointments/%d/status", ap.ID), c.pro.Token, gin.H{"status": "Cancelled"})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/appointments", c.patient.Token, c.booking("2024-01-01T10:00:00Z", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("rebook: %d %s", w.Code, w.Body.String())
	}
}

func TestBookingResponseAndFanOut(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	// Registration notifications are not part of this count.
	a.db.Where("1 = 1").Delete(&models.Notification{})

	w := a.do(http.MethodPost, "/appointments", c.patient.Token, c.booking("2024-01-01T10:00:00Z", gin.H{
		"prescriptions": []gin.H{
			{"name": "Dipirona", "dosage": "500mg", "frequency": "8/8h", "duration": "3 dias"},
		},
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking: %d %s", w.Code, w.Body.String())
	}

	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Errorf("response mentions password: %s", w.Body.String())
	}

	var ap models.Appointment
	decode(t, w, &ap)
	if ap.Professional == nil || ap.Patient == nil || ap.Unit == nil || len(ap.Prescriptions) != 1 {
		t.Fatalf("relations missing: %s", w.Body.String())
	}

	// One administrator: (1 + 2) per event, two events.
	var n int64
	a.db.Model(&models.Notification{}).Count(&n)
	if n != 6 {
		t.Errorf("notifications = %d, want 6", n)
	}

	var mine []models.Notification
	w = a.do(http.MethodGet, "/notifications", c.patient.Token, nil)
	decode(t, w, &mine)
	if len(mine) != 2 {
		t.Errorf("patient notifications = %d, want 2", len(mine))
	}
}

func TestAppointmentCRUD(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPost, "/appointments", c.admin.Token, c.booking("2024-01-01T10:00", gin.H{"notes": "retorno"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking: %d %s", w.Code, w.Body.String())
	}
	var ap models.Appointment
	decode(t, w, &ap)

	// Wall clock input is read in the clinic timezone (UTC-3).
	if want := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC); !ap.ScheduledFor.Equal(want) {
		t.Errorf("scheduled_for = %v, want %v", ap.ScheduledFor, want)
	}

	path := fmt.Sprintf("/appointments/%d", ap.ID)

	if w := a.do(http.MethodGet, path, c.pro.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = a.do(http.MethodGet, "/appointments?date=2024-01-01&professional_id="+fmt.Sprint(c.pro.User.ID), c.pro.Token, nil)
	var list []models.Appointment
	decode(t, w, &list)
	if len(list) != 1 {
		t.Errorf("list by date = %d, want 1", len(list))
	}

	w = a.do(http.MethodPut, path, c.admin.Token, gin.H{"scheduled_for": "2024-01-02T09:00:00-03:00"})
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule: %d %s", w.Code, w.Body.String())
	}

	if w := a.do(http.MethodDelete, path, c.admin.Token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := a.do(http.MethodGet, path, c.admin.Token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", w.Code)
	}
}

func TestAppointmentBadInput(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad timestamp", http.MethodPost, "/appointments", c.booking("amanhã", nil), http.StatusBadRequest},
		{"unknown unit", http.MethodPost, "/appointments", gin.H{
			"professional_id": c.pro.User.ID,
			"patient_id":      c.patient.User.ID,
			"unit_id":         999,
			"scheduled_for":   "2024-01-01T10:00:00Z",
		}, http.StatusNotFound},
		{"non numeric id", http.MethodGet, "/appointments/abc", nil, http.StatusBadRequest},
		{"bad date filter", http.MethodGet, "/appointments?date=01/01/2024", nil, http.StatusBadRequest},
		{"empty status", http.MethodPatch, "/appointments/1/status", gin.H{"status": ""}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(tc.method, tc.path, c.admin.Token, tc.body)
			if w.Code != tc.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}
}

// ======================================================
// OTHER RESOURCES
// ======================================================

func TestUnitWritesAreAdminOnly(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPost, "/units", c.patient.Token, gin.H{"name": "UBS Norte"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("patient create unit: %d", w.Code)
	}

	path := fmt.Sprintf("/units/%d", c.unitID)
	w = a.do(http.MethodPut, path, c.admin.Token, gin.H{"name": "UBS Centro II", "address": gin.H{"city": "Santos"}})
	if w.Code != http.StatusOK {
		t.Fatalf("update unit: %d %s", w.Code, w.Body.String())
	}
	var unit models.Unit
	decode(t, w, &unit)
	if unit.Name != "UBS Centro II" || unit.Address == nil || unit.Address.City != "Santos" {
		t.Errorf("unit = %+v", unit)
	}

	// In use by an appointment.
	a.do(http.MethodPost, "/appointments", c.admin.Token, c.booking("2024-01-01T10:00:00Z", nil))
	if w := a.do(http.MethodDelete, path, c.admin.Token, nil); w.Code != http.StatusConflict {
		t.Fatalf("delete unit in use: %d", w.Code)
	}
}

func TestProfessionalsAndSpecialties(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPut, "/me", c.pro.Token, gin.H{"specialty": "Pediatria"})
	if w.Code != http.StatusOK {
		t.Fatalf("update me: %d %s", w.Code, w.Body.String())
	}

	var specialties []string
	decode(t, a.do(http.MethodGet, "/specialties", c.patient.Token, nil), &specialties)
	if len(specialties) != 1 || specialties[0] != "Pediatria" {
		t.Errorf("specialties = %v", specialties)
	}

	var pros []models.User
	decode(t, a.do(http.MethodGet, "/professionals?specialty=pediatria", c.patient.Token, nil), &pros)
	if len(pros) != 1 || pros[0].ID != c.pro.User.ID {
		t.Errorf("professionals = %+v", pros)
	}

	if w := a.do(http.MethodGet, fmt.Sprintf("/professionals/%d", c.patient.User.ID), c.patient.Token, nil); w.Code != http.StatusNotFound {
		t.Errorf("patient as professional: %d", w.Code)
	}

	a.do(http.MethodPost, "/appointments", c.admin.Token, c.booking("2024-01-01T10:00:00Z", nil))
	var recent []struct {
		Patient      models.User `json:"patient"`
		Appointments int         `json:"appointments"`
	}
	decode(t, a.do(http.MethodGet, fmt.Sprintf("/professionals/%d/recent-patients", c.pro.User.ID), c.pro.Token, nil), &recent)
	if len(recent) != 1 || recent[0].Patient.ID != c.patient.User.ID || recent[0].Appointments != 1 {
		t.Errorf("recent patients = %+v", recent)
	}
}

func TestAvatarUploadWithoutStorage(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPut, fmt.Sprintf("/professionals/%d/avatar", c.pro.User.ID), c.pro.Token, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}

	w = a.do(http.MethodPut, fmt.Sprintf("/professionals/%d/avatar", c.pro.User.ID), c.patient.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("other user status = %d", w.Code)
	}
}

func TestNotificationsCreateAndMarkRead(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	w := a.do(http.MethodPost, "/notifications", c.admin.Token, gin.H{
		"user_id":  c.patient.User.ID,
		"title":    "Lembrete",
		"content":  "Consulta amanhã",
		"metadata": gin.H{"kind": "reminder"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var n models.Notification
	decode(t, w, &n)

	w = a.do(http.MethodPost, "/notifications/read", c.patient.Token, gin.H{"notifications": []uint{n.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", w.Code, w.Body.String())
	}
	var updated []models.Notification
	decode(t, w, &updated)
	if len(updated) != 1 || updated[0].ReadAt == nil {
		t.Errorf("updated = %+v", updated)
	}

	if w := a.do(http.MethodPost, "/notifications/read", c.patient.Token, gin.H{"notifications": []uint{}}); w.Code != http.StatusBadRequest {
		t.Errorf("empty mark read: %d", w.Code)
	}
}

func TestMarkReadOnlyTouchesOwnNotifications(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	var welcome models.Notification
	if err := a.db.Where("user_id = ?", c.pro.User.ID).Order("id ASC").First(&welcome).Error; err != nil {
		t.Fatalf("professional welcome notification: %v", err)
	}

	w := a.do(http.MethodPost, "/notifications/read", c.patient.Token, gin.H{"notifications": []uint{welcome.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", w.Code, w.Body.String())
	}
	var updated []models.Notification
	decode(t, w, &updated)
	if len(updated) != 0 {
		t.Errorf("patient got someone else's notifications: %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte(c.pro.User.Email)) {
		t.Errorf("response leaks the owner: %s", w.Body.String())
	}

	var stored models.Notification
	a.db.First(&stored, welcome.ID)
	if stored.ReadAt != nil {
		t.Error("notification of another user was marked read")
	}

	w = a.do(http.MethodPost, "/notifications/read", c.admin.Token, gin.H{"notifications": []uint{welcome.ID}})
	decode(t, w, &updated)
	if len(updated) != 1 || updated[0].ReadAt == nil {
		t.Errorf("admin mark read = %s", w.Body.String())
	}
}

func TestPrescriptionsByPatient(t *testing.T) {
	a := newApp(t)
	c := a.seed()
	other := a.register("bia@x.com", models.RolePatient)

	a.do(http.MethodPost, "/appointments", c.admin.Token, c.booking("2024-01-01T10:00:00Z", gin.H{
		"prescriptions": []gin.H{{"name": "Dipirona"}, {"name": "Amoxicilina"}},
	}))

	var list []models.Prescription
	decode(t, a.do(http.MethodGet, fmt.Sprintf("/prescriptions?patient_id=%d", c.patient.User.ID), c.admin.Token, nil), &list)
	if len(list) != 2 {
		t.Fatalf("prescriptions = %d, want 2", len(list))
	}
	if list[0].Appointment == nil || list[0].Appointment.Patient == nil {
		t.Errorf("relations missing: %+v", list[0])
	}

	decode(t, a.do(http.MethodGet, fmt.Sprintf("/prescriptions?patient_id=%d", other.User.ID), c.admin.Token, nil), &list)
	if len(list) != 0 {
		t.Errorf("other patient prescriptions = %d", len(list))
	}
}

func TestAuditLogsAdminOnly(t *testing.T) {
	a := newApp(t)
	c := a.seed()

	if w := a.do(http.MethodGet, "/audit-logs", c.patient.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("patient audit logs: %d", w.Code)
	}

	w := a.do(http.MethodGet, "/audit-logs?entity=user", c.admin.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("audit logs: %d %s", w.Code, w.Body.String())
	}
}
