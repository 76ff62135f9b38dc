package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
)

// ======================================================
// INPUT
// ======================================================

type AddressInput struct {
	ZipCode  string
	State    string
	City     string
	District string
	Street   string
	Number   string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string

	Document  string
	Phone     string
	Birthdate string
	Role      string
	Specialty string

	Address *AddressInput

	// Set when an authenticated user creates the account.
	ActorID   uint
	ActorRole string
}

// ======================================================
// USE CASE
// ======================================================

type Register struct {
	users    userdomain.Repository
	tokens   TokenIssuer
	notifier Notifier
	audit    *audit.Dispatcher

	// emailDomainOK is nil when the domain lookup is disabled.
	emailDomainOK func(email string) bool
}

func NewRegister(
	users userdomain.Repository,
	tokens TokenIssuer,
	notifier Notifier,
	audit *audit.Dispatcher,
	emailDomainOK func(email string) bool,
) *Register {
	return &Register{
		users:         users,
		tokens:        tokens,
		notifier:      notifier,
		audit:         audit,
		emailDomainOK: emailDomainOK,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*Session, error) {

	// --------------------------------------------------
	// 1️⃣ Normalização
	// --------------------------------------------------
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, httperr.Validation("invalid_request", "E-mail e senha são obrigatórios.")
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RolePatient
	}
	if !userdomain.ValidRole(role) {
		return nil, httperr.Validation("invalid_role", "Perfil de usuário inválido.")
	}
	if !userdomain.CanAssign(in.ActorRole, role) {
		return nil, userdomain.ErrAdministratorOnly
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	var birthdate *time.Time
	if in.Birthdate != "" {
		d, err := time.Parse("2006-01-02", in.Birthdate)
		if err != nil {
			return nil, httperr.Validation("invalid_birthdate", "Data de nascimento inválida.")
		}
		birthdate = &d
	}

	if uc.emailDomainOK != nil && !uc.emailDomainOK(email) {
		return nil, httperr.Validation(
			"invalid_email_domain",
			"O domínio do e-mail informado não parece ser válido.",
		)
	}

	// --------------------------------------------------
	// 2️⃣ E-mail único
	// --------------------------------------------------
	_, err := uc.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, userdomain.ErrEmailTaken
	}
	if !errors.Is(err, userdomain.ErrNotFound) {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Usuário (+ endereço para pacientes)
	// --------------------------------------------------
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, httperr.Wrap("hash_failed", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Document:     strings.TrimSpace(in.Document),
		Phone:        strings.TrimSpace(in.Phone),
		Birthdate:    birthdate,
		Role:         role,
		Specialty:    strings.TrimSpace(in.Specialty),
	}

	if role == models.RolePatient && in.Address != nil {
		user.Address = &models.Address{
			ZipCode:  in.Address.ZipCode,
			State:    in.Address.State,
			City:     in.Address.City,
			District: in.Address.District,
			Street:   in.Address.Street,
			Number:   in.Address.Number,
		}
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, httperr.Wrap("token_failed", err)
	}

	// --------------------------------------------------
	// 4️⃣ Notificações
	// --------------------------------------------------
	if role == models.RolePatient || role == models.RoleProfessional {
		uc.notifier.NotifyAdministrators(ctx, newUserMessage(user))
	}

	uc.notifier.FanOut(ctx, []uint{user.ID}, notification.Message{
		Title:   "Bem-vindo!",
		Content: fmt.Sprintf("Olá %s! Seu cadastro foi realizado com sucesso.", user.Name),
		Metadata: map[string]any{
			"id":         user.ID,
			"name":       user.Name,
			"is_welcome": true,
		},
	})

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	actor := &user.ID
	if in.ActorID != 0 {
		actor = &in.ActorID
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": role},
	})

	return &Session{Token: token, User: user}, nil
}

func newUserMessage(u *models.User) notification.Message {
	kind, label := "paciente", "Paciente"
	if u.Role == models.RoleProfessional {
		kind, label = "profissional", "Profissional"
	}

	return notification.Message{
		Title:   "Novo " + kind,
		Content: fmt.Sprintf("%s \"%s\" foi cadastrado.", label, u.Name),
		Metadata: map[string]any{
			"id":   u.ID,
			"name": u.Name,
			"role": u.Role,
		},
	}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
