package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/recovery"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
)

var (
	errUnknownEmail = httperr.Missing("user_not_found", "Não encontramos um cadastro com este e-mail.")
	errResetDenied  = httperr.Expired(
		"reset_not_verified",
		"Código de recuperação expirado ou não verificado. Solicite um novo código.",
	)
)

// Recovery runs the forgot-password exchange: mail a code, verify it,
// reset the password.
type Recovery struct {
	users userdomain.Repository
	store *recovery.Store
	mail  mailer.Sender
	audit *audit.Dispatcher

	// requireCode makes reset depend on a verified code. Off by default,
	// reset then trusts the caller.
	requireCode bool
}

func NewRecovery(
	users userdomain.Repository,
	store *recovery.Store,
	mail mailer.Sender,
	audit *audit.Dispatcher,
	requireCode bool,
) *Recovery {
	return &Recovery{
		users:       users,
		store:       store,
		mail:        mail,
		audit:       audit,
		requireCode: requireCode,
	}
}

func (uc *Recovery) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := uc.users.FindByEmail(ctx, email)
	if errors.Is(err, userdomain.ErrNotFound) {
		return errUnknownEmail
	}
	if err != nil {
		return err
	}

	code, err := recovery.GenerateCode()
	if err != nil {
		return httperr.Wrap("code_generation_failed", err)
	}

	if err := uc.store.Save(ctx, email, code); err != nil {
		return httperr.Failure(
			"recovery_store_failed",
			"Não foi possível enviar o código de recuperação. Tente novamente mais tarde.",
			err,
		)
	}

	if err := uc.mail.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Recuperação de Senha",
		Text:    fmt.Sprintf("Seu código de recuperação é: %s", code),
	}); err != nil {
		return httperr.Failure(
			"recovery_mail_failed",
			"Não foi possível enviar o código de recuperação. Tente novamente mais tarde.",
			err,
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "password_recovery_requested",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}

// VerifyCode never fails on a wrong or expired code, it reports false.
func (uc *Recovery) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	email = NormalizeEmail(email)

	match, err := uc.store.Match(ctx, email, code)
	if err != nil {
		return false, httperr.Failure(
			"recovery_verify_failed",
			"Não foi possível validar o código. Tente novamente mais tarde.",
			err,
		)
	}

	if match && uc.requireCode {
		if err := uc.store.GrantReset(ctx, email); err != nil {
			return false, httperr.Failure(
				"recovery_verify_failed",
				"Não foi possível validar o código. Tente novamente mais tarde.",
				err,
			)
		}
	}

	return match, nil
}

// ResetPassword overwrites the password hash for email. With requireCode
// the caller needs a prior successful verification or a valid code.
func (uc *Recovery) ResetPassword(ctx context.Context, email, password, code string) error {
	email = NormalizeEmail(email)

	if password == "" {
		return httperr.Validation("invalid_request", "A nova senha é obrigatória.")
	}

	if uc.requireCode {
		allowed, err := uc.store.ConsumeGrant(ctx, email)
		if err != nil {
			return httperr.Wrap("recovery_grant_failed", err)
		}
		if !allowed && code != "" {
			if allowed, err = uc.store.Match(ctx, email, code); err != nil {
				return httperr.Wrap("recovery_grant_failed", err)
			}
		}
		if !allowed {
			return errResetDenied
		}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return httperr.Wrap("hash_failed", err)
	}

	if err := uc.users.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return errUnknownEmail
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "password_reset",
		Entity:   "user",
		Metadata: map[string]any{"email": email},
	})

	return nil
}
