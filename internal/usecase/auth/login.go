package auth

import (
	"context"
	"errors"
	"sync"

	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = httperr.Auth(
	"invalid_credentials",
	"Usuário ou senha incorretos. Verifique suas credenciais.",
)

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnHash spends the same bcrypt work as a real comparison so response
// time does not reveal whether the email exists.
func burnHash(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = security.HashPassword("clinic-dummy-password")
	})
	security.CheckPassword(dummyHash, password)
}

type Login struct {
	users  userdomain.Repository
	tokens TokenIssuer
}

func NewLogin(users userdomain.Repository, tokens TokenIssuer) *Login {
	return &Login{users: users, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, email, password string) (*Session, error) {
	user, err := uc.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, userdomain.ErrNotFound) {
		burnHash(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, httperr.Wrap("token_failed", err)
	}

	return &Session{Token: token, User: user}, nil
}
