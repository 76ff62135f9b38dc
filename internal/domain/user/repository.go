package user

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ListFilter narrows ListByRole. Empty fields match everything.
type ListFilter struct {
	Specialty string

	// Query matches name, email or phone, case insensitive.
	Query string
}

type Repository interface {
	// FindByEmail returns ErrNotFound for an unknown email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)

	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	SetAvatar(ctx context.Context, id uint, url string) error

	ListByRole(ctx context.Context, role string, f ListFilter) ([]models.User, error)
	Specialties(ctx context.Context) ([]string, error)
}
