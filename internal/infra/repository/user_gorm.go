package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) first(q *gorm.DB) (*models.User, error) {
	var u models.User
	err := q.Preload("Address").First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *UserGormRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Address != nil {
			if err := tx.Create(u.Address).Error; err != nil {
				return err
			}
			u.AddressID = &u.Address.ID
		}
		return tx.Omit(clause.Associations).Create(u).Error
	})

	if httperr.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// Save writes the profile and its address. A new address is inserted, an
// existing one updated in place.
func (r *UserGormRepository) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Address != nil {
			if err := tx.Save(u.Address).Error; err != nil {
				return err
			}
			u.AddressID = &u.Address.ID
		}
		return tx.Omit(clause.Associations).Save(u).Error
	})
}

func (r *UserGormRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserGormRepository) SetAvatar(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("avatar_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserGormRepository) ListByRole(ctx context.Context, role string, f domain.ListFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).
		Preload("Address").
		Where("role = ?", role)

	if specialty := strings.TrimSpace(f.Specialty); specialty != "" {
		q = q.Where("LOWER(specialty) = LOWER(?)", specialty)
	}

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	users := []models.User{}
	if err := q.Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserGormRepository) Specialties(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND specialty <> ''", models.RoleProfessional).
		Distinct("specialty").
		Order("specialty ASC").
		Pluck("specialty", &out).Error
	return out, err
}

// Compile-time check
var _ domain.Repository = (*UserGormRepository)(nil)
