package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Message struct {
	Title    string
	Content  string
	Metadata map[string]any
}

// Service writes in-app notifications. Fan-out inserts are independent and
// their failures are logged, never returned.
type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log.With().Str("component", "notification").Logger()}
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}

func (s *Service) Administrators(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleAdministrator).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Service) Notify(ctx context.Context, userID uint, msg Message) (*models.Notification, error) {
	n := &models.Notification{
		UserID:   userID,
		Title:    msg.Title,
		Content:  msg.Content,
		Metadata: datatypes.JSONMap(msg.Metadata),
	}
	if n.Metadata == nil {
		n.Metadata = datatypes.JSONMap{}
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// FanOut sends msg to every recipient, duplicates included, and returns
// how many inserts succeeded.
func (s *Service) FanOut(ctx context.Context, recipients []uint, msg Message) int {
	sent := 0
	for _, userID := range recipients {
		if _, err := s.Notify(ctx, userID, msg); err != nil {
			s.logger(ctx).Error().
				Err(err).
				Uint("user_id", userID).
				Str("title", msg.Title).
				Msg("notification insert failed")
			continue
		}
		sent++
	}
	return sent
}

// NotifyAdministrators sends msg to every administrator and, when given,
// to the extra recipients.
func (s *Service) NotifyAdministrators(ctx context.Context, msg Message, extra ...uint) int {
	admins, err := s.Administrators(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("load administrators failed")
	}
	return s.FanOut(ctx, append(admins, extra...), msg)
}

// List returns notifications newest first. A zero userID lists everyone's.
func (s *Service) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Preload("User.Address")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var list []models.Notification
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// MarkRead stamps read_at on the given notifications in one transaction and
// returns them. Already read notifications keep their original timestamp.
// A non-zero ownerID restricts both the update and the result to that
// user's notifications; ids belonging to someone else are ignored.
func (s *Service) MarkRead(ctx context.Context, ids []uint, ownerID uint) ([]models.Notification, error) {
	var updated []models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		scope := func(q *gorm.DB) *gorm.DB {
			q = q.Where("id IN ?", ids)
			if ownerID != 0 {
				q = q.Where("user_id = ?", ownerID)
			}
			return q
		}

		if err := scope(tx.Model(&models.Notification{})).
			Where("read_at IS NULL").
			Update("read_at", now).Error; err != nil {
			return err
		}

		return scope(tx.Preload("User.Address")).
			Order("id ASC").
			Find(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
