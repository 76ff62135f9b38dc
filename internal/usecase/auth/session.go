package auth

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

// Session is what register and login hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type Notifier interface {
	NotifyAdministrators(ctx context.Context, msg notification.Message, extra ...uint) int
	FanOut(ctx context.Context, recipients []uint, msg notification.Message) int
}
