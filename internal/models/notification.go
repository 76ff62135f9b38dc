package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	Title    string            `gorm:"size:150;not null" json:"title"`
	Content  string            `gorm:"type:text" json:"content"`
	Metadata datatypes.JSONMap `json:"metadata"`

	// ReadAt nil means unread.
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
