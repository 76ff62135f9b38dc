package models

import "time"

const (
	RolePatient       = "patient"
	RoleProfessional  = "professional"
	RoleAdministrator = "administrator"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Document     string     `gorm:"size:20" json:"document"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Birthdate    *time.Time `json:"birthdate"`
	Role         string     `gorm:"size:20;not null;default:'patient';index" json:"role"`
	Specialty    string     `gorm:"size:100;index" json:"specialty"`
	AvatarURL    string     `gorm:"size:255" json:"avatar_url"`

	AddressID *uint    `json:"address_id"`
	Address   *Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
