package models

import "time"

// Unit is a physical clinic location where appointments take place.
type Unit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	AddressID *uint    `json:"address_id"`
	Address   *Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
