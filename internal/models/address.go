package models

import "time"

type Address struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ZipCode  string `gorm:"size:9" json:"zip_code"`
	State    string `gorm:"size:2" json:"state"`
	City     string `gorm:"size:100" json:"city"`
	District string `gorm:"size:100" json:"district"`
	Street   string `gorm:"size:150" json:"street"`
	Number   string `gorm:"size:10" json:"number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
