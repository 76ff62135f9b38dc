package models

import "time"

type Prescription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Dosage    string `gorm:"size:100" json:"dosage"`
	Frequency string `gorm:"size:100" json:"frequency"`
	Duration  string `gorm:"size:100" json:"duration"`

	AppointmentID uint         `gorm:"not null;index" json:"appointment_id"`
	Appointment   *Appointment `json:"appointment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
