package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint  `gorm:"not null;index" json:"professional_id"`
	Professional   *User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	PatientID uint  `gorm:"not null;index" json:"patient_id"`
	Patient   *User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient,omitempty"`

	UnitID uint  `gorm:"not null;index" json:"unit_id"`
	Unit   *Unit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"unit,omitempty"`

	// ScheduledFor is stored in UTC with second precision.
	ScheduledFor time.Time `gorm:"not null;index" json:"scheduled_for"`

	Status string `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Prescriptions []Prescription `gorm:"constraint:OnDelete:CASCADE;" json:"prescriptions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
