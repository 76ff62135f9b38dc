package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type RecentPatientDTO struct {
	Patient         models.User `json:"patient"`
	LastAppointment time.Time   `json:"last_appointment"`
	Appointments    int         `json:"appointments"`
}
