package appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

// Status is free text. These are the values the clinic uses today.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

const maxStatusLength = 20

// ===============================
// Validations
// ===============================

// ParseStatus trims and lower-cases raw.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || utf8.RuneCountInString(s) > maxStatusLength {
		return "", httperr.Validation("invalid_status", "Status inválido.")
	}
	return Status(s), nil
}

// Active statuses occupy the slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

func InitialStatus() Status {
	return StatusScheduled
}
