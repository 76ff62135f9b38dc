package timezone

import (
	"time"

	// Containers often ship without a zoneinfo database.
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to the clinic default for an empty or unknown name.
func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil && tz != "" {
		return loc
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayBounds returns [00:00, next 00:00) of the calendar day that t falls on
// in loc. The end is computed by date arithmetic so DST days keep their
// real length.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay reads a YYYY-MM-DD calendar date in loc.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, loc)
}
