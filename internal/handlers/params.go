package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// paramID reads a positive numeric path parameter. On failure it writes
// the 400 response and returns false.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric query parameter. Missing means 0.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido: "+name+".")
		return 0, false
	}
	return uint(v), true
}

// parseScheduledFor accepts RFC 3339 timestamps, or a wall clock
// "YYYY-MM-DDTHH:MM[:SS]" / "YYYY-MM-DD HH:MM" read in the clinic timezone.
func parseScheduledFor(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	var err error
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		var t time.Time
		if t, err = time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
