package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/attendance/internal/models"
)

// Schedule is the effective work schedule for one decision: either the
// employee's assigned shift or the global default settings.
type Schedule struct {
	// ShiftID is nil when the global settings apply.
	ShiftID       *uuid.UUID
	StartTime     string // "HH:MM"
	EndTime       string // "HH:MM"
	LateTolerance time.Duration
}

func scheduleFromShift(sh *models.Shift) Schedule {
	id := sh.ID
	return Schedule{
		ShiftID:       &id,
		StartTime:     sh.StartTime,
		EndTime:       sh.EndTime,
		LateTolerance: time.Duration(sh.LateToleranceMinutes) * time.Minute,
	}
}

func scheduleFromSettings(st models.Settings) Schedule {
	return Schedule{
		StartTime:     st.StartTime,
		EndTime:       st.EndTime,
		LateTolerance: time.Duration(st.LateToleranceMinutes) * time.Minute,
	}
}

// Boundaries binds the schedule's wall-clock times to now's local date.
// Boundary comparisons run in naive local time while persisted
// timestamps are UTC; this mirrors how terminals are operated in one
// local zone, and misbehaves for shifts crossing midnight or during a
// DST transition.
func (s Schedule) Boundaries(now time.Time) (start, end time.Time, err error) {
	sh, sm, err := parseHourMinute(s.StartTime)
	if err != nil {
		return start, end, fmt.Errorf("shift start %q: %w", s.StartTime, err)
	}
	eh, em, err := parseHourMinute(s.EndTime)
	if err != nil {
		return start, end, fmt.Errorf("shift end %q: %w", s.EndTime, err)
	}

	y, m, d := now.Date()
	loc := now.Location()
	start = time.Date(y, m, d, sh, sm, 0, 0, loc)
	end = time.Date(y, m, d, eh, em, 0, 0, loc)
	return start, end, nil
}

func parseHourMinute(v string) (int, int, error) {
	parts := strings.SplitN(v, ":", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("want HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute")
	}
	return h, m, nil
}
