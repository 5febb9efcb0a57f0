package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the decided outcome of one recognized scan.
type Status string

const (
	StatusCheckedIn         Status = "CheckedIn"
	StatusLate              Status = "Late"
	StatusCheckedOut        Status = "CheckedOut"
	StatusCooldown          Status = "Cooldown"
	StatusAlreadyCheckedIn  Status = "AlreadyCheckedIn"
	StatusAlreadyInRecent   Status = "AlreadyCheckedIn-Recent"
	StatusAlreadyCheckedOut Status = "AlreadyCheckedOut"
	StatusError             Status = "Error"
)

// IsCheckIn reports whether the status counts as a presence record.
func (s Status) IsCheckIn() bool {
	return s == StatusCheckedIn || s == StatusLate
}

// IsCheckOut reports whether the status closes an attendance cycle.
func (s Status) IsCheckOut() bool {
	return s == StatusCheckedOut
}

// AttendanceLog is one append-only attendance record. Timestamps are
// timezone-aware UTC; the core never updates or deletes rows.
type AttendanceLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EmployeeID string     `json:"employee_id" db:"employee_id"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
	Status     Status     `json:"status" db:"status"`
	// ShiftID snapshots the shift active at decision time so history
	// stays reconstructable after reassignment. Nil means the global
	// default schedule applied.
	ShiftID   *uuid.UUID `json:"shift_id,omitempty" db:"shift_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Shift is a named schedule assignable per employee, overriding the
// global default settings.
type Shift struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	StartTime            string    `json:"start_time" db:"start_time"` // "HH:MM"
	EndTime              string    `json:"end_time" db:"end_time"`     // "HH:MM"
	LateToleranceMinutes int       `json:"late_tolerance_minutes" db:"late_tolerance_minutes"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// Settings is the global default schedule (single row, id=1).
type Settings struct {
	StartTime            string `json:"start_time" db:"start_time"`
	EndTime              string `json:"end_time" db:"end_time"`
	LateToleranceMinutes int    `json:"late_tolerance_minutes" db:"late_tolerance_minutes"`
}

// DefaultSettings mirrors the values used when no settings row exists yet.
func DefaultSettings() Settings {
	return Settings{StartTime: "08:00", EndTime: "17:00", LateToleranceMinutes: 15}
}
