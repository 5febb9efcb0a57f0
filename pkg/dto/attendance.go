package dto

import (
	"github.com/google/uuid"

	"github.com/your-org/attendance/internal/models"
)

// FrameRequest is one terminal WebSocket message carrying a camera
// frame as a base64 data URI.
type FrameRequest struct {
	Type  string `json:"type"` // "process_frame"
	Frame string `json:"frame"`
}

// MatchedUser identifies the recognized employee inside a result.
type MatchedUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// AttendanceResult is the per-frame terminal response and the body of
// the HTTP verify endpoint.
type AttendanceResult struct {
	Type    string       `json:"type,omitempty"` // "attendance_result" on the WS path
	Kind    string       `json:"kind"`
	Success bool         `json:"success"`
	IsLive  bool         `json:"is_live"`
	Message string       `json:"message,omitempty"`
	User    *MatchedUser `json:"user,omitempty"`
}

// ResultFromOutcome renders the pipeline outcome into the wire shape.
func ResultFromOutcome(o models.Outcome) AttendanceResult {
	res := AttendanceResult{
		Kind:   string(o.Kind),
		IsLive: o.IsLive,
	}
	switch o.Kind {
	case models.OutcomeLivenessFailed:
		res.Message = "liveness check failed, please blink"
	case models.OutcomeNoFaceDetected:
		res.Message = "no face detected"
	case models.OutcomeUnknownFace:
		res.Message = "face not recognized"
	case models.OutcomeMatched:
		// A matched face is a success even when the log write failed;
		// the status field carries Error and callers must not read
		// success as proof of a durable write.
		res.Success = true
		res.User = &MatchedUser{
			ID:     o.EmployeeID,
			Name:   o.Name,
			Time:   o.Time.Format("15:04:05"),
			Status: string(o.Status),
		}
	}
	return res
}

// WSAttendanceEvent is broadcast to dashboard feed clients when an
// attendance row is persisted.
type WSAttendanceEvent struct {
	Type       string `json:"type"` // "attendance_event"
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
}

// StatsResponse summarizes today's attendance.
type StatsResponse struct {
	TotalEmployees  int `json:"total_employees"`
	PresentToday    int `json:"present_today"`
	LateToday       int `json:"late_today"`
	CheckedOutToday int `json:"checked_out_today"`
}

// ReportRow is one line of the attendance report.
type ReportRow struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	Status     string `json:"status"`
}

// SettingsPayload carries the global schedule for GET and PUT.
type SettingsPayload struct {
	StartTime            string `json:"start_time" binding:"required"`
	EndTime              string `json:"end_time" binding:"required"`
	LateToleranceMinutes int    `json:"late_tolerance_minutes"`
}

// CreateShiftRequest defines a named schedule.
type CreateShiftRequest struct {
	Name                 string `json:"name" binding:"required"`
	StartTime            string `json:"start_time" binding:"required"`
	EndTime              string `json:"end_time" binding:"required"`
	LateToleranceMinutes int    `json:"late_tolerance_minutes"`
}

// ShiftResponse is the API view of one shift.
type ShiftResponse struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	LateToleranceMinutes int       `json:"late_tolerance_minutes"`
	CreatedAt            string    `json:"created_at"`
}
