package models

import "time"

// OutcomeKind discriminates the per-frame pipeline result.
type OutcomeKind string

const (
	OutcomeLivenessFailed OutcomeKind = "liveness_failed"
	OutcomeNoFaceDetected OutcomeKind = "no_face_detected"
	OutcomeUnknownFace    OutcomeKind = "unknown_face"
	OutcomeMatched        OutcomeKind = "matched"
)

// Outcome is the single discriminated result produced for each frame.
// Identity fields are set only for OutcomeMatched.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	IsLive     bool        `json:"is_live"`
	EmployeeID string      `json:"employee_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Time       time.Time   `json:"time,omitempty"`
	Status     Status      `json:"status,omitempty"`
}

// AttendanceEvent is published to NATS when a log row is persisted.
type AttendanceEvent struct {
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}
