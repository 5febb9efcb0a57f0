package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is an enrolled identity. IDs are caller-assigned badge numbers,
// not generated, so re-registration replaces the same row.
type Employee struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ShiftID   *uuid.UUID `json:"shift_id,omitempty" db:"shift_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// FaceEncoding is one stored embedding for an employee. An enrolled
// employee always has at least three.
type FaceEncoding struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	Encoding   []float32 `json:"-" db:"encoding"`
	PhotoKey   string    `json:"photo_key" db:"photo_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EmployeeEncodings is the load-time shape for the in-memory cache.
type EmployeeEncodings struct {
	ID        string
	Name      string
	Encodings [][]float32
}
