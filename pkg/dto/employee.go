package dto

import "github.com/google/uuid"

// EmployeeResponse is the API view of one enrolled employee.
type EmployeeResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ShiftID       *uuid.UUID `json:"shift_id,omitempty"`
	EncodingCount int        `json:"encoding_count"`
	CreatedAt     string     `json:"created_at"`
}

// RegisterEmployeeResponse confirms an enrollment.
type RegisterEmployeeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EncodingCount int    `json:"encoding_count"`
}

// AssignShiftRequest sets or clears an employee's shift. A null
// shift_id reverts the employee to the global schedule.
type AssignShiftRequest struct {
	ShiftID *uuid.UUID `json:"shift_id"`
}
