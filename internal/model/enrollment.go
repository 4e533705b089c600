package model

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

// Enrollment lifecycle. An enrollment is created active and moves to
// exactly one of the terminal states; there is no way back.
const (
	EnrollmentStatusActive     EnrollmentStatus = "active"
	EnrollmentStatusCompleted  EnrollmentStatus = "completed"
	EnrollmentStatusTerminated EnrollmentStatus = "terminated"
)

// Terminal reports whether no further status transition is allowed.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentStatusCompleted || s == EnrollmentStatusTerminated
}

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusTerminated:
		return true
	}
	return false
}

type Enrollment struct {
	Base
	ClientID       uuid.UUID        `db:"client_id" json:"client_id"`
	ProgramID      uuid.UUID        `db:"program_id" json:"program_id"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	CreatedBy      uuid.UUID        `db:"created_by" json:"created_by"`
}

type EnrollRequest struct {
	ProgramID uuid.UUID `json:"program_id" binding:"required"`
}

type UpdateEnrollmentStatusRequest struct {
	Status EnrollmentStatus `json:"status" binding:"required,oneof=completed terminated"`
}
