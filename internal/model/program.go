package model

import "github.com/google/uuid"

type Program struct {
	Base
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
}

type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateProgramRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type ProgramFilters struct {
	Search string `form:"search"`
	Pagination
}

// ProgramStats is the per-status enrollment breakdown shown on the
// program detail view.
type ProgramStats struct {
	Active     int `db:"active" json:"active"`
	Completed  int `db:"completed" json:"completed"`
	Terminated int `db:"terminated" json:"terminated"`
}

type ProgramDetail struct {
	Program
	Enrollments ProgramStats `json:"enrollments"`
}
