package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Client struct {
	Base
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender        string    `db:"gender" json:"gender"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Email         *string   `db:"email" json:"email"`
	Address       string    `db:"address" json:"address"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`
}

type CreateClientRequest struct {
	FirstName     string    `json:"first_name" binding:"required"`
	LastName      string    `json:"last_name" binding:"required"`
	DateOfBirth   time.Time `json:"date_of_birth" binding:"required,notfuture"`
	Gender        string    `json:"gender" binding:"required,oneof=male female other"`
	ContactNumber string    `json:"contact_number" binding:"required"`
	Email         *string   `json:"email" binding:"omitempty,email"`
	Address       string    `json:"address"`
}

type UpdateClientRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	DateOfBirth   *time.Time `json:"date_of_birth" binding:"omitempty,notfuture"`
	Gender        *string    `json:"gender" binding:"omitempty,oneof=male female other"`
	ContactNumber *string    `json:"contact_number"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	Address       *string    `json:"address"`
}

// ClientFilters narrows list queries. Search matches first name, last
// name and contact number.
type ClientFilters struct {
	Search string `form:"search"`
	Gender string `form:"gender" binding:"omitempty,oneof=male female other"`
	Pagination
}
