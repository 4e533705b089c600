package model

import "time"

// EnrolledProgram is one entry of a client profile: a program the
// client is or was enrolled in, with the enrollment's status and date
// merged onto it.
type EnrolledProgram struct {
	ID               string           `db:"program_id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Description      string           `db:"description" json:"description"`
	EnrollmentID     string           `db:"enrollment_id" json:"enrollment_id"`
	EnrollmentStatus EnrollmentStatus `db:"status" json:"enrollment_status"`
	EnrollmentDate   time.Time        `db:"enrollment_date" json:"enrollment_date"`
}

// ClientProfile is the composite read view of a client and its program
// history, consumed by the console and by the external read API.
type ClientProfile struct {
	Client
	Programs []EnrolledProgram `json:"programs"`
}

// DashboardCounts backs the landing page summary tiles.
type DashboardCounts struct {
	Clients           int `db:"clients" json:"clients"`
	Programs          int `db:"programs" json:"programs"`
	ActiveEnrollments int `db:"active_enrollments" json:"active_enrollments"`
}

type Dashboard struct {
	Counts        DashboardCounts `json:"counts"`
	RecentClients []*Client       `json:"recent_clients"`
}
