package model

import "time"

// User roles. Exactly one role per user; anything outside this set
// carries no privileges.
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
)

// User status constants
const (
	UserStatusActive = "active"
	UserStatusLocked = "locked"
)

type User struct {
	Base
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Role             string     `db:"role" json:"role"`
	Status           string     `db:"status" json:"status"`
	LoginAttempts    int        `db:"login_attempts" json:"-"`
	LastLoginAttempt *time.Time `db:"last_login_attempt" json:"-"`
}

// IsAdmin reports whether the user holds the admin role. Unknown role
// values are never admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin doctor"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin doctor"`
}
