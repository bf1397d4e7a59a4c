// Package user implements accounts, credentials, and login throttling.
package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Permission logic switches over
// this type exhaustively, so adding a role means revisiting every switch.
type Role string

const (
	RolePatient  Role = "patient"
	RoleHospital Role = "hospital"
	RoleInsurer  Role = "insurer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleHospital, RoleInsurer, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether r is a claim-processing role.
func (r Role) Staff() bool {
	switch r {
	case RoleHospital, RoleInsurer, RoleAdmin:
		return true
	}
	return false
}

// MaxFailedLogins is the threshold at or above which an account is locked.
const MaxFailedLogins = 5

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	Name                string     `db:"name" json:"name"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Role                Role       `db:"role" json:"role"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	OrganizationName    *string    `db:"organization_name" json:"organization_name,omitempty"`
	LicenseNumber       *string    `db:"license_number" json:"license_number,omitempty"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	IsVerified          bool       `db:"is_verified" json:"is_verified"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LastLogin           *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Locked reports whether the account is locked out of password login.
func (u *User) Locked() bool {
	return u.FailedLoginAttempts >= MaxFailedLogins
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LoginResult bundles the tokens with the authenticated profile.
type LoginResult struct {
	TokenPair
	User *User `json:"user"`
}
