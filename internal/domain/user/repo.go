package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository is the persistence boundary for accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	// IncrementFailedLogins bumps the counter and returns the new value.
	IncrementFailedLogins(ctx context.Context, id uuid.UUID) (int, error)
	ResetFailedLogins(ctx context.Context, id uuid.UUID, lastLogin time.Time) error
	ListActive(ctx context.Context, limit, offset int) ([]*User, int, error)
}
