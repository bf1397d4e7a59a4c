package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

// Service implements registration, authentication with lockout, and profile
// management.
type Service struct {
	users  Repository
	hasher auth.PasswordHasher
	log    zerolog.Logger
}

func NewService(users Repository, hasher auth.PasswordHasher, log zerolog.Logger) *Service {
	return &Service{users: users, hasher: hasher, log: log}
}

// RegisterInput carries the registration fields. Organization name is
// required for hospitals and insurers, license number for hospitals.
type RegisterInput struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Name             string  `json:"name"`
	Phone            *string `json:"phone"`
	Role             Role    `json:"role"`
	OrganizationName *string `json:"organization_name"`
	LicenseNumber    *string `json:"license_number"`
}

func (in *RegisterInput) validate() error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !in.Role.Valid() {
		return fmt.Errorf("invalid role: %s", in.Role)
	}
	if in.Role == RoleHospital || in.Role == RoleInsurer {
		if in.OrganizationName == nil || strings.TrimSpace(*in.OrganizationName) == "" {
			return fmt.Errorf("organization_name is required for %s accounts", in.Role)
		}
	}
	if in.Role == RoleHospital {
		if in.LicenseNumber == nil || strings.TrimSpace(*in.LicenseNumber) == "" {
			return fmt.Errorf("license_number is required for hospital accounts")
		}
	}
	return nil
}

// Register creates a new active, unverified account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:            email,
		Name:             strings.TrimSpace(in.Name),
		Phone:            in.Phone,
		Role:             in.Role,
		PasswordHash:     hash,
		OrganizationName: in.OrganizationName,
		LicenseNumber:    in.LicenseNumber,
		IsActive:         true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user registered")
	return u, nil
}

// Authenticate validates credentials and enforces the lockout policy. The
// lockout check runs before the password compare, so a locked account is
// rejected even when the password is correct.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if u.Locked() {
		return nil, ErrAccountLocked
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.hasher.Compare(password, u.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			attempts, incErr := s.users.IncrementFailedLogins(ctx, u.ID)
			if incErr != nil {
				s.log.Error().Err(incErr).Str("user_id", u.ID.String()).Msg("failed to record login failure")
			} else if attempts >= MaxFailedLogins {
				s.log.Warn().Str("user_id", u.ID.String()).Int("attempts", attempts).Msg("account locked")
			}
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.users.ResetFailedLogins(ctx, u.ID, time.Now().UTC()); err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to reset login counter")
	}
	return u, nil
}

// LoadIdentity implements auth.IdentityLoader for the auth middleware.
func (s *Service) LoadIdentity(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{
		ID:     u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Active: u.IsActive,
	}, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfileInput is a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	OrganizationName *string `json:"organization_name"`
}

// UpdateProfile applies a partial profile update and returns the fresh user.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
	if in.OrganizationName != nil {
		u.OrganizationName = in.OrganizationName
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListActive returns active accounts, newest first.
func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.ListActive(ctx, limit, offset)
}
