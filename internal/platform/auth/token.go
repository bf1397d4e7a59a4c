package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. Access tokens are short-lived; clients use the refresh
// token to obtain a new pair.
const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenType discriminates access from refresh tokens so one can never be
// used in place of the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed input, or a type mismatch. Callers get no detail beyond this.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload for both token types.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
}

// TokenService issues and verifies HS256 tokens. Verification also accepts
// tokens signed with any of the previous secrets, which gives operators a
// rotation window; new tokens are always signed with the current secret.
type TokenService struct {
	secret     []byte
	previous   [][]byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, previousSecrets []string) *TokenService {
	prev := make([][]byte, 0, len(previousSecrets))
	for _, s := range previousSecrets {
		if s != "" {
			prev = append(prev, []byte(s))
		}
	}
	return &TokenService{
		secret:     []byte(secret),
		previous:   prev,
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
		now:        time.Now,
	}
}

// Issue signs a token of the given type for the subject.
func (s *TokenService) Issue(subject, email, role string, typ TokenType) (string, error) {
	now := s.now()
	ttl := s.accessTTL
	if typ == TokenRefresh {
		ttl = s.refreshTTL
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		Role:      role,
		TokenType: string(typ),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssuePair signs an access and a refresh token for the subject.
func (s *TokenService) IssuePair(subject, email, role string) (access, refresh string, err error) {
	access, err = s.Issue(subject, email, role, TokenAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Issue(subject, email, role, TokenRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify parses and validates a token, requiring the expected type. The
// expiry is checked explicitly on top of library validation so a claims
// payload without exp can never pass.
func (s *TokenService) Verify(tokenStr string, expected TokenType) (*Claims, error) {
	claims, err := s.parse(tokenStr, s.secret)
	if err != nil {
		for _, prev := range s.previous {
			if claims, err = s.parse(tokenStr, prev); err == nil {
				break
			}
		}
	}
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != string(expected) {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) parse(tokenStr string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
