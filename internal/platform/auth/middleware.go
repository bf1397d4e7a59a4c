package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated principal stored in the request context.
// It is loaded from storage on every request, never from token claims, so a
// deactivated account loses access the moment the flag flips.
type Identity struct {
	ID     uuid.UUID
	Email  string
	Role   string
	Active bool
}

// IdentityLoader resolves a user id from the token subject into a live
// identity. Implemented by the user service.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// Middleware authenticates requests with a Bearer access token. The token
// subject is reloaded through the loader; unknown users get 401 and
// deactivated users 403.
func Middleware(tokens *TokenService, loader IdentityLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := tokens.Verify(parts[1], TokenAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ident, err := loader.LoadIdentity(c.Request().Context(), userID)
			if err != nil || ident == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if !ident.Active {
				return echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, ident)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// IdentityFromContext returns the authenticated identity, or nil when the
// request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}

// WithIdentity returns a context carrying the given identity. Used by tests
// and by handlers that need to run service calls on behalf of a principal.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}
