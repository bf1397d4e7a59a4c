package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mapLoader struct {
	identities map[uuid.UUID]*Identity
}

func (l *mapLoader) LoadIdentity(_ context.Context, id uuid.UUID) (*Identity, error) {
	ident, ok := l.identities[id]
	if !ok {
		return nil, errors.New("identity not found")
	}
	return ident, nil
}

func invokeMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (int, *Identity) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Identity
	handler := mw(func(c echo.Context) error {
		seen = IdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Code, seen
		}
		t.Fatalf("unexpected error type: %v", err)
	}
	return rec.Code, seen
}

func TestMiddleware_ValidToken(t *testing.T) {
	tokens := newTestTokenService()
	userID := uuid.New()
	loader := &mapLoader{identities: map[uuid.UUID]*Identity{
		userID: {ID: userID, Email: "pat@example.com", Role: "patient", Active: true},
	}}

	token, err := tokens.Issue(userID.String(), "pat@example.com", "patient", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code, ident := invokeMiddleware(t, Middleware(tokens, loader), "Bearer "+token)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if ident == nil || ident.ID != userID {
		t.Fatalf("expected identity %s in context, got %+v", userID, ident)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tokens := newTestTokenService()
	code, _ := invokeMiddleware(t, Middleware(tokens, &mapLoader{}), "")
	if code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	tokens := newTestTokenService()
	code, _ := invokeMiddleware(t, Middleware(tokens, &mapLoader{}), "Token abc")
	if code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}

func TestMiddleware_RefreshTokenRejected(t *testing.T) {
	tokens := newTestTokenService()
	userID := uuid.New()
	loader := &mapLoader{identities: map[uuid.UUID]*Identity{
		userID: {ID: userID, Role: "patient", Active: true},
	}}

	refresh, err := tokens.Issue(userID.String(), "pat@example.com", "patient", TokenRefresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code, _ := invokeMiddleware(t, Middleware(tokens, loader), "Bearer "+refresh)
	if code != http.StatusUnauthorized {
		t.Errorf("expected refresh token to be rejected with 401, got %d", code)
	}
}

func TestMiddleware_UnknownUser(t *testing.T) {
	tokens := newTestTokenService()
	token, err := tokens.Issue(uuid.New().String(), "gone@example.com", "patient", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code, _ := invokeMiddleware(t, Middleware(tokens, &mapLoader{}), "Bearer "+token)
	if code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", code)
	}
}

func TestMiddleware_InactiveUser(t *testing.T) {
	tokens := newTestTokenService()
	userID := uuid.New()
	loader := &mapLoader{identities: map[uuid.UUID]*Identity{
		userID: {ID: userID, Role: "patient", Active: false},
	}}

	token, err := tokens.Issue(userID.String(), "pat@example.com", "patient", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code, _ := invokeMiddleware(t, Middleware(tokens, loader), "Bearer "+token)
	if code != http.StatusForbidden {
		t.Errorf("expected 403 for deactivated user, got %d", code)
	}
}
