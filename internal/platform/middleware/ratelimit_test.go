package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

func rateLimitedRequest(e *echo.Echo, h echo.HandlerFunc, ident *auth.Identity, ip string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ip != "" {
		req.Header.Set(echo.HeaderXRealIP, ip)
	}
	if ident != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), ident))
	}
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRateLimit_WithinBurst(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		rec, err := rateLimitedRequest(e, h, nil, "10.0.0.1")
		if err != nil {
			t.Fatalf("request %d error = %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}
}

func TestRateLimit_ExhaustedBucketReturns429(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 0.1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if _, err := rateLimitedRequest(e, h, nil, "10.0.0.1"); err != nil {
		t.Fatalf("first request error = %v", err)
	}

	rec, err := rateLimitedRequest(e, h, nil, "10.0.0.1")
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request error = %v, want 429", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_KeysByIdentityNotIP(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 0.1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	identA := &auth.Identity{ID: uuid.New(), Role: "patient", Active: true}
	identB := &auth.Identity{ID: uuid.New(), Role: "patient", Active: true}

	// both users share an IP; draining A's bucket must not affect B
	if _, err := rateLimitedRequest(e, h, identA, "10.0.0.1"); err != nil {
		t.Fatalf("user A first request error = %v", err)
	}
	if _, err := rateLimitedRequest(e, h, identA, "10.0.0.1"); err == nil {
		t.Fatal("user A second request should be limited")
	}
	if _, err := rateLimitedRequest(e, h, identB, "10.0.0.1"); err != nil {
		t.Errorf("user B request error = %v, want success", err)
	}
}

func TestRateLimit_SeparateIPs(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 0.1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if _, err := rateLimitedRequest(e, h, nil, "10.0.0.1"); err != nil {
		t.Fatalf("first ip error = %v", err)
	}
	if _, err := rateLimitedRequest(e, h, nil, "10.0.0.2"); err != nil {
		t.Errorf("second ip error = %v, want success", err)
	}
}
