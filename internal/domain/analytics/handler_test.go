package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubRepo struct {
	claims   *ClaimStats
	users    *UserStats
	err      error
	lastDays int
}

func (s *stubRepo) ClaimStats(_ context.Context, days int) (*ClaimStats, error) {
	s.lastDays = days
	return s.claims, s.err
}

func (s *stubRepo) UserStats(context.Context) (*UserStats, error) { return s.users, s.err }

func TestClaimStats_Envelope(t *testing.T) {
	repo := &stubRepo{claims: &ClaimStats{
		TotalClaims:    4,
		ClaimsByStatus: map[string]int{"submitted": 2, "rejected": 1, "completed": 1},
		RejectionRate:  0.25,
	}}
	h := NewHandler(NewService(repo, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/analytics/claims", nil)
	rec := httptest.NewRecorder()

	if err := h.ClaimStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ClaimStats() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success bool       `json:"success"`
		Data    ClaimStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Data.TotalClaims != 4 || body.Data.RejectionRate != 0.25 {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestClaimStats_PeriodWindow(t *testing.T) {
	repo := &stubRepo{claims: &ClaimStats{}}
	h := NewHandler(NewService(repo, zerolog.Nop()))
	e := echo.New()

	tests := []struct {
		query string
		want  int
	}{
		{"", DefaultPeriodDays},
		{"?days=7", 7},
		{"?days=0", DefaultPeriodDays},
		{"?days=-3", DefaultPeriodDays},
		{"?days=9999", DefaultPeriodDays},
		{"?days=banana", DefaultPeriodDays},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/analytics/claims"+tt.query, nil)
		rec := httptest.NewRecorder()
		if err := h.ClaimStats(e.NewContext(req, rec)); err != nil {
			t.Fatalf("ClaimStats(%q) error = %v", tt.query, err)
		}
		if repo.lastDays != tt.want {
			t.Errorf("ClaimStats(%q) queried %d days, want %d", tt.query, repo.lastDays, tt.want)
		}
	}
}

func TestUserStats_RepoFailure(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection reset")}
	h := NewHandler(NewService(repo, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/analytics/users", nil)
	rec := httptest.NewRecorder()

	err := h.UserStats(e.NewContext(req, rec))
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusInternalServerError {
		t.Errorf("error = %v, want 500 HTTPError", err)
	}
}
