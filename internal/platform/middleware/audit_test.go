package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

type mockRecorder struct {
	mu      sync.Mutex
	entries []AccessEntry
	err     error
}

func (m *mockRecorder) RecordAccess(entry AccessEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func runAccessLog(t *testing.T, recorder AccessRecorder, decorate func(c echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/claims/abc-123/status", nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if decorate != nil {
		decorate(c)
	}

	mw := AccessLog(zerolog.Nop(), recorder)
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return rec
}

func TestAccessLog_RecordsEntry(t *testing.T) {
	recorder := &mockRecorder{}
	ident := &auth.Identity{ID: uuid.New(), Email: "a@b.com", Role: "insurer", Active: true}

	runAccessLog(t, recorder, func(c echo.Context) {
		ctx := auth.WithIdentity(c.Request().Context(), ident)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set("request_id", "rid-1")
	})

	if len(recorder.entries) != 1 {
		t.Fatalf("recorded entries = %d, want 1", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.UserID != ident.ID.String() || entry.UserRole != "insurer" {
		t.Errorf("entry actor = %s/%s", entry.UserID, entry.UserRole)
	}
	if entry.ResourceType != "claims" || entry.ResourceID != "abc-123" {
		t.Errorf("entry resource = %s/%s", entry.ResourceType, entry.ResourceID)
	}
	if entry.Action != "update" {
		t.Errorf("entry action = %s, want update", entry.Action)
	}
	if entry.StatusCode != http.StatusOK || entry.RequestID != "rid-1" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestAccessLog_RecorderFailureDoesNotFailRequest(t *testing.T) {
	recorder := &mockRecorder{err: errors.New("store down")}
	rec := runAccessLog(t, recorder, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAccessLog_AnonymousRequest(t *testing.T) {
	recorder := &mockRecorder{}
	runAccessLog(t, recorder, nil)

	if len(recorder.entries) != 1 {
		t.Fatalf("recorded entries = %d, want 1", len(recorder.entries))
	}
	if recorder.entries[0].UserID != "" {
		t.Errorf("anonymous entry has user id %q", recorder.entries[0].UserID)
	}
}

func TestMethodToAction(t *testing.T) {
	tests := map[string]string{
		http.MethodGet:    "read",
		http.MethodHead:   "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
		"TRACE":           "read",
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

func TestSplitResourcePath(t *testing.T) {
	tests := []struct {
		path     string
		resType  string
		resID    string
	}{
		{"/api/v1/claims/123/status", "claims", "123"},
		{"/api/v1/claims", "claims", ""},
		{"/api/v1/analytics/users", "analytics", "users"},
		{"/claims/123/status", "claims", "123"},
		{"/claims", "claims", ""},
		{"/api/v1", "", ""},
		{"/", "", ""},
		{"notifications/9/read", "notifications", "9"},
	}
	for _, tt := range tests {
		gotType, gotID := splitResourcePath(tt.path)
		if gotType != tt.resType || gotID != tt.resID {
			t.Errorf("splitResourcePath(%q) = (%q, %q), want (%q, %q)", tt.path, gotType, gotID, tt.resType, tt.resID)
		}
	}
}
