package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

func loggedFields(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var fields map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	return fields
}

func TestLogger_RecordsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/claims", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-7")

	h := Logger(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	fields := loggedFields(t, &buf)
	if fields["method"] != "GET" || fields["path"] != "/api/v1/claims" {
		t.Errorf("logged request = %v %v", fields["method"], fields["path"])
	}
	if fields["request_id"] != "rid-7" {
		t.Errorf("request_id = %v, want rid-7", fields["request_id"])
	}
	if fields["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want 200", fields["status"])
	}
	if _, present := fields["user_id"]; present {
		t.Error("anonymous request logged a user_id")
	}
}

func TestLogger_RecordsIdentitySetDownstream(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ident := &auth.Identity{ID: uuid.New(), Email: "ins@example.com", Role: "insurer", Active: true}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/claims", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// The auth middleware attaches the identity after the logger starts, so
	// the handler stands in for it here.
	h := Logger(logger)(func(c echo.Context) error {
		ctx := auth.WithIdentity(c.Request().Context(), ident)
		c.SetRequest(c.Request().WithContext(ctx))
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	fields := loggedFields(t, &buf)
	if fields["user_id"] != ident.ID.String() {
		t.Errorf("user_id = %v, want %s", fields["user_id"], ident.ID)
	}
	if fields["user_role"] != "insurer" {
		t.Errorf("user_role = %v, want insurer", fields["user_role"])
	}
}
