package claim

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/domain/audit"
	"github.com/claimdesk/claimdesk/internal/domain/user"
	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/pkg/pagination"
	"github.com/claimdesk/claimdesk/pkg/response"
)

// maxUploadBytes caps claim document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type Handler struct {
	svc   *Service
	audit audit.Recorder
}

func NewHandler(svc *Service, recorder audit.Recorder) *Handler {
	return &Handler{svc: svc, audit: recorder}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/claims/upload-document", h.UploadDocument, auth.RequireRole("patient"))
	authed.POST("/claims", h.Submit, auth.RequireRole("patient"))
	authed.GET("/claims", h.List)
	authed.GET("/claims/:id", h.Get)
	authed.PUT("/claims/:id/status", h.UpdateStatus)
	authed.PUT("/claims/:id/assign", h.Assign, auth.RequireRole("admin"))
}

// uploadResult pairs the extraction output with the stored descriptor so the
// client can review the data before submitting the claim.
type uploadResult struct {
	ExtractedData *ExtractedData `json:"extracted_data"`
	Document      *DocumentInfo  `json:"document"`
}

func (h *Handler) UploadDocument(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "file exceeds the 10MB limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}

	extracted, doc, err := h.svc.ExtractDocument(c.Request().Context(),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return h.mapError(err)
	}

	return response.OK(c, http.StatusOK, "document processed", uploadResult{
		ExtractedData: extracted,
		Document:      doc,
	})
}

func (h *Handler) Submit(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	claim, err := h.svc.Submit(c.Request().Context(), ident.ID, in)
	if err != nil {
		return h.mapError(err)
	}

	h.record(c, ident, "submit_claim", claim.ID.String(), map[string]any{
		"claim_number": claim.ClaimNumber,
		"amount":       claim.ExtractedData.ClaimAmount,
	})
	return response.Created(c, "claim submitted", claim)
}

func (h *Handler) List(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListForActor(c.Request().Context(), ident.ID, user.Role(ident.Role), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return response.List(c, items, total, pg.Page, pg.PageSize)
}

func (h *Handler) Get(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	claim, err := h.svc.Get(c.Request().Context(), id, ident.ID, user.Role(ident.Role))
	if err != nil {
		return h.mapError(err)
	}
	return response.OK(c, http.StatusOK, "claim retrieved", claim)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var in UpdateStatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	claim, err := h.svc.UpdateStatus(c.Request().Context(), id, ident.ID, user.Role(ident.Role), in)
	if err != nil {
		return h.mapError(err)
	}

	h.record(c, ident, "update_claim_status", claim.ID.String(), map[string]any{
		"status": string(claim.Status),
	})
	return response.OK(c, http.StatusOK, "claim status updated", claim)
}

type assignRequest struct {
	AssignedInsurer  *uuid.UUID `json:"assigned_insurer"`
	AssignedHospital *uuid.UUID `json:"assigned_hospital"`
}

func (h *Handler) Assign(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	claim, err := h.svc.Assign(c.Request().Context(), id, req.AssignedInsurer, req.AssignedHospital)
	if err != nil {
		return h.mapError(err)
	}

	h.record(c, ident, "assign_claim", claim.ID.String(), nil)
	return response.OK(c, http.StatusOK, "claim assignment updated", claim)
}

// mapError translates domain errors into the HTTP taxonomy. Unexpected
// errors become opaque 500s; the detail stays in the server logs.
func (h *Handler) mapError(err error) error {
	var vErr *ValidationError
	var tErr *TransitionError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Msg)
	case errors.As(err, &tErr):
		return echo.NewHTTPError(http.StatusBadRequest, tErr.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not authorized for this claim")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "claim was modified concurrently, retry with fresh data")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) record(c echo.Context, ident *auth.Identity, action, resourceID string, changes map[string]any) {
	if h.audit == nil {
		return
	}
	ip := c.RealIP()
	ua := c.Request().UserAgent()
	h.audit.Record(c.Request().Context(), audit.Entry{
		ActorID:      ident.ID,
		ActorRole:    ident.Role,
		Action:       action,
		ResourceType: "claims",
		ResourceID:   resourceID,
		Changes:      changes,
		IPAddress:    &ip,
		UserAgent:    &ua,
	})
}
