package user

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/domain/audit"
	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/pkg/pagination"
	"github.com/claimdesk/claimdesk/pkg/response"
)

type Handler struct {
	svc    *Service
	tokens *auth.TokenService
	audit  audit.Recorder
}

func NewHandler(svc *Service, tokens *auth.TokenService, recorder audit.Recorder) *Handler {
	return &Handler{svc: svc, tokens: tokens, audit: recorder}
}

// RegisterRoutes mounts the auth endpoints on the public group and the
// profile/admin endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)

	authed.GET("/users/profile", h.GetProfile)
	authed.PUT("/users/profile", h.UpdateProfile)
	authed.GET("/users", h.ListUsers, auth.RequireRole("admin"))
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.record(c, u.ID, string(u.Role), "register", "users", u.ID.String(), nil)
	return response.Created(c, "registration successful", u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountLocked):
			return echo.NewHTTPError(http.StatusLocked,
				"account locked due to too many failed login attempts, contact support")
		case errors.Is(err, ErrAccountDisabled):
			return echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
		case errors.Is(err, ErrInvalidCredentials):
			// Same message for wrong password and unknown email.
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	access, refresh, err := h.tokens.IssuePair(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.record(c, u.ID, string(u.Role), "login", "users", u.ID.String(), nil)
	return response.OK(c, http.StatusOK, "login successful", LoginResult{
		TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"},
		User:      u,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	claims, err := h.tokens.Verify(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	u, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	if !u.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
	}

	access, refresh, err := h.tokens.IssuePair(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return response.OK(c, http.StatusOK, "token refreshed", TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	u, err := h.svc.Get(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return response.OK(c, http.StatusOK, "profile retrieved", u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in UpdateProfileInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), ident.ID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.record(c, ident.ID, ident.Role, "update_profile", "users", ident.ID.String(), nil)
	return response.OK(c, http.StatusOK, "profile updated", u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListActive(c.Request().Context(), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return response.List(c, items, total, pg.Page, pg.PageSize)
}

func (h *Handler) record(c echo.Context, actorID uuid.UUID, actorRole, action, resourceType, resourceID string, changes map[string]any) {
	if h.audit == nil {
		return
	}
	ip := c.RealIP()
	ua := c.Request().UserAgent()
	h.audit.Record(c.Request().Context(), audit.Entry{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
		IPAddress:    &ip,
		UserAgent:    &ua,
	})
}
