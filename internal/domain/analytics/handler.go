package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.GET("/analytics/claims", h.ClaimStats, auth.RequireRole("hospital", "insurer", "admin"))
	authed.GET("/analytics/users", h.UserStats, auth.RequireRole("admin"))
}

func (h *Handler) ClaimStats(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	stats, err := h.svc.ClaimStats(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return response.OK(c, http.StatusOK, "claim statistics", stats)
}

func (h *Handler) UserStats(c echo.Context) error {
	stats, err := h.svc.UserStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return response.OK(c, http.StatusOK, "user statistics", stats)
}
