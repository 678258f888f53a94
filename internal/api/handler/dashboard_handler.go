package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growshop/admin-console/internal/api/metrics"
	"github.com/growshop/admin-console/internal/core/ports"
)

// DashboardHandler serves the stats header, the activity feed, and the manual
// reload trigger.
type DashboardHandler struct {
	service ports.AdminService
}

func NewDashboardHandler(service ports.AdminService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get returns the dashboard aggregates for the current collections.
//
// @Summary      Dashboard stats and activity feed
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardData
// @Failure      401  {object}  map[string]string
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	data, err := h.service.Dashboard(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// Reload refetches both collections from the storefront.
//
// @Summary      Reload collections
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /v1/reload [post]
func (h *DashboardHandler) Reload(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.Reload(c.Request().Context(), sid); err != nil {
		return err
	}
	metrics.ReloadsTotal.WithLabelValues("manual").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "reloaded"})
}
