package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/growshop/admin-console/internal/core/ports"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// StorefrontPinger checks upstream reachability for the readiness probe.
type StorefrontPinger interface {
	Ping(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// Redis gates readiness because sessions live there. The storefront and the
// notification channel are reported but never fail the probe: the console
// keeps serving the snapshot while the storefront is down, and broadcasts
// degrade on their own.
type HealthDependenciesHandler struct {
	redis      *redis.Client
	storefront StorefrontPinger
	notify     ports.NotificationChannel
}

func NewHealthDependenciesHandler(rdb *redis.Client, store StorefrontPinger, notify ports.NotificationChannel) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		redis:      rdb,
		storefront: store,
		notify:     notify,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Redis ping ---
	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	// --- Storefront reachability (informational) ---
	if err := h.storefront.Ping(ctx); err != nil {
		deps["storefront"] = dependencyStatus{Status: "unreachable", Error: err.Error()}
	} else {
		deps["storefront"] = dependencyStatus{Status: "ok"}
	}

	// --- Notification channel (informational) ---
	deps["notification_channel"] = dependencyStatus{Status: string(h.notify.State())}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
