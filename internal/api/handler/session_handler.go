package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growshop/admin-console/internal/api/metrics"
	"github.com/growshop/admin-console/internal/api/middleware"
	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

// SessionHandler handles the login/restore/logout lifecycle.
type SessionHandler struct {
	service   ports.AdminService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewSessionHandler(service ports.AdminService, jwtSecret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{service: service, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login authenticates an operator and opens an admin session.
//
// @Summary      Log in to the admin console
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Operator credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	// The gate already granted admin access, so the token carries the
	// effective role regardless of what the storefront account says.
	tokenIdentity := result.Identity
	tokenIdentity.Role = domain.RoleAdmin

	token, err := middleware.NewSessionToken(h.jwtSecret, result.SessionID, tokenIdentity, h.tokenTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token:    token,
		User:     toIdentityResponse(result.Identity),
		Decision: result.Decision,
	})
}

// Restore revalidates the current session after a page reload or console
// restart.
//
// @Summary      Restore the current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/session [get]
func (h *SessionHandler) Restore(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	result, err := h.service.Restore(c.Request().Context(), sid)
	if err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
		return err
	}
	metrics.SessionRestoresTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		User:     toIdentityResponse(result.Identity),
		Decision: result.Decision,
	})
}

// Logout closes the session and re-arms the panel setup for the next login.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "logged out"})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrBusy):
		return "busy"
	default:
		return "error"
	}
}
