package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growshop/admin-console/internal/api/metrics"
	"github.com/growshop/admin-console/internal/core/ports"
)

// UserHandler exposes the user table and the moderation actions.
type UserHandler struct {
	service ports.AdminService
}

func NewUserHandler(service ports.AdminService) *UserHandler {
	return &UserHandler{service: service}
}

// List computes one page of the user table.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Filter by name or email substring"
// @Param        sort    query     string  false  "Sort column; repeating the active column flips direction"
// @Param        dir     query     string  false  "Explicit sort direction: asc or desc"
// @Param        page    query     string  false  "Page number, or 'next'/'prev'"
// @Success      200     {object}  userPageResponse
// @Failure      401     {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.UserTable(c.Request().Context(), sid, tableCommand(c))
	if err != nil {
		return err
	}
	metrics.TableQueriesTotal.WithLabelValues("users").Inc()

	return c.JSON(http.StatusOK, userPageResponse{
		Rows:        view.Page.Rows,
		TotalItems:  view.Page.TotalItems,
		TotalPages:  view.Page.TotalPages,
		CurrentPage: view.Page.CurrentPage,
		PageSize:    view.Page.PageSize,
		Sort:        view.Sort,
		Query:       view.Query,
	})
}

// Promote grants a user the admin role.
//
// @Summary      Promote a user to admin
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200 {object}  statusResponse
// @Failure      404 {object}  map[string]string
// @Router       /v1/users/{id}/promote [patch]
func (h *UserHandler) Promote(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.PromoteUser(c.Request().Context(), sid, c.Param("id")); err != nil {
		metrics.MutationsTotal.WithLabelValues("promote_user", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("promote_user", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "promoted"})
}

// Ban deactivates a user account.
//
// @Summary      Ban a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200 {object}  statusResponse
// @Failure      404 {object}  map[string]string
// @Router       /v1/users/{id}/ban [patch]
func (h *UserHandler) Ban(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.BanUser(c.Request().Context(), sid, c.Param("id")); err != nil {
		metrics.MutationsTotal.WithLabelValues("ban_user", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("ban_user", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "banned"})
}
