package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growshop/admin-console/internal/api/metrics"
	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

// BroadcastHandler pushes admin announcements to the notification channel.
type BroadcastHandler struct {
	service ports.AdminService
}

func NewBroadcastHandler(service ports.AdminService) *BroadcastHandler {
	return &BroadcastHandler{service: service}
}

// Send broadcasts a message to every connected storefront client.
//
// @Summary      Send an admin broadcast
// @Tags         broadcast
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      broadcastRequest  true  "Broadcast message, 500 characters max"
// @Success      200   {object}  statusResponse
// @Failure      422   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/broadcast [post]
func (h *BroadcastHandler) Send(c echo.Context) error {
	sid, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SendBroadcast(c.Request().Context(), sid, req.Message); err != nil {
		metrics.BroadcastsTotal.WithLabelValues(broadcastResult(err)).Inc()
		return err
	}
	metrics.BroadcastsTotal.WithLabelValues("sent").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "sent"})
}

func broadcastResult(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, domain.ErrChannelDown):
		return "channel_down"
	default:
		return "error"
	}
}
