package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"assetverse/internal/audit"
	"assetverse/internal/errors"
	"assetverse/internal/realtime"
)

// EventHandler exposes lifecycle events: live over websockets, history from the audit trail.
type EventHandler struct {
	hub    *realtime.Hub
	reader audit.Reader
}

// NewEventHandler creates a new event handler. A nil reader disables the audit listing.
func NewEventHandler(hub *realtime.Hub, reader audit.Reader) *EventHandler {
	return &EventHandler{hub: hub, reader: reader}
}

// Subscribe godoc
// @Summary Stream lifecycle events addressed to the caller
// @Tags events
// @Param token query string true "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} errors.ErrorResponse
// @Router /ws [get]
func (h *EventHandler) Subscribe(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.hub.Serve(c.Response(), c.Request(), p.Email); err != nil {
		// The upgrader has already written the response.
		log.WithError(err).WithField("email", p.Email).Debug("websocket upgrade failed")
	}
	return nil
}

// Audit godoc
// @Summary List recent lifecycle events of the caller's company
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max events (default 100)"
// @Success 200 {array} notify.Event
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /audit [get]
func (h *EventHandler) Audit(c echo.Context) error {
	if h.reader == nil {
		return fail(c, errors.ErrFeatureDisabled)
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	limit := int64(audit.DefaultLimit)
	if err := echo.QueryParamsBinder(c).Int64("limit", &limit).BindError(); err != nil || limit <= 0 || limit > audit.DefaultLimit {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "limit must be between 1 and 100",
			Code:  "VALIDATION_ERROR",
		})
	}

	events, err := h.reader.List(c.Request().Context(), p.Email, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
