package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"assetverse/internal/errors"
	"assetverse/internal/service"
)

// RequestHandler handles the asset request lifecycle.
type RequestHandler struct {
	svc service.RequestService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(svc service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// SubmitRequest represents an employee's claim on an asset.
type SubmitRequest struct {
	AssetID string `json:"assetId" validate:"required,uuid"`
	Note    string `json:"note" validate:"max=1000"`
}

// Submit godoc
// @Summary Request an asset
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRequest true "Request data"
// @Success 201 {object} model.AssetRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return fail(c, errors.ErrInvalidInput)
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	request, err := h.svc.Submit(c.Request().Context(), p, service.SubmitRequestInput{
		AssetID: assetID,
		Note:    req.Note,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// Approve godoc
// @Summary Approve a pending request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.AssignedAsset
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}
	assignment, err := h.svc.Approve(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, assignment)
}

// Reject godoc
// @Summary Reject a pending request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.AssetRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/reject [patch]
func (h *RequestHandler) Reject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}
	request, err := h.svc.Reject(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Delete godoc
// @Summary Delete a request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "request deleted"})
}

// ListForHR godoc
// @Summary List requests addressed to the caller
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AssetRequest
// @Failure 403 {object} errors.ErrorResponse
// @Router /asset-requests/hr [get]
func (h *RequestHandler) ListForHR(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	requests, err := h.svc.ListForHR(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// ListForEmployee godoc
// @Summary List the caller's own requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AssetRequest
// @Router /asset-requests/employee [get]
func (h *RequestHandler) ListForEmployee(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	requests, err := h.svc.ListForEmployee(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// ListAssignments godoc
// @Summary List assets assigned to the caller
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AssignedAsset
// @Router /assigned-assets [get]
func (h *RequestHandler) ListAssignments(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	assignments, err := h.svc.ListAssignments(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, assignments)
}
