package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"assetverse/internal/model"
	"assetverse/internal/service"
)

// UserHandler serves profiles and the company roster.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest carries the editable profile fields. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Photo       *string `json:"photo"`
	DateOfBirth *string `json:"dateOfBirth"`
	CompanyName *string `json:"companyName" validate:"omitempty,min=1"`
	CompanyLogo *string `json:"companyLogo"`
}

// RoleResponse is the stored role of a user.
type RoleResponse struct {
	Role model.Role `json:"role"`
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{email} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetProfile(c.Request().Context(), p, c.Param("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{email} [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), p, c.Param("email"), service.ProfileUpdate{
		Name:        req.Name,
		Photo:       req.Photo,
		DateOfBirth: req.DateOfBirth,
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetRole godoc
// @Summary Get the role of a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} RoleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{email}/role [get]
func (h *UserHandler) GetRole(c echo.Context) error {
	role, err := h.svc.GetRole(c.Request().Context(), c.Param("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, RoleResponse{Role: role})
}

// Team godoc
// @Summary List the company of a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Member email"
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /team/{email} [get]
func (h *UserHandler) Team(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	team, err := h.svc.ListTeam(c.Request().Context(), p, c.Param("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, team)
}

// ListEmployees godoc
// @Summary List the caller's approved employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /employees [get]
func (h *UserHandler) ListEmployees(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	employees, err := h.svc.ListEmployees(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

// RemoveEmployee godoc
// @Summary Remove an employee from the caller's company
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /employees/{id} [delete]
func (h *UserHandler) RemoveEmployee(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.svc.RemoveEmployee(c.Request().Context(), p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "employee removed"})
}
