package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"assetverse/internal/errors"
	"assetverse/internal/middleware"
	"assetverse/internal/model"
	"assetverse/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterHRRequest represents a company owner registration request.
type RegisterHRRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	CompanyName string `json:"companyName" validate:"required"`
	CompanyLogo string `json:"companyLogo"`
	Photo       string `json:"photo"`
	DateOfBirth string `json:"dateOfBirth"`
}

// RegisterEmployeeRequest represents an employee registration request.
type RegisterEmployeeRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Photo       string `json:"photo"`
	DateOfBirth string `json:"dateOfBirth"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest asks for a fresh token for the caller's own email.
type TokenRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token"`
	User    *model.User `json:"user,omitempty"`
}

// RegisterHR godoc
// @Summary Register a company owner
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterHRRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register/hr [post]
func (h *AuthHandler) RegisterHR(c echo.Context) error {
	var req RegisterHRRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.RegisterHR(c.Request().Context(), service.RegisterHRInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
		Photo:       req.Photo,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "HR registered successfully",
		Token:   token,
		User:    user,
	})
}

// RegisterEmployee godoc
// @Summary Register an employee
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterEmployeeRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register/employee [post]
func (h *AuthHandler) RegisterEmployee(c echo.Context) error {
	var req RegisterEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.RegisterEmployee(c.Request().Context(), service.RegisterEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Photo:       req.Photo,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "Employee registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// IssueToken godoc
// @Summary Re-issue a token for the caller
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TokenRequest true "Caller email"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /jwt [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	token, err := h.authService.IssueToken(c.Request().Context(), p, req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fail(c, errors.ErrUnauthenticated)
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Me godoc
// @Summary Show the verified token claims
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fail(c, errors.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, echo.Map{"token_claims": claims})
}
