package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"assetverse/internal/errors"
	"assetverse/internal/model"
	"assetverse/internal/service"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	maxWebhookBody        = 64 << 10
)

// PaymentHandler handles the package catalog and subscription purchases.
type PaymentHandler struct {
	packageService      service.PackageService
	subscriptionService service.SubscriptionService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(packageService service.PackageService, subscriptionService service.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{
		packageService:      packageService,
		subscriptionService: subscriptionService,
	}
}

// CheckoutRequest represents a package purchase request.
type CheckoutRequest struct {
	PackageID string `json:"packageId" validate:"required,uuid"`
}

// PaymentSuccessRequest confirms a checkout session after the redirect.
type PaymentSuccessRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// PaymentResponse represents a finalized payment.
type PaymentResponse struct {
	Message string         `json:"message"`
	Payment *model.Payment `json:"payment,omitempty"`
}

// ListPackages godoc
// @Summary List subscription packages
// @Tags packages
// @Produce json
// @Success 200 {array} model.Package
// @Failure 500 {object} errors.ErrorResponse
// @Router /packages [get]
func (h *PaymentHandler) ListPackages(c echo.Context) error {
	packages, err := h.packageService.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, packages)
}

// CreateCheckoutSession godoc
// @Summary Start a hosted checkout for a package
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "Package to buy"
// @Success 200 {object} service.CheckoutSession
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return fail(c, errors.ErrInvalidInput)
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	session, err := h.subscriptionService.CreateCheckoutSession(c.Request().Context(), p, packageID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// PaymentSuccess godoc
// @Summary Confirm a checkout session
// @Description The session is re-read from the payment provider; nothing in the body is trusted beyond its id.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body PaymentSuccessRequest true "Checkout session"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /payment-success [patch]
func (h *PaymentHandler) PaymentSuccess(c echo.Context) error {
	var req PaymentSuccessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payment, err := h.subscriptionService.FinalizeSession(c.Request().Context(), req.SessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, PaymentResponse{
		Message: "subscription activated",
		Payment: payment,
	})
}

// Webhook godoc
// @Summary Receive signed payment provider events
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return fail(c, errors.ErrInvalidInput)
	}

	payment, err := h.subscriptionService.HandleWebhook(c.Request().Context(), payload, c.Request().Header.Get(stripeSignatureHeader))
	if err != nil {
		return fail(c, err)
	}
	if payment == nil {
		return c.JSON(http.StatusOK, MessageResponse{Message: "ignored"})
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "processed"})
}

// ListPayments godoc
// @Summary List the caller's payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	payments, err := h.subscriptionService.ListPayments(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags payments
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {file} file
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := caller(c)
	if err != nil {
		return err
	}

	pdf, payment, err := h.subscriptionService.Receipt(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "receipt-"+payment.TransactionID+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
