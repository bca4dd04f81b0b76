package errors

import (
	stderrors "errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrUnauthenticated is returned when no credentials were presented.
	ErrUnauthenticated = stderrors.New("unauthorized")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = stderrors.New("invalid email or password")
	// ErrForbidden is returned on role or ownership mismatch.
	ErrForbidden = stderrors.New("forbidden")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = stderrors.New("user not found")
	// ErrAssetNotFound is returned when an asset is not found.
	ErrAssetNotFound = stderrors.New("asset not found")
	// ErrRequestNotFound is returned when an asset request is not found.
	ErrRequestNotFound = stderrors.New("request not found")
	// ErrPackageNotFound is returned when a package is not found.
	ErrPackageNotFound = stderrors.New("package not found")
	// ErrPaymentNotFound is returned when a payment is not found.
	ErrPaymentNotFound = stderrors.New("payment not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = stderrors.New("email already exists")
	// ErrDuplicateRequest is returned when a pending request already exists for the asset.
	ErrDuplicateRequest = stderrors.New("request already pending")
	// ErrRequestNotPending is returned when a request was already processed.
	ErrRequestNotPending = stderrors.New("request already processed")
	// ErrOutOfStock is returned when an asset has no available quantity.
	ErrOutOfStock = stderrors.New("no stock available")
	// ErrEmployeeLimitReached is returned when the HR's package limit is exhausted.
	ErrEmployeeLimitReached = stderrors.New("employee limit reached for current package")
	// ErrCompanyNameLocked is returned when an HR tries to rename their company.
	ErrCompanyNameLocked = stderrors.New("company name cannot be changed")
	// ErrInvalidQuantity is returned when a quantity change would break stock bounds.
	ErrInvalidQuantity = stderrors.New("invalid quantity")

	// ErrPaymentNotCompleted is returned when the provider reports an unpaid session.
	ErrPaymentNotCompleted = stderrors.New("payment not completed")
	// ErrPaymentProvider is returned when the payment provider call fails.
	ErrPaymentProvider = stderrors.New("payment provider error")
	// ErrInvalidWebhook is returned when a webhook payload fails signature verification.
	ErrInvalidWebhook = stderrors.New("invalid webhook signature")

	// ErrFeatureDisabled is returned when an optional backend is not configured.
	ErrFeatureDisabled = stderrors.New("feature not configured")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mapping = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
	{ErrPaymentNotCompleted, http.StatusBadRequest, "PAYMENT_NOT_COMPLETED"},
	{ErrInvalidWebhook, http.StatusBadRequest, "INVALID_WEBHOOK"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrAssetNotFound, http.StatusNotFound, "ASSET_NOT_FOUND"},
	{ErrRequestNotFound, http.StatusNotFound, "REQUEST_NOT_FOUND"},
	{ErrPackageNotFound, http.StatusNotFound, "PACKAGE_NOT_FOUND"},
	{ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_REQUEST"},
	{ErrRequestNotPending, http.StatusConflict, "REQUEST_NOT_PENDING"},
	{ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
	{ErrEmployeeLimitReached, http.StatusConflict, "EMPLOYEE_LIMIT_REACHED"},
	{ErrCompanyNameLocked, http.StatusConflict, "COMPANY_NAME_LOCKED"},
	{ErrPaymentProvider, http.StatusBadGateway, "PAYMENT_PROVIDER_ERROR"},
	{ErrFeatureDisabled, http.StatusServiceUnavailable, "FEATURE_DISABLED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Unknown errors become a generic 500 so internals never leak to callers.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mapping {
		if stderrors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
