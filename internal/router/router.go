package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"assetverse/internal/auth"
	"assetverse/internal/handler"
	"assetverse/internal/logging"
	"assetverse/internal/middleware"
	"assetverse/internal/model"
)

// uploadBodyLimit leaves room for multipart framing around a maximum size image.
const uploadBodyLimit = "6M"

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Asset   *handler.AssetHandler
	Request *handler.RequestHandler
	Payment *handler.PaymentHandler
	Upload  *handler.UploadHandler
	Event   *handler.EventHandler
}

// Options holds the cross-cutting dependencies of the router.
type Options struct {
	JWTService     *auth.JWTService
	TokenStore     auth.TokenStoreInterface
	AllowedOrigins []string
	// Health reports readiness of backing stores; nil means always healthy.
	Health func() error
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		if opts.Health != nil {
			if err := opts.Health(); err != nil {
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticate := middleware.Authenticate(opts.JWTService, opts.TokenStore)
	hrOnly := middleware.RequireRole(model.RoleHR)
	employeeOnly := middleware.RequireRole(model.RoleEmployee)

	// Public routes
	e.POST("/register/hr", h.Auth.RegisterHR)
	e.POST("/register/employee", h.Auth.RegisterEmployee)
	e.POST("/login", h.Auth.Login)
	e.GET("/packages", h.Payment.ListPackages)
	e.GET("/packages/hr", h.Payment.ListPackages)
	e.GET("/assets/public", h.Asset.SearchPublic)
	e.PATCH("/payment-success", h.Payment.PaymentSuccess)
	e.POST("/webhooks/stripe", h.Payment.Webhook)
	e.GET("/ws", h.Event.Subscribe, middleware.AuthenticateQuery(opts.JWTService, opts.TokenStore))

	// Secured routes take middleware per route so unknown paths still answer 404.
	secured := []echo.MiddlewareFunc{authenticate}
	hr := []echo.MiddlewareFunc{authenticate, hrOnly}

	e.POST("/jwt", h.Auth.IssueToken, secured...)
	e.POST("/logout", h.Auth.Logout, secured...)
	e.GET("/me", h.Auth.Me, secured...)

	e.GET("/users/:email", h.User.GetProfile, secured...)
	e.PATCH("/users/:email", h.User.UpdateProfile, secured...)
	e.GET("/users/:email/role", h.User.GetRole, secured...)
	e.GET("/team/:email", h.User.Team, secured...)

	e.POST("/create-checkout-session", h.Payment.CreateCheckoutSession, secured...)
	e.GET("/payments", h.Payment.ListPayments, secured...)
	e.GET("/payments/:id/receipt", h.Payment.Receipt, secured...)

	e.POST("/uploads", h.Upload.Upload, echomw.BodyLimit(uploadBodyLimit), authenticate)

	e.GET("/assets", h.Asset.List, secured...)
	e.GET("/asset-requests/employee", h.Request.ListForEmployee, secured...)
	e.GET("/assigned-assets", h.Request.ListAssignments, secured...)
	e.DELETE("/requests/:id", h.Request.Delete, secured...)
	e.POST("/requests", h.Request.Submit, authenticate, employeeOnly)

	// HR routes
	e.POST("/assets", h.Asset.Create, hr...)
	e.GET("/assets/export", h.Asset.Export, hr...)
	e.PATCH("/assets/:id", h.Asset.Update, hr...)
	e.DELETE("/assets/:id", h.Asset.Delete, hr...)
	e.POST("/requests/:id/approve", h.Request.Approve, hr...)
	e.PATCH("/requests/:id/reject", h.Request.Reject, hr...)
	e.GET("/asset-requests/hr", h.Request.ListForHR, hr...)
	e.GET("/employees", h.User.ListEmployees, hr...)
	e.DELETE("/employees/:id", h.User.RemoveEmployee, hr...)
	e.GET("/audit", h.Event.Audit, hr...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
