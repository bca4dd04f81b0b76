package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
)

// ClaimsKey is the echo context key holding *auth.Claims.
const ClaimsKey = "user"

const tokenQueryParam = "token"

// Authenticate validates the bearer token of the Authorization header.
func Authenticate(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(jwtConfig(jwtService, tokenStore, "header:"+echo.HeaderAuthorization+":Bearer "))
}

// AuthenticateQuery validates a token passed as ?token=, for clients that cannot set headers (websockets).
func AuthenticateQuery(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(jwtConfig(jwtService, tokenStore, "query:"+tokenQueryParam))
}

func jwtConfig(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, lookup string) echojwt.Config {
	return echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: lookup,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, apperrors.ErrForbidden
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !hasCredentials(c) {
				return errorResponse(apperrors.ErrUnauthenticated)
			}
			log.WithError(err).WithField("path", c.Path()).Debug("token rejected")
			return errorResponse(apperrors.ErrForbidden)
		},
	}
}

// hasCredentials reports whether the caller presented any token at all.
func hasCredentials(c echo.Context) bool {
	return c.Request().Header.Get(echo.HeaderAuthorization) != "" || c.QueryParam(tokenQueryParam) != ""
}

// RequireRole rejects callers whose token role is not one of roles.
// It must run after Authenticate.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := auth.HasRole(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok {
				return errorResponse(apperrors.ErrUnauthenticated)
			}
			if !allowed(claims.Principal()) {
				return errorResponse(apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// CurrentClaims returns the verified token claims of the request.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// CurrentPrincipal returns the authenticated caller.
func CurrentPrincipal(c echo.Context) (auth.Principal, bool) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return auth.Principal{}, false
	}
	return claims.Principal(), true
}

func errorResponse(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
