package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey represents keys for context values
type ContextKey string

// ClaimsContextKey is where validated token claims are stored on the request.
const ClaimsContextKey ContextKey = "claims"

// RequireAuth validates that a valid Bearer token is present on the request
func RequireAuth(tokenService *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := tokenService.ValidateToken(tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(string(ClaimsContextKey), claims)
			return next(c)
		}
	}
}

// GetClaims extracts validated token claims from echo context
func GetClaims(c echo.Context) *JWTClaims {
	claimsInterface := c.Get(string(ClaimsContextKey))
	if claimsInterface == nil {
		return nil
	}
	return claimsInterface.(*JWTClaims)
}
