package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vishnutej000/memories/internal/api/auth"
)

// LoginRequest carries the vault passphrase
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

// login exchanges the vault passphrase for a Bearer token
func (s *Server) login(c echo.Context) error {
	if !s.authEnabled() {
		return echo.NewHTTPError(http.StatusBadRequest, "authentication is not configured")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !auth.VerifyPassphrase(s.cfg.Auth.PasswordHash, req.Passphrase) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid passphrase")
	}

	token, err := s.tokens.CreateToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token").SetInternal(err)
	}

	return c.JSON(http.StatusOK, token)
}
