// Package auth extracts caller credentials for routes that forward them
// upstream. The gateway never validates tokens itself; the upstream server
// is the authority, so extraction is deliberately strict and nothing more.
package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// BearerToken returns the access token carried in the Authorization header.
// The "Bearer " prefix is matched literally; a missing or malformed header
// yields a 401 so the request never reaches the upstream server.
func BearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header with Bearer token required")
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header with Bearer token required")
	}
	return token, nil
}
