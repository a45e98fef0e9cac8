package upstream

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Respond writes an error from the client to the gateway's caller. Upstream
// HTTP errors are relayed verbatim (original status code, parsed body).
// Everything else, including timeouts and connection failures, maps to a
// generic 500 carrying the underlying message. Nothing is retried.
func Respond(c echo.Context, err error) error {
	var ue *Error
	if errors.As(err, &ue) {
		return c.JSON(ue.StatusCode, ue.Body)
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"detail": fmt.Sprintf("Request error: %v", err),
	})
}
