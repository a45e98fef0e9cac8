package oauth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openemr/gateway/internal/platform/upstream"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/authorize", h.Authorize)
	g.GET("/callback", h.Callback)
	g.POST("/token", h.Token)
	g.POST("/register", h.Register)
}

// Authorize redirects the caller to the upstream authorize endpoint.
func (h *Handler) Authorize(c echo.Context) error {
	var req AuthorizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target, err := h.svc.AuthorizeURL(req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusFound, target)
}

// Callback receives the authorization code from the upstream server and
// exchanges it for a token immediately.
func (h *Handler) Callback(c echo.Context) error {
	result, err := h.svc.HandleCallback(c.Request().Context(), c.QueryParam("code"), c.QueryParam("state"))
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Token exchanges an authorization code or refresh token for an access token.
func (h *Handler) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.GrantType == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "grant_type is required")
	}

	result, err := h.svc.Exchange(c.Request().Context(), req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Register forwards a dynamic client registration upstream and relays the
// response (including the issued client_id/client_secret) unchanged.
func (h *Handler) Register(c echo.Context) error {
	var reg ClientRegistration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if reg.ClientName == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "client_name is required")
	}
	if len(reg.RedirectURIs) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "redirect_uris is required")
	}

	result, err := h.svc.Register(c.Request().Context(), reg)
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}
