// Package nativeapi forwards requests to the standard (non-FHIR) OpenEMR
// REST API. The routes mirror the FHIR proxy but use the upstream's flat
// field names (fname, lname, dob, pid) and its validationErrors envelope.
package nativeapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openemr/gateway/internal/platform/auth"
	"github.com/openemr/gateway/internal/platform/upstream"
)

type Handler struct {
	client *upstream.Client
	logger zerolog.Logger
}

func NewHandler(client *upstream.Client, logger zerolog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patient", h.ListPatients)
	g.POST("/patient", h.CreatePatient)
	g.GET("/patient/:pid", h.GetPatient)
	g.GET("/patient/:pid/encounter", h.ListPatientEncounters)
	g.GET("/encounter", h.ListEncounters)
	g.GET("/appointment", h.ListAppointments)
}

func (h *Handler) ListPatients(c echo.Context) error {
	var params PatientListParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.list(c, "/api/patient", params.Values())
}

// CreatePatient validates the required fields locally and forwards the
// payload. Missing fields never reach the upstream server.
func (h *Handler) CreatePatient(c echo.Context) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}
	var patient PatientCreate
	if err := c.Bind(&patient); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if msg := patient.Validate(); msg != "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, msg)
	}
	if patient.Sex == "" {
		patient.Sex = "Unknown"
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodPost, "/api/patient",
		upstream.WithToken(token), upstream.WithJSONBody(patient))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetPatient(c echo.Context) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodGet, "/api/patient/"+c.Param("pid"),
		upstream.WithToken(token))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListPatientEncounters(c echo.Context) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodGet,
		"/api/patient/"+c.Param("pid")+"/encounter", upstream.WithToken(token))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListEncounters(c echo.Context) error {
	var params EncounterListParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.list(c, "/api/encounter", params.Values())
}

func (h *Handler) ListAppointments(c echo.Context) error {
	var params AppointmentListParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.list(c, "/api/appointment", params.Values())
}

func (h *Handler) list(c echo.Context, path string, query url.Values) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodGet, path,
		upstream.WithToken(token), upstream.WithQuery(query))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
