// Package fhirproxy forwards FHIR R4 reads, searches, and Patient creation
// to the upstream OpenEMR FHIR endpoint. Resources and bundles are relayed
// unchanged in both directions; the gateway adds authentication plumbing and
// nothing else.
package fhirproxy

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
	g.GET("/metadata", h.Metadata)
	g.GET("/Patient", h.SearchPatients)
	g.POST("/Patient", h.CreatePatient)
	g.GET("/Patient/:id", h.GetPatient)
	g.GET("/Observation", h.SearchObservations)
	g.GET("/Encounter", h.SearchEncounters)
	g.GET("/MedicationRequest", h.SearchMedicationRequests)
	g.GET("/Condition", h.SearchConditions)
	g.GET("/Procedure", h.SearchProcedures)
	g.GET("/Appointment", h.SearchAppointments)
	g.GET("/DocumentReference/$docref", h.GenerateDocument)
}

// Metadata relays the upstream capability statement. This is the one FHIR
// route that requires no token.
func (h *Handler) Metadata(c echo.Context) error {
	result, err := h.client.Call(c.Request().Context(), http.MethodGet, "/fhir/metadata")
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	var search PatientSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Patient", search.Values())
}

func (h *Handler) GetPatient(c echo.Context) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodGet, "/fhir/Patient/"+c.Param("id"),
		upstream.WithToken(token))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreatePatient forwards the submitted FHIR Patient resource verbatim. No
// field is added, renamed, or dropped; the upstream server validates the
// resource.
func (h *Handler) CreatePatient(c echo.Context) error {
	token, err := auth.BearerToken(c)
	if err != nil {
		return err
	}
	var resource map[string]interface{}
	if err := c.Bind(&resource); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.client.Call(c.Request().Context(), http.MethodPost, "/fhir/Patient",
		upstream.WithToken(token), upstream.WithJSONBody(resource))
	if err != nil {
		return upstream.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) SearchObservations(c echo.Context) error {
	var search ObservationSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Observation", search.Values())
}

func (h *Handler) SearchEncounters(c echo.Context) error {
	var search EncounterSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Encounter", search.Values())
}

func (h *Handler) SearchMedicationRequests(c echo.Context) error {
	var search MedicationRequestSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/MedicationRequest", search.Values())
}

func (h *Handler) SearchConditions(c echo.Context) error {
	var search ConditionSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Condition", search.Values())
}

func (h *Handler) SearchProcedures(c echo.Context) error {
	var search ProcedureSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Procedure", search.Values())
}

func (h *Handler) SearchAppointments(c echo.Context) error {
	var search AppointmentSearch
	if err := c.Bind(&search); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/Appointment", search.Values())
}

// GenerateDocument invokes the $docref operation, which produces a clinical
// summary document (CCD) for a patient.
func (h *Handler) GenerateDocument(c echo.Context) error {
	var params DocRefParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return h.search(c, "/fhir/DocumentReference/$docref", params.Values())
}

// search runs one authenticated upstream GET with the already-assembled
// query set and relays the result.
func (h *Handler) search(c echo.Context, path string, query url.Values) error {
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
