package fhirproxy

import (
	"net/url"
	"strconv"
)

// defaultCount caps FHIR search pages when the caller does not ask for a
// specific page size.
const defaultCount = 10

// PatientSearch carries the accepted FHIR search parameters for Patient.
// Only non-empty values are forwarded upstream; everything else is left to
// the upstream server to interpret.
type PatientSearch struct {
	Name       string `query:"name"`
	Birthdate  string `query:"birthdate"`
	Identifier string `query:"identifier"`
	ID         string `query:"_id"`
	Count      int    `query:"_count"`
	Sort       string `query:"_sort"`
}

func (s PatientSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "name", s.Name)
	setNonEmpty(q, "birthdate", s.Birthdate)
	setNonEmpty(q, "identifier", s.Identifier)
	setNonEmpty(q, "_id", s.ID)
	setCount(q, s.Count)
	setNonEmpty(q, "_sort", s.Sort)
	return q
}

type ObservationSearch struct {
	Patient  string `query:"patient"`
	Category string `query:"category"`
	Code     string `query:"code"`
	Count    int    `query:"_count"`
	Sort     string `query:"_sort"`
}

func (s ObservationSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "category", s.Category)
	setNonEmpty(q, "code", s.Code)
	setCount(q, s.Count)
	setNonEmpty(q, "_sort", s.Sort)
	return q
}

type EncounterSearch struct {
	Patient string `query:"patient"`
	Status  string `query:"status"`
	Date    string `query:"date"`
	Count   int    `query:"_count"`
	Sort    string `query:"_sort"`
}

func (s EncounterSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "status", s.Status)
	setNonEmpty(q, "date", s.Date)
	setCount(q, s.Count)
	setNonEmpty(q, "_sort", s.Sort)
	return q
}

type MedicationRequestSearch struct {
	Patient string `query:"patient"`
	Status  string `query:"status"`
	Count   int    `query:"_count"`
}

func (s MedicationRequestSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "status", s.Status)
	setCount(q, s.Count)
	return q
}

type ConditionSearch struct {
	Patient  string `query:"patient"`
	Category string `query:"category"`
	Count    int    `query:"_count"`
}

func (s ConditionSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "category", s.Category)
	setCount(q, s.Count)
	return q
}

type ProcedureSearch struct {
	Patient string `query:"patient"`
	Date    string `query:"date"`
	Count   int    `query:"_count"`
}

func (s ProcedureSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "date", s.Date)
	setCount(q, s.Count)
	return q
}

type AppointmentSearch struct {
	Patient string `query:"patient"`
	Date    string `query:"date"`
	Status  string `query:"status"`
	Count   int    `query:"_count"`
}

func (s AppointmentSearch) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", s.Patient)
	setNonEmpty(q, "date", s.Date)
	setNonEmpty(q, "status", s.Status)
	setCount(q, s.Count)
	return q
}

// DocRefParams parameterizes the $docref operation, which generates a
// clinical summary document for a patient.
type DocRefParams struct {
	Patient string `query:"patient"`
	Start   string `query:"start"`
	End     string `query:"end"`
}

func (p DocRefParams) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "patient", p.Patient)
	setNonEmpty(q, "start", p.Start)
	setNonEmpty(q, "end", p.End)
	return q
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setCount(q url.Values, count int) {
	if count <= 0 {
		count = defaultCount
	}
	q.Set("_count", strconv.Itoa(count))
}
