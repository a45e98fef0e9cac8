package nativeapi

import "net/url"

// PatientCreate is the body of POST /api/patient. fname, lname, and dob are
// required; sex defaults to Unknown. Unlike the FHIR route, this payload has
// a fixed shape because the upstream standard API expects flat fields.
type PatientCreate struct {
	FName      string `json:"fname"`
	LName      string `json:"lname"`
	DOB        string `json:"dob"`
	Sex        string `json:"sex,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	PhoneCell  string `json:"phone_cell,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Validate reports the first missing required field, or "" when the payload
// is complete.
func (p *PatientCreate) Validate() string {
	switch {
	case p.FName == "":
		return "fname is required"
	case p.LName == "":
		return "lname is required"
	case p.DOB == "":
		return "dob is required"
	}
	return ""
}

type PatientListParams struct {
	Name string `query:"name"`
	DOB  string `query:"dob"`
	PID  string `query:"pid"`
}

func (p PatientListParams) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "name", p.Name)
	setNonEmpty(q, "dob", p.DOB)
	setNonEmpty(q, "pid", p.PID)
	return q
}

type EncounterListParams struct {
	PID  string `query:"pid"`
	Date string `query:"date"`
}

func (p EncounterListParams) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "pid", p.PID)
	setNonEmpty(q, "date", p.Date)
	return q
}

type AppointmentListParams struct {
	PID   string `query:"pid"`
	PCEID string `query:"pc_eid"`
	Date  string `query:"date"`
}

func (p AppointmentListParams) Values() url.Values {
	q := url.Values{}
	setNonEmpty(q, "pid", p.PID)
	setNonEmpty(q, "pc_eid", p.PCEID)
	setNonEmpty(q, "date", p.Date)
	return q
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
