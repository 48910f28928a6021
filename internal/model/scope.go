package model

import "github.com/google/uuid"

type ScopeType string

const (
	ScopePlatform ScopeType = "PLATFORM"
	ScopeTenant   ScopeType = "TENANT"
)

// Scope is the query-layer data boundary for one request. Tenant isolation is
// enforced by the repository applying the scope in SQL, never by filtering
// rows after the fact.
type Scope struct {
	Type     ScopeType
	TenantID *uuid.UUID

	// DoctorID narrows queries to records authored by or assigned to one
	// clinician. PatientID narrows them to one patient's own records.
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}

func PlatformScope() Scope {
	return Scope{Type: ScopePlatform}
}

func TenantScope(tenantID uuid.UUID) Scope {
	id := tenantID
	return Scope{Type: ScopeTenant, TenantID: &id}
}

func (s Scope) ForDoctor(doctorID uuid.UUID) Scope {
	id := doctorID
	s.DoctorID = &id
	return s
}

func (s Scope) ForPatient(patientID uuid.UUID) Scope {
	id := patientID
	s.PatientID = &id
	return s
}
