package model

import (
	"time"

	"github.com/google/uuid"
)

// Raw record-store rows feeding the research export. PatientID and TenantID
// are real identifiers here; they must not survive past the anonymization
// step in the export service.

type CaseRecord struct {
	PatientID   uuid.UUID
	TenantID    uuid.UUID
	DateOfBirth *time.Time
	Gender      string
	BloodGroup  string
	BillingType string
	Diagnosis   string
	VisitType   string
	RecordedAt  time.Time
}

type PrescriptionRecord struct {
	PatientID    uuid.UUID
	TenantID     uuid.UUID
	DrugName     string
	DrugCategory string
	Dosage       string
	DurationDays int64
	Status       string
	PrescribedAt time.Time
}

type LabRecord struct {
	PatientID  uuid.UUID
	TenantID   uuid.UUID
	OrderType  string
	Status     string
	ResultFlag string
	OrderedAt  time.Time
}

// DiseaseAggregate is one finalized row of the Disease Summary sheet.
type DiseaseAggregate struct {
	Label             string
	TotalCases        int64
	UniquePatients    int64
	HospitalsAffected int64
	AgeBandCounts     map[string]int64
	GenderCounts      map[string]int64
}
