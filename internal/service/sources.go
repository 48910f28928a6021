package service

import (
	"context"

	"github.com/shopspring/decimal"

	"hms-analytics/internal/model"
)

// MetricsSource is the aggregate query surface of the record store. The
// repository implements it; tests substitute stubs.
type MetricsSource interface {
	PatientCount(ctx context.Context, scope model.Scope) (int64, error)
	StaffCount(ctx context.Context, scope model.Scope) (int64, error)
	HospitalCount(ctx context.Context) (int64, error)
	AppointmentCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error)
	AppointmentStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error)
	PrescriptionStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error)
	LabOrderStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error)
	DispensedPrescriptionCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error)
	CompletedLabCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error)
	RevenueSummary(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.RevenueSummary, error)
	BillingTypeCounts(ctx context.Context, scope model.Scope) ([]model.GroupCount, error)
	AdmissionCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.AdmissionCounts, error)
	ClaimCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.ClaimCounts, error)
	InventoryValue(ctx context.Context, scope model.Scope) (decimal.Decimal, error)
	InventoryItems(ctx context.Context, scope model.Scope) ([]model.InventoryItem, error)
	LowStockCount(ctx context.Context, scope model.Scope) (int64, error)
	MedicalRecordCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error)
	OutstandingInvoices(ctx context.Context, scope model.Scope) (model.OutstandingInvoices, error)
	PatientDemographics(ctx context.Context, scope model.Scope) ([]model.PatientDemographic, error)
}

// ExportSource is the row-level read surface behind the research export and
// the platform frequency rankings.
type ExportSource interface {
	CaseRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.CaseRecord, error)
	PrescriptionRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.PrescriptionRecord, error)
	LabRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.LabRecord, error)
}
