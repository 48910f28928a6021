package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hms-analytics/internal/model"
)

// MetricsRepository runs the aggregate members of the metric query set.
// Each method is one independent read-only query; tenant scope is applied in
// SQL through the scope helpers, so a tenant-scoped caller can never observe
// cross-tenant counts through partial results or errors.
type MetricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) PatientCount(ctx context.Context, scope model.Scope) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Table("patients p")
	query = applyScope(query, scope, "p.hospital_id")
	if scope.DoctorID != nil {
		query = query.Where("p.primary_doctor_id = ?", *scope.DoctorID)
	}
	if scope.PatientID != nil {
		query = query.Where("p.id = ?", *scope.PatientID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) StaffCount(ctx context.Context, scope model.Scope) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("staff s").
		Where("s.is_active = ?", true)
	query = applyScope(query, scope, "s.hospital_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) HospitalCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("hospitals h").
		Where("h.is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) AppointmentCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("appointments a").
		Where("a.scheduled_at >= ? AND a.scheduled_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "a.hospital_id")
	query = applyCareScope(query, scope, "a.doctor_id", "a.patient_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) AppointmentStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error) {
	return r.statusCounts(ctx, scope, win, "appointments", "scheduled_at")
}

func (r *MetricsRepository) PrescriptionStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error) {
	return r.statusCounts(ctx, scope, win, "prescriptions", "created_at")
}

func (r *MetricsRepository) LabOrderStatusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.GroupCount, error) {
	return r.statusCounts(ctx, scope, win, "lab_orders", "created_at")
}

func (r *MetricsRepository) statusCounts(ctx context.Context, scope model.Scope, win model.TimeWindow, table, timeColumn string) ([]model.GroupCount, error) {
	var rows []model.GroupCount
	query := r.db.WithContext(ctx).
		Table(table+" t").
		Select("COALESCE(NULLIF(t.status, ''), 'unknown') AS key, COUNT(*) AS count").
		Where("t."+timeColumn+" >= ? AND t."+timeColumn+" < ?", win.Start, win.End).
		Group("t.status")
	query = applyScope(query, scope, "t.hospital_id")
	query = applyCareScope(query, scope, "t.doctor_id", "t.patient_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DispensedPrescriptionCount counts prescriptions dispensed inside the
// window, keyed on dispense time rather than authoring time.
func (r *MetricsRepository) DispensedPrescriptionCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("prescriptions pr").
		Where("pr.dispensed_at IS NOT NULL AND pr.dispensed_at >= ? AND pr.dispensed_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "pr.hospital_id")
	query = applyCareScope(query, scope, "pr.doctor_id", "pr.patient_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CompletedLabCount counts lab orders completed inside the window, keyed on
// completion time.
func (r *MetricsRepository) CompletedLabCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("lab_orders lo").
		Where("lo.completed_at IS NOT NULL AND lo.completed_at >= ? AND lo.completed_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "lo.hospital_id")
	query = applyCareScope(query, scope, "lo.doctor_id", "lo.patient_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) RevenueSummary(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.RevenueSummary, error) {
	var row struct {
		Total decimal.Decimal
		Paid  decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Table("invoices i").
		Select(`COALESCE(SUM(i.total_amount), 0) AS total,
			COALESCE(SUM(i.paid_amount), 0) AS paid`).
		Where("i.created_at >= ? AND i.created_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "i.hospital_id")
	if scope.PatientID != nil {
		query = query.Where("i.patient_id = ?", *scope.PatientID)
	}
	if err := query.Scan(&row).Error; err != nil {
		return model.RevenueSummary{}, err
	}
	return model.RevenueSummary{Total: row.Total, Paid: row.Paid}, nil
}

func (r *MetricsRepository) BillingTypeCounts(ctx context.Context, scope model.Scope) ([]model.GroupCount, error) {
	var rows []model.GroupCount
	query := r.db.WithContext(ctx).
		Table("patients p").
		Select("COALESCE(NULLIF(p.billing_type, ''), 'not_recorded') AS key, COUNT(*) AS count").
		Group("p.billing_type")
	query = applyScope(query, scope, "p.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MetricsRepository) AdmissionCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.AdmissionCounts, error) {
	var counts model.AdmissionCounts
	query := r.db.WithContext(ctx).
		Table("admissions ad").
		Select(`
			SUM(CASE WHEN ad.admitted_at >= ? AND ad.admitted_at < ? THEN 1 ELSE 0 END) AS admitted,
			SUM(CASE WHEN ad.discharged_at IS NOT NULL AND ad.discharged_at >= ? AND ad.discharged_at < ? THEN 1 ELSE 0 END) AS discharged`,
			win.Start, win.End, win.Start, win.End)
	query = applyScope(query, scope, "ad.hospital_id")
	if scope.PatientID != nil {
		query = query.Where("ad.patient_id = ?", *scope.PatientID)
	}
	if err := query.Scan(&counts).Error; err != nil {
		return model.AdmissionCounts{}, err
	}
	return counts, nil
}

func (r *MetricsRepository) ClaimCounts(ctx context.Context, scope model.Scope, win model.TimeWindow) (model.ClaimCounts, error) {
	var counts model.ClaimCounts
	query := r.db.WithContext(ctx).
		Table("claims cl").
		Select(`COUNT(*) AS total,
			SUM(CASE WHEN cl.status = 'paid' THEN 1 ELSE 0 END) AS paid`).
		Where("cl.created_at >= ? AND cl.created_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "cl.hospital_id")
	if err := query.Scan(&counts).Error; err != nil {
		return model.ClaimCounts{}, err
	}
	return counts, nil
}

func (r *MetricsRepository) InventoryValue(ctx context.Context, scope model.Scope) (decimal.Decimal, error) {
	var row struct {
		Value decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Table("inventory_items inv").
		Select("COALESCE(SUM(inv.quantity * inv.unit_price), 0) AS value")
	query = applyScope(query, scope, "inv.hospital_id")
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Value, nil
}

func (r *MetricsRepository) InventoryItems(ctx context.Context, scope model.Scope) ([]model.InventoryItem, error) {
	type row struct {
		Name            string
		DepartmentClass string
		Quantity        int64
		ReorderLevel    int64
		UnitPrice       decimal.Decimal
		ExpiryDate      *time.Time
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Table("inventory_items inv").
		Select(`inv.name,
			COALESCE(NULLIF(inv.department_class, ''), 'general') AS department_class,
			inv.quantity, inv.reorder_level, inv.unit_price, inv.expiry_date`).
		Order("inv.quantity ASC")
	query = applyScope(query, scope, "inv.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]model.InventoryItem, 0, len(rows))
	for _, item := range rows {
		items = append(items, model.InventoryItem{
			Name:            item.Name,
			DepartmentClass: item.DepartmentClass,
			Quantity:        item.Quantity,
			ReorderLevel:    item.ReorderLevel,
			UnitPrice:       item.UnitPrice,
			ExpiryDate:      item.ExpiryDate,
		})
	}
	return items, nil
}

func (r *MetricsRepository) LowStockCount(ctx context.Context, scope model.Scope) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("inventory_items inv").
		Where("inv.quantity <= inv.reorder_level")
	query = applyScope(query, scope, "inv.hospital_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) MedicalRecordCount(ctx context.Context, scope model.Scope, win model.TimeWindow) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("medical_records mr").
		Where("mr.created_at >= ? AND mr.created_at < ?", win.Start, win.End)
	query = applyScope(query, scope, "mr.hospital_id")
	query = applyCareScope(query, scope, "mr.doctor_id", "mr.patient_id")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MetricsRepository) OutstandingInvoices(ctx context.Context, scope model.Scope) (model.OutstandingInvoices, error) {
	var row struct {
		Count   int64
		Balance decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Table("invoices i").
		Select(`COUNT(*) AS count,
			COALESCE(SUM(i.total_amount - i.paid_amount), 0) AS balance`).
		Where("i.status <> 'paid'")
	query = applyScope(query, scope, "i.hospital_id")
	if scope.PatientID != nil {
		query = query.Where("i.patient_id = ?", *scope.PatientID)
	}
	if err := query.Scan(&row).Error; err != nil {
		return model.OutstandingInvoices{}, err
	}
	return model.OutstandingInvoices{Count: row.Count, Balance: row.Balance}, nil
}

func (r *MetricsRepository) PatientDemographics(ctx context.Context, scope model.Scope) ([]model.PatientDemographic, error) {
	type row struct {
		DateOfBirth *time.Time
		Gender      string
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Table("patients p").
		Select("p.date_of_birth, COALESCE(p.gender, '') AS gender")
	query = applyScope(query, scope, "p.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]model.PatientDemographic, 0, len(rows))
	for _, item := range rows {
		result = append(result, model.PatientDemographic{DateOfBirth: item.DateOfBirth, Gender: item.Gender})
	}
	return result, nil
}

func applyScope(query *gorm.DB, scope model.Scope, tenantColumn string) *gorm.DB {
	switch scope.Type {
	case model.ScopePlatform:
		return query
	case model.ScopeTenant:
		if scope.TenantID != nil {
			return query.Where(tenantColumn+" = ?", *scope.TenantID)
		}
	}
	return query.Where("1 = 0")
}

func applyCareScope(query *gorm.DB, scope model.Scope, doctorColumn, patientColumn string) *gorm.DB {
	if scope.DoctorID != nil {
		query = query.Where(doctorColumn+" = ?", *scope.DoctorID)
	}
	if scope.PatientID != nil {
		query = query.Where(patientColumn+" = ?", *scope.PatientID)
	}
	return query
}
