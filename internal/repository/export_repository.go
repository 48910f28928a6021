package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hms-analytics/internal/model"
)

// ExportRepository reads the row-level data behind the research export.
// Rows still carry real patient ids at this layer; the export service is
// responsible for pseudonymizing them before anything leaves the process.
type ExportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) CaseRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.CaseRecord, error) {
	type row struct {
		PatientID   uuid.UUID
		HospitalID  uuid.UUID
		DateOfBirth *time.Time
		Gender      string
		BloodGroup  string
		BillingType string
		Diagnosis   string
		VisitType   string
		CreatedAt   time.Time
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Table("medical_records mr").
		Select(`mr.patient_id,
			mr.hospital_id,
			p.date_of_birth,
			COALESCE(p.gender, '') AS gender,
			COALESCE(p.blood_group, '') AS blood_group,
			COALESCE(p.billing_type, '') AS billing_type,
			mr.diagnosis,
			COALESCE(mr.visit_type, '') AS visit_type,
			mr.created_at`).
		Joins("JOIN patients p ON p.id = mr.patient_id").
		Where("mr.diagnosis IS NOT NULL AND mr.diagnosis <> ''").
		Where("mr.created_at >= ? AND mr.created_at < ?", win.Start, win.End).
		Order("mr.created_at ASC")
	query = applyScope(query, scope, "mr.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]model.CaseRecord, 0, len(rows))
	for _, item := range rows {
		records = append(records, model.CaseRecord{
			PatientID:   item.PatientID,
			TenantID:    item.HospitalID,
			DateOfBirth: item.DateOfBirth,
			Gender:      item.Gender,
			BloodGroup:  item.BloodGroup,
			BillingType: item.BillingType,
			Diagnosis:   item.Diagnosis,
			VisitType:   item.VisitType,
			RecordedAt:  item.CreatedAt,
		})
	}
	return records, nil
}

func (r *ExportRepository) PrescriptionRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.PrescriptionRecord, error) {
	type row struct {
		PatientID    uuid.UUID
		HospitalID   uuid.UUID
		DrugName     string
		DrugCategory string
		Dosage       string
		DurationDays int64
		Status       string
		CreatedAt    time.Time
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Table("prescription_items pi").
		Select(`pr.patient_id,
			pr.hospital_id,
			pi.drug_name,
			COALESCE(pi.drug_category, '') AS drug_category,
			COALESCE(pi.dosage, '') AS dosage,
			COALESCE(pi.duration_days, 0) AS duration_days,
			COALESCE(pr.status, '') AS status,
			pr.created_at`).
		Joins("JOIN prescriptions pr ON pr.id = pi.prescription_id").
		Where("pr.created_at >= ? AND pr.created_at < ?", win.Start, win.End).
		Order("pr.created_at ASC")
	query = applyScope(query, scope, "pr.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]model.PrescriptionRecord, 0, len(rows))
	for _, item := range rows {
		records = append(records, model.PrescriptionRecord{
			PatientID:    item.PatientID,
			TenantID:     item.HospitalID,
			DrugName:     item.DrugName,
			DrugCategory: item.DrugCategory,
			Dosage:       item.Dosage,
			DurationDays: item.DurationDays,
			Status:       item.Status,
			PrescribedAt: item.CreatedAt,
		})
	}
	return records, nil
}

// LabRows returns one row per lab result, or one row for an order that is
// still pending and has no result yet.
func (r *ExportRepository) LabRows(ctx context.Context, scope model.Scope, win model.TimeWindow) ([]model.LabRecord, error) {
	type row struct {
		PatientID  uuid.UUID
		HospitalID uuid.UUID
		OrderType  string
		Status     string
		ResultFlag string
		CreatedAt  time.Time
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Table("lab_orders lo").
		Select(`lo.patient_id,
			lo.hospital_id,
			COALESCE(lo.order_type, '') AS order_type,
			COALESCE(lo.status, '') AS status,
			COALESCE(lo.result_flag, '') AS result_flag,
			lo.created_at`).
		Where("lo.created_at >= ? AND lo.created_at < ?", win.Start, win.End).
		Order("lo.created_at ASC")
	query = applyScope(query, scope, "lo.hospital_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]model.LabRecord, 0, len(rows))
	for _, item := range rows {
		records = append(records, model.LabRecord{
			PatientID:  item.PatientID,
			TenantID:   item.HospitalID,
			OrderType:  item.OrderType,
			Status:     item.Status,
			ResultFlag: item.ResultFlag,
			OrderedAt:  item.CreatedAt,
		})
	}
	return records, nil
}
