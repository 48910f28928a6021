package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"hms-analytics/internal/model"
	"hms-analytics/internal/stats"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)

const lowStockTopN = 3

// DashboardService shapes metric query set results into one dashboard per
// caller role. Every branch is terminal: one role, one projection, no
// branch computes anything the executor didn't already fetch.
type DashboardService struct {
	metrics MetricsSource
	rows    ExportSource
	log     zerolog.Logger
	now     func() time.Time
}

func NewDashboardService(metrics MetricsSource, rows ExportSource, log zerolog.Logger, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{metrics: metrics, rows: rows, log: log, now: now}
}

// GetDashboard resolves the caller's window and dispatches to the branch for
// their role. Roles outside the known set get nothing.
func (s *DashboardService) GetDashboard(ctx context.Context, principal model.Principal, from, to string, preset model.Preset) (any, error) {
	win := model.ResolveWindow(s.now(), from, to, preset)
	switch principal.Role {
	case model.RolePlatformAdmin:
		return s.PlatformDashboard(ctx, principal, win)
	case model.RoleAdmin:
		return s.AdminDashboard(ctx, principal, win)
	case model.RoleDoctor:
		return s.DoctorDashboard(ctx, principal, win)
	case model.RoleNurse:
		return s.NurseDashboard(ctx, principal, win)
	case model.RoleLabTechnician:
		return s.LabDashboard(ctx, principal, win)
	case model.RolePharmacist:
		return s.PharmacyDashboard(ctx, principal, win)
	case model.RolePatient:
		return s.PatientDashboard(ctx, principal, win)
	default:
		return nil, ErrPermissionDenied
	}
}

func (s *DashboardService) AdminDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.AdminDashboard, error) {
	if principal.Role != model.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := model.DayWindow(now)
	dashboard := &model.AdminDashboard{Window: win}

	var (
		revenueWindow model.RevenueSummary
		revenueToday  model.RevenueSummary
		billing       []model.GroupCount
		admitsToday   model.AdmissionCounts
		admitsWindow  model.AdmissionCounts
		claims        model.ClaimCounts
		inventory     decimal.Decimal
		items         []model.InventoryItem
	)

	runMetrics(ctx, s.log, []metricTask{
		{name: "patient_count", run: func(ctx context.Context) error {
			v, err := s.metrics.PatientCount(ctx, scope)
			dashboard.TotalPatients = v
			return err
		}},
		{name: "staff_count", run: func(ctx context.Context) error {
			v, err := s.metrics.StaffCount(ctx, scope)
			dashboard.TotalStaff = v
			return err
		}},
		{name: "appointments_today", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentCount(ctx, scope, today)
			dashboard.AppointmentsToday = v
			return err
		}},
		{name: "appointments_window", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentCount(ctx, scope, win)
			dashboard.AppointmentsInWindow = v
			return err
		}},
		{name: "revenue_window", run: func(ctx context.Context) error {
			v, err := s.metrics.RevenueSummary(ctx, scope, win)
			revenueWindow = v
			return err
		}},
		{name: "revenue_today", run: func(ctx context.Context) error {
			v, err := s.metrics.RevenueSummary(ctx, scope, today)
			revenueToday = v
			return err
		}},
		{name: "billing_type_mix", run: func(ctx context.Context) error {
			v, err := s.metrics.BillingTypeCounts(ctx, scope)
			billing = v
			return err
		}},
		{name: "admissions_today", run: func(ctx context.Context) error {
			v, err := s.metrics.AdmissionCounts(ctx, scope, today)
			admitsToday = v
			return err
		}},
		{name: "admissions_window", run: func(ctx context.Context) error {
			v, err := s.metrics.AdmissionCounts(ctx, scope, win)
			admitsWindow = v
			return err
		}},
		{name: "claim_counts", run: func(ctx context.Context) error {
			v, err := s.metrics.ClaimCounts(ctx, scope, win)
			claims = v
			return err
		}},
		{name: "inventory_value", run: func(ctx context.Context) error {
			v, err := s.metrics.InventoryValue(ctx, scope)
			inventory = v
			return err
		}},
		{name: "inventory_items", run: func(ctx context.Context) error {
			v, err := s.metrics.InventoryItems(ctx, scope)
			items = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.RevenueInWindow = stats.Amount(revenueWindow.Total)
	dashboard.RevenueToday = stats.Amount(revenueToday.Total)
	dashboard.CollectionRate = stats.RatePercent(revenueWindow.Paid, revenueWindow.Total)
	dashboard.ClaimPaymentRate = stats.Percent(claims.Paid, claims.Total)
	dashboard.PatientTypeMix = billingTypeMix(billing)
	dashboard.AdmissionsToday = admitsToday.Admitted
	dashboard.DischargesToday = admitsToday.Discharged
	dashboard.DischargeRate = stats.Percent(admitsWindow.Discharged, admitsWindow.Admitted)
	dashboard.InventoryValue = stats.Amount(inventory)

	lowStock, expiringSoon, expired := summarizeInventory(items, now)
	dashboard.LowStockByClass = lowStock
	dashboard.ExpiringSoonCount = expiringSoon
	dashboard.ExpiredCount = expired

	return dashboard, nil
}

func (s *DashboardService) PlatformDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.PlatformDashboard, error) {
	if principal.Role != model.RolePlatformAdmin {
		return nil, ErrPermissionDenied
	}
	// The one unscoped branch: platform queries span all tenants.
	scope := model.PlatformScope()
	now := s.now()
	dashboard := &model.PlatformDashboard{Window: win}

	var (
		revenue       model.RevenueSummary
		demographics  []model.PatientDemographic
		cases         []model.CaseRecord
		prescriptions []model.PrescriptionRecord
		labs          []model.LabRecord
	)

	runMetrics(ctx, s.log, []metricTask{
		{name: "hospital_count", run: func(ctx context.Context) error {
			v, err := s.metrics.HospitalCount(ctx)
			dashboard.HospitalCount = v
			return err
		}},
		{name: "platform_patient_count", run: func(ctx context.Context) error {
			v, err := s.metrics.PatientCount(ctx, scope)
			dashboard.TotalPatients = v
			return err
		}},
		{name: "record_count", run: func(ctx context.Context) error {
			v, err := s.metrics.MedicalRecordCount(ctx, scope, win)
			dashboard.RecordsInWindow = v
			return err
		}},
		{name: "platform_revenue", run: func(ctx context.Context) error {
			v, err := s.metrics.RevenueSummary(ctx, scope, win)
			revenue = v
			return err
		}},
		{name: "demographics", run: func(ctx context.Context) error {
			v, err := s.metrics.PatientDemographics(ctx, scope)
			demographics = v
			return err
		}},
		{name: "case_rows", run: func(ctx context.Context) error {
			v, err := s.rows.CaseRows(ctx, scope, win)
			cases = v
			return err
		}},
		{name: "prescription_rows", run: func(ctx context.Context) error {
			v, err := s.rows.PrescriptionRows(ctx, scope, win)
			prescriptions = v
			return err
		}},
		{name: "lab_rows", run: func(ctx context.Context) error {
			v, err := s.rows.LabRows(ctx, scope, win)
			labs = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.RevenueInWindow = stats.Amount(revenue.Total)
	dashboard.CollectionRate = stats.RatePercent(revenue.Paid, revenue.Total)
	dashboard.AgeDistribution = ageDistribution(demographics, now)
	dashboard.TopDiseases = topDiseases(cases, now, 5)

	drugCategories := stats.NewCategoryCounter("drug_category")
	for _, row := range prescriptions {
		drugCategories.Add(row.DrugCategory)
	}
	dashboard.TopDrugCategories = drugCategories.TopN(5)

	orderTypes := stats.NewCategoryCounter("lab_order_type")
	for _, row := range labs {
		orderTypes.Add(row.OrderType)
	}
	dashboard.TopLabOrderTypes = orderTypes.TopN(5)

	return dashboard, nil
}

func (s *DashboardService) DoctorDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.DoctorDashboard, error) {
	if principal.Role != model.RoleDoctor {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}
	scope = scope.ForDoctor(principal.UserID)

	today := model.DayWindow(s.now())
	dashboard := &model.DoctorDashboard{Window: win}

	var prescriptionCounts, labCounts []model.GroupCount

	runMetrics(ctx, s.log, []metricTask{
		{name: "assigned_patients", run: func(ctx context.Context) error {
			v, err := s.metrics.PatientCount(ctx, scope)
			dashboard.AssignedPatients = v
			return err
		}},
		{name: "appointments_today", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentCount(ctx, scope, today)
			dashboard.AppointmentsToday = v
			return err
		}},
		{name: "appointments_window", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentCount(ctx, scope, win)
			dashboard.AppointmentsInWindow = v
			return err
		}},
		{name: "prescriptions_written", run: func(ctx context.Context) error {
			v, err := s.metrics.PrescriptionStatusCounts(ctx, scope, win)
			prescriptionCounts = v
			return err
		}},
		{name: "lab_orders_placed", run: func(ctx context.Context) error {
			v, err := s.metrics.LabOrderStatusCounts(ctx, scope, win)
			labCounts = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.PrescriptionsWritten = sumCounts(prescriptionCounts)
	dashboard.LabOrdersPlaced = sumCounts(labCounts)
	dashboard.ResultsPending = countFor(labCounts, "pending") + countFor(labCounts, "in_progress")

	return dashboard, nil
}

func (s *DashboardService) NurseDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.NurseDashboard, error) {
	if principal.Role != model.RoleNurse {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}

	today := model.DayWindow(s.now())
	dashboard := &model.NurseDashboard{Window: win}

	var windowCounts, todayCounts []model.GroupCount

	runMetrics(ctx, s.log, []metricTask{
		{name: "appointment_funnel", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentStatusCounts(ctx, scope, win)
			windowCounts = v
			return err
		}},
		{name: "appointment_funnel_today", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentStatusCounts(ctx, scope, today)
			todayCounts = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.Scheduled = countFor(windowCounts, "scheduled")
	dashboard.CheckedIn = countFor(windowCounts, "checked_in")
	dashboard.InProgress = countFor(windowCounts, "in_progress")
	dashboard.CompletedToday = countFor(todayCounts, "completed")

	return dashboard, nil
}

func (s *DashboardService) LabDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.LabDashboard, error) {
	if principal.Role != model.RoleLabTechnician {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}

	today := model.DayWindow(s.now())
	dashboard := &model.LabDashboard{Window: win}

	var statusCounts []model.GroupCount

	runMetrics(ctx, s.log, []metricTask{
		{name: "lab_funnel", run: func(ctx context.Context) error {
			v, err := s.metrics.LabOrderStatusCounts(ctx, scope, win)
			statusCounts = v
			return err
		}},
		{name: "labs_completed_today", run: func(ctx context.Context) error {
			v, err := s.metrics.CompletedLabCount(ctx, scope, today)
			dashboard.CompletedToday = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.Pending = countFor(statusCounts, "pending")
	dashboard.InProgress = countFor(statusCounts, "in_progress")
	dashboard.AwaitingRelease = countFor(statusCounts, "finalized")

	return dashboard, nil
}

func (s *DashboardService) PharmacyDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.PharmacyDashboard, error) {
	if principal.Role != model.RolePharmacist {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}

	today := model.DayWindow(s.now())
	dashboard := &model.PharmacyDashboard{Window: win}

	var statusCounts []model.GroupCount

	runMetrics(ctx, s.log, []metricTask{
		{name: "prescription_funnel", run: func(ctx context.Context) error {
			v, err := s.metrics.PrescriptionStatusCounts(ctx, scope, win)
			statusCounts = v
			return err
		}},
		{name: "dispensed_today", run: func(ctx context.Context) error {
			v, err := s.metrics.DispensedPrescriptionCount(ctx, scope, today)
			dashboard.DispensedToday = v
			return err
		}},
		{name: "low_stock_count", run: func(ctx context.Context) error {
			v, err := s.metrics.LowStockCount(ctx, scope)
			dashboard.LowStockItems = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.PendingPrescriptions = countFor(statusCounts, "pending")
	dashboard.CancelledInWindow = countFor(statusCounts, "cancelled")

	return dashboard, nil
}

// PatientDashboard is the single non-staff branch. Every query is narrowed
// to the caller's own linked patient record; a portal user with no linked
// record has no data surface at all.
func (s *DashboardService) PatientDashboard(ctx context.Context, principal model.Principal, win model.TimeWindow) (*model.PatientDashboard, error) {
	if principal.Role != model.RolePatient {
		return nil, ErrPermissionDenied
	}
	if principal.PatientID == nil {
		return nil, ErrPermissionDenied
	}
	scope, err := tenantScopeFor(principal)
	if err != nil {
		return nil, err
	}
	scope = scope.ForPatient(*principal.PatientID)

	now := s.now()
	upcoming := model.TimeWindow{Start: now, End: now.AddDate(1, 0, 0)}
	dashboard := &model.PatientDashboard{Window: win}

	var (
		invoices           model.OutstandingInvoices
		prescriptionCounts []model.GroupCount
		labCounts          []model.GroupCount
	)

	runMetrics(ctx, s.log, []metricTask{
		{name: "upcoming_appointments", run: func(ctx context.Context) error {
			v, err := s.metrics.AppointmentCount(ctx, scope, upcoming)
			dashboard.UpcomingAppointments = v
			return err
		}},
		{name: "outstanding_invoices", run: func(ctx context.Context) error {
			v, err := s.metrics.OutstandingInvoices(ctx, scope)
			invoices = v
			return err
		}},
		{name: "own_prescriptions", run: func(ctx context.Context) error {
			v, err := s.metrics.PrescriptionStatusCounts(ctx, scope, win)
			prescriptionCounts = v
			return err
		}},
		{name: "own_lab_orders", run: func(ctx context.Context) error {
			v, err := s.metrics.LabOrderStatusCounts(ctx, scope, win)
			labCounts = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dashboard.OutstandingInvoices = invoices.Count
	dashboard.OutstandingBalance = stats.Amount(invoices.Balance)
	dashboard.ActivePrescriptions = countFor(prescriptionCounts, "pending") + countFor(prescriptionCounts, "dispensed")
	dashboard.ResultsReady = countFor(labCounts, "released")

	return dashboard, nil
}

func tenantScopeFor(principal model.Principal) (model.Scope, error) {
	if principal.TenantID == nil {
		return model.Scope{}, ErrPermissionDenied
	}
	return model.TenantScope(*principal.TenantID), nil
}

// billingTypeMix turns raw billing-type counts into percentage shares. The
// denominator is the sum of the group counts, so the shares always close to
// 100 within rounding.
func billingTypeMix(counts []model.GroupCount) []model.MetricResult {
	var total int64
	for _, group := range counts {
		total += group.Count
	}
	result := make([]model.MetricResult, 0, len(counts))
	for _, group := range counts {
		pct := stats.Percent(group.Count, total)
		result = append(result, model.MetricResult{
			Key:        group.Key,
			GroupedBy:  "billing_type",
			Count:      group.Count,
			Percentage: &pct,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Key < result[j].Key
	})
	return result
}

func ageDistribution(demographics []model.PatientDemographic, now time.Time) []model.MetricResult {
	counts := make(map[stats.AgeBand]int64)
	for _, row := range demographics {
		counts[stats.DashboardAgeBand(row.DateOfBirth, now)]++
	}
	total := int64(len(demographics))
	result := make([]model.MetricResult, 0, len(counts))
	for _, band := range stats.DashboardAgeBands() {
		count, ok := counts[band]
		if !ok {
			continue
		}
		pct := stats.Percent(count, total)
		result = append(result, model.MetricResult{
			Key:        string(band),
			GroupedBy:  "age_band",
			Count:      count,
			Percentage: &pct,
		})
	}
	return result
}

// topDiseases feeds case rows through the frequency summarizer with a
// throwaway per-invocation pseudonymizer, so unique-patient counts work
// without any real id reaching the summarizer.
func topDiseases(cases []model.CaseRecord, now time.Time, limit int) []model.MetricResult {
	pseudonyms := stats.NewPseudonymizer()
	summarizer := stats.NewDiseaseSummarizer()
	for _, record := range cases {
		band := stats.DashboardAgeBand(record.DateOfBirth, now)
		summarizer.Add(record.Diagnosis, pseudonyms.Pseudonym(record.PatientID), record.TenantID, band, record.Gender)
	}
	return summarizer.TopDiseases(limit)
}

func sumCounts(counts []model.GroupCount) int64 {
	var total int64
	for _, group := range counts {
		total += group.Count
	}
	return total
}

func countFor(counts []model.GroupCount, key string) int64 {
	for _, group := range counts {
		if group.Key == key {
			return group.Count
		}
	}
	return 0
}

func summarizeInventory(items []model.InventoryItem, now time.Time) ([]model.DepartmentStock, int64, int64) {
	var expiringSoon, expired int64
	byClass := make(map[string][]model.StockItem)
	for _, item := range items {
		flags := stats.ComputeStockFlags(item.Quantity, item.ReorderLevel, item.ExpiryDate, now)
		if flags.ExpiringSoon {
			expiringSoon++
		}
		if flags.IsExpired {
			expired++
		}
		if !flags.IsLowStock {
			continue
		}
		byClass[item.DepartmentClass] = append(byClass[item.DepartmentClass], model.StockItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
			IsLowStock:   flags.IsLowStock,
			IsExpired:    flags.IsExpired,
			ExpiringSoon: flags.ExpiringSoon,
		})
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	result := make([]model.DepartmentStock, 0, len(classes))
	for _, class := range classes {
		stock := byClass[class]
		sort.Slice(stock, func(i, j int) bool {
			if stock[i].Quantity != stock[j].Quantity {
				return stock[i].Quantity < stock[j].Quantity
			}
			return stock[i].Name < stock[j].Name
		})
		if len(stock) > lowStockTopN {
			stock = stock[:lowStockTopN]
		}
		result = append(result, model.DepartmentStock{DepartmentClass: class, Items: stock})
	}
	return result, expiringSoon, expired
}
