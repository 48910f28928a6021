package model

// Role-shaped dashboard payloads. Every numeric field has passed through the
// stats normalizer before it reaches JSON: money and rates are rounded
// float64, counts are plain int64.

type AdminDashboard struct {
	TotalPatients        int64              `json:"total_patients"`
	TotalStaff           int64              `json:"total_staff"`
	AppointmentsToday    int64              `json:"appointments_today"`
	AppointmentsInWindow int64              `json:"appointments_in_window"`
	RevenueToday         float64            `json:"revenue_today"`
	RevenueInWindow      float64            `json:"revenue_in_window"`
	CollectionRate       float64            `json:"collection_rate_percent"`
	ClaimPaymentRate     float64            `json:"claim_payment_rate_percent"`
	PatientTypeMix       []MetricResult     `json:"patient_type_mix"`
	AdmissionsToday      int64              `json:"admissions_today"`
	DischargesToday      int64              `json:"discharges_today"`
	DischargeRate        float64            `json:"discharge_rate_percent"`
	InventoryValue       float64            `json:"inventory_value"`
	LowStockByClass      []DepartmentStock  `json:"low_stock_by_class"`
	ExpiringSoonCount    int64              `json:"expiring_soon_count"`
	ExpiredCount         int64              `json:"expired_count"`
	Window               TimeWindow         `json:"window"`
}

type DepartmentStock struct {
	DepartmentClass string      `json:"department_class"`
	Items           []StockItem `json:"items"`
}

type StockItem struct {
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
	IsLowStock   bool   `json:"is_low_stock"`
	IsExpired    bool   `json:"is_expired"`
	ExpiringSoon bool   `json:"expiring_soon"`
}

type PlatformDashboard struct {
	HospitalCount     int64          `json:"hospital_count"`
	TotalPatients     int64          `json:"total_patients"`
	RecordsInWindow   int64          `json:"records_in_window"`
	RevenueInWindow   float64        `json:"revenue_in_window"`
	CollectionRate    float64        `json:"collection_rate_percent"`
	AgeDistribution   []MetricResult `json:"age_distribution"`
	TopDiseases       []MetricResult `json:"top_diseases"`
	TopDrugCategories []MetricResult `json:"top_drug_categories"`
	TopLabOrderTypes  []MetricResult `json:"top_lab_order_types"`
	Window            TimeWindow     `json:"window"`
}

type DoctorDashboard struct {
	AssignedPatients     int64      `json:"assigned_patients"`
	AppointmentsToday    int64      `json:"appointments_today"`
	AppointmentsInWindow int64      `json:"appointments_in_window"`
	PrescriptionsWritten int64      `json:"prescriptions_written"`
	LabOrdersPlaced      int64      `json:"lab_orders_placed"`
	ResultsPending       int64      `json:"results_pending"`
	Window               TimeWindow `json:"window"`
}

type NurseDashboard struct {
	Scheduled      int64      `json:"scheduled"`
	CheckedIn      int64      `json:"checked_in"`
	InProgress     int64      `json:"in_progress"`
	CompletedToday int64      `json:"completed_today"`
	Window         TimeWindow `json:"window"`
}

type LabDashboard struct {
	Pending         int64      `json:"pending"`
	InProgress      int64      `json:"in_progress"`
	AwaitingRelease int64      `json:"awaiting_release"`
	CompletedToday  int64      `json:"completed_today"`
	Window          TimeWindow `json:"window"`
}

type PharmacyDashboard struct {
	PendingPrescriptions int64      `json:"pending_prescriptions"`
	DispensedToday       int64      `json:"dispensed_today"`
	CancelledInWindow    int64      `json:"cancelled_in_window"`
	LowStockItems        int64      `json:"low_stock_items"`
	Window               TimeWindow `json:"window"`
}

type PatientDashboard struct {
	UpcomingAppointments int64      `json:"upcoming_appointments"`
	OutstandingInvoices  int64      `json:"outstanding_invoices"`
	OutstandingBalance   float64    `json:"outstanding_balance"`
	ActivePrescriptions  int64      `json:"active_prescriptions"`
	ResultsReady         int64      `json:"results_ready"`
	Window               TimeWindow `json:"window"`
}
