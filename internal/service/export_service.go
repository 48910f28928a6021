package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"hms-analytics/internal/export"
	"hms-analytics/internal/model"
	"hms-analytics/internal/stats"
)

const notRecorded = "Not recorded"

// ExportService produces the de-identified research workbook. The pseudonym
// map is constructed inside BuildResearchExport and garbage-collected with
// it: no sheet, log line, or return value carries the real patient id or
// the forward mapping.
type ExportService struct {
	rows ExportSource
	log  zerolog.Logger
	now  func() time.Time
}

func NewExportService(rows ExportSource, log zerolog.Logger, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{rows: rows, log: log, now: now}
}

// BuildResearchExport assembles the five-sheet workbook for the resolved
// window. Platform admin only: the export spans all tenants, so no
// tenant-scoped role may request it.
func (s *ExportService) BuildResearchExport(ctx context.Context, principal model.Principal, from, to string, preset model.Preset) (*excelize.File, model.TimeWindow, error) {
	if principal.Role != model.RolePlatformAdmin {
		return nil, model.TimeWindow{}, ErrPermissionDenied
	}

	now := s.now()
	win := model.ResolveWindow(now, from, to, preset)
	scope := model.PlatformScope()

	var (
		cases         []model.CaseRecord
		prescriptions []model.PrescriptionRecord
		labs          []model.LabRecord
	)

	runMetrics(ctx, s.log, []metricTask{
		{name: "export_case_rows", run: func(ctx context.Context) error {
			v, err := s.rows.CaseRows(ctx, scope, win)
			cases = v
			return err
		}},
		{name: "export_prescription_rows", run: func(ctx context.Context) error {
			v, err := s.rows.PrescriptionRows(ctx, scope, win)
			prescriptions = v
			return err
		}},
		{name: "export_lab_rows", run: func(ctx context.Context) error {
			v, err := s.rows.LabRows(ctx, scope, win)
			labs = v
			return err
		}},
	})
	if err := ctx.Err(); err != nil {
		return nil, model.TimeWindow{}, err
	}

	pseudonyms := stats.NewPseudonymizer()
	facilities := stats.NewFacilityCoder()
	summarizer := stats.NewDiseaseSummarizer()

	caseRows := make([][]any, 0, len(cases))
	for _, record := range cases {
		pseudonym := pseudonyms.Pseudonym(record.PatientID)
		band := stats.ResearchAgeBand(record.DateOfBirth, now)
		summarizer.Add(record.Diagnosis, pseudonym, record.TenantID, band, record.Gender)
		caseRows = append(caseRows, []any{
			pseudonym,
			facilities.Code(record.TenantID),
			string(band),
			stats.NormalizeGender(record.Gender),
			textOr(record.BloodGroup),
			textOr(record.BillingType),
			record.Diagnosis,
			textOr(record.VisitType),
			record.RecordedAt.Format("2006-01"),
		})
	}

	prescriptionRows := make([][]any, 0, len(prescriptions))
	for _, record := range prescriptions {
		prescriptionRows = append(prescriptionRows, []any{
			pseudonyms.Pseudonym(record.PatientID),
			facilities.Code(record.TenantID),
			textOr(record.DrugName),
			textOr(record.DrugCategory),
			textOr(record.Dosage),
			record.DurationDays,
			textOr(record.Status),
			record.PrescribedAt.Format("2006-01"),
		})
	}

	labRows := make([][]any, 0, len(labs))
	for _, record := range labs {
		result := record.ResultFlag
		if result == "" {
			if record.Status == "pending" || record.Status == "in_progress" {
				result = "Pending"
			} else {
				result = notRecorded
			}
		}
		labRows = append(labRows, []any{
			pseudonyms.Pseudonym(record.PatientID),
			facilities.Code(record.TenantID),
			textOr(record.OrderType),
			textOr(record.Status),
			result,
			record.OrderedAt.Format("2006-01"),
		})
	}

	sheets := []export.Sheet{
		{
			Name:   "Disease Cases",
			Header: []string{"Pseudonym", "Facility", "Age Band", "Gender", "Blood Group", "Billing Type", "Diagnosis", "Visit Type", "Month"},
			Rows:   caseRows,
		},
		{
			Name:   "Prescriptions",
			Header: []string{"Pseudonym", "Facility", "Drug Name", "Drug Category", "Dosage", "Duration Days", "Status", "Month"},
			Rows:   prescriptionRows,
		},
		{
			Name:   "Lab Tests",
			Header: []string{"Pseudonym", "Facility", "Order Type", "Status", "Result", "Month"},
			Rows:   labRows,
		},
		diseaseSummarySheet(summarizer),
		dataDictionarySheet(),
	}

	workbook, err := export.BuildWorkbook(sheets)
	if err != nil {
		return nil, model.TimeWindow{}, fmt.Errorf("build workbook: %w", err)
	}

	s.log.Info().
		Int("patients", pseudonyms.Count()).
		Int("case_rows", len(caseRows)).
		Int("prescription_rows", len(prescriptionRows)).
		Int("lab_rows", len(labRows)).
		Msg("research export assembled")

	return workbook, win, nil
}

// ExportFilename names the artifact after the window it covers.
func ExportFilename(win model.TimeWindow) string {
	return fmt.Sprintf("research_export_%s_%s.xlsx", win.Start.Format("20060102"), win.End.Format("20060102"))
}

func diseaseSummarySheet(summarizer *stats.DiseaseSummarizer) export.Sheet {
	bands := stats.ResearchAgeBands()
	header := []string{"Disease", "Total Cases", "Unique Patients", "Facilities Affected", "Share of Mentions (%)"}
	for _, band := range bands {
		header = append(header, "Age "+string(band))
	}
	genders := []string{"Male", "Female", "Other", notRecorded}
	header = append(header, genders...)

	denominator := summarizer.TotalMentions()
	aggregates := summarizer.Finalize()
	rows := make([][]any, 0, len(aggregates))
	for _, agg := range aggregates {
		row := []any{
			agg.Label,
			agg.TotalCases,
			agg.UniquePatients,
			agg.HospitalsAffected,
			stats.Percent(agg.TotalCases, denominator),
		}
		for _, band := range bands {
			row = append(row, agg.AgeBandCounts[string(band)])
		}
		for _, gender := range genders {
			row = append(row, agg.GenderCounts[gender])
		}
		rows = append(rows, row)
	}
	return export.Sheet{Name: "Disease Summary", Header: header, Rows: rows}
}

func dataDictionarySheet() export.Sheet {
	rows := [][]any{
		{"All", "Pseudonym", "Per-export substitute patient identifier (PATIENT_NNNNNN). Stable within one export, reassigned between exports; not reversible."},
		{"All", "Facility", "Per-export substitute facility code (FACILITY_NN). Identifies grouping only, not the hospital."},
		{"All", "Month", "Event month (YYYY-MM). Dates are truncated to month precision."},
		{"Disease Cases", "Age Band", "Patient age at export time bucketed as 0-4, 5-11, 12-17, 18-29, 30-44, 45-59, 60-74, 75+, or Unknown when date of birth is absent."},
		{"Disease Cases", "Gender", "Male, Female, Other, or Not recorded."},
		{"Disease Cases", "Blood Group", "ABO/Rh group as recorded, or Not recorded."},
		{"Disease Cases", "Billing Type", "self_pay, hmo, or corporate; Not recorded when absent in source."},
		{"Disease Cases", "Diagnosis", "Free-text diagnosis as entered by the clinician."},
		{"Prescriptions", "Duration Days", "Prescribed duration in days; 0 when the source field was empty."},
		{"Lab Tests", "Result", "Result flag when released; Pending for open orders; Not recorded for closed orders without a flag."},
		{"Disease Summary", "Disease", "Disease mention parsed from free-text diagnoses split on comma, semicolon, and period. Best-effort frequency estimate, not clinical coding."},
		{"Disease Summary", "Share of Mentions (%)", "Mentions of this disease as a percentage of all disease mentions in the export window."},
		{"All", "Not recorded", "Field exists but was blank in the source record; distinct from a value that does not apply."},
	}
	return export.Sheet{
		Name:   "Data Dictionary",
		Header: []string{"Sheet", "Field", "Definition"},
		Rows:   rows,
	}
}

func textOr(value string) string {
	if value == "" {
		return notRecorded
	}
	return value
}
