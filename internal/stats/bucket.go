package stats

import "time"

type AgeBand string

const AgeBandUnknown AgeBand = "Unknown"

// Research bands used by the de-identified export.
var researchBands = []struct {
	max   int
	label AgeBand
}{
	{4, "0-4"},
	{11, "5-11"},
	{17, "12-17"},
	{29, "18-29"},
	{44, "30-44"},
	{59, "45-59"},
	{74, "60-74"},
}

const researchTopBand AgeBand = "75+"

// Coarser bands used by the live dashboards.
var dashboardBands = []struct {
	max   int
	label AgeBand
}{
	{18, "0-18"},
	{35, "19-35"},
	{60, "36-60"},
}

const dashboardTopBand AgeBand = "60+"

// AgeAt returns whole years lived at now, adjusting when the birthday has
// not yet occurred this year.
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}

// ResearchAgeBand maps a date of birth onto the export band table. Every
// input maps to exactly one band; a missing or future date of birth maps to
// the explicit Unknown band rather than being dropped, so percentages keep
// their denominators.
func ResearchAgeBand(dob *time.Time, now time.Time) AgeBand {
	return bandFor(dob, now, researchBands, researchTopBand)
}

// DashboardAgeBand maps a date of birth onto the dashboard band table.
func DashboardAgeBand(dob *time.Time, now time.Time) AgeBand {
	return bandFor(dob, now, dashboardBands, dashboardTopBand)
}

func bandFor(dob *time.Time, now time.Time, table []struct {
	max   int
	label AgeBand
}, top AgeBand) AgeBand {
	if dob == nil || dob.IsZero() {
		return AgeBandUnknown
	}
	age := AgeAt(*dob, now)
	if age < 0 {
		return AgeBandUnknown
	}
	for _, band := range table {
		if age <= band.max {
			return band.label
		}
	}
	return top
}

// ResearchAgeBands lists the research bands in ascending order, Unknown last.
// The export data dictionary and summary sheets iterate this for stable
// column ordering.
func ResearchAgeBands() []AgeBand {
	bands := make([]AgeBand, 0, len(researchBands)+2)
	for _, b := range researchBands {
		bands = append(bands, b.label)
	}
	return append(bands, researchTopBand, AgeBandUnknown)
}

// DashboardAgeBands lists the dashboard bands in ascending order, Unknown last.
func DashboardAgeBands() []AgeBand {
	bands := make([]AgeBand, 0, len(dashboardBands)+2)
	for _, b := range dashboardBands {
		bands = append(bands, b.label)
	}
	return append(bands, dashboardTopBand, AgeBandUnknown)
}

const expiringSoonDays = 90

// StockFlags are three independent booleans. An item can be low-stock and
// expiring-soon at the same time; collapsing them into one prioritized state
// would hide the overlap.
type StockFlags struct {
	IsExpired    bool
	IsLowStock   bool
	ExpiringSoon bool
}

// ComputeStockFlags evaluates an inventory item against today. Expiry is
// compared at date precision: an item expiring today is not yet expired.
func ComputeStockFlags(quantity, reorderLevel int64, expiry *time.Time, today time.Time) StockFlags {
	flags := StockFlags{IsLowStock: quantity <= reorderLevel}
	if expiry == nil || expiry.IsZero() {
		return flags
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	expiryDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, today.Location())

	if expiryDay.Before(day) {
		flags.IsExpired = true
		return flags
	}
	daysLeft := int(expiryDay.Sub(day).Hours() / 24)
	flags.ExpiringSoon = daysLeft <= expiringSoonDays
	return flags
}
