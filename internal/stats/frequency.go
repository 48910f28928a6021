package stats

import (
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"hms-analytics/internal/model"
)

// SplitDiagnosis tokenizes a free-text diagnosis field into candidate
// disease mentions. Splitting on , ; . is a best-effort heuristic with no
// medical-coding backing: diagnoses phrased with unexpected punctuation will
// misgroup. The output is a frequency estimate, not a coding system.
func SplitDiagnosis(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '.'
	})
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

type diseaseGroup struct {
	display  string
	total    int64
	patients map[string]struct{}
	tenants  map[uuid.UUID]struct{}
	byBand   map[string]int64
	byGender map[string]int64
}

// DiseaseSummarizer accumulates per-disease counts while streaming case
// records. Grouping is case-folded; the display label keeps the first-seen
// spelling with an upper-cased initial.
type DiseaseSummarizer struct {
	groups map[string]*diseaseGroup
}

func NewDiseaseSummarizer() *DiseaseSummarizer {
	return &DiseaseSummarizer{groups: make(map[string]*diseaseGroup)}
}

// Add tokenizes one diagnosis field and folds each mention into the
// aggregate. The patient is identified only by pseudonym here; real ids
// never reach the summarizer.
func (s *DiseaseSummarizer) Add(diagnosis, pseudonym string, tenantID uuid.UUID, band AgeBand, gender string) {
	for _, token := range SplitDiagnosis(diagnosis) {
		key := strings.ToLower(token)
		group, ok := s.groups[key]
		if !ok {
			group = &diseaseGroup{
				display:  upperFirst(token),
				patients: make(map[string]struct{}),
				tenants:  make(map[uuid.UUID]struct{}),
				byBand:   make(map[string]int64),
				byGender: make(map[string]int64),
			}
			s.groups[key] = group
		}
		group.total++
		group.patients[pseudonym] = struct{}{}
		group.tenants[tenantID] = struct{}{}
		group.byBand[string(band)]++
		group.byGender[NormalizeGender(gender)]++
	}
}

// TotalMentions is the denominator for disease percentage columns: the sum
// of mention counts across all groups.
func (s *DiseaseSummarizer) TotalMentions() int64 {
	var total int64
	for _, group := range s.groups {
		total += group.total
	}
	return total
}

// Finalize sorts descending by total cases; ties break ascending by label so
// the same input always produces the same order.
func (s *DiseaseSummarizer) Finalize() []model.DiseaseAggregate {
	result := make([]model.DiseaseAggregate, 0, len(s.groups))
	for _, group := range s.groups {
		result = append(result, model.DiseaseAggregate{
			Label:             group.display,
			TotalCases:        group.total,
			UniquePatients:    int64(len(group.patients)),
			HospitalsAffected: int64(len(group.tenants)),
			AgeBandCounts:     group.byBand,
			GenderCounts:      group.byGender,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalCases != result[j].TotalCases {
			return result[i].TotalCases > result[j].TotalCases
		}
		return strings.ToLower(result[i].Label) < strings.ToLower(result[j].Label)
	})
	return result
}

// TopDiseases renders the leading aggregates as metric results with an
// explicit denominator: the total mention count, not the record count.
func (s *DiseaseSummarizer) TopDiseases(limit int) []model.MetricResult {
	aggregates := s.Finalize()
	if len(aggregates) > limit {
		aggregates = aggregates[:limit]
	}
	denominator := s.TotalMentions()
	result := make([]model.MetricResult, 0, len(aggregates))
	for _, agg := range aggregates {
		pct := Percent(agg.TotalCases, denominator)
		result = append(result, model.MetricResult{
			Key:        agg.Label,
			GroupedBy:  "disease",
			Count:      agg.TotalCases,
			Percentage: &pct,
		})
	}
	return result
}

// CategoryCounter is the single-field variant of the same pattern, used for
// drug-category and lab-order-type rankings. No tokenizing: the whole field
// is one category.
type CategoryCounter struct {
	groupedBy string
	counts    map[string]*categoryGroup
}

type categoryGroup struct {
	display string
	count   int64
}

func NewCategoryCounter(groupedBy string) *CategoryCounter {
	return &CategoryCounter{groupedBy: groupedBy, counts: make(map[string]*categoryGroup)}
}

func (c *CategoryCounter) Add(value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "Not recorded"
	}
	key := strings.ToLower(trimmed)
	group, ok := c.counts[key]
	if !ok {
		group = &categoryGroup{display: upperFirst(trimmed)}
		c.counts[key] = group
	}
	group.count++
}

// TopN returns the leading categories with percentages of the counter's own
// total. Same deterministic ordering as the disease summarizer.
func (c *CategoryCounter) TopN(n int) []model.MetricResult {
	groups := make([]*categoryGroup, 0, len(c.counts))
	var total int64
	for _, group := range c.counts {
		groups = append(groups, group)
		total += group.count
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return strings.ToLower(groups[i].display) < strings.ToLower(groups[j].display)
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	result := make([]model.MetricResult, 0, len(groups))
	for _, group := range groups {
		pct := Percent(group.count, total)
		result = append(result, model.MetricResult{
			Key:        group.display,
			GroupedBy:  c.groupedBy,
			Count:      group.count,
			Percentage: &pct,
		})
	}
	return result
}

// NormalizeGender folds source gender values into the export vocabulary;
// blanks become explicit text so downstream consumers can tell "absent in
// source" from an empty cell.
func NormalizeGender(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "m", "male":
		return "Male"
	case "f", "female":
		return "Female"
	case "":
		return "Not recorded"
	default:
		return "Other"
	}
}

func upperFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
