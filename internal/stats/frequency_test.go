package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDiagnosis(t *testing.T) {
	assert.Equal(t, []string{"Malaria"}, SplitDiagnosis("Malaria"))
	assert.Equal(t, []string{"malaria", "Typhoid"}, SplitDiagnosis("malaria, Typhoid"))
	assert.Equal(t, []string{"Asthma", "Hypertension"}, SplitDiagnosis("Asthma; Hypertension."))
	assert.Empty(t, SplitDiagnosis(""))
	assert.Empty(t, SplitDiagnosis(" ,;. "))
}

func TestDiseaseSummarizerCaseFolding(t *testing.T) {
	tenant := uuid.New()
	s := NewDiseaseSummarizer()
	s.Add("Malaria", "PATIENT_000001", tenant, "18-29", "male")
	s.Add("malaria, Typhoid", "PATIENT_000002", tenant, "30-44", "female")
	s.Add("Typhoid", "PATIENT_000002", tenant, "30-44", "female")

	aggregates := s.Finalize()
	require.Len(t, aggregates, 2)

	// Equal totals: ties break alphabetically.
	assert.Equal(t, "Malaria", aggregates[0].Label)
	assert.Equal(t, "Typhoid", aggregates[1].Label)

	malaria := aggregates[0]
	assert.Equal(t, int64(2), malaria.TotalCases)
	assert.Equal(t, int64(2), malaria.UniquePatients)
	assert.Equal(t, int64(1), malaria.HospitalsAffected)
	assert.Equal(t, int64(1), malaria.AgeBandCounts["18-29"])
	assert.Equal(t, int64(1), malaria.AgeBandCounts["30-44"])
	assert.Equal(t, int64(1), malaria.GenderCounts["Male"])
	assert.Equal(t, int64(1), malaria.GenderCounts["Female"])

	typhoid := aggregates[1]
	assert.Equal(t, int64(2), typhoid.TotalCases)
	assert.Equal(t, int64(1), typhoid.UniquePatients)

	assert.Equal(t, int64(4), s.TotalMentions())
}

func TestDiseaseSummarizerHospitalsAffected(t *testing.T) {
	s := NewDiseaseSummarizer()
	tenantA, tenantB := uuid.New(), uuid.New()
	s.Add("Diabetes", "PATIENT_000001", tenantA, "45-59", "m")
	s.Add("Diabetes", "PATIENT_000002", tenantB, "45-59", "f")

	aggregates := s.Finalize()
	require.Len(t, aggregates, 1)
	assert.Equal(t, int64(2), aggregates[0].HospitalsAffected)
}

func TestTopDiseasesPercentages(t *testing.T) {
	tenant := uuid.New()
	s := NewDiseaseSummarizer()
	s.Add("Malaria", "PATIENT_000001", tenant, "18-29", "m")
	s.Add("Malaria", "PATIENT_000002", tenant, "18-29", "m")
	s.Add("Malaria", "PATIENT_000003", tenant, "18-29", "f")
	s.Add("Flu", "PATIENT_000004", tenant, "0-4", "f")

	top := s.TopDiseases(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Malaria", top[0].Key)
	assert.Equal(t, "disease", top[0].GroupedBy)
	assert.Equal(t, int64(3), top[0].Count)
	require.NotNil(t, top[0].Percentage)
	assert.Equal(t, 75.0, *top[0].Percentage)
}

func TestTopDiseasesDeterministicTieBreak(t *testing.T) {
	tenant := uuid.New()
	for i := 0; i < 5; i++ {
		s := NewDiseaseSummarizer()
		s.Add("zoster", "PATIENT_000001", tenant, "18-29", "m")
		s.Add("anemia", "PATIENT_000002", tenant, "18-29", "f")
		s.Add("Bronchitis", "PATIENT_000003", tenant, "18-29", "m")

		top := s.TopDiseases(10)
		require.Len(t, top, 3)
		assert.Equal(t, "Anemia", top[0].Key)
		assert.Equal(t, "Bronchitis", top[1].Key)
		assert.Equal(t, "Zoster", top[2].Key)
	}
}

func TestCategoryCounter(t *testing.T) {
	c := NewCategoryCounter("drug_category")
	c.Add("antibiotic")
	c.Add("Antibiotic")
	c.Add("analgesic")
	c.Add("")

	top := c.TopN(2)
	require.Len(t, top, 2)
	assert.Equal(t, "Antibiotic", top[0].Key)
	assert.Equal(t, int64(2), top[0].Count)
	assert.Equal(t, 50.0, *top[0].Percentage)
	assert.Equal(t, "Analgesic", top[1].Key)
	assert.Equal(t, "drug_category", top[1].GroupedBy)
}

func TestCategoryCounterBlankValue(t *testing.T) {
	c := NewCategoryCounter("lab_order_type")
	c.Add("  ")

	top := c.TopN(5)
	require.Len(t, top, 1)
	assert.Equal(t, "Not recorded", top[0].Key)
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "Male", NormalizeGender("M"))
	assert.Equal(t, "Male", NormalizeGender("male"))
	assert.Equal(t, "Female", NormalizeGender(" F "))
	assert.Equal(t, "Female", NormalizeGender("Female"))
	assert.Equal(t, "Not recorded", NormalizeGender(""))
	assert.Equal(t, "Other", NormalizeGender("nonbinary"))
}
