package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	birthdayPassed := time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 36, AgeAt(birthdayPassed, now))

	birthdayAhead := time.Date(1990, 11, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 35, AgeAt(birthdayAhead, now))

	bornToday := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, AgeAt(bornToday, now))
}

func TestResearchAgeBandTotality(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	known := make(map[AgeBand]struct{})
	for _, band := range ResearchAgeBands() {
		known[band] = struct{}{}
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		dob := now.AddDate(-rng.Intn(120), 0, -rng.Intn(365))
		band := ResearchAgeBand(&dob, now)
		_, ok := known[band]
		require.True(t, ok, "dob %s mapped to unknown band %q", dob, band)
		require.NotEqual(t, AgeBandUnknown, band)
	}
}

func TestAgeBandUnknownCases(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, AgeBandUnknown, ResearchAgeBand(nil, now))
	assert.Equal(t, AgeBandUnknown, DashboardAgeBand(nil, now))

	var zero time.Time
	assert.Equal(t, AgeBandUnknown, ResearchAgeBand(&zero, now))

	future := now.AddDate(1, 0, 0)
	assert.Equal(t, AgeBandUnknown, ResearchAgeBand(&future, now))
}

func TestAgeBandBoundaries(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	age := func(years int) *time.Time {
		dob := now.AddDate(-years, 0, -1)
		return &dob
	}

	assert.Equal(t, AgeBand("0-4"), ResearchAgeBand(age(4), now))
	assert.Equal(t, AgeBand("5-11"), ResearchAgeBand(age(5), now))
	assert.Equal(t, AgeBand("60-74"), ResearchAgeBand(age(74), now))
	assert.Equal(t, AgeBand("75+"), ResearchAgeBand(age(75), now))
	assert.Equal(t, AgeBand("75+"), ResearchAgeBand(age(101), now))

	assert.Equal(t, AgeBand("0-18"), DashboardAgeBand(age(18), now))
	assert.Equal(t, AgeBand("19-35"), DashboardAgeBand(age(19), now))
	assert.Equal(t, AgeBand("60+"), DashboardAgeBand(age(61), now))
}

func TestComputeStockFlagsIndependent(t *testing.T) {
	today := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	expiry := today.AddDate(0, 0, 30)

	flags := ComputeStockFlags(5, 10, &expiry, today)
	assert.True(t, flags.IsLowStock)
	assert.True(t, flags.ExpiringSoon)
	assert.False(t, flags.IsExpired)
}

func TestComputeStockFlagsExpiry(t *testing.T) {
	today := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	past := today.AddDate(0, 0, -1)
	flags := ComputeStockFlags(100, 10, &past, today)
	assert.True(t, flags.IsExpired)
	assert.False(t, flags.ExpiringSoon)
	assert.False(t, flags.IsLowStock)

	// Expiring today counts as expiring soon, not expired.
	sameDay := time.Date(2026, 1, 15, 23, 59, 0, 0, time.UTC)
	flags = ComputeStockFlags(100, 10, &sameDay, today)
	assert.False(t, flags.IsExpired)
	assert.True(t, flags.ExpiringSoon)

	farOut := today.AddDate(0, 0, 91)
	flags = ComputeStockFlags(100, 10, &farOut, today)
	assert.False(t, flags.ExpiringSoon)

	edge := today.AddDate(0, 0, 90)
	flags = ComputeStockFlags(100, 10, &edge, today)
	assert.True(t, flags.ExpiringSoon)

	flags = ComputeStockFlags(100, 10, nil, today)
	assert.False(t, flags.IsExpired)
	assert.False(t, flags.ExpiringSoon)
}

func TestComputeStockFlagsReorderBoundary(t *testing.T) {
	today := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, ComputeStockFlags(10, 10, nil, today).IsLowStock)
	assert.False(t, ComputeStockFlags(11, 10, nil, today).IsLowStock)
	assert.True(t, ComputeStockFlags(0, 0, nil, today).IsLowStock)
}
