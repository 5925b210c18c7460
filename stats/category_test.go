package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-server/models"
)

func day(handel, mat, tjenester float64) models.CategoryDay {
	return models.CategoryDay{Handel: handel, MatOgOpplevelser: mat, Tjenester: tjenester, Total: handel + mat + tjenester}
}

func categoryFixture() models.DailyCategoryData {
	return models.DailyCategoryData{Quarters: map[string][]models.CategoryDay{
		"Q1_2024": {day(10, 20, 30), day(10, 0, 10)},
		"Q4_2023": {day(10, 10, 40)},
		"Q2_2024": {day(30, 20, 40)},
		"Q3_2023": {day(20, 10, 40)},
		"bogus":   {day(1000, 1000, 1000)},
	}}
}

func TestParseQuarterKey(t *testing.T) {
	k, err := ParseQuarterKey("Q2_2024")
	require.NoError(t, err)
	assert.Equal(t, QuarterKey{Key: "Q2_2024", Year: 2024, Quarter: 2}, k)

	for _, bad := range []string{"Q5_2024", "2024_Q1", "Q1-2024", ""} {
		_, err := ParseQuarterKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestSortedQuarterKeys_Chronological(t *testing.T) {
	keys := SortedQuarterKeys(categoryFixture())

	var got []string
	for _, k := range keys {
		got = append(got, k.Key)
	}
	assert.Equal(t, []string{"Q3_2023", "Q4_2023", "Q1_2024", "Q2_2024"}, got)
}

func TestQuarterTotals(t *testing.T) {
	totals := QuarterTotals(categoryFixture())
	require.Len(t, totals, 4)

	assert.Equal(t, "Q1_2024", totals[2].Key)
	assert.Equal(t, 20.0, totals[2].Totals[CategoryHandel])
	assert.Equal(t, 20.0, totals[2].Totals[CategoryMatOgOpplevelser])
	assert.Equal(t, 40.0, totals[2].Totals[CategoryTjenester])
	assert.Equal(t, 80.0, totals[2].Total)
}

func TestCategoryGrowth_EarlyLateSplit(t *testing.T) {
	growth := CategoryGrowth(categoryFixture())
	require.Len(t, growth, 3)

	assert.Equal(t, "Handel", growth[0].Label)
	assert.Equal(t, 30.0, growth[0].EarlySum)
	assert.Equal(t, 50.0, growth[0].LateSum)
	assert.InDelta(t, 200.0/3, growth[0].Growth.Value, 1e-9)

	assert.InDelta(t, 100.0, growth[1].Growth.Value, 1e-9)
	assert.True(t, growth[2].Growth.Valid)
	assert.Equal(t, 0.0, growth[2].Growth.Value)
}

func TestCategoryGrowth_SingleQuarterIsUndefined(t *testing.T) {
	data := models.DailyCategoryData{Quarters: map[string][]models.CategoryDay{
		"Q1_2024": {day(10, 10, 10)},
	}}

	for _, g := range CategoryGrowth(data) {
		assert.Zero(t, g.EarlySum)
		assert.False(t, g.Growth.Valid, g.Label)
	}
}

func TestCategoryVolatility(t *testing.T) {
	vol := CategoryVolatility(categoryFixture())
	require.Len(t, vol, 3)

	assert.InDelta(t, 35.3553, vol[0].Volatility.Value, 1e-3)
	assert.Equal(t, RatingModerateVolatile, vol[0].Rating)
	assert.InDelta(t, 100.0/3, vol[1].Volatility.Value, 1e-9)
	assert.Equal(t, 0.0, vol[2].Volatility.Value)
	assert.Equal(t, RatingVeryStable, vol[2].Rating)
}

func TestStabilityRating(t *testing.T) {
	tests := []struct {
		cv   Percent
		want string
	}{
		{Percent{Value: 14.9, Valid: true}, "Svært stabil"},
		{Percent{Value: 15, Valid: true}, "Stabil"},
		{Percent{Value: 24.99, Valid: true}, "Stabil"},
		{Percent{Value: 25, Valid: true}, "Moderat volatil"},
		{Percent{}, "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StabilityRating(tt.cv))
	}
}

func TestCategoryDistribution(t *testing.T) {
	b := CategoryDistribution(categoryFixture())

	assert.Equal(t, 300.0, b.TotalRevenue)
	require.Len(t, b.Distribution, 3)
	assert.Equal(t, 80.0, b.Distribution[0].Value)
	assert.Equal(t, "+26.7%", b.Distribution[0].Share.Format())
	assert.Equal(t, "+53.3%", b.Distribution[2].Share.Format())

	empty := CategoryDistribution(models.DailyCategoryData{})
	assert.Zero(t, empty.TotalRevenue)
	assert.False(t, empty.Distribution[0].Share.Valid)
}
