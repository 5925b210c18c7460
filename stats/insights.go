package stats

import "place-server/models"

// RankingSize is the number of best and worst quarters reported.
const RankingSize = 5

// MarketStrengthWindow covers the last two years of quarters.
const MarketStrengthWindow = 8

// QuarterlyInsights bundles every figure derived from a quarterly series.
type QuarterlyInsights struct {
	TotalAmount        float64                     `json:"totalAmount"`
	TotalQuarters      int                         `json:"totalQuarters"`
	SeasonalAverages   []SeasonalAverage           `json:"seasonalAvg"`
	StrongestQuarter   int                         `json:"strongestQuarter,omitempty"`
	WeakestQuarter     int                         `json:"weakestQuarter,omitempty"`
	YearlyGrowth       []YearGrowth                `json:"growthData"`
	BestGrowthYear     int                         `json:"bestGrowthYear,omitempty"`
	BestGrowth         Percent                     `json:"bestGrowth"`
	Best               []models.QuarterlyDataPoint `json:"best5"`
	Worst              []models.QuarterlyDataPoint `json:"worst5"`
	Periods            []PeriodAverage             `json:"periods"`
	Volatility         Percent                     `json:"coefficientOfVariation"`
	YearOverYear       []QuarterGrowth             `json:"yoyGrowth"`
	QuarterOverQuarter []QuarterGrowth             `json:"qoqGrowth"`
	Comparison         []QuarterRow                `json:"quarterComparison"`
	MarketStrength     MarketStrength              `json:"marketStrength"`
}

// Analyze derives QuarterlyInsights from a series that may contain
// placeholder rows.
func Analyze(points []models.QuarterlyDataPoint) QuarterlyInsights {
	seasonal := SeasonalAverages(points)
	growth := YearlyGrowth(YearlyTotals(points))
	best, worst := BestWorst(points, RankingSize)

	in := QuarterlyInsights{
		SeasonalAverages:   seasonal,
		YearlyGrowth:       growth,
		Best:               best,
		Worst:              worst,
		Periods:            PeriodAverages(points, DefaultPeriods),
		Volatility:         Volatility(points),
		YearOverYear:       YearOverYear(points),
		QuarterOverQuarter: QuarterOverQuarter(points),
		Comparison:         QuarterComparison(points),
		MarketStrength:     ComputeMarketStrength(points, MarketStrengthWindow),
	}

	for _, y := range growth {
		in.TotalAmount += y.Total
		in.TotalQuarters += y.QuarterCount
		if y.Growth.Valid && (!in.BestGrowth.Valid || y.Growth.Value > in.BestGrowth.Value) {
			in.BestGrowth = y.Growth
			in.BestGrowthYear = y.Year
		}
	}

	if strongest, weakest, ok := StrongestAndWeakest(seasonal); ok {
		in.StrongestQuarter = strongest.Quarter
		in.WeakestQuarter = weakest.Quarter
	}
	return in
}
