package stats

import (
	"fmt"
	"math"
	"sort"

	"place-server/models"
)

// DaysPerQuarter approximates a quarter for daily revenue averages.
const DaysPerQuarter = 91

// QuarterGrowth pairs a quarter with its growth against a reference quarter.
type QuarterGrowth struct {
	models.QuarterlyDataPoint
	Growth Percent `json:"growth"`
}

// SeasonalAverage is the mean amount of one quarter number across years.
type SeasonalAverage struct {
	Quarter int    `json:"quarter"`
	Label   string `json:"label"`
	Average Amount `json:"average"`
	Count   int    `json:"count"`
}

// YearTotal sums the valid quarters of one year.
type YearTotal struct {
	Year              int     `json:"year"`
	Total             float64 `json:"total"`
	QuarterCount      int     `json:"quarterCount"`
	Complete          bool    `json:"complete"`
	AveragePerQuarter float64 `json:"avgPerQuarter"`
}

// YearGrowth is a year total with its growth against the previous year.
type YearGrowth struct {
	YearTotal
	Growth Percent `json:"yoyGrowth"`
}

// Period is a named inclusive year range. ToYear 0 leaves it open-ended.
type Period struct {
	Name     string `json:"name"`
	FromYear int    `json:"fromYear"`
	ToYear   int    `json:"toYear,omitempty"`
}

// Contains reports whether year lies in the period.
func (p Period) Contains(year int) bool {
	return year >= p.FromYear && (p.ToYear == 0 || year <= p.ToYear)
}

// PeriodAverage is the mean quarterly amount within a period.
type PeriodAverage struct {
	Period
	Average Amount `json:"average"`
	Count   int    `json:"count"`
}

// DefaultPeriods splits the series around the pandemic.
var DefaultPeriods = []Period{
	{Name: "preCovid", FromYear: 2019, ToYear: 2019},
	{Name: "covid", FromYear: 2020, ToYear: 2021},
	{Name: "postCovid", FromYear: 2022},
}

// QuarterRow holds the amount per year of one quarter number.
type QuarterRow struct {
	Quarter int             `json:"quarter"`
	Label   string          `json:"label"`
	ByYear  map[int]float64 `json:"byYear"`
}

// MarketStrength summarizes the most recent quarters.
type MarketStrength struct {
	Quarters           int             `json:"quarters"`
	AvgTransactionSize Amount          `json:"avgTransactionSize"`
	AvgDailyRevenue    Amount          `json:"avgDailyRevenue"`
	Growth             []QuarterGrowth `json:"transactionGrowth"`
}

// ValidPoints drops placeholder rows, keeping input order.
func ValidPoints(points []models.QuarterlyDataPoint) []models.QuarterlyDataPoint {
	valid := make([]models.QuarterlyDataPoint, 0, len(points))
	for _, p := range points {
		if p.Amount > 0 {
			valid = append(valid, p)
		}
	}
	return valid
}

// Chronological returns the valid points ordered by year then quarter.
func Chronological(points []models.QuarterlyDataPoint) []models.QuarterlyDataPoint {
	valid := ValidPoints(points)
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Year != valid[j].Year {
			return valid[i].Year < valid[j].Year
		}
		return valid[i].Quarter < valid[j].Quarter
	})
	return valid
}

// YearOverYear computes, for every valid point, the growth against the same
// quarter of the previous year. Without such a quarter growth is undefined.
func YearOverYear(points []models.QuarterlyDataPoint) []QuarterGrowth {
	valid := ValidPoints(points)

	type key struct{ year, quarter int }
	index := make(map[key]float64, len(valid))
	for _, p := range valid {
		k := key{p.Year, p.Quarter}
		if _, seen := index[k]; !seen {
			index[k] = p.Amount
		}
	}

	out := make([]QuarterGrowth, 0, len(valid))
	for _, p := range valid {
		g := QuarterGrowth{QuarterlyDataPoint: p}
		if prev, ok := index[key{p.Year - 1, p.Quarter}]; ok {
			g.Growth = Growth(p.Amount, prev)
		}
		out = append(out, g)
	}
	return out
}

// QuarterOverQuarter computes growth between consecutive valid points in
// chronological order. The first point has undefined growth.
func QuarterOverQuarter(points []models.QuarterlyDataPoint) []QuarterGrowth {
	return consecutiveGrowth(Chronological(points))
}

func consecutiveGrowth(ordered []models.QuarterlyDataPoint) []QuarterGrowth {
	out := make([]QuarterGrowth, len(ordered))
	for i, p := range ordered {
		out[i] = QuarterGrowth{QuarterlyDataPoint: p}
		if i > 0 {
			out[i].Growth = Growth(p.Amount, ordered[i-1].Amount)
		}
	}
	return out
}

// SeasonalAverages returns the mean amount of quarters 1 to 4.
func SeasonalAverages(points []models.QuarterlyDataPoint) []SeasonalAverage {
	byQuarter := make(map[int][]float64, 4)
	for _, p := range ValidPoints(points) {
		byQuarter[p.Quarter] = append(byQuarter[p.Quarter], p.Amount)
	}

	out := make([]SeasonalAverage, 0, 4)
	for q := 1; q <= 4; q++ {
		out = append(out, SeasonalAverage{
			Quarter: q,
			Label:   fmt.Sprintf("Q%d", q),
			Average: Mean(byQuarter[q]),
			Count:   len(byQuarter[q]),
		})
	}
	return out
}

// StrongestAndWeakest returns the seasonal averages with the highest and
// lowest mean, ignoring quarters without data. ok is false if none have data.
func StrongestAndWeakest(averages []SeasonalAverage) (strongest, weakest SeasonalAverage, ok bool) {
	for _, a := range averages {
		if !a.Average.Valid {
			continue
		}
		if !ok {
			strongest, weakest, ok = a, a, true
			continue
		}
		if a.Average.Value > strongest.Average.Value {
			strongest = a
		}
		if a.Average.Value < weakest.Average.Value {
			weakest = a
		}
	}
	return strongest, weakest, ok
}

// YearlyTotals sums the valid quarters per year, ascending by year.
func YearlyTotals(points []models.QuarterlyDataPoint) []YearTotal {
	byYear := make(map[int]*YearTotal)
	for _, p := range ValidPoints(points) {
		t, ok := byYear[p.Year]
		if !ok {
			t = &YearTotal{Year: p.Year}
			byYear[p.Year] = t
		}
		t.Total += p.Amount
		t.QuarterCount++
	}

	out := make([]YearTotal, 0, len(byYear))
	for _, t := range byYear {
		t.Complete = t.QuarterCount == 4
		t.AveragePerQuarter = t.Total / float64(t.QuarterCount)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// YearlyGrowth compares each year with the one before it in totals. Growth is
// only defined when both years cover the same number of quarters.
func YearlyGrowth(totals []YearTotal) []YearGrowth {
	out := make([]YearGrowth, len(totals))
	for i, t := range totals {
		out[i] = YearGrowth{YearTotal: t}
		if i == 0 {
			continue
		}
		prev := totals[i-1]
		if prev.QuarterCount == t.QuarterCount {
			out[i].Growth = Growth(t.Total, prev.Total)
		}
	}
	return out
}

// BestWorst returns the n highest and n lowest valid quarters. Ties keep
// input order.
func BestWorst(points []models.QuarterlyDataPoint, n int) (best, worst []models.QuarterlyDataPoint) {
	desc := ValidPoints(points)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Amount > desc[j].Amount })

	asc := ValidPoints(points)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Amount < asc[j].Amount })

	return head(desc, n), head(asc, n)
}

func head(points []models.QuarterlyDataPoint, n int) []models.QuarterlyDataPoint {
	if n < 0 {
		n = 0
	}
	if len(points) > n {
		return points[:n]
	}
	return points
}

// PeriodAverages returns the mean valid amount within each period.
func PeriodAverages(points []models.QuarterlyDataPoint, periods []Period) []PeriodAverage {
	valid := ValidPoints(points)
	out := make([]PeriodAverage, 0, len(periods))
	for _, period := range periods {
		var amounts []float64
		for _, p := range valid {
			if period.Contains(p.Year) {
				amounts = append(amounts, p.Amount)
			}
		}
		out = append(out, PeriodAverage{Period: period, Average: Mean(amounts), Count: len(amounts)})
	}
	return out
}

// QuarterComparison lays out each quarter number's amount per year.
func QuarterComparison(points []models.QuarterlyDataPoint) []QuarterRow {
	rows := make([]QuarterRow, 4)
	for i := range rows {
		rows[i] = QuarterRow{Quarter: i + 1, Label: fmt.Sprintf("Q%d", i+1), ByYear: map[int]float64{}}
	}
	for _, p := range ValidPoints(points) {
		if p.Quarter < 1 || p.Quarter > 4 {
			continue
		}
		if _, seen := rows[p.Quarter-1].ByYear[p.Year]; !seen {
			rows[p.Quarter-1].ByYear[p.Year] = p.Amount
		}
	}
	return rows
}

// CoefficientOfVariation returns the population standard deviation divided
// by the mean, as a percentage. Undefined for an empty set or a zero mean.
func CoefficientOfVariation(values []float64) Percent {
	mean := Mean(values)
	if !mean.Valid || mean.Value == 0 {
		return Percent{}
	}
	var variance float64
	for _, v := range values {
		d := v - mean.Value
		variance += d * d
	}
	variance /= float64(len(values))
	return PercentOf(math.Sqrt(variance) / mean.Value * 100)
}

// Volatility is the coefficient of variation of the valid amounts.
func Volatility(points []models.QuarterlyDataPoint) Percent {
	valid := ValidPoints(points)
	amounts := make([]float64, len(valid))
	for i, p := range valid {
		amounts[i] = p.Amount
	}
	return CoefficientOfVariation(amounts)
}

// ComputeMarketStrength summarizes the last window valid quarters in
// chronological order.
func ComputeMarketStrength(points []models.QuarterlyDataPoint, window int) MarketStrength {
	ordered := Chronological(points)
	if window > 0 && len(ordered) > window {
		ordered = ordered[len(ordered)-window:]
	}

	sizes := make([]float64, len(ordered))
	daily := make([]float64, len(ordered))
	for i, p := range ordered {
		sizes[i] = p.AverageTransaction
		daily[i] = p.Amount / DaysPerQuarter
	}

	return MarketStrength{
		Quarters:           len(ordered),
		AvgTransactionSize: Mean(sizes),
		AvgDailyRevenue:    Mean(daily),
		Growth:             consecutiveGrowth(ordered),
	}
}
