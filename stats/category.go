package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"place-server/models"
)

// Category is a tenant category of the daily breakdown.
type Category string

const (
	CategoryHandel           Category = "handel"
	CategoryMatOgOpplevelser Category = "matOgOpplevelser"
	CategoryTjenester        Category = "tjenester"
)

// Categories lists the tenant categories in display order.
var Categories = []Category{CategoryHandel, CategoryMatOgOpplevelser, CategoryTjenester}

var categoryLabels = map[Category]string{
	CategoryHandel:           "Handel",
	CategoryMatOgOpplevelser: "Mat og Opplevelser",
	CategoryTjenester:        "Tjenester",
}

// Label returns the display name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) of(day models.CategoryDay) float64 {
	switch c {
	case CategoryHandel:
		return day.Handel
	case CategoryMatOgOpplevelser:
		return day.MatOgOpplevelser
	case CategoryTjenester:
		return day.Tjenester
	}
	return 0
}

// Stability ratings by coefficient of variation.
const (
	RatingVeryStable       = "Svært stabil"
	RatingStable           = "Stabil"
	RatingModerateVolatile = "Moderat volatil"
)

// StabilityRating classifies a coefficient of variation: below 15 is very
// stable, below 25 stable, anything else moderately volatile.
func StabilityRating(cv Percent) string {
	switch {
	case !cv.Valid:
		return NotApplicable
	case cv.Value < 15:
		return RatingVeryStable
	case cv.Value < 25:
		return RatingStable
	default:
		return RatingModerateVolatile
	}
}

// QuarterKey identifies a quarter of the daily breakdown, e.g. "Q2_2024".
type QuarterKey struct {
	Key     string `json:"key"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
}

var quarterKeyPattern = regexp.MustCompile(`^Q([1-4])_(\d{4})$`)

// ParseQuarterKey parses keys of the form "Q<n>_<YYYY>".
func ParseQuarterKey(key string) (QuarterKey, error) {
	m := quarterKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return QuarterKey{}, fmt.Errorf("invalid quarter key %q", key)
	}
	quarter, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	return QuarterKey{Key: key, Year: year, Quarter: quarter}, nil
}

// SortedQuarterKeys returns the parseable keys of data in chronological
// order. Keys that do not parse are skipped.
func SortedQuarterKeys(data models.DailyCategoryData) []QuarterKey {
	keys := make([]QuarterKey, 0, len(data.Quarters))
	for raw := range data.Quarters {
		k, err := ParseQuarterKey(raw)
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Quarter < keys[j].Quarter
	})
	return keys
}

// CategoryQuarter holds the per-category totals of one quarter.
type CategoryQuarter struct {
	QuarterKey
	Totals map[Category]float64 `json:"totals"`
	Total  float64              `json:"total"`
}

// QuarterTotals sums each category per quarter, in chronological order.
func QuarterTotals(data models.DailyCategoryData) []CategoryQuarter {
	keys := SortedQuarterKeys(data)
	out := make([]CategoryQuarter, 0, len(keys))
	for _, k := range keys {
		q := CategoryQuarter{QuarterKey: k, Totals: make(map[Category]float64, len(Categories))}
		for _, day := range data.Quarters[k.Key] {
			for _, c := range Categories {
				v := c.of(day)
				q.Totals[c] += v
				q.Total += v
			}
		}
		out = append(out, q)
	}
	return out
}

// CategoryGrowthResult compares a category's early and late period sums.
type CategoryGrowthResult struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	EarlySum float64  `json:"earlySum"`
	LateSum  float64  `json:"lateSum"`
	Growth   Percent  `json:"growth"`
}

// CategoryGrowth splits the chronologically ordered quarters at
// floor(count/2) and reports (late - early) / early * 100 per category.
func CategoryGrowth(data models.DailyCategoryData) []CategoryGrowthResult {
	quarters := QuarterTotals(data)
	midpoint := len(quarters) / 2

	out := make([]CategoryGrowthResult, 0, len(Categories))
	for _, c := range Categories {
		r := CategoryGrowthResult{Category: c, Label: c.Label()}
		for i, q := range quarters {
			if i < midpoint {
				r.EarlySum += q.Totals[c]
			} else {
				r.LateSum += q.Totals[c]
			}
		}
		r.Growth = Growth(r.LateSum, r.EarlySum)
		out = append(out, r)
	}
	return out
}

// CategoryVolatilityResult is the quarter-to-quarter volatility of a category.
type CategoryVolatilityResult struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	Volatility Percent  `json:"volatility"`
	Rating     string   `json:"rating"`
}

// CategoryVolatility computes the coefficient of variation of each
// category's per-quarter totals.
func CategoryVolatility(data models.DailyCategoryData) []CategoryVolatilityResult {
	quarters := QuarterTotals(data)

	out := make([]CategoryVolatilityResult, 0, len(Categories))
	for _, c := range Categories {
		values := make([]float64, len(quarters))
		for i, q := range quarters {
			values[i] = q.Totals[c]
		}
		cv := CoefficientOfVariation(values)
		out = append(out, CategoryVolatilityResult{
			Category:   c,
			Label:      c.Label(),
			Volatility: cv,
			Rating:     StabilityRating(cv),
		})
	}
	return out
}

// CategoryShare is a category's total revenue and its share of all revenue.
type CategoryShare struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Value    float64  `json:"value"`
	Share    Percent  `json:"percentage"`
	Growth   Percent  `json:"growth"`
}

// CategoryBreakdown is the revenue distribution across categories.
type CategoryBreakdown struct {
	Distribution []CategoryShare `json:"distribution"`
	TotalRevenue float64         `json:"totalRevenue"`
}

// CategoryDistribution totals each category over every quarter and relates
// it to the total of all categories.
func CategoryDistribution(data models.DailyCategoryData) CategoryBreakdown {
	growth := CategoryGrowth(data)

	var breakdown CategoryBreakdown
	for _, g := range growth {
		breakdown.TotalRevenue += g.EarlySum + g.LateSum
	}
	for _, g := range growth {
		value := g.EarlySum + g.LateSum
		share := Percent{}
		if breakdown.TotalRevenue != 0 {
			share = PercentOf(value / breakdown.TotalRevenue * 100)
		}
		breakdown.Distribution = append(breakdown.Distribution, CategoryShare{
			Category: g.Category,
			Label:    g.Label,
			Value:    value,
			Share:    share,
			Growth:   g.Growth,
		})
	}
	return breakdown
}

// CategoryInsights bundles the category breakdown figures.
type CategoryInsights struct {
	Quarters   []CategoryQuarter          `json:"quarters"`
	Breakdown  CategoryBreakdown          `json:"breakdown"`
	Volatility []CategoryVolatilityResult `json:"stability"`
}

// AnalyzeCategories derives CategoryInsights from a daily breakdown.
func AnalyzeCategories(data models.DailyCategoryData) CategoryInsights {
	return CategoryInsights{
		Quarters:   QuarterTotals(data),
		Breakdown:  CategoryDistribution(data),
		Volatility: CategoryVolatility(data),
	}
}
