// Package synthetic models plausible daily bank transaction and visitor
// series from an annual total and qualitative seasonal knowledge. The output
// is an approximation with the right shape, not measured data.
package synthetic

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"place-server/models"
	"place-server/timeline"
)

// ReferenceYear is the year the built-in profiles are calibrated for.
const ReferenceYear = 2024

// boostLayout is the MM-DD key format of EventBoosts.
const boostLayout = "01-02"

// Profile holds the multiplier tables of one signal.
type Profile struct {
	Name        string
	AnnualTotal float64
	// Seasonal is indexed by month, January first.
	Seasonal [12]float64
	// DayOfWeek is indexed by time.Weekday, Sunday first.
	DayOfWeek [7]float64
	// EventBoosts maps MM-DD to a multiplier; absent dates use 1.0.
	EventBoosts map[string]float64
	NoiseMin    float64
	NoiseMax    float64
}

// BankTransactionProfile models card transaction volume in kr.
// With these tables a year sums to about 7.5% above AnnualTotal.
func BankTransactionProfile() Profile {
	return Profile{
		Name:        "banktransaksjoner",
		AnnualTotal: 3_970_000_000,
		Seasonal:    [12]float64{0.75, 0.80, 0.90, 0.95, 1.10, 1.20, 0.95, 1.05, 1.10, 1.05, 1.10, 1.05},
		DayOfWeek:   [7]float64{0.7, 1.0, 1.0, 1.05, 1.15, 1.30, 1.20},
		EventBoosts: map[string]float64{
			"03-08": 1.15,
			"05-04": 1.25,
			"05-17": 1.40,
			"05-24": 1.20,
			"06-01": 1.25,
			"06-13": 1.35,
			"06-14": 1.35,
			"06-15": 1.35,
			"06-26": 1.30,
			"06-27": 1.35,
			"06-28": 1.40,
			"06-29": 1.45,
			"11-30": 1.20,
		},
		NoiseMin: 0.9,
		NoiseMax: 1.1,
	}
}

// VisitorProfile models daily visitors, about 25 000 on an average day.
// With these tables a year sums to about 9% above AnnualTotal.
func VisitorProfile() Profile {
	return Profile{
		Name:        "besokende",
		AnnualTotal: 25_000 * 365,
		Seasonal:    [12]float64{0.70, 0.75, 0.85, 0.95, 1.15, 1.30, 1.10, 1.20, 1.15, 1.00, 0.90, 0.85},
		DayOfWeek:   [7]float64{0.8, 0.9, 0.95, 1.0, 1.1, 1.3, 1.4},
		EventBoosts: map[string]float64{
			"03-08": 1.25,
			"05-04": 1.40,
			"05-17": 1.60,
			"05-24": 1.35,
			"06-01": 1.40,
			"06-13": 1.50,
			"06-14": 1.50,
			"06-15": 1.50,
			"06-26": 1.45,
			"06-27": 1.50,
			"06-28": 1.55,
			"06-29": 2.80,
			"11-30": 1.30,
		},
		NoiseMin: 0.85,
		NoiseMax: 1.15,
	}
}

// Validate reports tables that would produce negative or undefined amounts.
func (p Profile) Validate() error {
	if p.AnnualTotal < 0 || math.IsNaN(p.AnnualTotal) {
		return fmt.Errorf("profile %s: annual total must be non-negative", p.Name)
	}
	if p.NoiseMin < 0 || p.NoiseMax < p.NoiseMin {
		return fmt.Errorf("profile %s: invalid noise band [%g, %g]", p.Name, p.NoiseMin, p.NoiseMax)
	}
	for i, m := range p.Seasonal {
		if m < 0 {
			return fmt.Errorf("profile %s: negative seasonal multiplier for month %d", p.Name, i+1)
		}
	}
	for i, m := range p.DayOfWeek {
		if m < 0 {
			return fmt.Errorf("profile %s: negative multiplier for %s", p.Name, time.Weekday(i))
		}
	}
	for date, m := range p.EventBoosts {
		if _, err := time.Parse(boostLayout, date); err != nil {
			return fmt.Errorf("profile %s: event boost key %q is not MM-DD", p.Name, date)
		}
		if m < 0 {
			return fmt.Errorf("profile %s: negative event boost on %s", p.Name, date)
		}
	}
	return nil
}

// ErrNilRand is returned when Generate is called without a random source.
var ErrNilRand = errors.New("synthetic: nil random source")

// NewRand returns a deterministic random source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Generate produces one point per calendar day of year:
//
//	amount = AnnualTotal/365 * Seasonal[month] * DayOfWeek[weekday] * boost[MM-DD] * noise
//
// where noise is drawn uniformly from [NoiseMin, NoiseMax) for every day.
// Amounts are rounded to whole units.
func Generate(p Profile, year int, rng *rand.Rand) ([]models.DailyDataPoint, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	dailyBase := p.AnnualTotal / 365
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	data := make([]models.DailyDataPoint, 0, 366)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(timeline.DateLayout)

		amount := dailyBase
		amount *= p.Seasonal[day.Month()-1]
		amount *= p.DayOfWeek[day.Weekday()]
		if boost, ok := p.EventBoosts[day.Format(boostLayout)]; ok {
			amount *= boost
		}
		amount *= p.NoiseMin + rng.Float64()*(p.NoiseMax-p.NoiseMin)

		data = append(data, models.DailyDataPoint{Date: date, Amount: math.Round(amount)})
	}
	return data, nil
}

// Sum totals a series.
func Sum(series []models.DailyDataPoint) float64 {
	var total float64
	for _, d := range series {
		total += d.Amount
	}
	return total
}
