// Package stats derives growth, seasonality and volatility figures from
// quarterly transaction series and daily category breakdowns.
package stats

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// NotApplicable is the display text of an undefined value.
const NotApplicable = "N/A"

// Percent is a percentage that may be undefined, e.g. growth against a zero
// baseline. An undefined Percent encodes as JSON null.
type Percent struct {
	Value float64
	Valid bool
}

// Amount is a monetary or count value that may be undefined, e.g. the mean
// of an empty set. An undefined Amount encodes as JSON null.
type Amount struct {
	Value float64
	Valid bool
}

// PercentOf wraps v, treating NaN and infinities as undefined.
func PercentOf(v float64) Percent {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Percent{}
	}
	return Percent{Value: v, Valid: true}
}

// AmountOf wraps v, treating NaN and infinities as undefined.
func AmountOf(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return Amount{Value: v, Valid: true}
}

// Growth returns (current - previous) / previous * 100, undefined when
// previous is zero.
func Growth(current, previous float64) Percent {
	if previous == 0 {
		return Percent{}
	}
	return PercentOf((current - previous) / previous * 100)
}

// Mean returns the arithmetic mean, undefined for an empty set.
func Mean(values []float64) Amount {
	if len(values) == 0 {
		return Amount{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return AmountOf(sum / float64(len(values)))
}

// Format renders the percentage with one decimal and an explicit sign,
// "+5.0%" or "-3.2%", and "N/A" when undefined.
func (p Percent) Format() string {
	if !p.Valid {
		return NotApplicable
	}
	rounded := decimal.NewFromFloat(p.Value).Round(1)
	sign := ""
	if !rounded.IsNegative() {
		sign = "+"
	}
	return sign + rounded.StringFixed(1) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return marshalOptional(p.Value, p.Valid)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	return unmarshalOptional(data, &p.Value, &p.Valid)
}

// Format renders the amount as currency, see FormatCurrency.
func (a Amount) Format() string {
	if !a.Valid {
		return NotApplicable
	}
	return FormatCurrency(a.Value)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return marshalOptional(a.Value, a.Valid)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return unmarshalOptional(data, &a.Value, &a.Valid)
}

var (
	billion = decimal.New(1, 9)
	million = decimal.New(1, 6)
)

// FormatCurrency renders kroner in billions with two decimals from 1e9
// upwards ("3.97B kr") and whole millions below ("812M kr").
func FormatCurrency(value float64) string {
	d := decimal.NewFromFloat(value)
	if d.GreaterThanOrEqual(billion) {
		return d.Div(billion).StringFixed(2) + "B kr"
	}
	return d.Div(million).StringFixed(0) + "M kr"
}

func marshalOptional(v float64, valid bool) ([]byte, error) {
	if !valid || math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func unmarshalOptional(data []byte, v *float64, valid *bool) error {
	var ptr *float64
	if err := json.Unmarshal(data, &ptr); err != nil {
		return err
	}
	if ptr == nil {
		*v, *valid = 0, false
		return nil
	}
	*v, *valid = *ptr, true
	return nil
}
