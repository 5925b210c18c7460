package synthetic

import (
	"sort"
	"time"

	"place-server/models"
	"place-server/timeline"
)

// AggregateToWeekly sums a daily series into weeks starting Monday.
func AggregateToWeekly(daily []models.DailyDataPoint) []models.DailyDataPoint {
	return aggregate(daily, timeline.WeekStart)
}

// AggregateToMonthly sums a daily series into calendar months.
func AggregateToMonthly(daily []models.DailyDataPoint) []models.DailyDataPoint {
	return aggregate(daily, timeline.MonthStart)
}

// Aggregate dispatches on the aggregation level. Day returns daily unchanged.
func Aggregate(daily []models.DailyDataPoint, agg models.Aggregation) []models.DailyDataPoint {
	switch agg {
	case models.AggregationWeek:
		return AggregateToWeekly(daily)
	case models.AggregationMonth:
		return AggregateToMonthly(daily)
	default:
		return daily
	}
}

func aggregate(daily []models.DailyDataPoint, bucketStart func(time.Time) time.Time) []models.DailyDataPoint {
	sums := make(map[string]float64)
	for _, point := range daily {
		day, err := timeline.ParseDate(point.Date)
		if err != nil {
			continue
		}
		sums[bucketStart(day).Format(timeline.DateLayout)] += point.Amount
	}

	out := make([]models.DailyDataPoint, 0, len(sums))
	for date, amount := range sums {
		out = append(out, models.DailyDataPoint{Date: date, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
