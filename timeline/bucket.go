package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"place-server/models"
)

// DateLayout is the bucket key format.
const DateLayout = "2006-01-02"

// MaxRangeDays bounds the daily buckets one timeline may span.
const MaxRangeDays = 731

// ErrRangeTooLong is returned for ranges spanning more than MaxRangeDays.
var ErrRangeTooLong = errors.New("date range too long")

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, datePart(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// RangeDays counts the calendar days from start to end inclusive. A reversed
// range has no days.
func RangeDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func newPoint(day time.Time) models.TimelineDataPoint {
	return models.TimelineDataPoint{
		Date:      day.Format(DateLayout),
		Timestamp: day.UnixMilli(),
		Events:    []models.EventReference{},
	}
}

// Transform expands [startDate, endDate] into one bucket per day and attaches
// each event to the day matching its date. Days without events are kept with
// zero counts; events outside the range are dropped.
func Transform(events []models.EventReference, startDate, endDate string) ([]models.TimelineDataPoint, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return []models.TimelineDataPoint{}, nil
	}

	days := RangeDays(start, end)
	if days > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days, at most %d", ErrRangeTooLong, days, MaxRangeDays)
	}
	points := make([]models.TimelineDataPoint, 0, days)
	index := make(map[string]int, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		p := newPoint(day)
		index[p.Date] = len(points)
		points = append(points, p)
	}

	for _, event := range events {
		i, ok := index[datePart(event.Date)]
		if !ok {
			continue
		}
		p := &points[i]
		p.Events = append(p.Events, event)
		p.EventCount++
		p.TotalAttendees += event.EstimatedAttendees
	}
	return points, nil
}

// AggregateByWeek folds points into buckets keyed by the Monday of their week.
func AggregateByWeek(points []models.TimelineDataPoint) []models.TimelineDataPoint {
	return aggregate(points, WeekStart)
}

// AggregateByMonth folds points into buckets keyed by the first of their month.
func AggregateByMonth(points []models.TimelineDataPoint) []models.TimelineDataPoint {
	return aggregate(points, MonthStart)
}

// Aggregate dispatches on the aggregation level. Day returns points unchanged.
func Aggregate(points []models.TimelineDataPoint, agg models.Aggregation) []models.TimelineDataPoint {
	switch agg {
	case models.AggregationWeek:
		return AggregateByWeek(points)
	case models.AggregationMonth:
		return AggregateByMonth(points)
	default:
		return points
	}
}

func aggregate(points []models.TimelineDataPoint, bucketStart func(time.Time) time.Time) []models.TimelineDataPoint {
	var out []models.TimelineDataPoint
	index := make(map[string]int)

	for _, point := range points {
		day, err := ParseDate(point.Date)
		if err != nil {
			continue
		}
		key := bucketStart(day)
		keyStr := key.Format(DateLayout)

		i, ok := index[keyStr]
		if !ok {
			i = len(out)
			index[keyStr] = i
			out = append(out, newPoint(key))
		}

		b := &out[i]
		b.Events = append(b.Events, point.Events...)
		b.EventCount += point.EventCount
		b.TotalAttendees += point.TotalAttendees
		b.Banktransaksjoner += point.Banktransaksjoner
		b.Besokende += point.Besokende
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	if out == nil {
		out = []models.TimelineDataPoint{}
	}
	return out
}

// FilterEvents keeps the events whose hierarchy level is in levels. Events
// without a level fall back to their impact level.
func FilterEvents(events []models.EventReference, levels []int) []models.EventReference {
	allowed := make(map[int]bool, len(levels))
	for _, l := range levels {
		allowed[l] = true
	}
	out := make([]models.EventReference, 0, len(events))
	for _, e := range events {
		level := e.HierarchyLevel
		if level == 0 {
			level = ImpactToHierarchy(e.ImpactLevel)
		}
		if allowed[level] {
			out = append(out, e)
		}
	}
	return out
}

// FilterByHierarchy narrows every bucket to the given hierarchy levels and
// recomputes EventCount and TotalAttendees from the remaining events, so the
// counts always describe the events shown. Overlay values are untouched.
func FilterByHierarchy(points []models.TimelineDataPoint, levels []int) []models.TimelineDataPoint {
	out := make([]models.TimelineDataPoint, len(points))
	for i, p := range points {
		filtered := FilterEvents(p.Events, levels)
		p.Events = filtered
		p.EventCount = len(filtered)
		p.TotalAttendees = 0
		for _, e := range filtered {
			p.TotalAttendees += e.EstimatedAttendees
		}
		out[i] = p
	}
	return out
}

// WithOverlay attaches bank and visitor series to points by exact date key.
// A nil series leaves its overlay unset; dates missing from a series read as 0.
func WithOverlay(points []models.TimelineDataPoint, bank, visitors []models.DailyDataPoint) []models.TimelineDataPoint {
	bankByDate := seriesIndex(bank)
	visitorsByDate := seriesIndex(visitors)

	out := make([]models.TimelineDataPoint, len(points))
	for i, p := range points {
		if bankByDate != nil {
			p.Banktransaksjoner = bankByDate[p.Date]
		}
		if visitorsByDate != nil {
			p.Besokende = visitorsByDate[p.Date]
		}
		out[i] = p
	}
	return out
}

func seriesIndex(series []models.DailyDataPoint) map[string]float64 {
	if series == nil {
		return nil
	}
	m := make(map[string]float64, len(series))
	for _, d := range series {
		m[d.Date] = d.Amount
	}
	return m
}

// Config describes one rendering of the timeline.
type Config struct {
	StartDate   string
	EndDate     string
	Aggregation models.Aggregation
	// Levels restricts the events shown; empty keeps all levels.
	Levels   []int
	Bank     []models.DailyDataPoint
	Visitors []models.DailyDataPoint
}

// Build runs the whole pipeline: daily expansion, hierarchy filter,
// aggregation and overlay. Overlay series must already be at cfg.Aggregation.
func Build(events []models.EventReference, cfg Config) ([]models.TimelineDataPoint, error) {
	points, err := Transform(events, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, err
	}
	if len(cfg.Levels) > 0 {
		points = FilterByHierarchy(points, cfg.Levels)
	}
	points = Aggregate(points, cfg.Aggregation)
	return WithOverlay(points, cfg.Bank, cfg.Visitors), nil
}
