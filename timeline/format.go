package timeline

import (
	"fmt"

	"place-server/models"
)

var eventColors = map[models.EventType]string{
	models.EventCultural:       "#10b981",
	models.EventCommercial:     "#3b82f6",
	models.EventSocial:         "#8b5cf6",
	models.EventInfrastructure: "#f59e0b",
	models.EventPolicy:         "#6b7280",
}

// EventColor returns the marker color of an event type.
func EventColor(t models.EventType) string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return eventColors[models.EventCultural]
}

// EventSize returns the marker size of a hierarchy level.
func EventSize(level int) int {
	switch level {
	case 1:
		return 24
	case 2:
		return 18
	case 3:
		return 12
	case 4:
		return 8
	default:
		return 6
	}
}

var monthAbbr = [12]string{"Jan", "Feb", "Mar", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Des"}

// FormatDate renders a bucket date as an axis label: "29. Jun" for days,
// "Uke 26" for weeks and "Jun" for months.
func FormatDate(date string, agg models.Aggregation) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	month := monthAbbr[d.Month()-1]
	switch agg {
	case models.AggregationMonth:
		return month
	case models.AggregationWeek:
		_, week := d.ISOWeek()
		return fmt.Sprintf("Uke %d", week)
	default:
		return fmt.Sprintf("%d. %s", d.Day(), month)
	}
}
