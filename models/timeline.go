package models

// Aggregation is the bucket size of a timeline.
type Aggregation string

const (
	AggregationDay   Aggregation = "day"
	AggregationWeek  Aggregation = "week"
	AggregationMonth Aggregation = "month"
)

// ParseAggregation maps a query value to an Aggregation.
func ParseAggregation(s string) (Aggregation, bool) {
	switch Aggregation(s) {
	case AggregationDay, AggregationWeek, AggregationMonth:
		return Aggregation(s), true
	}
	return "", false
}

// TimelineDataPoint is one bucket of the event timeline. Date is YYYY-MM-DD
// (the bucket start for week and month buckets) and Timestamp is the UTC
// midnight of Date in milliseconds.
type TimelineDataPoint struct {
	Date              string           `json:"date"`
	Timestamp         int64            `json:"timestamp"`
	Events            []EventReference `json:"events"`
	EventCount        int              `json:"eventCount"`
	TotalAttendees    int              `json:"totalAttendees"`
	Banktransaksjoner float64          `json:"banktransaksjoner,omitempty"`
	Besokende         float64          `json:"besokende,omitempty"`
}

// DailyDataPoint is one value of a generated series. After aggregation Date
// holds the bucket start.
type DailyDataPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
