package models

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// EventType is the normalized event category.
type EventType string

const (
	EventCultural       EventType = "cultural"
	EventCommercial     EventType = "commercial"
	EventInfrastructure EventType = "infrastructure"
	EventSocial         EventType = "social"
	EventPolicy         EventType = "policy"
)

// ImpactLevel is derived from the hierarchy level.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// EventReference is the normalized event shape used by the timeline.
// HierarchyLevel is 1..5 where 1 is the largest event.
type EventReference struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Date               string      `json:"date"`
	EndDate            string      `json:"endDate,omitempty"`
	Type               EventType   `json:"type"`
	ImpactLevel        ImpactLevel `json:"impactLevel,omitempty"`
	HierarchyLevel     int         `json:"hierarchyLevel,omitempty"`
	EstimatedAttendees int         `json:"estimatedAttendees,omitempty"`
	Description        string      `json:"description,omitempty"`
}

// RawEvent is an event record as found in the source files. Field names and
// types vary between sources, so numeric fields are kept optional and the
// attendees field may hold either a number or free text like "5000+".
type RawEvent struct {
	ID          string
	Title       string
	Date        string
	EndDate     string
	Type        string
	Category    string
	Location    string
	Venue       string
	Description string
	Source      string

	HierarchyLevel     *int
	EstimatedAttendees *float64
	EstimatedVisitors  *float64
	AttendeesNumber    *float64
	AttendeesText      *string
}

// UnmarshalJSON decodes a raw event leniently. Fields with an unexpected
// type are left unset and a record that is not an object decodes to the
// zero value, so one bad record never fails the whole collection.
func (e *RawEvent) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		*e = RawEvent{}
		return nil
	}

	e.ID = looseString(m["id"])
	e.Title = looseString(m["title"])
	e.Date = looseString(m["date"])
	e.EndDate = looseString(m["endDate"])
	e.Type = looseString(m["type"])
	e.Category = looseString(m["category"])
	e.Location = looseString(m["location"])
	e.Venue = looseString(m["venue"])
	e.Description = looseString(m["description"])
	e.Source = looseString(m["source"])

	if v, ok := m["hierarchyLevel"].(float64); ok {
		level := int(v)
		e.HierarchyLevel = &level
	}
	if v, ok := m["estimatedAttendees"].(float64); ok {
		e.EstimatedAttendees = &v
	}
	if v, ok := m["estimatedVisitors"].(float64); ok {
		e.EstimatedVisitors = &v
	}
	switch v := m["attendees"].(type) {
	case float64:
		e.AttendeesNumber = &v
	case string:
		e.AttendeesText = &v
	}
	return nil
}

// EventCollectionMetadata describes an event file.
type EventCollectionMetadata struct {
	TotalEvents int `json:"totalEvents"`
	Year        int `json:"year"`
}

// EventCollection is the top-level event file. Sources use either the
// "events" or the "arrangementer" key.
type EventCollection struct {
	Metadata      EventCollectionMetadata `json:"metadata"`
	Events        []RawEvent              `json:"events,omitempty"`
	Arrangementer []RawEvent              `json:"arrangementer,omitempty"`
}

// RawEvents returns the events under whichever key is populated, preferring "events".
func (c *EventCollection) RawEvents() []RawEvent {
	if len(c.Events) > 0 {
		return c.Events
	}
	return c.Arrangementer
}

var leadingInt = regexp.MustCompile(`(\d+)`)

// FirstInt extracts the first run of digits from s.
func FirstInt(s string) (int, bool) {
	match := leadingInt.FindStringSubmatch(s)
	if len(match) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func looseString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func looseFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
