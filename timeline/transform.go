// Package timeline normalizes event records and buckets them into dense
// day, week and month series for the event timeline chart.
package timeline

import (
	"math"
	"strings"

	"place-server/models"
)

// categoryRule maps keyword stems to an event type. Rules are checked in
// order and the first match wins, so an event that is both a festival and a
// market is cultural.
type categoryRule struct {
	eventType models.EventType
	keywords  []string
}

var categoryRules = []categoryRule{
	{models.EventCultural, []string{"konser", "musik", "kultur", "teater", "kunst", "festival", "concert", "music", "culture", "theater", "theatre", "art", "gallery"}},
	{models.EventCommercial, []string{"marked", "messe", "kommers", "market", "fair", "commerce"}},
	{models.EventSocial, []string{"demo", "markering", "sosial", "fellesskap", "commemoration", "social", "community"}},
	{models.EventInfrastructure, []string{"bygg", "infrastruktur", "anlegg", "construction", "infrastructure", "facility"}},
	{models.EventPolicy, []string{"politikk", "møte", "høring", "politic", "meeting", "hearing"}},
}

// MapEventType classifies a free-text category. Unknown categories are cultural.
func MapEventType(category string) models.EventType {
	cat := strings.ToLower(category)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(cat, kw) {
				return rule.eventType
			}
		}
	}
	return models.EventCultural
}

// AttendeesToHierarchy buckets an attendee count into hierarchy levels 1..5.
func AttendeesToHierarchy(attendees int) int {
	switch {
	case attendees >= 5000:
		return 1
	case attendees >= 1000:
		return 2
	case attendees >= 200:
		return 3
	case attendees >= 50:
		return 4
	default:
		return 5
	}
}

// ImpactToHierarchy is the fallback for events that only carry an impact level.
func ImpactToHierarchy(impact models.ImpactLevel) int {
	switch impact {
	case models.ImpactHigh:
		return 1
	case models.ImpactMedium:
		return 2
	default:
		return 3
	}
}

// HierarchyToImpact derives the impact level shown for an event.
func HierarchyToImpact(level int) models.ImpactLevel {
	switch level {
	case 1:
		return models.ImpactHigh
	case 2:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

// ResolveAttendees picks the attendee count from the first usable field:
// estimatedVisitors, estimatedAttendees, numeric attendees, then the first
// integer found in a textual attendees value.
func ResolveAttendees(raw models.RawEvent) int {
	var n float64
	switch {
	case raw.EstimatedVisitors != nil:
		n = *raw.EstimatedVisitors
	case raw.EstimatedAttendees != nil:
		n = *raw.EstimatedAttendees
	case raw.AttendeesNumber != nil:
		n = *raw.AttendeesNumber
	case raw.AttendeesText != nil:
		if v, ok := models.FirstInt(*raw.AttendeesText); ok {
			n = float64(v)
		}
	}
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int(math.Round(n))
}

// TransformEvent normalizes one raw event. It never fails: unparseable
// fields fall back to their defaults.
func TransformEvent(raw models.RawEvent) models.EventReference {
	attendees := ResolveAttendees(raw)

	category := raw.Type
	if category == "" {
		category = raw.Category
	}

	level := 0
	if raw.HierarchyLevel != nil && *raw.HierarchyLevel >= 1 && *raw.HierarchyLevel <= 5 {
		level = *raw.HierarchyLevel
	} else {
		level = AttendeesToHierarchy(attendees)
	}

	return models.EventReference{
		ID:                 raw.ID,
		Title:              raw.Title,
		Date:               raw.Date,
		EndDate:            raw.EndDate,
		Type:               MapEventType(category),
		ImpactLevel:        HierarchyToImpact(level),
		HierarchyLevel:     level,
		EstimatedAttendees: attendees,
		Description:        raw.Description,
	}
}

// TransformEvents normalizes a batch of raw events, keeping their order.
func TransformEvents(raws []models.RawEvent) []models.EventReference {
	out := make([]models.EventReference, 0, len(raws))
	for _, raw := range raws {
		out = append(out, TransformEvent(raw))
	}
	return out
}
