package timeline

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"place-server/models"
)

// MergeEvents combines event lists from several sources. Events sharing an
// ID are collapsed to the one with the longer description; on equal length
// the earlier source wins. The result is ordered by date, stable for events
// on the same day.
func MergeEvents(sources ...[]models.EventReference) []models.EventReference {
	index := make(map[string]int)
	var merged []models.EventReference

	for _, events := range sources {
		for _, event := range events {
			i, seen := index[event.ID]
			if !seen {
				index[event.ID] = len(merged)
				merged = append(merged, event)
				continue
			}
			if utf8.RuneCountInString(event.Description) > utf8.RuneCountInString(merged[i].Description) {
				merged[i] = event
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ti, okI := eventDay(merged[i].Date)
		tj, okJ := eventDay(merged[j].Date)
		if !okI || !okJ {
			// undated events sink to the end
			return okI && !okJ
		}
		return ti.Before(tj)
	})
	return merged
}

// datePart strips any time-of-day suffix from an ISO timestamp.
func datePart(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

func eventDay(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, datePart(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
