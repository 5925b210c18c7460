package timeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-server/models"
)

func decodeRaw(t *testing.T, s string) models.RawEvent {
	t.Helper()
	var raw models.RawEvent
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestResolveAttendees(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"visitors first", `{"estimatedVisitors": 300, "estimatedAttendees": 10, "attendees": 5}`, 300},
		{"attendees field", `{"estimatedAttendees": 1200, "attendees": 5}`, 1200},
		{"numeric attendees", `{"attendees": 75}`, 75},
		{"text with plus", `{"attendees": "5000+"}`, 5000},
		{"text range", `{"attendees": "ca. 1000-2000"}`, 1000},
		{"text without digits", `{"attendees": "mange"}`, 0},
		{"wrong type", `{"estimatedAttendees": "lots"}`, 0},
		{"negative", `{"estimatedAttendees": -20}`, 0},
		{"absent", `{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAttendees(decodeRaw(t, tt.json)))
		})
	}
}

func TestMapEventType(t *testing.T) {
	tests := []struct {
		category string
		want     models.EventType
	}{
		{"Konsert", models.EventCultural},
		{"Musikkfestival", models.EventCultural},
		{"Julemarked", models.EventCommercial},
		{"Festival og marked", models.EventCultural},
		{"Demonstrasjon", models.EventSocial},
		{"Markering", models.EventSocial},
		{"Byggeprosjekt", models.EventInfrastructure},
		{"Politikk", models.EventPolicy},
		{"Folkemøte", models.EventPolicy},
		{"Community gathering", models.EventSocial},
		{"Public hearing", models.EventPolicy},
		{"Street art", models.EventCultural},
		{"Art fair", models.EventCultural},
		{"Artist talk", models.EventCultural},
		{"", models.EventCultural},
		{"ukjent", models.EventCultural},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, MapEventType(tt.category))
		})
	}
}

func TestAttendeesToHierarchy(t *testing.T) {
	assert.Equal(t, 1, AttendeesToHierarchy(70000))
	assert.Equal(t, 1, AttendeesToHierarchy(5000))
	assert.Equal(t, 2, AttendeesToHierarchy(4999))
	assert.Equal(t, 2, AttendeesToHierarchy(1000))
	assert.Equal(t, 3, AttendeesToHierarchy(200))
	assert.Equal(t, 4, AttendeesToHierarchy(50))
	assert.Equal(t, 5, AttendeesToHierarchy(49))
	assert.Equal(t, 5, AttendeesToHierarchy(0))
}

func TestAttendeesToHierarchy_Monotonic(t *testing.T) {
	prev := AttendeesToHierarchy(0)
	for n := 1; n <= 10000; n++ {
		level := AttendeesToHierarchy(n)
		if level > prev {
			t.Fatalf("level rose from %d to %d at %d attendees", prev, level, n)
		}
		prev = level
	}
}

func TestTransformEvent(t *testing.T) {
	t.Run("derives hierarchy and impact", func(t *testing.T) {
		ev := TransformEvent(decodeRaw(t, `{"id":"a","title":"Pride","date":"2024-06-29","estimatedAttendees":70000,"category":"Festival"}`))
		assert.Equal(t, "a", ev.ID)
		assert.Equal(t, 1, ev.HierarchyLevel)
		assert.Equal(t, models.ImpactHigh, ev.ImpactLevel)
		assert.Equal(t, 70000, ev.EstimatedAttendees)
		assert.Equal(t, models.EventCultural, ev.Type)
	})

	t.Run("explicit hierarchy wins", func(t *testing.T) {
		ev := TransformEvent(decodeRaw(t, `{"id":"b","date":"2024-01-01","hierarchyLevel":2,"attendees":"10"}`))
		assert.Equal(t, 2, ev.HierarchyLevel)
		assert.Equal(t, models.ImpactMedium, ev.ImpactLevel)
	})

	t.Run("out of range hierarchy is derived", func(t *testing.T) {
		ev := TransformEvent(decodeRaw(t, `{"id":"c","date":"2024-01-01","hierarchyLevel":9,"attendees":300}`))
		assert.Equal(t, 3, ev.HierarchyLevel)
		assert.Equal(t, models.ImpactLow, ev.ImpactLevel)
	})

	t.Run("impact is never taken from input", func(t *testing.T) {
		ev := TransformEvent(decodeRaw(t, `{"id":"d","date":"2024-01-01","impactLevel":"high"}`))
		assert.Equal(t, 5, ev.HierarchyLevel)
		assert.Equal(t, models.ImpactLow, ev.ImpactLevel)
		assert.Equal(t, 0, ev.EstimatedAttendees)
	})

	t.Run("type preferred over category", func(t *testing.T) {
		ev := TransformEvent(decodeRaw(t, `{"id":"e","date":"2024-01-01","type":"marked","category":"konsert"}`))
		assert.Equal(t, models.EventCommercial, ev.Type)
	})
}

func TestTransformEvents_MalformedRecordDoesNotBlockBatch(t *testing.T) {
	var coll models.EventCollection
	err := json.Unmarshal([]byte(`{"arrangementer":[
		{"id":"ok","date":"2024-05-17","attendees":"100000+"},
		42,
		{"id":"bad-fields","date":"2024-05-18","estimatedVisitors":"many","hierarchyLevel":"top"}
	]}`), &coll)
	require.NoError(t, err)

	events := TransformEvents(coll.RawEvents())
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].HierarchyLevel)
	assert.Equal(t, "", events[1].ID)
	assert.Equal(t, 5, events[2].HierarchyLevel)
	assert.Equal(t, models.EventCultural, events[2].Type)
}
