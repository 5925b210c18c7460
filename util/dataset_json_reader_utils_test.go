package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestReadEventCollectionFromJSON_Arrangementer(t *testing.T) {
	// Arrange
	content := `{
		"metadata": {"totalEvents": 2, "year": 2024},
		"arrangementer": [
			{"id": "pride", "title": "Oslo Pride", "date": "2024-06-29", "category": "festival", "estimatedVisitors": 70000},
			{"id": "marked", "title": "Julemarked", "date": "2024-11-30", "type": "marked", "attendees": "ca. 2 000"}
		]
	}`
	path := createTempFile(t, content)

	// Act
	c, err := ReadEventCollectionFromJSON(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2024, c.Metadata.Year)
	raws := c.RawEvents()
	require.Len(t, raws, 2)
	assert.Equal(t, "pride", raws[0].ID)
	require.NotNil(t, raws[0].EstimatedVisitors)
	assert.Equal(t, 70000.0, *raws[0].EstimatedVisitors)
	require.NotNil(t, raws[1].AttendeesText)
	assert.Equal(t, "ca. 2 000", *raws[1].AttendeesText)
}

func TestReadQuarterlyDataFromJSON(t *testing.T) {
	path := createTempFile(t, `{
		"metadata": {"title": "Banktransaksjoner", "currency": "NOK"},
		"data": [
			{"year": 2024, "quarter": 1, "quarterLabel": "Q1 2024", "amount": 812400000, "transactionCount": 2100000, "averageTransaction": 386.9},
			{"year": 2024, "quarter": 2, "quarterLabel": "Q2 2024", "amount": 0}
		]
	}`)

	q, err := ReadQuarterlyDataFromJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "NOK", q.Metadata.Currency)
	require.Len(t, q.Data, 2)
	assert.Equal(t, 812400000.0, q.Data[0].Amount)
	assert.Equal(t, 2100000, q.Data[0].TransactionCount)
	assert.Zero(t, q.Data[1].Amount)
}

func TestReadDailyCategoryDataFromJSON(t *testing.T) {
	path := createTempFile(t, `{"quarters": {"Q1_2024": [
		{"date": "2024-01-01", "handel": 10, "matOgOpplevelser": 20, "tjenester": 30, "total": 60, "formattedDate": "1. jan"}
	]}}`)

	d, err := ReadDailyCategoryDataFromJSON(path)

	require.NoError(t, err)
	require.Len(t, d.Quarters["Q1_2024"], 1)
	assert.Equal(t, 20.0, d.Quarters["Q1_2024"][0].MatOgOpplevelser)
}

func TestReadAktorDataFromJSON(t *testing.T) {
	path := createTempFile(t, `{
		"metadata": {"totalActors": 2, "totalRevenue": 150, "totalEmployees": 30},
		"actors": [
			{"rank": "#1", "navn": "Alfa AS", "type": "Handel", "omsetning": 100, "yoy_vekst": 5.5, "ansatte": 20, "markedsandel": 66.7},
			{"rank": 2, "navn": "Beta AS", "type": "Mat", "omsetning": "50", "yoy_vekst": null, "ansatte": "10"}
		],
		"categoryStats": {"Handel": {"count": 1, "omsetning": 100, "ansatte": 20}}
	}`)

	a, err := ReadAktorDataFromJSON(path)

	require.NoError(t, err)
	require.Len(t, a.Actors, 2)
	assert.Equal(t, "#2", a.Actors[1].Rank)
	assert.Equal(t, 50.0, a.Actors[1].Omsetning)
	assert.Zero(t, a.Actors[1].YoyVekst)
	assert.Equal(t, 10, a.Actors[1].Ansatte)
	assert.Equal(t, 1, a.CategoryStats["Handel"].Count)
}

func TestReadCombinedAreaDataFromJSON(t *testing.T) {
	path := createTempFile(t, `{
		"metadata": {"totalAreas": 1, "totalActors": 120},
		"areas": {"sentrum": {"displayName": "Sentrum", "totalActors": 120, "totalRevenue": 3400}}
	}`)

	c, err := ReadCombinedAreaDataFromJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "Sentrum", c.Areas["sentrum"].DisplayName)
}

func TestReadPlaceAnalysisFromJSON(t *testing.T) {
	path := createTempFile(t, `{
		"id": "grunerlokka-2024",
		"title": "Stedsanalyse 2024",
		"period": {"type": "year", "year": 2024, "startDate": "2024-01-01", "endDate": "2024-12-31", "label": "2024"},
		"events": [{"id": "pride", "title": "Oslo Pride", "date": "2024-06-29", "type": "cultural", "impactLevel": "high", "hierarchyLevel": 1}]
	}`)

	a, err := ReadPlaceAnalysisFromJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", a.Period.EndDate)
	require.Len(t, a.Events, 1)
	assert.Equal(t, 1, a.Events[0].HierarchyLevel)
}

func TestReaders_Errors(t *testing.T) {
	_, err := ReadQuarterlyDataFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = ReadAktorDataFromJSON(createTempFile(t, `{"actors": [`))
	assert.ErrorContains(t, err, "failed to unmarshal AktorData")
}
