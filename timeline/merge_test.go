package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"place-server/models"
)

func ids(events []models.EventReference) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestMergeEvents(t *testing.T) {
	a := []models.EventReference{
		{ID: "pride", Date: "2024-06-29", Description: "short"},
		{ID: "mai", Date: "2024-05-17", Description: "Nasjonaldag"},
	}
	b := []models.EventReference{
		{ID: "pride", Date: "2024-06-29", Description: "a much longer description"},
		{ID: "jul", Date: "2024-11-30"},
		{ID: "mai", Date: "2024-05-17", Description: "nasjonaldag"},
	}

	merged := MergeEvents(a, b)

	assert.Equal(t, []string{"mai", "pride", "jul"}, ids(merged))
	assert.Equal(t, "a much longer description", merged[1].Description)
	// equal length: first source wins
	assert.Equal(t, "Nasjonaldag", merged[0].Description)
}

func TestMergeEvents_SameDateKeepsInsertionOrder(t *testing.T) {
	events := []models.EventReference{
		{ID: "z", Date: "2024-03-08"},
		{ID: "a", Date: "2024-03-08T18:00:00Z"},
		{ID: "m", Date: "2024-01-01"},
	}
	assert.Equal(t, []string{"m", "z", "a"}, ids(MergeEvents(events)))
}

func TestMergeEvents_IdempotentOnSingleSource(t *testing.T) {
	events := []models.EventReference{
		{ID: "b", Date: "2024-02-01"},
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-02-01"},
	}
	once := MergeEvents(events)
	assert.Equal(t, once, MergeEvents(once, once))
	assert.Equal(t, []string{"a", "b"}, ids(once))
}

func TestMergeEvents_MembershipIndependentOfSourceOrder(t *testing.T) {
	a := []models.EventReference{{ID: "x", Date: "2024-01-02"}, {ID: "y", Date: "2024-01-03"}}
	b := []models.EventReference{{ID: "y", Date: "2024-01-03"}, {ID: "z", Date: "2024-01-01"}}
	assert.ElementsMatch(t, ids(MergeEvents(a, b)), ids(MergeEvents(b, a)))
}

func TestMergeEvents_UndatedLast(t *testing.T) {
	events := []models.EventReference{
		{ID: "undated", Date: "snart"},
		{ID: "dated", Date: "2024-01-01"},
	}
	assert.Equal(t, []string{"dated", "undated"}, ids(MergeEvents(events)))
}
