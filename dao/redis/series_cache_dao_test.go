package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-server/db"
	"place-server/models"
)

func TestSeriesKey(t *testing.T) {
	assert.Equal(t, "synthetic_series_v1:banktransaksjoner:2024:42:3970000000",
		SeriesKey("banktransaksjoner", 2024, 42, 3.97e9))
}

func TestSeriesCacheDAO_SetAndGet(t *testing.T) {
	// Setup
	client := db.NewMemoryClient(context.Background())
	dao := NewSeriesCacheDAO(client, time.Hour, nil)
	key := SeriesKey("besokende", 2024, 1, 25000*365)
	series := []models.DailyDataPoint{{Date: "2024-01-01", Amount: 17000}, {Date: "2024-01-02", Amount: 19000}}

	// Act
	_, ok, err := dao.GetSeries(key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, dao.SetSeries(key, series))
	got, ok, err := dao.GetSeries(key)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, series, got)
}

func TestSeriesCacheDAO_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client := db.NewMemoryClientWithClock(context.Background(), func() time.Time { return now })
	dao := NewSeriesCacheDAO(client, time.Hour, nil)
	key := SeriesKey("besokende", 2024, 1, 1)

	require.NoError(t, dao.SetSeries(key, []models.DailyDataPoint{{Date: "2024-01-01", Amount: 1}}))
	now = now.Add(2 * time.Hour)

	_, ok, err := dao.GetSeries(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesCacheDAO_CorruptEntryIsDropped(t *testing.T) {
	client := db.NewMemoryClient(context.Background())
	dao := NewSeriesCacheDAO(client, 0, nil)
	key := SeriesKey("besokende", 2024, 1, 1)
	require.NoError(t, client.Set(key, "{not json", 0))

	_, ok, err := dao.GetSeries(key)

	require.NoError(t, err)
	assert.False(t, ok)
	_, err = client.Get(key)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSeriesCacheDAO_ListAndDelete(t *testing.T) {
	client := db.NewMemoryClient(context.Background())
	dao := NewSeriesCacheDAO(client, 0, nil)
	a := SeriesKey("banktransaksjoner", 2024, 1, 1)
	b := SeriesKey("besokende", 2024, 1, 1)
	require.NoError(t, dao.SetSeries(a, nil))
	require.NoError(t, dao.SetSeries(b, nil))
	require.NoError(t, client.Set("unrelated", "x", 0))

	keys, err := dao.ListSeriesKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, keys)

	require.NoError(t, dao.DeleteSeries(a))
	assert.Error(t, dao.DeleteSeries("unrelated"))

	keys, err = dao.ListSeriesKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{b}, keys)
}
