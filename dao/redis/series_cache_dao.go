package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"place-server/db"
	"place-server/metrics"
	"place-server/models"
)

const SERIES_KEY_PREFIX_V1 = "synthetic_series_v1:"

// SERIES_KEY_FORMAT_V1 is profile name, year, seed and annual total.
const SERIES_KEY_FORMAT_V1 = SERIES_KEY_PREFIX_V1 + "%s:%d:%d:%.0f"

// SeriesCacheDAO caches generated daily series. Entries are keyed by every
// input of the generator, so a hit equals a fresh computation.
type SeriesCacheDAO struct {
	client  db.RedisClient
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewSeriesCacheDAO initializes a SeriesCacheDAO. m may be nil.
func NewSeriesCacheDAO(client db.RedisClient, ttl time.Duration, m *metrics.Metrics) *SeriesCacheDAO {
	return &SeriesCacheDAO{client: client, ttl: ttl, metrics: m}
}

// SeriesKey builds the cache key of one generator run.
func SeriesKey(profile string, year int, seed int64, annualTotal float64) string {
	return fmt.Sprintf(SERIES_KEY_FORMAT_V1, profile, year, seed, annualTotal)
}

// GetSeries returns the cached series for key. A miss returns ok=false and
// no error.
func (dao *SeriesCacheDAO) GetSeries(key string) (series []models.DailyDataPoint, ok bool, err error) {
	str, err := dao.client.Get(key)
	if errors.Is(err, db.ErrNotFound) {
		dao.metrics.CacheMiss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("[SeriesCacheDAO] failed to get series %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(str), &series); err != nil {
		dao.metrics.CacheMiss()
		log.Printf("[SeriesCacheDAO] Dropping undecodable entry %s: %v", key, err)
		if delErr := dao.client.Del(key); delErr != nil {
			log.Printf("[SeriesCacheDAO] Failed to delete %s: %v", key, delErr)
		}
		return nil, false, nil
	}
	dao.metrics.CacheHit()
	return series, true, nil
}

// SetSeries stores series under key with the DAO's TTL.
func (dao *SeriesCacheDAO) SetSeries(key string, series []models.DailyDataPoint) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal series %s: %w", key, err)
	}
	if err := dao.client.Set(key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set series %s in redis: %w", key, err)
	}
	return nil
}

// ListSeriesKeys returns the keys of every cached series.
func (dao *SeriesCacheDAO) ListSeriesKeys() ([]string, error) {
	keys, err := dao.client.Keys(SERIES_KEY_PREFIX_V1 + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list series keys: %w", err)
	}
	return keys, nil
}

// DeleteSeries evicts one series.
func (dao *SeriesCacheDAO) DeleteSeries(key string) error {
	if !strings.HasPrefix(key, SERIES_KEY_PREFIX_V1) {
		return fmt.Errorf("not a series key: %s", key)
	}
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete series key %s: %w", key, err)
	}
	log.Printf("[SeriesCacheDAO] Deleted series cache %s", key)
	return nil
}
