package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-server/metrics"
)

type countingWarmer struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (w *countingWarmer) WarmSeries(ctx context.Context) error {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
	if w.done != nil {
		select {
		case w.done <- struct{}{}:
		default:
		}
	}
	return w.err
}

func (w *countingWarmer) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func TestSeriesRefresherService_RefreshSeries(t *testing.T) {
	warmer := &countingWarmer{}
	sr := NewSeriesRefresherService(warmer, metrics.New(), "@daily", time.Second)

	require.NoError(t, sr.RefreshSeries(context.Background()))
	assert.Equal(t, 1, warmer.Calls())
}

func TestSeriesRefresherService_RefreshSeriesError(t *testing.T) {
	warmer := &countingWarmer{err: errors.New("boom")}
	sr := NewSeriesRefresherService(warmer, nil, "@daily", 0)

	assert.EqualError(t, sr.RefreshSeries(context.Background()), "boom")
}

func TestSeriesRefresherService_StartRunsInitialRefresh(t *testing.T) {
	warmer := &countingWarmer{done: make(chan struct{}, 1)}
	sr := NewSeriesRefresherService(warmer, nil, "@daily", time.Second)

	require.NoError(t, sr.Start())
	defer sr.Stop()

	select {
	case <-warmer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("initial refresh did not run")
	}
	assert.GreaterOrEqual(t, warmer.Calls(), 1)
}

func TestSeriesRefresherService_InvalidSchedule(t *testing.T) {
	sr := NewSeriesRefresherService(&countingWarmer{}, nil, "not a schedule", 0)

	assert.Error(t, sr.Start())
}

func TestSeriesRefresherService_WarmsReportCache(t *testing.T) {
	rs, cache := newTestService(&fakeSource{})
	sr := NewSeriesRefresherService(rs, nil, "@daily", time.Second)

	require.NoError(t, sr.RefreshSeries(context.Background()))

	keys, err := cache.ListSeriesKeys()
	require.NoError(t, err)
	assert.Len(t, keys, len(Signals))
}
