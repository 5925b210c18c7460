package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-server/config"
	"place-server/models"
	services "place-server/service"
)

func newTestHandler(t *testing.T, resources map[string]string) *ReportHandler {
	t.Helper()
	dir := t.TempDir()
	for name, body := range resources {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	rs := services.NewReportService(services.NewFileSource(dir), nil, nil,
		config.SyntheticConfig{Seed: 5, Year: 2024})
	return NewReportHandler(rs)
}

func serve(h http.HandlerFunc, pattern, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc(pattern, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestParseLevels(t *testing.T) {
	levels, err := parseLevels("1, 3,5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, levels)

	levels, err = parseLevels("")
	require.NoError(t, err)
	assert.Nil(t, levels)

	for _, bad := range []string{"0", "6", "a", "1,,2"} {
		_, err := parseLevels(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimelineArgs_Defaults(t *testing.T) {
	h := newTestHandler(t, nil)

	req, err := h.parseTimelineArgs(url.Values{})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", req.StartDate)
	assert.Equal(t, "2024-12-31", req.EndDate)
	assert.Equal(t, models.AggregationWeek, req.Aggregation)
	assert.Equal(t, int64(5), req.Seed)
	assert.False(t, req.Bank)
	assert.False(t, req.Visitors)
}

func TestParseTimelineArgs(t *testing.T) {
	h := newTestHandler(t, nil)
	vals := url.Values{
		START_QUERY_ARG:       {"2024-03-01"},
		END_QUERY_ARG:         {"2024-03-31"},
		AGGREGATION_QUERY_ARG: {"day"},
		LEVELS_QUERY_ARG:      {"1,2"},
		BANK_QUERY_ARG:        {"true"},
		SEED_QUERY_ARG:        {"99"},
	}

	req, err := h.parseTimelineArgs(vals)

	require.NoError(t, err)
	assert.Equal(t, services.TimelineRequest{
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-31",
		Aggregation: models.AggregationDay,
		Levels:      []int{1, 2},
		Bank:        true,
		Seed:        99,
	}, req)
}

func TestParseTimelineArgs_Invalid(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, vals := range []url.Values{
		{AGGREGATION_QUERY_ARG: {"quarter"}},
		{BANK_QUERY_ARG: {"maybe"}},
		{SEED_QUERY_ARG: {"x"}},
		{LEVELS_QUERY_ARG: {"9"}},
	} {
		_, err := h.parseTimelineArgs(vals)
		assert.Error(t, err, vals.Encode())
	}
}

func TestGetTimeline_BadDate(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := serve(h.GetTimeline, "/v1/timeline", "/v1/timeline?start=2024-13-01")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTimeline_RangeTooLong(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, target := range []string{
		"/v1/timeline?start=1000-01-01&end=2999-12-31",
		"/v1/timeline?start=2024-01-01&end=2026-01-01",
	} {
		rr := serve(h.GetTimeline, "/v1/timeline", target)

		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, rr.Body.String(), "Invalid argument end", target)
	}

	rr := serve(h.GetTimelineChart, "/charts/timeline", "/charts/timeline?start=1000-01-01&end=2999-12-31")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTimeline_LongestAllowedRange(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := serve(h.GetTimeline, "/v1/timeline", "/v1/timeline?start=2024-01-01&end=2025-12-31&aggregation=month")

	require.Equal(t, http.StatusOK, rr.Code)
	var report services.TimelineReport
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&report))
	assert.Len(t, report.Points, 24)
}

func TestGetSyntheticSeries(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := serve(h.GetSyntheticSeries, "/v1/synthetic/{signal}", "/v1/synthetic/bank?granularity=month&seed=3")

	require.Equal(t, http.StatusOK, rr.Code)
	var report services.SeriesReport
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&report))
	assert.Equal(t, services.SignalBank, report.Signal)
	assert.Equal(t, int64(3), report.Seed)
	assert.Len(t, report.Points, 12)
	assert.True(t, report.Deviation.Valid)
}

func TestGetActors_PathAreaWins(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		config.AreaActorsResource("sentrum"): `{"actors": [{"rank": 1, "navn": "Sentrumskafe", "type": "Kafe"}]}`,
	})

	rr := serve(h.GetActors, "/v1/areas/{area}/actors", "/v1/areas/sentrum/actors?area=other")

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Empty  bool `json:"empty"`
		Actors []struct {
			Navn string `json:"navn"`
		} `json:"actors"`
		State struct {
			Area string `json:"area"`
		} `json:"state"`
		Links struct {
			Self   string `json:"self"`
			Toggle string `json:"toggle"`
		} `json:"links"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.False(t, body.Empty)
	require.Len(t, body.Actors, 1)
	assert.Equal(t, "Sentrumskafe", body.Actors[0].Navn)
	assert.Equal(t, "sentrum", body.State.Area)
	assert.Contains(t, body.Links.Self, "area=sentrum")
	assert.Contains(t, body.Links.Toggle, "expanded=true")
}

func TestGetActors_InvalidPage(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := serve(h.GetActors, "/v1/actors", "/v1/actors?page=0")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetQuarterlyInsights_EmptyWhenMissing(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := serve(h.GetQuarterlyInsights, "/v1/quarterly/insights", "/v1/quarterly/insights")

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, true, body["empty"])
}

func TestGetQuarterlyChart(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		config.QUARTERLY_RESOURCE: `{"metadata": {"title": "Kvartalstall"}, "data": [{"year": 2024, "quarter": 1, "amount": 10}]}`,
	})

	rr := serve(h.GetQuarterlyChart, "/charts/quarterly", "/charts/quarterly")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Kvartalstall")
}
