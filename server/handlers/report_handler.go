package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"place-server/aktor"
	"place-server/models"
	services "place-server/service"
	"place-server/timeline"
	"place-server/util"
)

const (
	START_QUERY_ARG       = "start"
	END_QUERY_ARG         = "end"
	AGGREGATION_QUERY_ARG = "aggregation"
	GRANULARITY_QUERY_ARG = "granularity"
	LEVELS_QUERY_ARG      = "levels"
	BANK_QUERY_ARG        = "bank"
	VISITORS_QUERY_ARG    = "visitors"
	SEED_QUERY_ARG        = "seed"

	SIGNAL_PATH_VAR = "signal"
	AREA_PATH_VAR   = "area"
)

const defaultAggregation = models.AggregationWeek

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Ping handles GET /ping
func (h *ReportHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "pong"})
}

// GetTimeline handles GET /v1/timeline
func (h *ReportHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseTimelineArgs(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reportService.Timeline(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

// GetSyntheticSeries handles GET /v1/synthetic/{signal}
func (h *ReportHandler) GetSyntheticSeries(w http.ResponseWriter, r *http.Request) {
	signal, err := services.ParseSignal(mux.Vars(r)[SIGNAL_PATH_VAR])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vals := r.URL.Query()
	granularity, err := parseAggregation(vals, GRANULARITY_QUERY_ARG, models.AggregationDay)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed, err := h.parseSeed(vals)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reportService.SyntheticSeries(r.Context(), signal, granularity, seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

// GetQuarterlyInsights handles GET /v1/quarterly/insights
func (h *ReportHandler) GetQuarterlyInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.reportService.QuarterlyInsights(r.Context()))
}

// GetCategoryInsights handles GET /v1/quarterly/categories
func (h *ReportHandler) GetCategoryInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.reportService.CategoryInsights(r.Context()))
}

// GetActors handles GET /v1/actors and GET /v1/areas/{area}/actors. The
// path area wins over an area query argument.
func (h *ReportHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	state, err := aktor.ParseViewState(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if area, ok := mux.Vars(r)[AREA_PATH_VAR]; ok {
		state.Area = area
	}

	report, err := h.reportService.Actors(r.Context(), state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

// GetAreas handles GET /v1/areas
func (h *ReportHandler) GetAreas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.reportService.Areas(r.Context()))
}

// GetTimelineChart handles GET /charts/timeline and accepts the timeline arguments.
func (h *ReportHandler) GetTimelineChart(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseTimelineArgs(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.reportService.Timeline(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("Aktiviteter %s - %s", req.StartDate, req.EndDate)
	if err := util.RenderTimelineChart(&buf, title, report.Points, req.Aggregation); err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, &buf)
}

// GetQuarterlyChart handles GET /charts/quarterly
func (h *ReportHandler) GetQuarterlyChart(w http.ResponseWriter, r *http.Request) {
	report := h.reportService.QuarterlyInsights(r.Context())

	title := report.Metadata.Title
	if title == "" {
		title = "Banktransaksjoner per kvartal"
	}
	var buf bytes.Buffer
	if err := util.RenderQuarterlyChart(&buf, title, report.Data); err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, &buf)
}

// GetCategoryChart handles GET /charts/categories
func (h *ReportHandler) GetCategoryChart(w http.ResponseWriter, r *http.Request) {
	report := h.reportService.CategoryInsights(r.Context())

	var buf bytes.Buffer
	if err := util.RenderCategoryChart(&buf, "Kategorier", report.Growth, report.Insights.Volatility); err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, &buf)
}

func (h *ReportHandler) parseTimelineArgs(vals url.Values) (services.TimelineRequest, error) {
	year := h.reportService.Year()
	req := services.TimelineRequest{
		StartDate: fmt.Sprintf("%d-01-01", year),
		EndDate:   fmt.Sprintf("%d-12-31", year),
	}
	if v := vals.Get(START_QUERY_ARG); v != "" {
		req.StartDate = v
	}
	if v := vals.Get(END_QUERY_ARG); v != "" {
		req.EndDate = v
	}
	if err := checkRange(req.StartDate, req.EndDate); err != nil {
		return req, err
	}

	var err error
	if req.Aggregation, err = parseAggregation(vals, AGGREGATION_QUERY_ARG, defaultAggregation); err != nil {
		return req, err
	}
	if req.Levels, err = parseLevels(vals.Get(LEVELS_QUERY_ARG)); err != nil {
		return req, err
	}
	if req.Bank, err = parseArgBool(vals, BANK_QUERY_ARG); err != nil {
		return req, err
	}
	if req.Visitors, err = parseArgBool(vals, VISITORS_QUERY_ARG); err != nil {
		return req, err
	}
	if req.Seed, err = h.parseSeed(vals); err != nil {
		return req, err
	}
	return req, nil
}

// checkRange rejects unparseable dates and ranges longer than
// timeline.MaxRangeDays before any buckets are allocated.
func checkRange(startDate, endDate string) error {
	start, err := timeline.ParseDate(startDate)
	if err != nil {
		return fmt.Errorf("Invalid argument %s", START_QUERY_ARG)
	}
	end, err := timeline.ParseDate(endDate)
	if err != nil {
		return fmt.Errorf("Invalid argument %s", END_QUERY_ARG)
	}
	if timeline.RangeDays(start, end) > timeline.MaxRangeDays {
		return fmt.Errorf("Invalid argument %s: range exceeds %d days", END_QUERY_ARG, timeline.MaxRangeDays)
	}
	return nil
}

func (h *ReportHandler) parseSeed(vals url.Values) (int64, error) {
	s := vals.Get(SEED_QUERY_ARG)
	if s == "" {
		return h.reportService.DefaultSeed(), nil
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid argument %s", SEED_QUERY_ARG)
	}
	return seed, nil
}

func parseAggregation(vals url.Values, name string, def models.Aggregation) (models.Aggregation, error) {
	s := vals.Get(name)
	if s == "" {
		return def, nil
	}
	agg, ok := models.ParseAggregation(s)
	if !ok {
		return "", fmt.Errorf("Invalid argument %s", name)
	}
	return agg, nil
}

// parseLevels reads a comma separated list of hierarchy levels.
func parseLevels(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var levels []int
	for _, part := range strings.Split(s, ",") {
		level, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || level < 1 || level > 5 {
			return nil, fmt.Errorf("Invalid argument %s", LEVELS_QUERY_ARG)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func parseArgBool(vals url.Values, name string) (bool, error) {
	s := vals.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("Invalid argument %s", name)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrBadRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Println("Error building report:", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Println("Error writing chart:", err)
	}
}
