package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"place-server/aktor"
	"place-server/config"
	"place-server/dao/redis"
	"place-server/metrics"
	"place-server/models"
	"place-server/stats"
	"place-server/synthetic"
	"place-server/timeline"
)

// ErrBadRequest marks errors caused by caller input.
var ErrBadRequest = errors.New("bad request")

// Signal names a synthetic series.
type Signal string

const (
	SignalBank     Signal = "bank"
	SignalVisitors Signal = "visitors"
)

// Signals lists every synthetic series.
var Signals = []Signal{SignalBank, SignalVisitors}

func ParseSignal(s string) (Signal, error) {
	switch sig := Signal(s); sig {
	case SignalBank, SignalVisitors:
		return sig, nil
	}
	return "", fmt.Errorf("%w: unknown signal %q", ErrBadRequest, s)
}

// ReportService loads datasets and turns them into report payloads. Missing
// or unreadable datasets are logged and reported as empty.
type ReportService struct {
	source    DatasetSource
	cache     *redis.SeriesCacheDAO
	metrics   *metrics.Metrics
	synthetic config.SyntheticConfig
}

// NewReportService wires a ReportService. cache and m may be nil.
func NewReportService(
	source DatasetSource,
	cache *redis.SeriesCacheDAO,
	m *metrics.Metrics,
	syntheticConfig config.SyntheticConfig) *ReportService {

	if syntheticConfig.Year == 0 {
		syntheticConfig.Year = synthetic.ReferenceYear
	}
	return &ReportService{
		source:    source,
		cache:     cache,
		metrics:   m,
		synthetic: syntheticConfig,
	}
}

func (rs *ReportService) DefaultSeed() int64 {
	return rs.synthetic.Seed
}

// Year is the calendar year synthetic series and the default timeline cover.
func (rs *ReportService) Year() int {
	return rs.synthetic.Year
}

func (rs *ReportService) loadFailed(dataset string, err error) {
	log.Printf("[ReportService] Failed to load %s, serving empty dataset: %v", dataset, err)
	rs.metrics.DatasetLoadFailed(dataset)
}

// Profile returns the generator profile of signal with configured totals.
func (rs *ReportService) Profile(signal Signal) (synthetic.Profile, error) {
	switch signal {
	case SignalBank:
		p := synthetic.BankTransactionProfile()
		if rs.synthetic.BankAnnualTotal > 0 {
			p.AnnualTotal = rs.synthetic.BankAnnualTotal
		}
		return p, nil
	case SignalVisitors:
		p := synthetic.VisitorProfile()
		if rs.synthetic.VisitorDailyAverage > 0 {
			p.AnnualTotal = rs.synthetic.VisitorDailyAverage * 365
		}
		return p, nil
	}
	return synthetic.Profile{}, fmt.Errorf("%w: unknown signal %q", ErrBadRequest, signal)
}

// Series returns the daily series of signal for seed, from the cache when
// possible.
func (rs *ReportService) Series(ctx context.Context, signal Signal, seed int64) ([]models.DailyDataPoint, error) {
	p, err := rs.Profile(signal)
	if err != nil {
		return nil, err
	}
	key := redis.SeriesKey(p.Name, rs.synthetic.Year, seed, p.AnnualTotal)

	if rs.cache != nil {
		cached, ok, err := rs.cache.GetSeries(key)
		if err != nil {
			log.Printf("[ReportService] Series cache read failed, regenerating: %v", err)
		} else if ok {
			return cached, nil
		}
	}
	return rs.generate(p, key, seed)
}

func (rs *ReportService) generate(p synthetic.Profile, key string, seed int64) ([]models.DailyDataPoint, error) {
	series, err := synthetic.Generate(p, rs.synthetic.Year, synthetic.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", p.Name, err)
	}
	if rs.cache != nil {
		if err := rs.cache.SetSeries(key, series); err != nil {
			log.Printf("[ReportService] Failed to cache series %s: %v", key, err)
		}
	}
	return series, nil
}

// WarmSeries regenerates every signal for the default seed, overwrites the
// cached copies and evicts every other cached series.
func (rs *ReportService) WarmSeries(ctx context.Context) error {
	warmed := make(map[string]bool, len(Signals))
	for _, signal := range Signals {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := rs.Profile(signal)
		if err != nil {
			return err
		}
		key := redis.SeriesKey(p.Name, rs.synthetic.Year, rs.synthetic.Seed, p.AnnualTotal)
		if _, err := rs.generate(p, key, rs.synthetic.Seed); err != nil {
			return err
		}
		warmed[key] = true
	}
	return rs.evictStaleSeries(warmed)
}

func (rs *ReportService) evictStaleSeries(keep map[string]bool) error {
	if rs.cache == nil {
		return nil
	}
	keys, err := rs.cache.ListSeriesKeys()
	if err != nil {
		return err
	}
	evicted := 0
	for _, key := range keys {
		if keep[key] {
			continue
		}
		if err := rs.cache.DeleteSeries(key); err != nil {
			return err
		}
		evicted++
	}
	if evicted > 0 {
		log.Printf("[ReportService] Evicted %d stale series", evicted)
	}
	return nil
}

// Events loads the event collection and merges in the events embedded in
// the place analysis. The collection wins description-length ties.
func (rs *ReportService) Events(ctx context.Context) []models.EventReference {
	var loaded, embedded []models.EventReference

	collection, err := rs.source.Events(ctx)
	if err != nil {
		rs.loadFailed("events", err)
	} else {
		loaded = timeline.TransformEvents(collection.RawEvents())
	}

	analysis, err := rs.source.PlaceAnalysis(ctx)
	if err != nil {
		rs.loadFailed("place_analysis", err)
	} else {
		embedded = analysis.Events
	}

	return timeline.MergeEvents(loaded, embedded)
}

// TimelineRequest selects a timeline rendering.
type TimelineRequest struct {
	StartDate   string
	EndDate     string
	Aggregation models.Aggregation
	Levels      []int
	Bank        bool
	Visitors    bool
	Seed        int64
}

type TimelineReport struct {
	Empty          bool                       `json:"empty"`
	StartDate      string                     `json:"startDate"`
	EndDate        string                     `json:"endDate"`
	Aggregation    models.Aggregation         `json:"aggregation"`
	Levels         []int                      `json:"levels,omitempty"`
	Seed           int64                      `json:"seed,omitempty"`
	TotalEvents    int                        `json:"totalEvents"`
	TotalAttendees int                        `json:"totalAttendees"`
	Labels         []string                   `json:"labels"`
	Points         []models.TimelineDataPoint `json:"points"`
}

// Timeline buckets the merged events and overlays the requested series.
func (rs *ReportService) Timeline(ctx context.Context, req TimelineRequest) (*TimelineReport, error) {
	events := rs.Events(ctx)

	cfg := timeline.Config{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Aggregation: req.Aggregation,
		Levels:      req.Levels,
	}
	if req.Bank {
		series, err := rs.Series(ctx, SignalBank, req.Seed)
		if err != nil {
			return nil, err
		}
		cfg.Bank = synthetic.Aggregate(series, req.Aggregation)
	}
	if req.Visitors {
		series, err := rs.Series(ctx, SignalVisitors, req.Seed)
		if err != nil {
			return nil, err
		}
		cfg.Visitors = synthetic.Aggregate(series, req.Aggregation)
	}

	points, err := timeline.Build(events, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	report := &TimelineReport{
		Empty:       len(events) == 0,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Aggregation: req.Aggregation,
		Levels:      req.Levels,
		Labels:      make([]string, len(points)),
		Points:      points,
	}
	if req.Bank || req.Visitors {
		report.Seed = req.Seed
	}
	for i, p := range points {
		report.Labels[i] = timeline.FormatDate(p.Date, req.Aggregation)
		report.TotalEvents += p.EventCount
		report.TotalAttendees += p.TotalAttendees
	}
	return report, nil
}

type SeriesReport struct {
	Signal      Signal                  `json:"signal"`
	Name        string                  `json:"name"`
	Year        int                     `json:"year"`
	Seed        int64                   `json:"seed"`
	Granularity models.Aggregation      `json:"granularity"`
	Target      float64                 `json:"annualTarget"`
	Total       float64                 `json:"total"`
	Deviation   stats.Percent           `json:"deviationFromTarget"`
	Modeled     bool                    `json:"modeled"`
	Points      []models.DailyDataPoint `json:"points"`
}

// SyntheticSeries returns one modeled series at the requested granularity.
func (rs *ReportService) SyntheticSeries(ctx context.Context, signal Signal, granularity models.Aggregation, seed int64) (*SeriesReport, error) {
	p, err := rs.Profile(signal)
	if err != nil {
		return nil, err
	}
	daily, err := rs.Series(ctx, signal, seed)
	if err != nil {
		return nil, err
	}

	total := synthetic.Sum(daily)
	return &SeriesReport{
		Signal:      signal,
		Name:        p.Name,
		Year:        rs.synthetic.Year,
		Seed:        seed,
		Granularity: granularity,
		Target:      p.AnnualTotal,
		Total:       total,
		Deviation:   stats.Growth(total, p.AnnualTotal),
		Modeled:     true,
		Points:      synthetic.Aggregate(daily, granularity),
	}, nil
}

type QuarterlyReport struct {
	Empty    bool                        `json:"empty"`
	Metadata models.QuarterlyMetadata    `json:"metadata"`
	Insights stats.QuarterlyInsights     `json:"insights"`
	Data     []models.QuarterlyDataPoint `json:"data"`
}

// QuarterlyInsights analyzes the quarterly transaction series.
func (rs *ReportService) QuarterlyInsights(ctx context.Context) *QuarterlyReport {
	report := &QuarterlyReport{Data: []models.QuarterlyDataPoint{}}

	data, err := rs.source.Quarterly(ctx)
	if err != nil {
		rs.loadFailed("quarterly", err)
		report.Empty = true
	} else {
		report.Metadata = data.Metadata
		report.Data = data.Data
		report.Empty = len(stats.ValidPoints(data.Data)) == 0
	}
	report.Insights = stats.Analyze(report.Data)
	return report
}

type CategoryReport struct {
	Empty    bool                         `json:"empty"`
	Insights stats.CategoryInsights       `json:"insights"`
	Growth   []stats.CategoryGrowthResult `json:"growth"`
}

// CategoryInsights analyzes the daily tenant category breakdown.
func (rs *ReportService) CategoryInsights(ctx context.Context) *CategoryReport {
	var data models.DailyCategoryData

	loaded, err := rs.source.DailyCategories(ctx)
	if err != nil {
		rs.loadFailed("daily_categories", err)
	} else {
		data = *loaded
	}

	return &CategoryReport{
		Empty:    len(stats.SortedQuarterKeys(data)) == 0,
		Insights: stats.AnalyzeCategories(data),
		Growth:   stats.CategoryGrowth(data),
	}
}

// TopCategoryCount is the number of categories highlighted above a table.
const TopCategoryCount = 3

type ActorReport struct {
	Empty         bool                  `json:"empty"`
	Metadata      models.AktorMetadata  `json:"metadata"`
	TopCategories []aktor.CategoryCount `json:"topCategories"`
	aktor.View
}

// Actors applies the table state to the actor list of state.Area.
func (rs *ReportService) Actors(ctx context.Context, state aktor.ViewState) (*ActorReport, error) {
	if err := ValidateArea(state.Area); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	var data models.AktorData
	loaded, err := rs.source.Actors(ctx, state.Area)
	if err != nil {
		dataset := "actors"
		if state.Area != "" {
			dataset = "actors_" + state.Area
		}
		rs.loadFailed(dataset, err)
	} else {
		data = *loaded
	}

	return &ActorReport{
		Empty:         len(data.Actors) == 0,
		Metadata:      data.Metadata,
		TopCategories: aktor.TopCategories(data.CategoryStats, TopCategoryCount),
		View:          aktor.Apply(data.Actors, state),
	}, nil
}

type AreasReport struct {
	Empty    bool                        `json:"empty"`
	Metadata models.CombinedAreaMetadata `json:"metadata"`
	Areas    []aktor.AreaSummary         `json:"areas"`
}

// Areas compares the areas of the combined file, highest revenue first.
func (rs *ReportService) Areas(ctx context.Context) *AreasReport {
	var data models.CombinedAreaData

	loaded, err := rs.source.Areas(ctx)
	if err != nil {
		rs.loadFailed("areas", err)
	} else {
		data = *loaded
	}

	return &AreasReport{
		Empty:    len(data.Areas) == 0,
		Metadata: data.Metadata,
		Areas:    aktor.AreaComparison(data),
	}
}
