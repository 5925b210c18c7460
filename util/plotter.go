package util

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"place-server/models"
	"place-server/stats"
	"place-server/timeline"
)

const (
	chartWidth  = "1100px"
	chartHeight = "520px"
)

func globalOpts(pageTitle, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: pageTitle,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	}
}

// nullable maps undefined values to nil so the chart leaves a gap.
func nullable(v float64, valid bool) interface{} {
	if !valid || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return math.Round(v*10) / 10
}

var markerTypes = []models.EventType{
	models.EventCultural,
	models.EventCommercial,
	models.EventSocial,
	models.EventInfrastructure,
	models.EventPolicy,
}

var markerNames = map[models.EventType]string{
	models.EventCultural:       "Kultur",
	models.EventCommercial:     "Handel",
	models.EventSocial:         "Sosialt",
	models.EventInfrastructure: "Infrastruktur",
	models.EventPolicy:         "Politikk",
}

// eventMarkers places one marker per event type and bucket on top of the
// bar, sized by the largest event of that type in the bucket.
func eventMarkers(points []models.TimelineDataPoint) map[models.EventType][]opts.ScatterData {
	markers := make(map[models.EventType][]opts.ScatterData)
	for i, p := range points {
		largest := make(map[models.EventType]int)
		for _, e := range p.Events {
			if level, ok := largest[e.Type]; !ok || (e.HierarchyLevel > 0 && e.HierarchyLevel < level) {
				largest[e.Type] = e.HierarchyLevel
			}
		}
		for t, level := range largest {
			if _, ok := markers[t]; !ok {
				markers[t] = make([]opts.ScatterData, len(points))
				for j := range points {
					markers[t][j] = opts.ScatterData{Name: points[j].Date}
				}
			}
			markers[t][i] = opts.ScatterData{
				Name:       p.Date,
				Value:      p.EventCount,
				Symbol:     "circle",
				SymbolSize: timeline.EventSize(level),
			}
		}
	}
	return markers
}

// RenderTimelineChart renders event counts as bars with markers colored by
// event type and the overlay series as lines on a second axis.
func RenderTimelineChart(w io.Writer, title string, points []models.TimelineDataPoint, agg models.Aggregation) error {
	labels := make([]string, len(points))
	counts := make([]opts.BarData, len(points))
	bank := make([]opts.LineData, len(points))
	visitors := make([]opts.LineData, len(points))
	var hasBank, hasVisitors bool

	for i, p := range points {
		labels[i] = timeline.FormatDate(p.Date, agg)
		counts[i] = opts.BarData{Name: p.Date, Value: p.EventCount}
		bank[i] = opts.LineData{Name: p.Date, Value: p.Banktransaksjoner}
		visitors[i] = opts.LineData{Name: p.Date, Value: p.Besokende}
		hasBank = hasBank || p.Banktransaksjoner != 0
		hasVisitors = hasVisitors || p.Besokende != 0
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts("Tidslinje", title, fmt.Sprintf("%d perioder", len(points)))...)
	bar.ExtendYAxis(opts.YAxis{Name: "Nivå"})
	bar.SetXAxis(labels).AddSeries("Arrangementer", counts)

	if markers := eventMarkers(points); len(markers) > 0 {
		scatter := charts.NewScatter()
		scatter.SetXAxis(labels)
		for _, t := range markerTypes {
			data, ok := markers[t]
			if !ok {
				continue
			}
			scatter.AddSeries(markerNames[t], data, charts.WithItemStyleOpts(opts.ItemStyle{Color: timeline.EventColor(t)}))
		}
		bar.Overlap(scatter)
	}

	if hasBank || hasVisitors {
		line := charts.NewLine()
		line.SetXAxis(labels)
		if hasBank {
			line.AddSeries("Banktransaksjoner", bank, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
		}
		if hasVisitors {
			line.AddSeries("Besøkende", visitors, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
		}
		bar.Overlap(line)
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render timeline chart: %w", err)
	}
	return nil
}

// RenderQuarterlyChart renders quarterly amounts as bars and year-over-year
// growth as a line on a second axis.
func RenderQuarterlyChart(w io.Writer, title string, points []models.QuarterlyDataPoint) error {
	ordered := stats.Chronological(points)
	yoy := make(map[[2]int]stats.Percent, len(ordered))
	for _, g := range stats.YearOverYear(ordered) {
		yoy[[2]int{g.Year, g.Quarter}] = g.Growth
	}

	labels := make([]string, len(ordered))
	amounts := make([]opts.BarData, len(ordered))
	growth := make([]opts.LineData, len(ordered))
	values := make([]float64, len(ordered))
	var latest stats.Percent
	for i, p := range ordered {
		values[i] = p.Amount
		labels[i] = p.QuarterLabel
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
		}
		amounts[i] = opts.BarData{Name: labels[i], Value: p.Amount}
		g := yoy[[2]int{p.Year, p.Quarter}]
		growth[i] = opts.LineData{Name: labels[i], Value: nullable(g.Value, g.Valid)}
		latest = g
	}

	subtitle := fmt.Sprintf("%s totalt, snitt %s per kvartal, siste vekst fra i fjor %s",
		stats.FormatCurrency(sumAmounts(ordered)), stats.Mean(values).Format(), latest.Format())

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts("Kvartalsrapport", title, subtitle)...)
	bar.ExtendYAxis(opts.YAxis{Name: "Vekst %"})
	bar.SetXAxis(labels).AddSeries("Omsetning", amounts)

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries("Vekst fra i fjor", growth, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	bar.Overlap(line)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render quarterly chart: %w", err)
	}
	return nil
}

// RenderCategoryChart compares growth and volatility per tenant category.
func RenderCategoryChart(w io.Writer, title string, growth []stats.CategoryGrowthResult, volatility []stats.CategoryVolatilityResult) error {
	labels := make([]string, len(growth))
	growthData := make([]opts.BarData, len(growth))
	summary := make([]string, len(growth))
	for i, g := range growth {
		labels[i] = g.Label
		growthData[i] = opts.BarData{Name: g.Label, Value: nullable(g.Growth.Value, g.Growth.Valid)}
		summary[i] = g.Label + " " + g.Growth.Format()
	}

	volByCategory := make(map[stats.Category]stats.Percent, len(volatility))
	for _, v := range volatility {
		volByCategory[v.Category] = v.Volatility
	}
	volData := make([]opts.BarData, len(growth))
	for i, g := range growth {
		v := volByCategory[g.Category]
		volData[i] = opts.BarData{Name: g.Label, Value: nullable(v.Value, v.Valid)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts("Kategorier", title, "Vekst: "+strings.Join(summary, ", "))...)
	bar.SetXAxis(labels).
		AddSeries("Vekst %", growthData).
		AddSeries("Volatilitet (CV) %", volData)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render category chart: %w", err)
	}
	return nil
}

func sumAmounts(points []models.QuarterlyDataPoint) float64 {
	var total float64
	for _, p := range points {
		total += p.Amount
	}
	return total
}
