package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"place-server/metrics"
	"place-server/server/handlers"
)

type Router struct {
	reportHandler *handlers.ReportHandler
	metrics       *metrics.Metrics
	router        *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	reportHandler *handlers.ReportHandler,
	m *metrics.Metrics,
	router *mux.Router) *Router {
	return &Router{
		reportHandler: reportHandler,
		metrics:       m,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(requestIDMiddleware, accessLogMiddleware, metricsMiddleware(r.metrics))

	r.router.HandleFunc("/ping", r.reportHandler.Ping).Methods("GET")

	// expects ?start=YYYY-MM-DD&end=YYYY-MM-DD&aggregation=day|week|month&levels=1,2&bank=true&visitors=true&seed=42
	r.router.HandleFunc("/v1/timeline", r.reportHandler.GetTimeline).Methods("GET")
	// expects ?granularity=day|week|month&seed=42
	r.router.HandleFunc("/v1/synthetic/{signal}", r.reportHandler.GetSyntheticSeries).Methods("GET")

	r.router.HandleFunc("/v1/quarterly/insights", r.reportHandler.GetQuarterlyInsights).Methods("GET")
	r.router.HandleFunc("/v1/quarterly/categories", r.reportHandler.GetCategoryInsights).Methods("GET")

	// expects ?category=&sort=rank|omsetning|yoy_vekst&dir=asc|desc&page=1&expanded=true
	r.router.HandleFunc("/v1/actors", r.reportHandler.GetActors).Methods("GET")
	r.router.HandleFunc("/v1/areas", r.reportHandler.GetAreas).Methods("GET")
	r.router.HandleFunc("/v1/areas/{area}/actors", r.reportHandler.GetActors).Methods("GET")

	r.router.HandleFunc("/charts/timeline", r.reportHandler.GetTimelineChart).Methods("GET")
	r.router.HandleFunc("/charts/quarterly", r.reportHandler.GetQuarterlyChart).Methods("GET")
	r.router.HandleFunc("/charts/categories", r.reportHandler.GetCategoryChart).Methods("GET")

	if r.metrics != nil {
		r.router.Handle("/metrics", r.metrics.Handler()).Methods("GET")
	}
}

// Handler returns the underlying mux router.
func (r *Router) Handler() http.Handler {
	return r.router
}
