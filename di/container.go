package di

import (
	"context"
	"log"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"place-server/api"
	"place-server/config"
	"place-server/dao/redis"
	"place-server/db"
	"place-server/metrics"
	"place-server/server"
	"place-server/server/handlers"
	services "place-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                 *config.Config
	Metrics                *metrics.Metrics
	RedisClient            db.RedisClient
	SeriesCacheDao         *redis.SeriesCacheDAO
	DatasetSource          services.DatasetSource
	ReportService          *services.ReportService
	SeriesRefresherService *services.SeriesRefresherService
	ReportHandler          *handlers.ReportHandler
	MuxRouter              *mux.Router
	Router                 *server.Router
	PlaceHttpServer        *server.PlaceHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) *Container {
	log.Printf("initializing container - data dir: %q, data url: %q", cfg.Data.Dir, cfg.Data.BaseURL)
	ctx := context.Background()

	m := metrics.New()

	// Series cache, in memory unless Redis is enabled and reachable
	redisClient := newRedisClient(ctx, cfg.Cache)
	seriesCacheDao := redis.NewSeriesCacheDAO(redisClient, cfg.Cache.TTL, m)

	// Dataset source, remote when a base URL is configured
	var datasetSource services.DatasetSource
	if cfg.Data.BaseURL != "" {
		log.Printf("Using remote datasets at %s", cfg.Data.BaseURL)
		datasetSource = services.NewHTTPSource(api.NewHTTPClient(cfg.Data.BaseURL, cfg.Data.Timeout))
	} else {
		log.Printf("Using local datasets in %s", cfg.Data.Dir)
		datasetSource = services.NewFileSource(cfg.Data.Dir)
	}

	reportService := services.NewReportService(datasetSource, seriesCacheDao, m, cfg.Synthetic)
	seriesRefresherService := services.NewSeriesRefresherService(
		reportService, m, cfg.Refresher.Schedule, config.SERIES_REFRESH_TIMEOUT)

	reportHandler := handlers.NewReportHandler(reportService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(reportHandler, m, muxRouter)
	placeHttpServer := server.NewPlaceHttpServer(router, cfg.Server)

	return &Container{
		Config:                 cfg,
		Metrics:                m,
		RedisClient:            redisClient,
		SeriesCacheDao:         seriesCacheDao,
		DatasetSource:          datasetSource,
		ReportService:          reportService,
		SeriesRefresherService: seriesRefresherService,
		ReportHandler:          reportHandler,
		MuxRouter:              muxRouter,
		Router:                 router,
		PlaceHttpServer:        placeHttpServer,
	}
}

func newRedisClient(ctx context.Context, cacheConfig config.CacheConfig) db.RedisClient {
	if !cacheConfig.Enabled {
		log.Println("Redis cache disabled, using in-memory series cache")
		return db.NewMemoryClient(ctx)
	}

	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cacheConfig.RedisAddr,
		Password: cacheConfig.RedisPassword,
		DB:       cacheConfig.RedisDB,
	})
	redisClient, err := db.NewGoRedisClient(ctx, redisInternalClient)
	if err != nil {
		log.Printf("Failed to connect to Redis at %s, using in-memory series cache: %v", cacheConfig.RedisAddr, err)
		redisInternalClient.Close()
		return db.NewMemoryClient(ctx)
	}
	return redisClient
}
