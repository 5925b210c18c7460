package main

import (
	"log"

	"place-server/config"
	"place-server/di"
)

func main() {
	cfg, err := config.Load(config.GetResourcePath(config.CONFIG_RESOURCE))
	if err != nil {
		log.Fatalf("[MAIN] Failed to load config: %v", err)
	}

	container := di.NewContainer(cfg)

	if cfg.Refresher.Enabled {
		log.Println("[MAIN] Starting series refresher")
		if err := container.SeriesRefresherService.Start(); err != nil {
			log.Fatalf("[MAIN] Failed to start series refresher: %v", err)
		}
		defer container.SeriesRefresherService.Stop()
	}

	if err := container.PlaceHttpServer.Start(); err != nil {
		log.Printf("[MAIN] Server stopped with error: %v", err)
	}
}
