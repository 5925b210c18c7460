package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"place-server/config"
)

type PlaceHttpServer struct {
	router          *Router
	addr            string
	shutdownTimeout time.Duration
}

func NewPlaceHttpServer(router *Router, serverConfig config.ServerConfig) *PlaceHttpServer {
	addr := serverConfig.ListenAddr
	if addr == "" {
		addr = config.DEFAULT_LISTEN_ADDR
	}
	timeout := serverConfig.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DEFAULT_SHUTDOWN_TIMEOUT
	}
	return &PlaceHttpServer{
		router:          router,
		addr:            addr,
		shutdownTimeout: timeout,
	}
}

// Start serves until SIGINT or SIGTERM and then shuts down gracefully.
func (s *PlaceHttpServer) Start() error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt or termination signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[PlaceHttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	log.Println("[PlaceHttpServer] Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("[PlaceHttpServer] Server exiting")
	return nil
}
