package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"poachwatch/internal/config"
	"poachwatch/internal/logger"
	"poachwatch/internal/route"
	"poachwatch/internal/service/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	hubService *websocket.HubService
	pipeline   *Pipeline
}

func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	hub := websocket.NewHubService(log)
	pipeline := NewPipeline(cfg, log, PipelineOptions{Publisher: hub})

	return &App{
		config:     cfg,
		logger:     log,
		hubService: hub,
		pipeline:   pipeline,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.logger.Close()
	defer a.pipeline.Close()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hubService.Run(hubCtx)

	router := route.SetupRoutes(a.pipeline.Manager, a.hubService, a.config, a.logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	fmt.Printf("🚀 Poaching Detection Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	if a.config.Password != "" {
		fmt.Printf("🔑 Login required\n")
	}
	fmt.Printf("🤖 Models: %d candidate(s) in %s\n", len(a.config.ModelCandidates), a.config.ModelDirectory)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
