package route

import (
	"net/http"

	"poachwatch/internal/config"
	"poachwatch/internal/handler"
	"poachwatch/internal/logger"
	"poachwatch/internal/middleware"
)

// SetupRoutes registers the scan form, API endpoints, log views and auth
// endpoints, and wraps the mux with the authentication middleware.
func SetupRoutes(runner handler.Runner, viewers handler.ViewerRegistry, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Scan form
	mux.HandleFunc("/", handler.IndexHandler(runner, logger))

	// API endpoints
	mux.HandleFunc("/api/scan", handler.ScanAPIHandler(runner, logger))
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(viewers, logger))

	// Log endpoints
	for _, level := range handler.LogLevels {
		mux.HandleFunc("/logs/"+level, handler.ShowLogsHandler(cfg, level))
		mux.HandleFunc("/logs/"+level+"/clear", handler.ClearLogsHandler(logger, level))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	return middleware.AuthMiddleware(cfg.Password, mux)
}
