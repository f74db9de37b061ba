package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"poachwatch/internal/config"
	"poachwatch/internal/logger"
)

// LogLevels are the per-level files written by the logger, viewable under /logs/<level>.
var LogLevels = []string{"info", "warning", "error"}

func logFileName(level string) string {
	return level + ".log"
}

// ShowLogsHandler serves one level's log file as plain text.
func ShowLogsHandler(cfg *config.Config, level string) http.HandlerFunc {
	filename := logFileName(level)
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(cfg.LogDirectory, filename)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Log file not found: "+filename, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

// ClearLogsHandler truncates one level's log file. Only POST is accepted.
func ClearLogsHandler(logger *logger.Logger, level string) http.HandlerFunc {
	filename := logFileName(level)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := logger.CleanLogs(filename); err != nil {
			logger.Error("Error clearing %s: %v", filename, err)
			http.Error(w, "Failed to clear "+filename, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
