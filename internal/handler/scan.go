package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
)

// Runner executes one pipeline run over a folder.
type Runner interface {
	Run(ctx context.Context, folder string) dto.RunOutcome
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Poaching Detection</title>
</head>
<body>
	<h1>Poaching Detection</h1>
	<form method="post" action="/">
		<label for="folder_path">Folder path</label>
		<input type="text" id="folder_path" name="folder_path" value="{{.Folder}}" required>
		<button type="submit">Scan</button>
	</form>
	{{with .Outcome}}
	<p class="{{.Status}}">{{.Message}}</p>
	{{if .Counters.Scored}}<p>{{.Counters.Detected}} of {{.Counters.Scored}} image(s) contain people.</p>{{end}}
	{{end}}
</body>
</html>
`))

type indexPage struct {
	Folder  string
	Outcome *dto.RunOutcome
}

// IndexHandler serves the scan form on GET and runs a scan for the posted
// folder_path on POST, rendering the outcome message below the form.
func IndexHandler(runner Runner, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		page := indexPage{}
		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			page.Folder = strings.TrimSpace(r.FormValue("folder_path"))
			if page.Folder == "" {
				http.Error(w, "folder_path is required", http.StatusBadRequest)
				return
			}
			outcome := runner.Run(r.Context(), page.Folder)
			page.Outcome = &outcome
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			logger.Error("Error rendering index page: %v", err)
		}
	}
}

type scanRequest struct {
	FolderPath string `json:"folder_path"`
}

// ScanAPIHandler handles POST /api/scan with either a JSON body or a form
// field and answers with the RunOutcome as JSON.
func ScanAPIHandler(runner Runner, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req scanRequest
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON body", http.StatusBadRequest)
				return
			}
		} else {
			req.FolderPath = r.FormValue("folder_path")
		}
		req.FolderPath = strings.TrimSpace(req.FolderPath)
		if req.FolderPath == "" {
			http.Error(w, "folder_path is required", http.StatusBadRequest)
			return
		}

		outcome := runner.Run(r.Context(), req.FolderPath)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode(outcome.Status))
		if err := json.NewEncoder(w).Encode(outcome); err != nil {
			logger.Error("Error encoding scan outcome: %v", err)
		}
	}
}

func statusCode(status dto.RunStatus) int {
	switch status {
	case dto.StatusFolderNotFound:
		return http.StatusNotFound
	case dto.StatusModelLoadFailed:
		return http.StatusInternalServerError
	case dto.StatusCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}
