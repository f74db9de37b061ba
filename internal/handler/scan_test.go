package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poachwatch/internal/config"
	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
)

type stubRunner struct {
	outcome dto.RunOutcome
	folders []string
}

func (r *stubRunner) Run(_ context.Context, folder string) dto.RunOutcome {
	r.folders = append(r.folders, folder)
	return r.outcome
}

func newTestLogger(t *testing.T) (*logger.Logger, *config.Config) {
	t.Helper()
	cfg := &config.Config{LogDirectory: t.TempDir(), Password: "secret"}
	l, err := logger.NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, cfg
}

func TestIndexHandler_GetRendersForm(t *testing.T) {
	log, _ := newTestLogger(t)
	runner := &stubRunner{}

	rec := httptest.NewRecorder()
	IndexHandler(runner, log)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="folder_path"`)
	assert.Empty(t, runner.folders)
}

func TestIndexHandler_PostRendersOutcome(t *testing.T) {
	log, _ := newTestLogger(t)
	runner := &stubRunner{outcome: dto.RunOutcome{
		Status:   dto.StatusSuccess,
		Message:  "Poaching is not present and animals are safe",
		Counters: dto.RunCounters{Scored: 10, Detected: 1},
	}}

	form := url.Values{"folder_path": {" /data/trailcam "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	IndexHandler(runner, log)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/data/trailcam"}, runner.folders)
	assert.Contains(t, rec.Body.String(), "Poaching is not present and animals are safe")
	assert.Contains(t, rec.Body.String(), "1 of 10 image(s)")
}

func TestIndexHandler_UnknownPath(t *testing.T) {
	log, _ := newTestLogger(t)
	rec := httptest.NewRecorder()
	IndexHandler(&stubRunner{}, log)(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanAPIHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		status dto.RunStatus
		code   int
	}{
		{dto.StatusSuccess, http.StatusOK},
		{dto.StatusFolderNotFound, http.StatusNotFound},
		{dto.StatusModelLoadFailed, http.StatusInternalServerError},
		{dto.StatusCancelled, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			log, _ := newTestLogger(t)
			runner := &stubRunner{outcome: dto.RunOutcome{RunID: "r1", Status: tt.status, Message: "m"}}

			req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"folder_path":"/data/cam"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			ScanAPIHandler(runner, log)(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			var got dto.RunOutcome
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, runner.outcome, got)
			assert.Equal(t, []string{"/data/cam"}, runner.folders)
		})
	}
}

func TestScanAPIHandler_RejectsBadRequests(t *testing.T) {
	log, _ := newTestLogger(t)
	runner := &stubRunner{}

	cases := map[string]*http.Request{
		"wrong method": httptest.NewRequest(http.MethodGet, "/api/scan", nil),
		"bad json": func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"folder_path":`))
			r.Header.Set("Content-Type", "application/json")
			return r
		}(),
		"missing folder": func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{}`))
			r.Header.Set("Content-Type", "application/json")
			return r
		}(),
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ScanAPIHandler(runner, log)(rec, req)
			assert.GreaterOrEqual(t, rec.Code, 400)
		})
	}
	assert.Empty(t, runner.folders)
}

func TestLoginHandler(t *testing.T) {
	log, cfg := newTestLogger(t)

	post := func(password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(url.Values{"password": {password}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		LoginHandler(cfg, log)(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, post("wrong").Code)

	rec := post("secret")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "authenticated", cookies[0].Name)
	assert.Equal(t, "true", cookies[0].Value)
}

func TestLogHandlers(t *testing.T) {
	log, cfg := newTestLogger(t)
	log.Warning("Error loading image: b.jpg")

	rec := httptest.NewRecorder()
	ShowLogsHandler(cfg, "warning")(rec, httptest.NewRequest(http.MethodGet, "/logs/warning", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "b.jpg")

	rec = httptest.NewRecorder()
	ClearLogsHandler(log, "warning")(rec, httptest.NewRequest(http.MethodGet, "/logs/warning/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	ClearLogsHandler(log, "warning")(rec, httptest.NewRequest(http.MethodPost, "/logs/warning/clear", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	data, err := os.ReadFile(filepath.Join(cfg.LogDirectory, "warning.log"))
	require.NoError(t, err)
	assert.Empty(t, data)

	rec = httptest.NewRecorder()
	ShowLogsHandler(&config.Config{LogDirectory: t.TempDir()}, "info")(rec, httptest.NewRequest(http.MethodGet, "/logs/info", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
