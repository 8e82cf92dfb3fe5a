package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/wifiscope/internal/activity"
	"github.com/RMahshie/wifiscope/internal/analyzer"
	"github.com/RMahshie/wifiscope/internal/render"
	"github.com/RMahshie/wifiscope/internal/scanner"
	"github.com/RMahshie/wifiscope/pkg/models"
)

func newTestServer(t *testing.T) (http.Handler, analyzer.AnalyzerService) {
	t.Helper()

	backend, err := scanner.New(scanner.Options{Backend: scanner.BackendReplay, ReplayFile: "testdata/replay.yaml"})
	require.NoError(t, err)

	svc := analyzer.NewAnalyzerService(backend.Scanner, backend.Connection, activity.NewLog(50), analyzer.Options{
		Band:        models.Band24,
		AxisSamples: 41,
	})
	t.Cleanup(svc.Close)

	router := chi.NewRouter()
	humaAPI := humachi.New(router, huma.DefaultConfig("Wifiscope API", "1.0.0"))
	RegisterRoutes(router, humaAPI, svc, render.Options{Width: 320, Height: 200}, nil)
	return router, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_SpectrumAfterScan(t *testing.T) {
	h, svc := newTestServer(t)

	_, err := svc.ScanOnce(context.Background())
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/spectrum", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var spec models.Spectrum
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, models.Band24, spec.Band)
	assert.Equal(t, "home", spec.ConnectedSSID)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "neighbor", spec.Series[0].SSID)
	assert.Equal(t, "home", spec.Series[1].SSID)
	assert.Equal(t, -48, spec.Series[1].Signal, "first sample of a duplicate wins")
	assert.True(t, spec.Series[1].Connected)
	assert.Len(t, spec.Series[1].Points, 41)

	rec = do(t, h, http.MethodGet, "/api/spectrum?band=5GHz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	require.Len(t, spec.Series, 2)
	assert.Equal(t, 36, spec.Series[0].Channel)
	assert.Equal(t, 149, spec.Series[1].Channel)
}

func TestRoutes_Plot(t *testing.T) {
	h, svc := newTestServer(t)
	_, err := svc.ScanOnce(context.Background())
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/spectrum/plot?format=svg", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "neighbor")

	rec = do(t, h, http.MethodGet, "/api/spectrum/plot?format=gif", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRoutes_BandAndScanControls(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/band", `{"band":"5g"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"5GHz"`)

	rec = do(t, h, http.MethodPut, "/api/band", `{"band":"60GHz"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/scans", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "scan_id")

	rec = do(t, h, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status models.ScanStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, models.Band5, status.Band)
	assert.Equal(t, scanner.BackendReplay, status.Backend)

	rec = do(t, h, http.MethodGet, "/api/connection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "192.168.1.23")

	rec = do(t, h, http.MethodGet, "/api/log?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "entries")
}

func TestRoutes_AutoScanToggle(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/auto-scan", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"enabled":true`)

	rec = do(t, h, http.MethodPut, "/api/auto-scan", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":false`)
}

func TestRoutes_TriggerScanDocumentsCachedResults(t *testing.T) {
	backend, err := scanner.New(scanner.Options{Backend: scanner.BackendReplay, ReplayFile: "testdata/replay.yaml"})
	require.NoError(t, err)
	svc := analyzer.NewAnalyzerService(backend.Scanner, backend.Connection, activity.NewLog(10), analyzer.Options{})
	t.Cleanup(svc.Close)

	router := chi.NewRouter()
	humaAPI := humachi.New(router, huma.DefaultConfig("Wifiscope API", "1.0.0"))
	RegisterRoutes(router, humaAPI, svc, render.Options{}, nil)

	op := humaAPI.OpenAPI().Paths["/api/scans"].Post
	require.NotNil(t, op)
	assert.Contains(t, op.Description, "netsh backend the radio is not rescanned")
	assert.Contains(t, op.Description, "503")
}

func TestRoutes_TriggerScanAfterClose(t *testing.T) {
	h, svc := newTestServer(t)
	svc.Close()

	rec := do(t, h, http.MethodPost, "/api/scans", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
