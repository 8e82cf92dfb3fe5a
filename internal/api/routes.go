package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/wifiscope/internal/analyzer"
	"github.com/RMahshie/wifiscope/internal/api/handlers"
	"github.com/RMahshie/wifiscope/internal/render"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *chi.Mux, api huma.API, svc analyzer.AnalyzerService, plot render.Options, allowedOrigins []string) {
	// Initialize handlers
	spectrumHandler := handlers.NewSpectrumHandler(svc, plot)
	streamHandler := handlers.NewStreamHandler(svc, allowedOrigins)

	// Register spectrum routes
	huma.Register(api, huma.Operation{
		OperationID: "getSpectrum",
		Method:      http.MethodGet,
		Path:        "/api/spectrum",
		Summary:     "Get spectrum data",
		Description: "Returns the classified networks and their curves for one band",
		Tags:        []string{"Spectrum"},
	}, spectrumHandler.GetSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "getSpectrumPlot",
		Method:      http.MethodGet,
		Path:        "/api/spectrum/plot",
		Summary:     "Render spectrum plot",
		Description: "Renders the spectrum of one band as a PNG or SVG image",
		Tags:        []string{"Spectrum"},
	}, spectrumHandler.GetPlot)

	huma.Register(api, huma.Operation{
		OperationID: "setBand",
		Method:      http.MethodPut,
		Path:        "/api/band",
		Summary:     "Select band",
		Description: "Selects the displayed band and re-renders from the cached scan",
		Tags:        []string{"Spectrum"},
	}, spectrumHandler.SetBand)

	// Register scan routes
	huma.Register(api, huma.Operation{
		OperationID:   "triggerScan",
		Method:        http.MethodPost,
		Path:          "/api/scans",
		Summary:       "Trigger a scan",
		Description:   "Starts one scan in the background. Fails with 409 while another scan is running and 503 during shutdown. On the netsh backend the radio is not rescanned; the scan re-reads the network list Windows refreshes in the background.",
		Tags:          []string{"Scan"},
		DefaultStatus: http.StatusAccepted,
	}, spectrumHandler.TriggerScan)

	huma.Register(api, huma.Operation{
		OperationID: "getScanStatus",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Get scan status",
		Description: "Returns the scan worker state and the outcome of the last cycle",
		Tags:        []string{"Scan"},
	}, spectrumHandler.GetStatus)

	huma.Register(api, huma.Operation{
		OperationID: "setAutoScan",
		Method:      http.MethodPut,
		Path:        "/api/auto-scan",
		Summary:     "Toggle continuous scanning",
		Description: "Starts or stops the continuous scan loop",
		Tags:        []string{"Scan"},
	}, spectrumHandler.SetAutoScan)

	huma.Register(api, huma.Operation{
		OperationID: "getActivityLog",
		Method:      http.MethodGet,
		Path:        "/api/log",
		Summary:     "Get activity log",
		Description: "Returns the most recent activity log entries, oldest first",
		Tags:        []string{"Scan"},
	}, spectrumHandler.GetLog)

	huma.Register(api, huma.Operation{
		OperationID: "getConnection",
		Method:      http.MethodGet,
		Path:        "/api/connection",
		Summary:     "Get connection info",
		Description: "Returns the connected SSID and local IP address",
		Tags:        []string{"Connection"},
	}, spectrumHandler.GetConnection)

	// Websocket push stream sits outside the OpenAPI surface
	router.Handle("/ws/spectrum", streamHandler)
}
