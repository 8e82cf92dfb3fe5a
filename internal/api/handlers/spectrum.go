package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/internal/analyzer"
	"github.com/RMahshie/wifiscope/internal/render"
	"github.com/RMahshie/wifiscope/pkg/models"
)

// SpectrumHandler handles spectrum and scan related HTTP requests
type SpectrumHandler struct {
	svc  analyzer.AnalyzerService
	plot render.Options
}

// NewSpectrumHandler creates a new spectrum handler
func NewSpectrumHandler(svc analyzer.AnalyzerService, plot render.Options) *SpectrumHandler {
	return &SpectrumHandler{svc: svc, plot: plot}
}

// parseOptionalBand returns BandNone for empty input so the service picks the selected band
func parseOptionalBand(s string) (models.Band, error) {
	if s == "" {
		return models.BandNone, nil
	}
	band, err := models.ParseBand(s)
	if err != nil {
		return models.BandNone, huma.Error400BadRequest("Unknown band. Use 2.4GHz or 5GHz.", err)
	}
	return band, nil
}

// GetSpectrum returns the spectrum data of one band
func (h *SpectrumHandler) GetSpectrum(ctx context.Context, req *models.GetSpectrumRequest) (*models.GetSpectrumResponse, error) {
	band, err := parseOptionalBand(req.Band)
	if err != nil {
		return nil, err
	}

	spec := h.svc.Spectrum(band)
	return &models.GetSpectrumResponse{Body: spec}, nil
}

// GetPlot renders the spectrum of one band as an image
func (h *SpectrumHandler) GetPlot(ctx context.Context, req *models.GetPlotRequest) (*models.GetPlotResponse, error) {
	band, err := parseOptionalBand(req.Band)
	if err != nil {
		return nil, err
	}

	opts := h.plot
	if req.Format != "" {
		opts.Format = req.Format
	}
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}

	spec := h.svc.Spectrum(band)
	var buf bytes.Buffer
	if err := render.Plot(&buf, spec, opts); err != nil {
		log.Error().Err(err).Str("band", string(spec.Band)).Msg("Plot rendering failed")
		return nil, huma.Error500InternalServerError("Failed to render plot", err)
	}

	log.Debug().Str("band", string(spec.Band)).Int("series", len(spec.Series)).Int("bytes", buf.Len()).Msg("Plot rendered")
	return &models.GetPlotResponse{
		ContentType: render.ContentType(opts.Format),
		Body:        buf.Bytes(),
	}, nil
}

// SetBand selects the default band and re-renders from the cached scan
func (h *SpectrumHandler) SetBand(ctx context.Context, req *models.SetBandRequest) (*models.SetBandResponse, error) {
	band, err := models.ParseBand(req.Body.Band)
	if err != nil {
		return nil, huma.Error400BadRequest("Unknown band. Use 2.4GHz or 5GHz.", err)
	}

	log.Info().Str("band", string(band)).Msg("Band selected")
	h.svc.SetBand(band)

	resp := &models.SetBandResponse{}
	resp.Body.Band = band
	return resp, nil
}

// TriggerScan dispatches a manual scan
func (h *SpectrumHandler) TriggerScan(ctx context.Context, _ *struct{}) (*models.TriggerScanResponse, error) {
	id, err := h.svc.TriggerScan()
	if errors.Is(err, analyzer.ErrScanInProgress) {
		return nil, huma.Error409Conflict("A scan is already in progress", err)
	}
	if errors.Is(err, analyzer.ErrClosed) {
		return nil, huma.Error503ServiceUnavailable("Scanner is shutting down", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to start scan", err)
	}

	log.Info().Str("scanID", id).Msg("Manual scan dispatched")
	resp := &models.TriggerScanResponse{Status: http.StatusAccepted}
	resp.Body.ScanID = id
	resp.Body.Message = "Scan started"
	return resp, nil
}

// GetStatus returns the scan worker status
func (h *SpectrumHandler) GetStatus(ctx context.Context, _ *struct{}) (*models.GetStatusResponse, error) {
	return &models.GetStatusResponse{Body: h.svc.Status()}, nil
}

// SetAutoScan toggles continuous scanning
func (h *SpectrumHandler) SetAutoScan(ctx context.Context, req *models.SetAutoScanRequest) (*models.SetAutoScanResponse, error) {
	if req.Body.Enabled {
		h.svc.StartAuto()
	} else {
		h.svc.StopAuto()
	}

	resp := &models.SetAutoScanResponse{}
	resp.Body.Enabled = h.svc.Status().AutoScan
	return resp, nil
}

// GetLog returns the most recent activity log entries
func (h *SpectrumHandler) GetLog(ctx context.Context, req *models.GetLogRequest) (*models.GetLogResponse, error) {
	resp := &models.GetLogResponse{}
	resp.Body.Entries = h.svc.Log(req.Limit)
	return resp, nil
}

// GetConnection returns the current association, refreshed best-effort
func (h *SpectrumHandler) GetConnection(ctx context.Context, _ *struct{}) (*models.GetConnectionResponse, error) {
	return &models.GetConnectionResponse{Body: h.svc.Connection(ctx)}, nil
}
