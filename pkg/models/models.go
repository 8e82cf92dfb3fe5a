package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// GetSpectrumRequest represents a request for the spectrum of one band
type GetSpectrumRequest struct {
	Band string `query:"band" doc:"Band to render (2.4GHz or 5GHz), defaults to the selected band"`
}

// GetSpectrumResponse carries the spectrum data
type GetSpectrumResponse struct {
	Body *Spectrum
}

// GetPlotRequest represents a request for a rendered spectrum plot
type GetPlotRequest struct {
	Band   string `query:"band" doc:"Band to render, defaults to the selected band"`
	Format string `query:"format" enum:"png,svg" default:"png" doc:"Image format"`
	Width  int    `query:"width" minimum:"0" maximum:"4096" doc:"Image width in pixels, 0 uses the configured default"`
	Height int    `query:"height" minimum:"0" maximum:"4096" doc:"Image height in pixels, 0 uses the configured default"`
}

// GetPlotResponse carries the rendered image
type GetPlotResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// SetBandRequest selects the band used by default
type SetBandRequest struct {
	Body struct {
		Band string `json:"band" required:"true" doc:"Band to select (2.4GHz or 5GHz)"`
	}
}

// SetBandResponse echoes the selected band
type SetBandResponse struct {
	Body struct {
		Band Band `json:"band" doc:"Selected band"`
	}
}

// TriggerScanResponse represents the response from starting a manual scan
type TriggerScanResponse struct {
	Status int `json:"-"`
	Body   struct {
		ScanID  string `json:"scan_id" doc:"Identifier of the dispatched scan"`
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetStatusResponse carries the worker status
type GetStatusResponse struct {
	Body ScanStatus
}

// SetAutoScanRequest toggles continuous mode
type SetAutoScanRequest struct {
	Body struct {
		Enabled bool `json:"enabled" doc:"Whether continuous scanning should run"`
	}
}

// SetAutoScanResponse reports the continuous mode state
type SetAutoScanResponse struct {
	Body struct {
		Enabled bool `json:"enabled" doc:"Whether continuous scanning is running"`
	}
}

// GetLogRequest represents a request for activity log entries
type GetLogRequest struct {
	Limit int `query:"limit" minimum:"0" maximum:"1000" default:"100" doc:"Maximum number of most recent entries"`
}

// GetLogResponse carries activity log entries, oldest first
type GetLogResponse struct {
	Body struct {
		Entries []LogEntry `json:"entries" doc:"Log entries, oldest first"`
	}
}

// GetConnectionResponse carries the current connection info
type GetConnectionResponse struct {
	Body ConnectionInfo
}
