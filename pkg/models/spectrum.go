package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Band identifies a Wi-Fi frequency band
type Band string

const (
	BandNone Band = ""
	Band24   Band = "2.4GHz"
	Band5    Band = "5GHz"
)

// NoiseFloorDBm is the baseline used for absent signals and synthesized curves
const NoiseFloorDBm = -100

// ParseBand converts user input into a Band
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2.4ghz", "2.4", "2g", "2.4g":
		return Band24, nil
	case "5ghz", "5", "5g":
		return Band5, nil
	}
	return BandNone, fmt.Errorf("unknown band %q", s)
}

// ScanSample is one raw record returned by the wireless subsystem.
// Backends disagree on the frequency field name, so both are accepted.
type ScanSample struct {
	SSID      string   `json:"ssid" yaml:"ssid"`
	BSSID     string   `json:"bssid,omitempty" yaml:"bssid,omitempty"`
	Freq      *float64 `json:"freq,omitempty" yaml:"freq,omitempty"`
	Frequency *float64 `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Signal    *int     `json:"signal,omitempty" yaml:"signal,omitempty"`
}

// FrequencyValue returns Freq when set and non-zero, falling back to Frequency
func (s ScanSample) FrequencyValue() *float64 {
	if s.Freq != nil && *s.Freq != 0 {
		return s.Freq
	}
	return s.Frequency
}

// SignalDBm returns the signal strength, or the noise floor when absent
func (s ScanSample) SignalDBm() int {
	if s.Signal == nil {
		return NoiseFloorDBm
	}
	return *s.Signal
}

// ClassifiedEntry is a scan sample resolved to a channel and band
type ClassifiedEntry struct {
	SSID    string `json:"ssid" doc:"Network name"`
	Channel int    `json:"channel" doc:"Channel number"`
	Band    Band   `json:"band" doc:"Frequency band"`
	Signal  int    `json:"signal" doc:"Signal strength in dBm"`
}

// Dataset is the deduplicated, band-filtered result of one scan
type Dataset []ClassifiedEntry

// SortedBySignal returns a copy ordered weakest first. Equal signals keep
// their insertion order.
func (d Dataset) SortedBySignal() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Signal < out[j].Signal })
	return out
}

// CurvePoint is a single sample of a synthesized spectrum curve
type CurvePoint struct {
	X float64 `json:"x" doc:"Channel axis position"`
	Y float64 `json:"y" doc:"Signal level in dBm"`
}

// SpectrumSeries is one network as drawn on the spectrum plot
type SpectrumSeries struct {
	ClassifiedEntry
	Index     int          `json:"index" doc:"Insertion index, used for palette selection"`
	Connected bool         `json:"connected" doc:"Whether this is the currently associated network"`
	Points    []CurvePoint `json:"points" doc:"Synthesized curve"`
}

// Spectrum is everything a render context needs to draw one band
type Spectrum struct {
	Band          Band             `json:"band" doc:"Frequency band"`
	AxisMin       float64          `json:"axis_min" doc:"First channel axis position"`
	AxisMax       float64          `json:"axis_max" doc:"Last channel axis position"`
	Ticks         []int            `json:"ticks" doc:"Channel tick marks"`
	NoiseFloor    float64          `json:"noise_floor" doc:"Curve baseline in dBm"`
	ConnectedSSID string           `json:"connected_ssid,omitempty" doc:"Currently associated SSID"`
	Series        []SpectrumSeries `json:"series" doc:"Networks ordered weakest first"`
	ScanID        string           `json:"scan_id,omitempty" doc:"Identifier of the scan the data came from"`
	ScannedAt     *time.Time       `json:"scanned_at,omitempty" doc:"When the scan completed"`
}

// ConnectionInfo describes the current association. Lookups are best-effort.
type ConnectionInfo struct {
	SSID string `json:"ssid" doc:"Associated SSID"`
	IP   string `json:"ip" doc:"Local IP address"`
}

const (
	UnknownSSID   = "unknown"
	UnavailableIP = "unavailable"
)

// Connected reports whether the SSID is a real value rather than a placeholder
func (c ConnectionInfo) Connected() bool {
	ssid := strings.TrimSpace(c.SSID)
	return ssid != "" && ssid != UnknownSSID
}

// LogEntry is one line of the activity log
type LogEntry struct {
	ID      string    `json:"id" doc:"Entry identifier"`
	Time    time.Time `json:"time" doc:"When the entry was recorded"`
	Level   string    `json:"level" enum:"info,warn,error" doc:"Severity"`
	Message string    `json:"message" doc:"Human-readable message"`
}

// ScanStatus summarizes the scan worker
type ScanStatus struct {
	Scanning            bool       `json:"scanning" doc:"Whether a scan is in flight"`
	AutoScan            bool       `json:"auto_scan" doc:"Whether continuous mode is active"`
	Band                Band       `json:"band" doc:"Selected band"`
	Backend             string     `json:"backend" doc:"Scanner backend name"`
	LastScanID          string     `json:"last_scan_id,omitempty" doc:"Identifier of the last successful scan"`
	LastScanAt          *time.Time `json:"last_scan_at,omitempty" doc:"When the last successful scan completed"`
	LastError           string     `json:"last_error,omitempty" doc:"Error from the last failed scan"`
	SampleCount         int        `json:"sample_count" doc:"Raw samples held from the last scan"`
	ConsecutiveFailures int        `json:"consecutive_failures" doc:"Failed scans since the last success"`
}

// ScanEvent is handed from the scan worker to render contexts
type ScanEvent struct {
	ScanID string
	Band   Band
	Err    error
	At     time.Time
}
