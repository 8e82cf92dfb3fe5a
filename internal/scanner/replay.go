package scanner

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// ReplayScanner serves samples from a YAML (or JSON) file instead of a radio.
// The file is re-read on every scan so it can be edited while running.
//
//	connection:
//	  ssid: home
//	samples:
//	  - {ssid: home, freq: 2437, signal: -48}
//	  - {ssid: cafe, frequency: 5180000, signal: -71}
type ReplayScanner struct {
	path string

	mu   sync.Mutex
	last replayFile
}

type replayFile struct {
	Connection struct {
		SSID string `yaml:"ssid"`
		IP   string `yaml:"ip"`
	} `yaml:"connection"`
	Samples []models.ScanSample `yaml:"samples"`
}

// NewReplayScanner creates a scanner reading from path
func NewReplayScanner(path string) *ReplayScanner {
	return &ReplayScanner{path: path}
}

func (s *ReplayScanner) Name() string { return BackendReplay }

func (s *ReplayScanner) load() (replayFile, error) {
	var f replayFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return f, fmt.Errorf("failed to read replay file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse replay file: %w", err)
	}
	return f, nil
}

func (s *ReplayScanner) Scan(ctx context.Context) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.last = f
	s.mu.Unlock()
	return nil
}

func (s *ReplayScanner) Results(ctx context.Context) ([]models.ScanSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ScanSample, len(s.last.Samples))
	copy(out, s.last.Samples)
	return out, nil
}

func (s *ReplayScanner) Connection(ctx context.Context) models.ConnectionInfo {
	info := models.ConnectionInfo{SSID: models.UnknownSSID, IP: models.UnavailableIP}

	f, err := s.load()
	if err != nil {
		return info
	}
	if f.Connection.SSID != "" {
		info.SSID = f.Connection.SSID
	}
	if f.Connection.IP != "" {
		info.IP = f.Connection.IP
	} else {
		info.IP = lookupIP(ctx)
	}
	return info
}
