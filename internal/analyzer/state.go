package analyzer

import (
	"sync"
	"time"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// State is the single owner of everything the scan worker and the render
// contexts share. Each cycle replaces the samples wholesale.
type State struct {
	mu sync.RWMutex

	samples    []models.ScanSample
	band       models.Band
	connection models.ConnectionInfo

	scanning bool
	auto     bool

	lastScanID string
	lastScanAt time.Time
	lastErr    error
	failures   int
}

// NewState creates state with the given band selected
func NewState(band models.Band) *State {
	if band == models.BandNone {
		band = models.Band24
	}
	return &State{
		band:       band,
		connection: models.ConnectionInfo{SSID: models.UnknownSSID, IP: models.UnavailableIP},
	}
}

// snapshot is a consistent copy of State taken under the lock
type snapshot struct {
	samples    []models.ScanSample
	band       models.Band
	connection models.ConnectionInfo
	scanning   bool
	auto       bool
	lastScanID string
	lastScanAt time.Time
	lastErr    error
	failures   int
}

func (s *State) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		samples:    s.samples,
		band:       s.band,
		connection: s.connection,
		scanning:   s.scanning,
		auto:       s.auto,
		lastScanID: s.lastScanID,
		lastScanAt: s.lastScanAt,
		lastErr:    s.lastErr,
		failures:   s.failures,
	}
}

// tryBeginScan claims the single in-flight scan slot
func (s *State) tryBeginScan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	return true
}

func (s *State) endScan() {
	s.mu.Lock()
	s.scanning = false
	s.mu.Unlock()
}

func (s *State) recordSuccess(id string, samples []models.ScanSample, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// samples is never mutated after this point, so readers share it.
	s.samples = samples
	s.lastScanID = id
	s.lastScanAt = at
	s.lastErr = nil
	s.failures = 0
}

func (s *State) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.failures++
}

func (s *State) setBand(band models.Band) {
	s.mu.Lock()
	s.band = band
	s.mu.Unlock()
}

func (s *State) setAuto(on bool) {
	s.mu.Lock()
	s.auto = on
	s.mu.Unlock()
}

func (s *State) setConnection(info models.ConnectionInfo) {
	s.mu.Lock()
	s.connection = info
	s.mu.Unlock()
}
