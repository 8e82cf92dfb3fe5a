// Package analyzer runs the scan-and-render cycle: one in-flight scan at a
// time, an optional continuous loop, and a handoff of results to whoever is
// drawing them.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/internal/activity"
	"github.com/RMahshie/wifiscope/internal/scanner"
	"github.com/RMahshie/wifiscope/internal/spectrum"
	"github.com/RMahshie/wifiscope/pkg/models"
)

// ErrScanInProgress is returned when a scan is requested while one is running
var ErrScanInProgress = errors.New("scan already in progress")

// ErrClosed is returned for work requested after Close
var ErrClosed = errors.New("analyzer closed")

type AnalyzerService interface {
	// TriggerScan dispatches one scan in the background and returns its id
	TriggerScan() (string, error)
	// ScanOnce runs one scan and blocks until it completes
	ScanOnce(ctx context.Context) (string, error)
	StartAuto() bool
	StopAuto() bool
	SetBand(band models.Band)
	Spectrum(band models.Band) *models.Spectrum
	Status() models.ScanStatus
	Log(limit int) []models.LogEntry
	Connection(ctx context.Context) models.ConnectionInfo
	Subscribe() (<-chan models.ScanEvent, func())
	Close()
}

// Options tunes the scan cycle
type Options struct {
	Band          models.Band
	PostScanDelay time.Duration
	Pacing        time.Duration
	MaxBackoff    time.Duration
	AxisSamples   int
}

func (o *Options) setDefaults() {
	if o.Band == models.BandNone {
		o.Band = models.Band24
	}
	if o.PostScanDelay < 0 {
		o.PostScanDelay = 0
	}
	if o.Pacing <= 0 {
		o.Pacing = 100 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 30 * time.Second
	}
	if o.AxisSamples <= 0 {
		o.AxisSamples = spectrum.DefaultAxisSamples
	}
}

type analyzerService struct {
	scanner    scanner.Scanner
	connection scanner.ConnectionProvider
	activity   *activity.Log
	state      *State
	hub        *hub
	opts       Options

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closeMu sync.Mutex
	closed  bool

	autoMu     sync.Mutex
	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

func NewAnalyzerService(sc scanner.Scanner, conn scanner.ConnectionProvider, activityLog *activity.Log, opts Options) AnalyzerService {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &analyzerService{
		scanner:    sc,
		connection: conn,
		activity:   activityLog,
		state:      NewState(opts.Band),
		hub:        newHub(),
		opts:       opts,
		baseCtx:    ctx,
		cancel:     cancel,
	}
	s.activity.Infof("initialized scanner backend: %s", sc.Name())
	return s
}

// track registers background work with Close. It fails once Close has begun.
func (s *analyzerService) track() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *analyzerService) TriggerScan() (string, error) {
	if !s.track() {
		return "", ErrClosed
	}
	if !s.state.tryBeginScan() {
		s.wg.Done()
		return "", ErrScanInProgress
	}

	id := uuid.New().String()
	go func() {
		defer s.wg.Done()
		defer s.state.endScan()
		_ = s.runScan(s.baseCtx, id)
	}()
	return id, nil
}

func (s *analyzerService) ScanOnce(ctx context.Context) (string, error) {
	if !s.track() {
		return "", ErrClosed
	}
	defer s.wg.Done()
	if !s.state.tryBeginScan() {
		return "", ErrScanInProgress
	}
	defer s.state.endScan()

	id := uuid.New().String()
	if err := s.runScan(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// runScan performs one cycle. The caller must hold the scan slot.
func (s *analyzerService) runScan(ctx context.Context, id string) error {
	start := time.Now()
	s.state.setConnection(s.connection.Connection(ctx))
	log.Info().Str("scanID", id).Str("backend", s.scanner.Name()).Msg("Scan started")

	samples, err := s.collect(ctx)
	if err != nil {
		s.state.recordFailure(err)
		s.activity.Errorf("scan error: %v", err)
		s.hub.publish(models.ScanEvent{ScanID: id, Band: s.state.snapshot().band, Err: err, At: time.Now()})
		return fmt.Errorf("scan failed: %w", err)
	}

	now := time.Now()
	s.state.recordSuccess(id, samples, now)
	band := s.state.snapshot().band

	log.Info().
		Str("scanID", id).
		Int("raw", len(samples)).
		Dur("latency", time.Since(start)).
		Msg("Scan completed")
	s.logDetected(band, samples)
	s.hub.publish(models.ScanEvent{ScanID: id, Band: band, At: now})
	return nil
}

func (s *analyzerService) collect(ctx context.Context) ([]models.ScanSample, error) {
	if err := s.scanner.Scan(ctx); err != nil {
		return nil, err
	}
	if err := sleepCtx(ctx, s.opts.PostScanDelay); err != nil {
		return nil, err
	}
	return s.scanner.Results(ctx)
}

func (s *analyzerService) logDetected(band models.Band, samples []models.ScanSample) {
	s.activity.Infof("%s: %d networks detected", band, len(spectrum.Aggregate(samples, band)))
}

func (s *analyzerService) StartAuto() bool {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.autoCancel != nil {
		return false
	}
	if !s.track() {
		return false
	}
	// A stopped loop may still be finishing its last cycle.
	if s.autoDone != nil {
		<-s.autoDone
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	done := make(chan struct{})
	s.autoCancel, s.autoDone = cancel, done
	s.state.setAuto(true)
	s.activity.Infof("continuous scanning on")

	go func() {
		defer s.wg.Done()
		defer close(done)
		s.autoLoop(ctx)
	}()
	return true
}

func (s *analyzerService) StopAuto() bool {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.autoCancel == nil {
		return false
	}
	s.autoCancel()
	s.autoCancel = nil
	s.state.setAuto(false)
	s.activity.Infof("continuous scanning off")
	return true
}

// autoLoop rescans until ctx is cancelled. Cancellation is checked at the top
// of each cycle and during waits; a scan already running is allowed to finish.
// Failed cycles back off exponentially instead of retrying immediately.
func (s *analyzerService) autoLoop(ctx context.Context) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = max(s.opts.Pacing, time.Second)
	b.MaxInterval = s.opts.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	for {
		if ctx.Err() != nil {
			return
		}

		wait := s.opts.Pacing
		_, err := s.ScanOnce(s.baseCtx)
		switch {
		case errors.Is(err, ErrClosed):
			return
		case errors.Is(err, ErrScanInProgress):
		case err != nil:
			wait = b.NextBackOff()
			s.activity.Warnf("continuous scanning retrying in %s", wait.Round(time.Millisecond))
		default:
			b.Reset()
		}

		if sleepCtx(ctx, wait) != nil {
			return
		}
	}
}

func (s *analyzerService) SetBand(band models.Band) {
	s.state.setBand(band)
	snap := s.state.snapshot()
	if len(snap.samples) > 0 {
		s.logDetected(band, snap.samples)
	}
	s.hub.publish(models.ScanEvent{ScanID: snap.lastScanID, Band: band, At: time.Now()})
}

func (s *analyzerService) Spectrum(band models.Band) *models.Spectrum {
	snap := s.state.snapshot()
	if band == models.BandNone {
		band = snap.band
	}

	connected := ""
	if snap.connection.Connected() {
		connected = snap.connection.SSID
	}

	spec := spectrum.BuildSpectrum(snap.samples, band, connected, s.opts.AxisSamples)
	spec.ScanID = snap.lastScanID
	if !snap.lastScanAt.IsZero() {
		at := snap.lastScanAt
		spec.ScannedAt = &at
	}
	return spec
}

func (s *analyzerService) Status() models.ScanStatus {
	snap := s.state.snapshot()
	status := models.ScanStatus{
		Scanning:            snap.scanning,
		AutoScan:            snap.auto,
		Band:                snap.band,
		Backend:             s.scanner.Name(),
		LastScanID:          snap.lastScanID,
		SampleCount:         len(snap.samples),
		ConsecutiveFailures: snap.failures,
	}
	if !snap.lastScanAt.IsZero() {
		at := snap.lastScanAt
		status.LastScanAt = &at
	}
	if snap.lastErr != nil {
		status.LastError = snap.lastErr.Error()
	}
	return status
}

func (s *analyzerService) Log(limit int) []models.LogEntry {
	return s.activity.Entries(limit)
}

// Connection refreshes and returns the current association
func (s *analyzerService) Connection(ctx context.Context) models.ConnectionInfo {
	info := s.connection.Connection(ctx)
	s.state.setConnection(info)
	return info
}

func (s *analyzerService) Subscribe() (<-chan models.ScanEvent, func()) {
	return s.hub.subscribe()
}

func (s *analyzerService) Close() {
	s.closeMu.Lock()
	s.closed = true
	s.closeMu.Unlock()

	s.StopAuto()
	s.cancel()
	s.wg.Wait()
	s.hub.close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
