// Package scanner talks to the operating system's wireless tooling. Every
// backend shells out, so parsers are tested against captured command output.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// Scanner triggers radio scans and returns their results
type Scanner interface {
	Name() string
	// Scan asks the radio to refresh its view of nearby networks
	Scan(ctx context.Context) error
	// Results returns the networks seen by the most recent scan
	Results(ctx context.Context) ([]models.ScanSample, error)
}

// ConnectionProvider reports the current association. It never fails;
// unknown values are returned as placeholders.
type ConnectionProvider interface {
	Connection(ctx context.Context) models.ConnectionInfo
}

// RunFunc executes an external command and returns its stdout
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// ErrUnknownBackend is returned for an unrecognized backend name
var ErrUnknownBackend = errors.New("unknown scanner backend")

const (
	BackendAuto   = "auto"
	BackendNmcli  = "nmcli"
	BackendNetsh  = "netsh"
	BackendReplay = "replay"
)

// Options selects and configures a backend
type Options struct {
	Backend    string
	Interface  string
	ReplayFile string
	Run        RunFunc
}

// Backend bundles the scanner and connection provider of one backend
type Backend struct {
	Scanner    Scanner
	Connection ConnectionProvider
}

// New builds the backend named in opts
func New(opts Options) (*Backend, error) {
	run := opts.Run
	if run == nil {
		run = execRun
	}

	name := strings.ToLower(strings.TrimSpace(opts.Backend))
	if name == "" || name == BackendAuto {
		name = BackendNmcli
		if runtime.GOOS == "windows" {
			name = BackendNetsh
		}
	}

	switch name {
	case BackendNmcli:
		s := NewNmcliScanner(run, opts.Interface)
		return &Backend{Scanner: s, Connection: s}, nil
	case BackendNetsh:
		s := NewNetshScanner(run, opts.Interface)
		return &Backend{Scanner: s, Connection: s}, nil
	case BackendReplay:
		if opts.ReplayFile == "" {
			return nil, fmt.Errorf("replay backend requires REPLAY_FILE")
		}
		s := NewReplayScanner(opts.ReplayFile)
		return &Backend{Scanner: s, Connection: s}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// signalFromQuality converts a 0-100 link quality into an approximate dBm value
func signalFromQuality(pct int) int {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct/2 - 100
}
