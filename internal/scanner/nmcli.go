package scanner

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// NmcliScanner drives NetworkManager's command line client
type NmcliScanner struct {
	run   RunFunc
	iface string
}

// NewNmcliScanner creates a scanner bound to an optional interface name
func NewNmcliScanner(run RunFunc, iface string) *NmcliScanner {
	return &NmcliScanner{run: run, iface: iface}
}

func (s *NmcliScanner) Name() string { return BackendNmcli }

func (s *NmcliScanner) withIface(args ...string) []string {
	if s.iface != "" {
		args = append(args, "ifname", s.iface)
	}
	return args
}

// Scan requests a rescan. NetworkManager rate-limits rescans and rejects
// requests that arrive too soon; the cached list is still fresh in that case.
func (s *NmcliScanner) Scan(ctx context.Context) error {
	_, err := s.run(ctx, "nmcli", s.withIface("device", "wifi", "rescan")...)
	if err != nil && strings.Contains(err.Error(), "not allowed") {
		log.Debug().Err(err).Msg("nmcli rescan rate-limited, using cached results")
		return nil
	}
	return err
}

func (s *NmcliScanner) Results(ctx context.Context) ([]models.ScanSample, error) {
	out, err := s.run(ctx, "nmcli", s.withIface(
		"--terse", "--escape", "yes", "--fields", "SSID,BSSID,FREQ,SIGNAL",
		"device", "wifi", "list", "--rescan", "no")...)
	if err != nil {
		return nil, err
	}
	return parseNmcliList(out), nil
}

func (s *NmcliScanner) Connection(ctx context.Context) models.ConnectionInfo {
	info := models.ConnectionInfo{SSID: models.UnknownSSID, IP: lookupIP(ctx)}

	out, err := s.run(ctx, "nmcli", s.withIface(
		"--terse", "--escape", "yes", "--fields", "ACTIVE,SSID",
		"device", "wifi", "list", "--rescan", "no")...)
	if err != nil {
		return info
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := splitTerse(sc.Text())
		if len(fields) == 2 && fields[0] == "yes" && fields[1] != "" {
			info.SSID = fields[1]
			break
		}
	}
	return info
}

func parseNmcliList(out []byte) []models.ScanSample {
	var samples []models.ScanSample

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := splitTerse(sc.Text())
		if len(fields) != 4 {
			continue
		}

		sample := models.ScanSample{SSID: fields[0], BSSID: fields[1]}

		freqText := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fields[2]), "MHz"))
		if f, err := strconv.ParseFloat(freqText, 64); err == nil {
			sample.Freq = &f
		}
		if pct, err := strconv.Atoi(strings.TrimSpace(fields[3])); err == nil {
			sig := signalFromQuality(pct)
			sample.Signal = &sig
		}

		samples = append(samples, sample)
	}
	return samples
}

// splitTerse splits a line of nmcli terse output, honouring \: and \\ escapes
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
