package scanner

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/RMahshie/wifiscope/internal/spectrum"
	"github.com/RMahshie/wifiscope/pkg/models"
)

// NetshScanner reads the Windows WLAN service through netsh. netsh has no
// rescan verb, so Scan does not force a radio scan; Results returns the BSS
// list Windows refreshes in the background.
type NetshScanner struct {
	run   RunFunc
	iface string
}

// NewNetshScanner creates a scanner bound to an optional interface name
func NewNetshScanner(run RunFunc, iface string) *NetshScanner {
	return &NetshScanner{run: run, iface: iface}
}

func (s *NetshScanner) Name() string { return BackendNetsh }

func (s *NetshScanner) Scan(ctx context.Context) error { return nil }

func (s *NetshScanner) Results(ctx context.Context) ([]models.ScanSample, error) {
	args := []string{"wlan", "show", "networks", "mode=bssid"}
	if s.iface != "" {
		args = append(args, "interface="+s.iface)
	}
	out, err := s.run(ctx, "netsh", args...)
	if err != nil {
		return nil, err
	}
	return parseNetshNetworks(decodeConsole(out)), nil
}

func (s *NetshScanner) Connection(ctx context.Context) models.ConnectionInfo {
	info := models.ConnectionInfo{SSID: models.UnknownSSID, IP: lookupIP(ctx)}

	out, err := s.run(ctx, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		return info
	}
	if ssid, ok := parseNetshInterfaceSSID(decodeConsole(out)); ok {
		info.SSID = ssid
	}
	return info
}

// decodeConsole converts console output to UTF-8. Japanese Windows emits
// code page 932.
func decodeConsole(out []byte) string {
	if utf8.Valid(out) {
		return string(out)
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(out)
	if err != nil {
		return string(out)
	}
	return string(decoded)
}

var (
	signalLabels  = []string{"Signal", "シグナル"}
	channelLabels = []string{"Channel", "チャネル"}
	bandLabels    = []string{"Band", "バンド"}
)

func splitField(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func hasLabel(key string, labels []string) bool {
	for _, l := range labels {
		if key == l {
			return true
		}
	}
	return false
}

type netshBSS struct {
	bssid   string
	signal  *int
	channel int
	band    models.Band
	// bandSeen is set by any Band line, including bands outside 2.4/5 GHz
	bandSeen bool
}

func parseNetshNetworks(out string) []models.ScanSample {
	var samples []models.ScanSample
	var ssid string
	var cur *netshBSS

	flush := func() {
		if cur == nil {
			return
		}
		sample := models.ScanSample{SSID: ssid, BSSID: cur.bssid, Signal: cur.signal}
		band := cur.band
		if band == models.BandNone && !cur.bandSeen {
			band = models.Band5
			if cur.channel <= 14 {
				band = models.Band24
			}
		}
		// Networks on other bands (6 GHz) keep no frequency and are filtered out.
		if band != models.BandNone {
			if f, ok := spectrum.ChannelFrequency(cur.channel, band); ok {
				sample.Freq = &f
			}
		}
		samples = append(samples, sample)
		cur = nil
	}

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, value, ok := splitField(sc.Text())
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(key, "BSSID"):
			flush()
			cur = &netshBSS{bssid: value}
		case strings.HasPrefix(key, "SSID"):
			flush()
			ssid = value
		case cur == nil:
			continue
		case hasLabel(key, signalLabels):
			if pct, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(value, "%"))); err == nil {
				sig := signalFromQuality(pct)
				cur.signal = &sig
			}
		case hasLabel(key, channelLabels):
			if ch, err := strconv.Atoi(value); err == nil {
				cur.channel = ch
			}
		case hasLabel(key, bandLabels):
			cur.bandSeen = true
			switch {
			case strings.HasPrefix(value, "2.4"):
				cur.band = models.Band24
			case strings.HasPrefix(value, "5"):
				cur.band = models.Band5
			}
		}
	}
	flush()

	return samples
}

func parseNetshInterfaceSSID(out string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, value, ok := splitField(sc.Text())
		if !ok || key != "SSID" {
			continue
		}
		if value != "" {
			return value, true
		}
	}
	return "", false
}
