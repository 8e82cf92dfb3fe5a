package spectrum

import "github.com/RMahshie/wifiscope/pkg/models"

type dedupKey struct {
	ssid    string
	channel int
}

// Aggregate filters samples down to the target band, dropping hidden networks
// and repeated (ssid, channel) pairs. Output keeps insertion order.
func Aggregate(samples []models.ScanSample, target models.Band) models.Dataset {
	data := models.Dataset{}
	seen := make(map[dedupKey]struct{})

	for _, s := range samples {
		if s.SSID == "" {
			continue
		}

		c := Classify(s.FrequencyValue())
		if c.Band != target || !c.OK() {
			continue
		}

		key := dedupKey{ssid: s.SSID, channel: c.Channel}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		data = append(data, models.ClassifiedEntry{
			SSID:    s.SSID,
			Channel: c.Channel,
			Band:    c.Band,
			Signal:  s.SignalDBm(),
		})
	}

	return data
}
