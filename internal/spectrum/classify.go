// Package spectrum maps raw scan samples onto Wi-Fi channels and synthesizes
// the per-network curves drawn on the spectrum plot.
package spectrum

import (
	"math"

	"github.com/RMahshie/wifiscope/pkg/models"
)

const (
	band24Low  = 2412.0
	band24High = 2484.0
	band5Low   = 5170.0
	band5High  = 5895.0
)

// Classification is the channel and band resolved for a frequency
type Classification struct {
	Channel int
	Band    models.Band
}

// OK reports whether the frequency fell inside a known band
func (c Classification) OK() bool {
	return c.Band != models.BandNone && c.Channel != 0
}

// NormalizeMHz converts a frequency given in Hz, kHz or MHz to MHz using
// magnitude thresholds.
func NormalizeMHz(freq float64) float64 {
	switch {
	case freq > 100_000_000:
		return freq / 1_000_000
	case freq > 100_000:
		return freq / 1_000
	}
	return freq
}

// Classify resolves a frequency to a channel and band. A nil frequency, or one
// outside both bands, yields the zero Classification.
func Classify(freq *float64) Classification {
	if freq == nil {
		return Classification{}
	}

	mhz := NormalizeMHz(*freq)
	switch {
	case mhz >= band24Low && mhz <= band24High:
		if math.Abs(mhz-band24High) < 1 {
			return Classification{Channel: 14, Band: models.Band24}
		}
		// 2473-2483 MHz sits off the 5 MHz grid; it still belongs to the top channel.
		ch := int(math.Floor((mhz-band24Low)/5)) + 1
		if ch > 14 {
			ch = 14
		}
		return Classification{Channel: ch, Band: models.Band24}
	case mhz >= band5Low && mhz <= band5High:
		return Classification{Channel: int(math.Floor((mhz-5180)/5)) + 36, Band: models.Band5}
	}
	return Classification{}
}

// ChannelFrequency returns the centre frequency in MHz of a channel
func ChannelFrequency(channel int, band models.Band) (float64, bool) {
	switch band {
	case models.Band24:
		if channel == 14 {
			return band24High, true
		}
		if channel >= 1 && channel <= 13 {
			return 2407 + 5*float64(channel), true
		}
	case models.Band5:
		if channel >= 32 && channel <= 177 {
			return 5000 + 5*float64(channel), true
		}
	}
	return 0, false
}
