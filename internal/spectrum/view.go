package spectrum

import (
	"strings"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// BuildSpectrum turns raw samples into the drawable spectrum for one band.
// Series are ordered weakest first so stronger networks draw on top; the
// palette index stays tied to the entry's position before sorting.
func BuildSpectrum(samples []models.ScanSample, band models.Band, connectedSSID string, axisSamples int) *models.Spectrum {
	if axisSamples <= 0 {
		axisSamples = DefaultAxisSamples
	}

	lo, hi := AxisRange(band)
	connected := strings.TrimSpace(connectedSSID)
	spec := &models.Spectrum{
		Band:          band,
		AxisMin:       lo,
		AxisMax:       hi,
		Ticks:         Ticks(band),
		NoiseFloor:    NoiseFloor,
		ConnectedSSID: connected,
		Series:        []models.SpectrumSeries{},
	}

	data := Aggregate(samples, band)
	if len(data) == 0 {
		return spec
	}

	index := make(map[dedupKey]int, len(data))
	for i, e := range data {
		index[dedupKey{ssid: e.SSID, channel: e.Channel}] = i
	}

	axis := Axis(band, axisSamples)
	for _, e := range data.SortedBySignal() {
		points := make([]models.CurvePoint, 0, len(axis))
		for x, y := range Points(axis, float64(e.Channel), float64(e.Signal), band) {
			points = append(points, models.CurvePoint{X: x, Y: y})
		}

		spec.Series = append(spec.Series, models.SpectrumSeries{
			ClassifiedEntry: e,
			Index:           index[dedupKey{ssid: e.SSID, channel: e.Channel}],
			Connected:       connected != "" && e.SSID == connected,
			Points:          points,
		})
	}

	return spec
}
