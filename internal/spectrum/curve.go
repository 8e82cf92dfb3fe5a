package spectrum

import (
	"iter"
	"math"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// NoiseFloor is the baseline every synthesized curve decays to
const NoiseFloor = float64(models.NoiseFloorDBm)

// DefaultAxisSamples is the number of axis positions used for rendering
const DefaultAxisSamples = 401

// Spread returns the curve width parameter for a band. 5GHz channel numbers
// step by 4 between adjacent 20 MHz channels, so its curves are wider.
func Spread(band models.Band) float64 {
	if band == models.Band24 {
		return 2.5
	}
	return 5.0
}

// Level is the synthesized signal level at axis position x for a network
// centred on channel center with the given peak.
func Level(x, center, peak float64, band models.Band) float64 {
	spread := Spread(band)
	delta := math.Abs(x - center)
	if delta > spread*2 {
		return NoiseFloor
	}

	sigma := spread / 2.5
	y := NoiseFloor + (peak-NoiseFloor)*math.Exp(-0.5*math.Pow(delta/sigma, 2))
	return math.Max(y, NoiseFloor)
}

// Points lazily yields (x, level) for every axis position
func Points(axis []float64, center, peak float64, band models.Band) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for _, x := range axis {
			if !yield(x, Level(x, center, peak, band)) {
				return
			}
		}
	}
}

// Curve evaluates Level at each axis position
func Curve(axis []float64, center, peak float64, band models.Band) []float64 {
	ys := make([]float64, 0, len(axis))
	for _, y := range Points(axis, center, peak, band) {
		ys = append(ys, y)
	}
	return ys
}

// AxisRange returns the channel positions spanned by a band's plot
func AxisRange(band models.Band) (float64, float64) {
	if band == models.Band24 {
		return 1, 14
	}
	return 34, 179
}

// Axis returns n evenly spaced positions across the band's range
func Axis(band models.Band, n int) []float64 {
	lo, hi := AxisRange(band)
	if n < 2 {
		return []float64{lo, hi}
	}

	step := (hi - lo) / float64(n-1)
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = lo + step*float64(i)
	}
	axis[n-1] = hi
	return axis
}

// Ticks returns the channel numbers labelled on a band's axis
func Ticks(band models.Band) []int {
	var ticks []int
	if band == models.Band24 {
		for ch := 1; ch <= 14; ch++ {
			ticks = append(ticks, ch)
		}
		return ticks
	}
	for ch := 36; ch < 180; ch += 8 {
		ticks = append(ticks, ch)
	}
	return ticks
}
