package spectrum

import (
	"testing"

	"github.com/RMahshie/wifiscope/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_PeakAtCenter(t *testing.T) {
	assert.InDelta(t, -42.0, Level(6, 6, -42, models.Band24), 1e-9)
	assert.InDelta(t, -55.0, Level(100, 100, -55, models.Band5), 1e-9)
}

func TestLevel_DecaysToFloor(t *testing.T) {
	tests := []struct {
		name   string
		band   models.Band
		center float64
		x      float64
	}{
		{name: "2.4GHz beyond cutoff", band: models.Band24, center: 6, x: 11.01},
		{name: "2.4GHz far away", band: models.Band24, center: 1, x: 14},
		{name: "5GHz beyond cutoff", band: models.Band5, center: 36, x: 46.5},
		{name: "5GHz far away", band: models.Band5, center: 36, x: 165},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NoiseFloor, Level(tt.x, tt.center, -30, tt.band))
		})
	}
}

func TestLevel_MonotonicFalloffAndSymmetry(t *testing.T) {
	prev := Level(6, 6, -40, models.Band24)
	for d := 0.25; d <= 5; d += 0.25 {
		y := Level(6+d, 6, -40, models.Band24)
		assert.LessOrEqual(t, y, prev)
		assert.GreaterOrEqual(t, y, NoiseFloor)
		assert.InDelta(t, y, Level(6-d, 6, -40, models.Band24), 1e-9)
		prev = y
	}
}

func TestLevel_PeakBelowFloorIsClamped(t *testing.T) {
	assert.Equal(t, NoiseFloor, Level(6, 6, -120, models.Band24))
	assert.Equal(t, NoiseFloor, Level(6.5, 6, -120, models.Band24))
}

func TestSpread(t *testing.T) {
	assert.Equal(t, 2.5, Spread(models.Band24))
	assert.Equal(t, 5.0, Spread(models.Band5))
}

func TestCurveMatchesPoints(t *testing.T) {
	axis := Axis(models.Band24, 200)
	ys := Curve(axis, 6, -50, models.Band24)
	require.Len(t, ys, len(axis))

	i := 0
	for x, y := range Points(axis, 6, -50, models.Band24) {
		assert.Equal(t, axis[i], x)
		assert.Equal(t, ys[i], y)
		i++
	}
	assert.Equal(t, len(axis), i)
}

func TestPoints_StopsEarly(t *testing.T) {
	n := 0
	for range Points(Axis(models.Band5, 500), 36, -60, models.Band5) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestAxis(t *testing.T) {
	axis := Axis(models.Band24, DefaultAxisSamples)
	require.Len(t, axis, DefaultAxisSamples)
	assert.Equal(t, 1.0, axis[0])
	assert.Equal(t, 14.0, axis[len(axis)-1])
	for i := 1; i < len(axis); i++ {
		assert.Greater(t, axis[i], axis[i-1])
	}

	axis = Axis(models.Band5, 500)
	assert.Equal(t, 34.0, axis[0])
	assert.Equal(t, 179.0, axis[len(axis)-1])

	assert.Equal(t, []float64{1, 14}, Axis(models.Band24, 1))
}

func TestTicks(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, Ticks(models.Band24))

	ticks := Ticks(models.Band5)
	assert.Equal(t, 36, ticks[0])
	assert.Equal(t, 172, ticks[len(ticks)-1])
	assert.Len(t, ticks, 18)
}
